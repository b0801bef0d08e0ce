package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/lexer"
	"github.com/funvibe/loxy/internal/parser"
	"github.com/funvibe/loxy/internal/pipeline"
	"github.com/funvibe/loxy/internal/prettyprinter"
)

func parse(input string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	return (&parser.ParserProcessor{}).Process(ctx)
}

func tree(t *testing.T, input string) string {
	t.Helper()
	ctx := parse(input)
	if ctx.Failed() {
		t.Fatalf("parsing %q failed with errors:\n%s", input, diagnostics.Format(ctx.Errors))
	}
	tp := prettyprinter.NewTreePrinter()
	ctx.AstRoot.Accept(tp)
	return tp.String()
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"let_precedence", "let x = 1 + 2 * 3;", "(let x (+ 1 (* 2 3)))"},
		{"let_without_value", "let y;", "(let y)"},
		{"assign_right_assoc", "a = b = c;", "(expr (= a (= b c)))"},
		{"assign_takes_logical", "a = b or c;", "(expr (= a (or b c)))"},
		{"prefix_binds_tight", "print -a * b;", "(print (* (- a) b))"},
		{"bang_then_equality", "print !true == false;", "(print (== (! true) false))"},
		{"and_over_or", "print a or b and c;", "(print (or a (and b c)))"},
		{"grouping", "print (1 + 2) * 3;", "(print (* (group (+ 1 2)) 3))"},
		{"left_assoc_minus", "print 1 - 2 - 3;", "(print (- (- 1 2) 3))"},
		{"comparison_then_equality", "print a >= b != c;", "(print (!= (>= a b) c))"},
		{"chained_calls", "f(1, g(2))(3);", "(expr (call (call f 1 (call g 2)) 3))"},
		{"call_no_args", "clock();", "(expr (call clock))"},
		{"string_escape", `print "a\"b";`, `(print "a\"b")`},
		{"decimal", "print 1.5;", "(print 1.5)"},
		{"literals", "print nil == false;", "(print (== nil false))"},
		{"function", "fn add(a, b) { return a + b; }", "(fn add (a b) (block (return (+ a b))))"},
		{"function_bare_return", "fn f() { return; }", "(fn f () (block (return)))"},
		{"nested_function", "fn outer() { fn inner() { return 1; } return inner; }",
			"(fn outer () (block (fn inner () (block (return 1))) (return inner)))"},
		{"if_else", "if (x < 1) print 1; else print 2;", "(if (< x 1) (print 1) (print 2))"},
		{"dangling_else", "if (a) if (b) print 1; else print 2;", "(if a (if b (print 1) (print 2)))"},
		{"while", "while (i <= 3) { i = i + 1; }", "(while (<= i 3) (block (expr (= i (+ i 1)))))"},
		{"for_full", "for (let i = 0; i < 3; i = i + 1) print i;", "(for (let i 0) (< i 3) (= i (+ i 1)) (print i))"},
		{"for_expr_init", "for (i = 0; i < 3;) print i;", "(for (expr (= i 0)) (< i 3) _ (print i))"},
		{"for_empty", "for (;;) {}", "(for _ _ _ (block))"},
		{"block", "{ let a = 1; { print a; } }", "(block (let a 1) (block (print a)))"},
		{"comments", "// line\nprint /* inline */ 1;", "(print 1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tree(t, tc.input)
			if got != tc.want+"\n" {
				t.Errorf("tree mismatch:\n--- input\n%s\n--- expected\n%s\n--- actual\n%s", tc.input, tc.want, got)
			}
		})
	}
}

func TestParserErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"let_without_name", "let = 1;", diagnostics.ErrP001},
		{"fn_without_name", "fn (a) {}", diagnostics.ErrP001},
		{"bad_parameter", "fn f(1) {}", diagnostics.ErrP001},
		{"assign_to_literal", "1 = 2;", diagnostics.ErrP002},
		{"assign_to_logical", "a or b = c;", diagnostics.ErrP002},
		{"assign_to_call", "f() = 1;", diagnostics.ErrP002},
		{"missing_expression", "print ;", diagnostics.ErrP004},
		{"stray_paren", "print );", diagnostics.ErrP004},
		{"missing_semicolon", "print 1", diagnostics.ErrP005},
		{"missing_paren", "print (1 + 2;", diagnostics.ErrP005},
		{"missing_comma", "fn f(a b) {}", diagnostics.ErrP005},
		{"unclosed_block", "{ print 1;", diagnostics.ErrP005},
		{"if_without_paren", "if x print 1;", diagnostics.ErrP005},
		{"top_level_return", "return 1;", diagnostics.ErrP006},
		{"block_return", "{ return; }", diagnostics.ErrP006},
		{"duplicate_parameter", "fn f(a, b, a) {}", diagnostics.ErrP007},
		{"nested_duplicate_parameter", "fn outer() { fn inner(x, x) {} }", diagnostics.ErrP007},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := parse(tc.input)
			if !ctx.Failed() {
				t.Fatalf("expected a parse error for %q", tc.input)
			}
			if ctx.Errors[0].Code != tc.code {
				t.Errorf("error code = %s, want %s (%s)", ctx.Errors[0].Code, tc.code, ctx.Errors[0].Error())
			}
		})
	}
}

func TestErrorPositionAndFile(t *testing.T) {
	ctx := pipeline.NewPipelineContext("let x = 1;\nprint ;")
	ctx.FilePath = "prog.lx"
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)

	if len(ctx.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(ctx.Errors))
	}
	want := "prog.lx:2:7: error [P004]: expected expression, got ';'"
	if got := ctx.Errors[0].Error(); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestErrorRecovery(t *testing.T) {
	ctx := parse("print ;\nprint 1 +;\nlet x = 2;")
	if len(ctx.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d:\n%s", len(ctx.Errors), diagnostics.Format(ctx.Errors))
	}
	prog := ctx.Program()
	if prog == nil || len(prog.Statements) != 1 {
		t.Fatalf("expected the let statement to survive recovery")
	}
}

func TestLexerErrorsSkipParsing(t *testing.T) {
	ctx := parse("let a = @;")
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrL001 {
		t.Fatalf("expected only the lexer error, got:\n%s", diagnostics.Format(ctx.Errors))
	}
	if ctx.AstRoot != nil {
		t.Errorf("parser should not run after lexer errors")
	}
}

func TestTooManyArguments(t *testing.T) {
	args := make([]string, parser.MaxArguments+1)
	for i := range args {
		args[i] = fmt.Sprintf("a%d", i)
	}
	list := strings.Join(args, ", ")

	for _, input := range []string{
		"f(" + list + ");",
		"fn f(" + list + ") {}",
	} {
		ctx := parse(input)
		if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrP003 {
			t.Errorf("expected a single P003 error, got:\n%s", diagnostics.Format(ctx.Errors))
		}
	}

	// Exactly the limit is fine.
	ok := strings.Join(args[:parser.MaxArguments], ", ")
	if ctx := parse("f(" + ok + ");"); ctx.Failed() {
		t.Errorf("%d arguments should parse: %s", parser.MaxArguments, diagnostics.Format(ctx.Errors))
	}
}

func TestDeepNestingIsRejected(t *testing.T) {
	depth := parser.MaxRecursionDepth + 10
	input := "print " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";"
	ctx := parse(input)
	if !ctx.Failed() {
		t.Fatal("expected an error for excessive nesting")
	}
	if got := ctx.Errors[0]; got.Code != diagnostics.ErrP008 || !strings.Contains(got.Message, fmt.Sprint(parser.MaxRecursionDepth)) {
		t.Errorf("first error = %s, want P008 naming the limit", got.Error())
	}
}

package prettyprinter_test

import (
	"testing"

	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/lexer"
	"github.com/funvibe/loxy/internal/parser"
	"github.com/funvibe/loxy/internal/pipeline"
	"github.com/funvibe/loxy/internal/prettyprinter"
)

func format(t *testing.T, input string) string {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if ctx.Failed() {
		t.Fatalf("parsing %q failed:\n%s", input, diagnostics.Format(ctx.Errors))
	}
	return prettyprinter.Format(ctx.Program())
}

func TestCodePrinter(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"spacing", "let x=1+2*3;", "let x = 1 + 2 * 3;\n"},
		{"needed_parens_kept", "print (1+2)*3;", "print (1 + 2) * 3;\n"},
		{"redundant_parens_dropped", "print ((a)) + (b*c);", "print a + b * c;\n"},
		{"right_operand_parens", "print 1-(2-3);", "print 1 - (2 - 3);\n"},
		{"assign_chain", "a=b=c;", "a = b = c;\n"},
		{"prefix", "print -(a+b);", "print -(a + b);\n"},
		{"logical", "print (a or b) and c;", "print (a or b) and c;\n"},
		{"string", `print "tab\there";`, "print \"tab\\there\";\n"},
		{"call", "print f(1,2)(3);", "print f(1, 2)(3);\n"},
		{"function", "fn add(a,b){return a+b;}", "fn add(a, b) {\n    return a + b;\n}\n"},
		{"empty_function", "fn noop(){}", "fn noop() {}\n"},
		{"else_if_chain", "if (a) print 1; else if (b) print 2; else print 3;",
			"if (a)\n    print 1;\nelse if (b)\n    print 2;\nelse\n    print 3;\n"},
		{"if_block", "if (a) { print 1; } else { print 2; }",
			"if (a) {\n    print 1;\n} else {\n    print 2;\n}\n"},
		{"for", "for (let i=0;i<3;i=i+1) { print i; }", "for (let i = 0; i < 3; i = i + 1) {\n    print i;\n}\n"},
		{"for_empty", "for(;;){}", "for (;;) {}\n"},
		{"while", "while (x) x = x - 1;", "while (x)\n    x = x - 1;\n"},
		{"comments",
			"// header comment\nlet s = \"x\";   // trailing\nfn f() { // opens\n  // inside\n  print s;\n  /* block */\n}\nprint s; // end",
			"// header comment\nlet s = \"x\"; // trailing\nfn f() { // opens\n    // inside\n    print s;\n    /* block */\n}\nprint s; // end\n"},
		{"comment_only", "// nothing here\n", "// nothing here\n"},
		{"commented_empty_block", "fn noop() {\n// later\n}", "fn noop() {\n    // later\n}\n"},
		{"comment_before_else", "if (a) {\n  print 1;\n}\n// otherwise\nelse {\n  print 2;\n}",
			"if (a) {\n    print 1;\n} else {\n    // otherwise\n    print 2;\n}\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := format(t, tc.input); got != tc.want {
				t.Errorf("format mismatch:\n--- expected\n%s\n--- actual\n%s", tc.want, got)
			}
		})
	}
}

func TestFormatIsStable(t *testing.T) {
	sources := []string{
		"fn make_counter() { let count = 0; fn inc() { count = count + 1; return count; } return inc; }",
		"let a = 1; { let a = 2; print a; } print a;",
		"for (let i = 0; i < 3; i = i + 1) if (i == 1) print \"one\"; else print i;",
		"print !(a == b) or -c * (d - e) / f >= g;",
		"// top\nfn f() { // opens\n  print 1; /* after */\n  // closing\n}\nprint f(); // call",
	}
	for _, src := range sources {
		once := format(t, src)
		twice := format(t, once)
		if once != twice {
			t.Errorf("format is not stable:\n--- first\n%s\n--- second\n%s", once, twice)
		}
	}
}

package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/loxy/internal/ast"
	"github.com/funvibe/loxy/internal/token"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"=":   1,
	"or":  2,
	"and": 3,
	"==":  4,
	"!=":  4,
	"<":   5,
	">":   5,
	"<=":  5,
	">=":  5,
	"+":   6,
	"-":   6,
	"*":   7,
	"/":   7,
}

const prefixPrecedence = 8

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int

	comments []token.Comment
	next     int // index of the first comment not yet written
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Format renders a program in canonical source form.
func Format(program *ast.Program) string {
	p := NewCodePrinter()
	p.comments = program.Comments
	program.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// flushComments writes every pending comment that starts before line.
// Trailing comments rejoin the line they followed.
func (p *CodePrinter) flushComments(line int) {
	for ; p.next < len(p.comments); p.next++ {
		c := p.comments[p.next]
		if line > 0 && c.Line >= line {
			return
		}
		b := p.buf.Bytes()
		if c.Trailing && len(b) > 0 && b[len(b)-1] == '\n' {
			p.buf.Truncate(len(b) - 1)
			p.write(" " + c.Text + "\n")
			continue
		}
		p.writeIndent()
		p.write(c.Text + "\n")
	}
}

func (p *CodePrinter) hasCommentsBefore(line int) bool {
	return p.next < len(p.comments) && p.comments[p.next].Line < line
}

// printExpr prints an expression, adding parentheses only if needed.
// All binary operators are left-associative except assignment.
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	expr = unwrapGroup(expr)
	var op string
	var left, right ast.Expression
	switch e := expr.(type) {
	case *ast.InfixExpression:
		op, left, right = e.Operator, e.Left, e.Right
	case *ast.LogicalExpression:
		op, left, right = e.Operator, e.Left, e.Right
	case *ast.AssignExpression:
		op, left, right = "=", e.Name, e.Value
	case *ast.PrefixExpression:
		p.write(e.Operator)
		p.printExpr(e.Right, prefixPrecedence, false)
		return
	default:
		expr.Accept(p)
		return
	}

	prec := getPrecedence(op)
	rightAssoc := op == "="
	needParens := prec < parentPrec
	if prec == parentPrec {
		needParens = isRight != rightAssoc
	}
	if needParens {
		p.write("(")
	}
	if rightAssoc {
		p.printExpr(left, prec+1, false)
	} else {
		p.printExpr(left, prec, false)
	}
	p.write(" " + op + " ")
	p.printExpr(right, prec, true)
	if needParens {
		p.write(")")
	}
}

// printBody prints the body of if/while/for. Blocks stay on the header line,
// other statements are indented on the next one.
func (p *CodePrinter) printBody(stmt ast.Statement) {
	if block, ok := stmt.(*ast.BlockStatement); ok {
		p.write(" ")
		p.VisitBlockStatement(block)
		return
	}
	p.write("\n")
	p.indent++
	p.writeIndent()
	p.printStmt(stmt)
	p.indent--
}

func (p *CodePrinter) printStmt(stmt ast.Statement) {
	if stmt == nil {
		p.write("<???>")
		return
	}
	stmt.Accept(p)
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		p.flushComments(stmt.GetToken().Line)
		p.printStmt(stmt)
		p.write("\n")
	}
	p.flushComments(0)
}

func (p *CodePrinter) VisitLetStatement(n *ast.LetStatement) {
	p.write("let " + n.Name.Value)
	if n.Value != nil {
		p.write(" = ")
		p.printExpr(n.Value, 0, false)
	}
	p.write(";")
}

func (p *CodePrinter) VisitFunctionStatement(n *ast.FunctionStatement) {
	p.write("fn " + n.Name.Value + "(")
	for i, param := range n.Parameters {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Value)
	}
	p.write(") ")
	p.VisitBlockStatement(n.Body)
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitPrintStatement(n *ast.PrintStatement) {
	p.write("print ")
	p.printExpr(n.Value, 0, false)
	p.write(";")
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	if len(n.Statements) == 0 && !p.hasCommentsBefore(n.EndLine) {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	for _, stmt := range n.Statements {
		p.flushComments(stmt.GetToken().Line)
		p.writeIndent()
		p.printStmt(stmt)
		p.write("\n")
	}
	p.flushComments(n.EndLine)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	p.write("if (")
	p.printExpr(n.Condition, 0, false)
	p.write(")")
	p.printBody(n.Consequence)
	if n.Alternative == nil {
		return
	}
	if _, ok := n.Consequence.(*ast.BlockStatement); ok {
		p.write(" ")
	} else {
		p.write("\n")
		p.writeIndent()
	}
	p.write("else")
	if elif, ok := n.Alternative.(*ast.IfStatement); ok {
		p.write(" ")
		p.VisitIfStatement(elif)
		return
	}
	p.printBody(n.Alternative)
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while (")
	p.printExpr(n.Condition, 0, false)
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitForStatement(n *ast.ForStatement) {
	p.write("for (")
	if n.Initializer != nil {
		p.printStmt(n.Initializer) // carries its own ';'
	} else {
		p.write(";")
	}
	if n.Condition != nil {
		p.write(" ")
		p.printExpr(n.Condition, 0, false)
	}
	p.write(";")
	if n.Increment != nil {
		p.write(" ")
		p.printExpr(n.Increment, 0, false)
	}
	p.write(")")
	p.printBody(n.Body)
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.write("return")
	if n.ReturnValue != nil {
		p.write(" ")
		p.printExpr(n.ReturnValue, 0, false)
	}
	p.write(";")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitNumberLiteral(n *ast.NumberLiteral) {
	if n.Token.Lexeme != "" {
		p.write(n.Token.Lexeme)
		return
	}
	p.write(strconv.FormatFloat(n.Value, 'f', -1, 64))
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(`"` + stringEscaper.Replace(n.Value) + `"`)
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *CodePrinter) VisitNilLiteral(n *ast.NilLiteral) {
	p.write("nil")
}

// Explicit grouping from the source is dropped; printExpr re-inserts the
// parentheses the tree needs.
func (p *CodePrinter) VisitGroupedExpression(n *ast.GroupedExpression) {
	p.printExpr(unwrapGroup(n), 0, false)
}

func unwrapGroup(expr ast.Expression) ast.Expression {
	for {
		g, ok := expr.(*ast.GroupedExpression)
		if !ok {
			return expr
		}
		expr = g.Expression
	}
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitLogicalExpression(n *ast.LogicalExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitAssignExpression(n *ast.AssignExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printExpr(n.Function, 100, false)
	p.write("(")
	for i, arg := range n.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, 0, false)
	}
	p.write(")")
}

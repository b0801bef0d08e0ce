package prettyprinter

import (
	"bytes"
	"strconv"

	"github.com/funvibe/loxy/internal/ast"
)

// --- Tree Printer (Output shows AST structure) ---

// TreePrinter renders the tree as one S-expression per top-level statement,
// with every grouping made explicit: 1 + 2 * 3 prints as (+ 1 (* 2 3)).
type TreePrinter struct {
	buf bytes.Buffer
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *TreePrinter) node(n ast.Node) {
	if n == nil {
		p.write("_")
		return
	}
	n.Accept(p)
}

// list writes (head children...). Absent children print as _.
func (p *TreePrinter) list(head string, children ...ast.Node) {
	p.write("(" + head)
	for _, c := range children {
		p.write(" ")
		p.node(c)
	}
	p.write(")")
}

func (p *TreePrinter) VisitProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		p.node(stmt)
		p.write("\n")
	}
}

func (p *TreePrinter) VisitLetStatement(n *ast.LetStatement) {
	if n.Value == nil {
		p.list("let", n.Name)
		return
	}
	p.list("let", n.Name, n.Value)
}

func (p *TreePrinter) VisitFunctionStatement(n *ast.FunctionStatement) {
	p.write("(fn " + n.Name.Value + " (")
	for i, param := range n.Parameters {
		if i > 0 {
			p.write(" ")
		}
		p.write(param.Value)
	}
	p.write(") ")
	p.node(n.Body)
	p.write(")")
}

func (p *TreePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.list("expr", n.Expression)
}

func (p *TreePrinter) VisitPrintStatement(n *ast.PrintStatement) {
	p.list("print", n.Value)
}

func (p *TreePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	children := make([]ast.Node, len(n.Statements))
	for i, s := range n.Statements {
		children[i] = s
	}
	p.list("block", children...)
}

func (p *TreePrinter) VisitIfStatement(n *ast.IfStatement) {
	if n.Alternative == nil {
		p.list("if", n.Condition, n.Consequence)
		return
	}
	p.list("if", n.Condition, n.Consequence, n.Alternative)
}

func (p *TreePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.list("while", n.Condition, n.Body)
}

func (p *TreePrinter) VisitForStatement(n *ast.ForStatement) {
	p.list("for", n.Initializer, n.Condition, n.Increment, n.Body)
}

func (p *TreePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	if n.ReturnValue == nil {
		p.write("(return)")
		return
	}
	p.list("return", n.ReturnValue)
}

func (p *TreePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *TreePrinter) VisitNumberLiteral(n *ast.NumberLiteral) {
	p.write(strconv.FormatFloat(n.Value, 'f', -1, 64))
}

func (p *TreePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *TreePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	p.write(strconv.FormatBool(n.Value))
}

func (p *TreePrinter) VisitNilLiteral(n *ast.NilLiteral) {
	p.write("nil")
}

func (p *TreePrinter) VisitGroupedExpression(n *ast.GroupedExpression) {
	p.list("group", n.Expression)
}

func (p *TreePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.list(n.Operator, n.Right)
}

func (p *TreePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.list(n.Operator, n.Left, n.Right)
}

func (p *TreePrinter) VisitLogicalExpression(n *ast.LogicalExpression) {
	p.list(n.Operator, n.Left, n.Right)
}

func (p *TreePrinter) VisitAssignExpression(n *ast.AssignExpression) {
	p.list("=", n.Name, n.Value)
}

func (p *TreePrinter) VisitCallExpression(n *ast.CallExpression) {
	children := make([]ast.Node, 0, len(n.Arguments)+1)
	children = append(children, n.Function)
	for _, a := range n.Arguments {
		children = append(children, a)
	}
	p.list("call", children...)
}

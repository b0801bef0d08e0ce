package parser

import (
	"github.com/funvibe/loxy/internal/ast"
	"github.com/funvibe/loxy/internal/diagnostics"
)

// parseAssignExpression handles "target = value". Assignment is
// right-associative: a = b = c assigns c to b, then to a.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	expression := &ast.AssignExpression{Token: p.curToken}

	name, ok := left.(*ast.Identifier)
	if !ok {
		p.addError(diagnostics.ErrP002, p.curToken)
		return nil
	}
	expression.Name = name

	p.nextToken()
	expression.Value = p.parseExpression(ASSIGN - 1)
	if expression.Value == nil {
		return nil
	}
	return expression
}

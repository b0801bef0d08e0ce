package parser

import (
	"github.com/funvibe/loxy/internal/ast"
	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/token"
)

// parseFunctionStatement parses: fn name(a, b) { ... }
func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.peekTokenIs(token.IDENT) {
		p.addError(diagnostics.ErrP001, p.peekToken, "function", describe(p.peekToken))
		return nil
	}
	p.nextToken()
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	stmt.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	p.functionDepth++
	stmt.Body = p.parseBlockStatement()
	p.functionDepth--
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseFunctionParameters starts on '(' and ends on ')'.
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	params := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	seen := make(map[string]bool)
	for {
		if !p.peekTokenIs(token.IDENT) {
			p.addError(diagnostics.ErrP001, p.peekToken, "parameter", describe(p.peekToken))
			return nil, false
		}
		p.nextToken()
		if len(params) == MaxArguments {
			p.addError(diagnostics.ErrP003, p.curToken, MaxArguments, "parameters")
		}
		if seen[p.curToken.Lexeme] {
			p.addError(diagnostics.ErrP007, p.curToken, p.curToken.Lexeme)
		}
		seen[p.curToken.Lexeme] = true
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.functionDepth == 0 {
		p.addError(diagnostics.ErrP006, p.curToken)
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

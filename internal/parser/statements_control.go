package parser

import (
	"github.com/funvibe/loxy/internal/ast"
	"github.com/funvibe/loxy/internal/token"
)

// parseIfStatement parses: if (cond) stmt [else stmt]
// A dangling else binds to the nearest if.
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	stmt.Condition = p.parseParenCondition()
	if stmt.Condition == nil {
		return nil
	}

	p.nextToken()
	stmt.Consequence = p.parseStatement()
	if stmt.Consequence == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken() // else
		p.nextToken()
		stmt.Alternative = p.parseStatement()
		if stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	stmt.Condition = p.parseParenCondition()
	if stmt.Condition == nil {
		return nil
	}

	p.nextToken()
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForStatement parses: for (init; cond; step) body
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	// Initializer: ends on its ';'
	switch p.curToken.Type {
	case token.SEMICOLON:
	case token.LET:
		if stmt.Initializer = p.parseLetStatement(); stmt.Initializer == nil {
			return nil
		}
	default:
		if stmt.Initializer = p.parseExpressionStatement(); stmt.Initializer == nil {
			return nil
		}
	}
	p.nextToken()

	if !p.curTokenIs(token.SEMICOLON) {
		if stmt.Condition = p.parseExpression(LOWEST); stmt.Condition == nil {
			return nil
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()

	if !p.curTokenIs(token.RPAREN) {
		if stmt.Increment = p.parseExpression(LOWEST); stmt.Increment == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}
	p.nextToken()

	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseParenCondition parses "(expr)" following the current keyword and
// leaves curToken on ')'.
func (p *Parser) parseParenCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

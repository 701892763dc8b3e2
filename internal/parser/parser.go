package parser

import (
	"github.com/zenith391/rhm/internal/ast"
	"github.com/zenith391/rhm/internal/diagnostics"
	"github.com/zenith391/rhm/internal/pipeline"
	"github.com/zenith391/rhm/internal/token"
)

// Parser turns a token stream into the two statement forms the language
// has: assignments and call statements. Errors are appended to the pipeline
// context and the parser resynchronizes at the next statement boundary.
type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	ctx *pipeline.PipelineContext
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{tokens: tokens, ctx: ctx}
	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) errorf(code diagnostics.Code, tok token.Token, format string, args ...any) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, format, args...))
}

// ParseProgram parses until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
			p.expectStatementEnd()
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program
}

// parseStatement dispatches on the token after the leading identifier:
// 'name = expr' or 'name(args)'.
func (p *Parser) parseStatement() ast.Statement {
	if !p.curTokenIs(token.IDENT) {
		p.errorf(diagnostics.ErrP002, p.curToken, "expected statement, got %s", p.curToken.Type)
		return nil
	}

	switch p.peekToken.Type {
	case token.ASSIGN:
		return p.parseSetLocalStatement()
	case token.LPAREN:
		tok := p.curToken
		call := p.parseCallExpression()
		if call == nil {
			return nil
		}
		return &ast.ExpressionStatement{Token: tok, Call: call}
	default:
		p.errorf(diagnostics.ErrP002, p.peekToken,
			"expected '=' or '(' after %q, got %s", p.curToken.Lexeme, p.peekToken.Type)
		return nil
	}
}

func (p *Parser) parseSetLocalStatement() *ast.SetLocalStatement {
	stmt := &ast.SetLocalStatement{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
	}

	p.nextToken() // move onto '='
	p.nextToken() // move onto the expression

	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

// parseExpression parses an additive chain: primary ('+' primary)*.
func (p *Parser) parseExpression() ast.Expression {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}

	for p.peekTokenIs(token.PLUS) {
		p.nextToken() // onto '+'
		opToken := p.curToken
		p.nextToken() // onto the right operand
		right := p.parsePrimary()
		if right == nil {
			return nil
		}
		left = &ast.AddExpression{Token: opToken, Left: left, Right: right}
	}

	return left
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case token.NUMBER:
		return &ast.NumberLiteral{Token: p.curToken, Literal: p.curToken.Literal.(string)}
	case token.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			return p.parseCallExpression()
		}
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
	default:
		p.errorf(diagnostics.ErrP001, p.curToken, "unexpected token %s in expression", p.curToken.Type)
		return nil
	}
}

// parseCallExpression parses 'name(arg, arg, …)' with curToken on the name.
func (p *Parser) parseCallExpression() *ast.CallExpression {
	call := &ast.CallExpression{
		Token: p.curToken,
		Name:  p.curToken.Literal.(string),
	}

	p.nextToken() // onto '('

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}

	p.nextToken() // onto the first argument
	arg := p.parseExpression()
	if arg == nil {
		return nil
	}
	call.Arguments = append(call.Arguments, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // onto ','
		p.nextToken() // onto the next argument
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)
	}

	if !p.peekTokenIs(token.RPAREN) {
		p.errorf(diagnostics.ErrP003, p.peekToken,
			"expected ',' or ')' in arguments of %s, got %s", call.Name, p.peekToken.Type)
		return nil
	}
	p.nextToken()
	return call
}

// expectStatementEnd requires a newline, semicolon or EOF after a
// statement.
func (p *Parser) expectStatementEnd() {
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.EOF) {
		p.nextToken()
		return
	}
	p.errorf(diagnostics.ErrP001, p.peekToken,
		"expected end of statement, got %s", p.peekToken.Type)
	p.synchronize()
}

// synchronize skips to the next statement boundary after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

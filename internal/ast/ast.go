// Package ast defines the abstract syntax tree handed from the parser to
// the compiler. The surface is intentionally small: two statement forms and
// five expression forms.
package ast

import (
	"strconv"

	"github.com/zenith391/rhm/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Program is the root node of every AST the parser produces.
type Program struct {
	File       string // source file path
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// SetLocalStatement binds the value of an expression to a named local.
// x = expr
type SetLocalStatement struct {
	Token token.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (ss *SetLocalStatement) statementNode()       {}
func (ss *SetLocalStatement) TokenLiteral() string { return ss.Token.Lexeme }
func (ss *SetLocalStatement) GetToken() token.Token {
	if ss == nil {
		return token.Token{}
	}
	return ss.Token
}

// ExpressionStatement wraps a call used for its effect.
// print(x)
type ExpressionStatement struct {
	Token token.Token
	Call  *CallExpression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// Identifier references a local or a named global such as pi.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// NumberLiteral carries the raw digit text; the compiler decodes it.
type NumberLiteral struct {
	Token   token.Token
	Literal string
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Lexeme }
func (nl *NumberLiteral) GetToken() token.Token {
	if nl == nil {
		return token.Token{}
	}
	return nl.Token
}

// StringLiteral is a quoted string.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

// AddExpression is the sum of two sub-expressions.
type AddExpression struct {
	Token token.Token // the '+' token
	Left  Expression
	Right Expression
}

func (ae *AddExpression) expressionNode()      {}
func (ae *AddExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AddExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}

// CallExpression invokes a named function with positional arguments.
type CallExpression struct {
	Token     token.Token // the function name token
	Name      string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// String renders a call head like "print/2" for diagnostics.
func (ce *CallExpression) String() string {
	return ce.Name + "/" + strconv.Itoa(len(ce.Arguments))
}

package token

// Type identifies the kind of a lexed token.
type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Identifiers and literals
	IDENT  Type = "IDENT"  // x, print, pi
	NUMBER Type = "NUMBER" // 123
	STRING Type = "STRING" // "hello"

	// Operators
	ASSIGN Type = "="
	PLUS   Type = "+"

	// Delimiters
	COMMA     Type = ","
	LPAREN    Type = "("
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	NEWLINE   Type = "NEWLINE"
)

// Token is a single lexical unit with its source position.
type Token struct {
	Type    Type
	Lexeme  string // raw source text
	Literal any    // decoded value: string for IDENT/STRING, digit text for NUMBER
	Line    int    // 1-based
	Column  int    // 1-based
}

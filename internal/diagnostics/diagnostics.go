package diagnostics

import (
	"fmt"

	"github.com/zenith391/rhm/internal/token"
)

// Code identifies a diagnostic category. The letter prefix names the stage
// that produced it: L = lexer, P = parser, C = compiler, R = runtime.
type Code string

const (
	ErrL001 Code = "L001" // illegal character
	ErrL002 Code = "L002" // unterminated string literal

	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // malformed statement
	ErrP003 Code = "P003" // malformed argument list

	ErrC001 Code = "C001" // malformed numeric literal
	ErrC002 Code = "C002" // out of registers
	ErrC003 Code = "C003" // out of local slots
	ErrC004 Code = "C004" // unsupported construct

	ErrR001 Code = "R001" // unknown function
	ErrR002 Code = "R002" // unknown global
)

// DiagnosticError is a positioned, coded error produced by any pipeline
// stage. File is filled in by the stage's processor when it only becomes
// known at the pipeline level.
type DiagnosticError struct {
	Code    Code
	File    string
	Line    int
	Column  int
	Message string
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: [%s] %s", e.File, e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: [%s] %s", e.Line, e.Column, e.Code, e.Message)
}

// NewError builds a DiagnosticError positioned at tok.
func NewError(code Code, tok token.Token, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

package lexer

import (
	"strings"

	"github.com/zenith391/rhm/internal/diagnostics"
	"github.com/zenith391/rhm/internal/pipeline"
	"github.com/zenith391/rhm/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.Source)

	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			var err *diagnostics.DiagnosticError
			if strings.HasPrefix(tok.Lexeme, `"`) {
				err = diagnostics.NewError(diagnostics.ErrL002, tok, "unterminated string literal")
			} else {
				err = diagnostics.NewError(diagnostics.ErrL001, tok, "illegal token %q", tok.Lexeme)
			}
			err.File = ctx.FilePath
			ctx.Errors = append(ctx.Errors, err)
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	ctx.TokenStream = tokens
	return ctx
}

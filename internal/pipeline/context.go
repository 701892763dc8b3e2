package pipeline

import (
	"github.com/google/uuid"

	"github.com/zenith391/rhm/internal/diagnostics"
	"github.com/zenith391/rhm/internal/token"
)

// Processor is a single pipeline stage. Stages read and extend the context;
// they never abort the chain themselves.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries a compilation unit through the stages.
type PipelineContext struct {
	// RunID tags every trace line of this execution.
	RunID string

	// Source is the raw program text.
	Source string

	// FilePath is the source file path, if the source came from a file.
	FilePath string

	// TokenStream is produced by the lexer stage.
	TokenStream []token.Token

	// AstRoot is produced by the parser stage (*ast.Program).
	AstRoot any

	// Errors collects diagnostics from all stages.
	Errors []*diagnostics.DiagnosticError
}

// NewPipelineContext creates a context for one source text.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		RunID:  uuid.NewString(),
		Source: source,
	}
}

// HasErrors reports whether any stage produced a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

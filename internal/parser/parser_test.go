package parser

import (
	"testing"

	"github.com/zenith391/rhm/internal/ast"
	"github.com/zenith391/rhm/internal/diagnostics"
	"github.com/zenith391/rhm/internal/lexer"
	"github.com/zenith391/rhm/internal/pipeline"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := parseContext(t, input)
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse error: %s", ctx.Errors[0].Error())
	}
	return ctx.AstRoot.(*ast.Program)
}

func parseContext(t *testing.T, input string) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("lexer error: %s", ctx.Errors[0].Error())
	}
	return (&ParserProcessor{}).Process(ctx)
}

func parseErrors(t *testing.T, input string) []*diagnostics.DiagnosticError {
	t.Helper()
	ctx := parseContext(t, input)
	if len(ctx.Errors) == 0 {
		t.Fatalf("parse succeeded, expected errors")
	}
	return ctx.Errors
}

func TestParseSetLocalStatement(t *testing.T) {
	prog := parseProgram(t, "x = 1")
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}

	stmt, ok := prog.Statements[0].(*ast.SetLocalStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.SetLocalStatement", prog.Statements[0])
	}
	if stmt.Name.Value != "x" {
		t.Errorf("name = %q, want x", stmt.Name.Value)
	}
	lit, ok := stmt.Value.(*ast.NumberLiteral)
	if !ok || lit.Literal != "1" {
		t.Errorf("value = %s, want the literal 1", stmt.Value)
	}
}

func TestParseCallStatement(t *testing.T) {
	prog := parseProgram(t, `print(x, "hi", 2)`)
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}

	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExpressionStatement", prog.Statements[0])
	}
	if stmt.Call.Name != "print" || len(stmt.Call.Arguments) != 3 {
		t.Fatalf("call = %s, want print/3", stmt.Call.String())
	}
	if _, ok := stmt.Call.Arguments[0].(*ast.Identifier); !ok {
		t.Errorf("argument 0 is %T, want identifier", stmt.Call.Arguments[0])
	}
	if _, ok := stmt.Call.Arguments[1].(*ast.StringLiteral); !ok {
		t.Errorf("argument 1 is %T, want string literal", stmt.Call.Arguments[1])
	}
	if _, ok := stmt.Call.Arguments[2].(*ast.NumberLiteral); !ok {
		t.Errorf("argument 2 is %T, want number literal", stmt.Call.Arguments[2])
	}
}

func TestParseEmptyArgumentList(t *testing.T) {
	prog := parseProgram(t, "render()")
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	if len(stmt.Call.Arguments) != 0 {
		t.Errorf("got %d arguments, want 0", len(stmt.Call.Arguments))
	}
}

func TestParseAdditionIsLeftAssociative(t *testing.T) {
	prog := parseProgram(t, "x = 1 + 2 + 3")
	stmt := prog.Statements[0].(*ast.SetLocalStatement)

	outer, ok := stmt.Value.(*ast.AddExpression)
	if !ok {
		t.Fatalf("value is %T, want *ast.AddExpression", stmt.Value)
	}
	inner, ok := outer.Left.(*ast.AddExpression)
	if !ok {
		t.Fatalf("left of outer sum is %T, want a nested sum", outer.Left)
	}
	if inner.Left.(*ast.NumberLiteral).Literal != "1" ||
		inner.Right.(*ast.NumberLiteral).Literal != "2" ||
		outer.Right.(*ast.NumberLiteral).Literal != "3" {
		t.Errorf("sum parsed as %s", stmt.Value)
	}
}

func TestParseCallInExpressionPosition(t *testing.T) {
	prog := parseProgram(t, "x = area(2) + 1")
	stmt := prog.Statements[0].(*ast.SetLocalStatement)

	sum := stmt.Value.(*ast.AddExpression)
	call, ok := sum.Left.(*ast.CallExpression)
	if !ok {
		t.Fatalf("left operand is %T, want a call", sum.Left)
	}
	if call.Name != "area" || len(call.Arguments) != 1 {
		t.Errorf("call = %s, want area/1", call.String())
	}
}

func TestParseStatementSeparators(t *testing.T) {
	for _, input := range []string{
		"x = 1\ny = 2",
		"x = 1; y = 2",
		"x = 1 ;\n\n y = 2\n",
	} {
		prog := parseProgram(t, input)
		if len(prog.Statements) != 2 {
			t.Errorf("%q parsed into %d statements, want 2", input, len(prog.Statements))
		}
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// The bad middle statement must not swallow the one after it.
	ctx := parseContext(t, "x = 1\n= 2\ny = 3")
	if len(ctx.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(ctx.Errors), ctx.Errors)
	}
	if ctx.Errors[0].Code != diagnostics.ErrP002 {
		t.Errorf("code = %s, want %s", ctx.Errors[0].Code, diagnostics.ErrP002)
	}

	prog := ctx.AstRoot.(*ast.Program)
	if len(prog.Statements) != 2 {
		t.Errorf("got %d statements, want the 2 valid ones", len(prog.Statements))
	}
}

func TestParseMissingParen(t *testing.T) {
	errs := parseErrors(t, "print(1, 2\n")
	if errs[0].Code != diagnostics.ErrP003 {
		t.Errorf("code = %s, want %s", errs[0].Code, diagnostics.ErrP003)
	}
}

func TestParseBareExpressionIsRejected(t *testing.T) {
	errs := parseErrors(t, "1 + 2\n")
	if errs[0].Code != diagnostics.ErrP002 {
		t.Errorf("code = %s, want %s", errs[0].Code, diagnostics.ErrP002)
	}
}

func TestParseAssignmentFromCall(t *testing.T) {
	prog := parseProgram(t, "x = compute()")
	stmt := prog.Statements[0].(*ast.SetLocalStatement)
	if _, ok := stmt.Value.(*ast.CallExpression); !ok {
		t.Errorf("value is %T, want a call", stmt.Value)
	}
}

func TestProcessorSetsFileOnProgramAndErrors(t *testing.T) {
	ctx := pipeline.NewPipelineContext("= 1\n")
	ctx.FilePath = "broken.rhm"
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&ParserProcessor{}).Process(ctx)

	if prog := ctx.AstRoot.(*ast.Program); prog.File != "broken.rhm" {
		t.Errorf("program file = %q, want broken.rhm", prog.File)
	}
	if len(ctx.Errors) == 0 || ctx.Errors[0].File != "broken.rhm" {
		t.Errorf("error file not backfilled: %v", ctx.Errors)
	}
}

package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/zenith391/rhm/internal/ast"
	"github.com/zenith391/rhm/internal/config"
	"github.com/zenith391/rhm/internal/diagnostics"
	"github.com/zenith391/rhm/internal/lexer"
	"github.com/zenith391/rhm/internal/parser"
	"github.com/zenith391/rhm/internal/pipeline"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)

	l := &lexer.LexerProcessor{}
	ctx = l.Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("lexer error: %s", ctx.Errors[0].Error())
	}

	p := &parser.ParserProcessor{}
	ctx = p.Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("parser error: %s", ctx.Errors[0].Error())
	}

	return ctx.AstRoot.(*ast.Program)
}

func compileSource(t *testing.T, input string) *Program {
	t.Helper()
	program, err := NewCompiler().Compile(parse(t, input))
	if err != nil {
		t.Fatalf("compilation error: %s", err)
	}
	return program
}

func compileError(t *testing.T, input string) *diagnostics.DiagnosticError {
	t.Helper()
	_, err := NewCompiler().Compile(parse(t, input))
	if err == nil {
		t.Fatalf("compilation succeeded, expected error")
	}
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) {
		t.Fatalf("error is %T, want *DiagnosticError", err)
	}
	return diag
}

// opcodeSequence decodes the stream back into its opcode list.
func opcodeSequence(t *testing.T, p *Program) []Opcode {
	t.Helper()
	var ops []Opcode
	offset := 0
	for offset < len(p.Code) {
		op := Opcode(p.Code[offset])
		width, ok := operandWidth[op]
		if !ok {
			t.Fatalf("bad opcode 0x%02x at %d", p.Code[offset], offset)
		}
		ops = append(ops, op)
		offset += 1 + width
	}
	return ops
}

func TestCompileAssignmentAndPrint(t *testing.T) {
	p := compileSource(t, "x = 1\nprint(x)")

	want := []byte{
		byte(OP_LOAD_BYTE), 0, 1, // r0 <- 1
		byte(OP_SET_LOCAL), 0, 0, // l0 <- r0
		byte(OP_LOAD_LOCAL), 0, 0, // r0 <- l0
		byte(OP_CALL_FUNCTION), 0, 0, 0, 1, // print r0..r0
	}
	if string(p.Code) != string(want) {
		t.Errorf("code = % d, want % d", p.Code, want)
	}
	if len(p.Names) != 1 || p.Names[0] != "print" {
		t.Errorf("names = %v, want [print]", p.Names)
	}
}

func TestCompileAddReusesLeftRegister(t *testing.T) {
	p := compileSource(t, "print(1 + 2)")

	want := []byte{
		byte(OP_LOAD_BYTE), 0, 1, // r0 <- 1
		byte(OP_LOAD_BYTE), 1, 2, // r1 <- 2
		byte(OP_ADD), 0, 0, 1, // r0 <- r0 + r1
		byte(OP_CALL_FUNCTION), 0, 0, 0, 1,
	}
	if string(p.Code) != string(want) {
		t.Errorf("code = % d, want % d", p.Code, want)
	}
}

func TestCompileCallArgumentsAreContiguous(t *testing.T) {
	p := compileSource(t, `print(1, "hi", 2 + 3)`)

	// Bottom-up single-use allocation naturally packs the arguments into
	// r0, r1, r2; the call block must reference exactly that range.
	ops := opcodeSequence(t, p)
	last := ops[len(ops)-1]
	if last != OP_CALL_FUNCTION {
		t.Fatalf("last opcode is %s", OpcodeNames[last])
	}

	callOffset := len(p.Code) - 5
	start := p.Code[callOffset+3]
	num := p.Code[callOffset+4]
	if start != 0 || num != 3 {
		t.Errorf("call block is r%d..+%d, want r0..+3", start, num)
	}

	// The three argument loads target r0, r1, r2 in declared order. The
	// third argument is an addition whose result reuses its left register.
	if p.Code[1] != 0 || p.Code[4] != 1 || p.Code[8] != 2 {
		t.Errorf("argument registers are r%d, r%d, r%d", p.Code[1], p.Code[4], p.Code[8])
	}
}

func TestCompileMovesArgumentIntoExpectedRegister(t *testing.T) {
	// Occupy r1 so the second argument lands in r2 and has to be moved
	// back into the contiguous block.
	c := NewCompiler()
	c.regs.take(1)

	p, err := c.Compile(parse(t, "print(1, 2)"))
	if err != nil {
		t.Fatalf("compilation error: %s", err)
	}

	want := []byte{
		byte(OP_LOAD_BYTE), 0, 1, // r0 <- 1
		byte(OP_LOAD_BYTE), 2, 2, // r2 <- 2 (r1 is taken)
		byte(OP_MOVE), 2, 1, // r2 -> r1
		byte(OP_CALL_FUNCTION), 0, 0, 0, 2,
	}
	if string(p.Code) != string(want) {
		t.Errorf("code = % d, want % d", p.Code, want)
	}
}

func TestCompileExpressionPositionCallClearsDestination(t *testing.T) {
	p := compileSource(t, "x = print(1)")

	// The destination register is the lowest one freed by the call block,
	// so without the explicit clear it would still hold the argument.
	want := []byte{
		byte(OP_LOAD_BYTE), 0, 1, // r0 <- 1
		byte(OP_CALL_FUNCTION), 0, 0, 0, 1,
		byte(OP_LOAD_NONE), 0, // r0 <- none
		byte(OP_SET_LOCAL), 0, 0, // l0 <- r0
	}
	if string(p.Code) != string(want) {
		t.Errorf("code = % d, want % d", p.Code, want)
	}
}

func TestCompileStatementCallReleasesBlock(t *testing.T) {
	c := NewCompiler()
	if _, err := c.Compile(parse(t, `print(1, 2, 3)`)); err != nil {
		t.Fatalf("compilation error: %s", err)
	}
	if c.regs.liveCount() != 0 {
		t.Errorf("%d registers still live after a statement call", c.regs.liveCount())
	}
}

func TestCompileMalformedNumberLiteral(t *testing.T) {
	diag := compileError(t, "x = 999")
	if diag.Code != diagnostics.ErrC001 {
		t.Errorf("code = %s, want %s", diag.Code, diagnostics.ErrC001)
	}
}

func TestCompileOutOfLocals(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= config.NumLocals; i++ {
		sb.WriteString("v")
		sb.WriteString(strings.Repeat("x", i+1))
		sb.WriteString(" = 1\n")
	}
	diag := compileError(t, sb.String())
	if diag.Code != diagnostics.ErrC003 {
		t.Errorf("code = %s, want %s", diag.Code, diagnostics.ErrC003)
	}
}

func TestCompileOutOfRegisters(t *testing.T) {
	// A call with 257 live arguments needs more registers than exist.
	args := make([]string, config.NumRegisters+1)
	for i := range args {
		args[i] = "1"
	}
	diag := compileError(t, "print("+strings.Join(args, ", ")+")")
	if diag.Code != diagnostics.ErrC002 {
		t.Errorf("code = %s, want %s", diag.Code, diagnostics.ErrC002)
	}
}

func TestCompileLocalSlotReuse(t *testing.T) {
	p := compileSource(t, "x = 1\nx = 2\ny = 3")

	// x keeps slot 0 across reassignment; y gets slot 1.
	slots := []byte{p.Code[4], p.Code[10], p.Code[16]}
	if slots[0] != 0 || slots[1] != 0 || slots[2] != 1 {
		t.Errorf("slots = %v, want [0 0 1]", slots)
	}
}

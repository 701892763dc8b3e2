package vm

import (
	"strconv"

	"github.com/zenith391/rhm/internal/ast"
	"github.com/zenith391/rhm/internal/config"
	"github.com/zenith391/rhm/internal/diagnostics"
	"github.com/zenith391/rhm/internal/token"
)

// Compiler lowers an AST into a flat instruction stream, assigning every
// intermediate value to one of the 256 registers and every named variable
// to one of the 16 local slots.
//
// Register allocation is single-use: a sub-expression's register is
// released as soon as the instruction consuming it has been emitted, so the
// register file only has to hold the values that are simultaneously live.
type Compiler struct {
	program *Program
	regs    registerSet
	locals  map[string]uint8
}

// NewCompiler creates a compiler with an empty program and all registers
// free.
func NewCompiler() *Compiler {
	return &Compiler{
		program: NewProgram(),
		locals:  make(map[string]uint8),
	}
}

// Compile encodes the whole program. The returned Program is ready for the
// VM; on error it is incomplete and must not be executed.
func (c *Compiler) Compile(prog *ast.Program) (*Program, error) {
	c.program.File = prog.File
	for _, stmt := range prog.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return nil, err
		}
	}
	return c.program, nil
}

func (c *Compiler) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.SetLocalStatement:
		reg, err := c.compileExpression(s.Value)
		if err != nil {
			return err
		}
		slot, err := c.localSlot(s.Name)
		if err != nil {
			return err
		}
		line := s.Token.Line
		c.program.WriteOp(OP_SET_LOCAL, line)
		c.program.Write(slot, line)
		c.program.Write(reg, line)
		c.regs.release(reg)
		return nil

	case *ast.ExpressionStatement:
		// Statement-position calls need no destination register.
		_, err := c.compileCall(s.Call, true)
		return err

	default:
		return diagnostics.NewError(diagnostics.ErrC004, stmt.GetToken(),
			"cannot compile statement %T", stmt)
	}
}

// localSlot returns the slot for name, assigning the next free one in
// first-use order.
func (c *Compiler) localSlot(name *ast.Identifier) (uint8, error) {
	if slot, ok := c.locals[name.Value]; ok {
		return slot, nil
	}
	if len(c.locals) >= config.NumLocals {
		return 0, diagnostics.NewError(diagnostics.ErrC003, name.Token,
			"too many locals: %q does not fit in %d slots", name.Value, config.NumLocals)
	}
	slot := uint8(len(c.locals))
	c.locals[name.Value] = slot
	return slot, nil
}

// compileExpression encodes e bottom-up and returns the register holding
// its value. The caller owns that register and must release it once the
// value has been consumed.
func (c *Compiler) compileExpression(e ast.Expression) (uint8, error) {
	switch expr := e.(type) {
	case *ast.NumberLiteral:
		value, err := strconv.ParseUint(expr.Literal, 10, 8)
		if err != nil {
			return 0, diagnostics.NewError(diagnostics.ErrC001, expr.Token,
				"malformed numeric literal %q", expr.Literal)
		}
		reg, err := c.allocate(expr.Token)
		if err != nil {
			return 0, err
		}
		line := expr.Token.Line
		c.program.WriteOp(OP_LOAD_BYTE, line)
		c.program.Write(reg, line)
		c.program.Write(byte(value), line)
		return reg, nil

	case *ast.StringLiteral:
		reg, err := c.allocate(expr.Token)
		if err != nil {
			return 0, err
		}
		line := expr.Token.Line
		c.program.WriteOp(OP_LOAD_STRING, line)
		c.program.Write(reg, line)
		c.program.WriteNameIndex(c.program.AddName(expr.Value), line)
		return reg, nil

	case *ast.Identifier:
		reg, err := c.allocate(expr.Token)
		if err != nil {
			return 0, err
		}
		line := expr.Token.Line
		if slot, ok := c.locals[expr.Value]; ok {
			c.program.WriteOp(OP_LOAD_LOCAL, line)
			c.program.Write(reg, line)
			c.program.Write(slot, line)
		} else {
			// Not a local: resolved at runtime as a named global (pi).
			c.program.WriteOp(OP_LOAD_GLOBAL, line)
			c.program.Write(reg, line)
			c.program.WriteNameIndex(c.program.AddName(expr.Value), line)
		}
		return reg, nil

	case *ast.AddExpression:
		left, err := c.compileExpression(expr.Left)
		if err != nil {
			return 0, err
		}
		right, err := c.compileExpression(expr.Right)
		if err != nil {
			return 0, err
		}
		// The sum lands in the left operand's register to keep pressure
		// down; only the right operand's register is freed.
		line := expr.Token.Line
		c.program.WriteOp(OP_ADD, line)
		c.program.Write(left, line)
		c.program.Write(left, line)
		c.program.Write(right, line)
		c.regs.release(right)
		return left, nil

	case *ast.CallExpression:
		return c.compileCall(expr, false)

	default:
		return 0, diagnostics.NewError(diagnostics.ErrC004, e.GetToken(),
			"cannot compile expression %T", e)
	}
}

// compileCall encodes a call whose arguments must occupy a contiguous
// register block starting at the first argument's register. Arguments that
// land elsewhere are moved into place. The whole block is released after
// the call instruction; an expression-position call then claims a fresh
// destination register.
func (c *Compiler) compileCall(call *ast.CallExpression, statement bool) (uint8, error) {
	var start uint8
	for i, arg := range call.Arguments {
		reg, err := c.compileExpression(arg)
		if err != nil {
			return 0, err
		}
		if i == 0 {
			start = reg
			continue
		}
		if int(start)+i >= config.NumRegisters {
			return 0, diagnostics.NewError(diagnostics.ErrC002, call.Token,
				"argument block of %s overflows the register file", call.String())
		}
		expected := start + uint8(i)
		if reg != expected {
			c.regs.release(reg)
			c.regs.take(expected)
			line := arg.GetToken().Line
			c.program.WriteOp(OP_MOVE, line)
			c.program.Write(reg, line)
			c.program.Write(expected, line)
		}
	}

	line := call.Token.Line
	c.program.WriteOp(OP_CALL_FUNCTION, line)
	c.program.WriteNameIndex(c.program.AddName(call.Name), line)
	c.program.Write(start, line)
	c.program.Write(uint8(len(call.Arguments)), line)

	for i := range call.Arguments {
		c.regs.release(start + uint8(i))
	}

	if statement {
		return 0, nil
	}

	// An expression-position call yields no value. The destination register
	// is explicitly cleared: the lowest freed register still holds the last
	// argument, and that stale value must not be observable.
	dest, err := c.allocate(call.Token)
	if err != nil {
		return 0, err
	}
	c.program.WriteOp(OP_LOAD_NONE, line)
	c.program.Write(dest, line)
	return dest, nil
}

func (c *Compiler) allocate(tok token.Token) (uint8, error) {
	reg, err := c.regs.allocate()
	if err != nil {
		return 0, diagnostics.NewError(diagnostics.ErrC002, tok,
			"out of registers: more than %d values live at once", config.NumRegisters)
	}
	return reg, nil
}

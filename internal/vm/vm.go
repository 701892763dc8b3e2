package vm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zenith391/rhm/internal/config"
	"github.com/zenith391/rhm/internal/diagnostics"
	"github.com/zenith391/rhm/internal/exact"
)

var errTruncatedBytecode = errors.New("truncated bytecode")
var errInvalidNameIndex = errors.New("invalid name pool index")

// VM executes a compiled Program against a fixed register file and local
// array. Execution is purely sequential: the instruction set has no jumps.
//
// Every slot write releases the value previously occupying the slot, and
// every value that crosses a slot boundary is deep-cloned, so each live
// Real has exactly one owning slot at any time.
type VM struct {
	registers [config.NumRegisters]Value
	locals    [config.NumLocals]Value

	out    io.Writer
	errOut io.Writer
	mode   exact.RenderMode

	trace bool
	runID string
}

// New creates a VM with all registers and locals empty, printing to stdout.
func New() *VM {
	return &VM{
		out:    os.Stdout,
		errOut: os.Stderr,
		mode:   exact.RenderDecimal,
	}
}

// SetOutput redirects print output.
func (vm *VM) SetOutput(w io.Writer) {
	vm.out = w
}

// SetErrOutput redirects runtime error logging.
func (vm *VM) SetErrOutput(w io.Writer) {
	vm.errOut = w
}

// SetRenderMode selects how print renders numbers.
func (vm *VM) SetRenderMode(mode exact.RenderMode) {
	vm.mode = mode
}

// SetTrace enables per-instruction trace logging tagged with runID.
func (vm *VM) SetTrace(runID string) {
	vm.trace = true
	vm.runID = runID
}

// Run executes the instruction stream to exhaustion. An unknown function
// call logs an error and halts the remaining program; that is the defined
// halt policy, not a failure, so Run still returns nil. All live registers
// and locals are released before returning, whatever the outcome.
func (vm *VM) Run(p *Program) error {
	defer vm.releaseAll()

	offset := 0
	for offset < len(p.Code) {
		op := Opcode(p.Code[offset])
		width, ok := operandWidth[op]
		if !ok {
			return fmt.Errorf("unknown opcode 0x%02x at offset %d", byte(op), offset)
		}
		if offset+1+width > len(p.Code) {
			return fmt.Errorf("%w: %s at offset %d", errTruncatedBytecode, OpcodeNames[op], offset)
		}

		if vm.trace {
			var sb strings.Builder
			disassembleInstruction(&sb, p, offset)
			fmt.Fprintf(vm.errOut, "[%s] %s", vm.runID, sb.String())
		}

		halt, err := vm.executeOneOp(p, op, offset+1)
		if err != nil {
			return err
		}
		if halt {
			return nil
		}
		offset += 1 + width
	}
	return nil
}

func (vm *VM) executeOneOp(p *Program, op Opcode, operands int) (bool, error) {
	switch op {
	case OP_LOAD_BYTE:
		target, value := p.Code[operands], p.Code[operands+1]
		num, err := exact.FromFloat(float64(value))
		if err != nil {
			return false, err
		}
		vm.setRegister(target, NumberVal(num))

	case OP_LOAD_STRING:
		target := p.Code[operands]
		name, err := vm.lookupName(p, operands+1)
		if err != nil {
			return false, err
		}
		vm.setRegister(target, StringVal(name))

	case OP_ADD:
		target, lhs, rhs := p.Code[operands], p.Code[operands+1], p.Code[operands+2]
		a, b := vm.registers[lhs], vm.registers[rhs]
		if a.Kind != ValNumber || b.Kind != ValNumber {
			return false, fmt.Errorf("ADD needs two numbers, got r%d=%v and r%d=%v",
				lhs, a.Kind, rhs, b.Kind)
		}
		sum := a.Num.Clone()
		sum.Add(b.Num)
		vm.setRegister(target, NumberVal(sum))

	case OP_SET_LOCAL:
		slot, source := p.Code[operands], p.Code[operands+1]
		if int(slot) >= config.NumLocals {
			return false, fmt.Errorf("local slot %d out of range", slot)
		}
		vm.locals[slot].release()
		vm.locals[slot] = vm.registers[source].Clone()

	case OP_LOAD_LOCAL:
		target, slot := p.Code[operands], p.Code[operands+1]
		if int(slot) >= config.NumLocals {
			return false, fmt.Errorf("local slot %d out of range", slot)
		}
		vm.setRegister(target, vm.locals[slot].Clone())

	case OP_LOAD_GLOBAL:
		target := p.Code[operands]
		name, err := vm.lookupName(p, operands+1)
		if err != nil {
			return false, err
		}
		if name != config.PiGlobalName {
			return false, vm.runtimeError(p, operands, diagnostics.ErrR002,
				"unimplemented global %q", name)
		}
		vm.setRegister(target, NumberVal(exact.NewPi()))

	case OP_CALL_FUNCTION:
		name, err := vm.lookupName(p, operands)
		if err != nil {
			return false, err
		}
		argsStart, argsNum := p.Code[operands+2], p.Code[operands+3]
		if int(argsStart)+int(argsNum) > config.NumRegisters {
			return false, fmt.Errorf("argument block r%d..r%d out of range",
				argsStart, int(argsStart)+int(argsNum)-1)
		}
		if name != config.PrintFuncName {
			diag := vm.runtimeError(p, operands, diagnostics.ErrR001,
				"unknown function %q, halting", name)
			fmt.Fprintf(vm.errOut, "error: %s\n", diag.Error())
			return true, nil
		}
		if err := vm.printArgs(argsStart, argsNum); err != nil {
			return false, err
		}

	case OP_MOVE:
		source, target := p.Code[operands], p.Code[operands+1]
		moved := vm.registers[source].Clone()
		vm.setRegister(target, moved)

	case OP_LOAD_NONE:
		vm.setRegister(p.Code[operands], NoneVal())
	}
	return false, nil
}

func (vm *VM) printArgs(argsStart, argsNum uint8) error {
	for i := 0; i < int(argsNum); i++ {
		v := vm.registers[int(argsStart)+i]
		switch v.Kind {
		case ValNumber:
			if err := v.Num.Render(vm.out, vm.mode); err != nil {
				return err
			}
			if _, err := io.WriteString(vm.out, "\n"); err != nil {
				return err
			}
		case ValString:
			if _, err := fmt.Fprintln(vm.out, v.Str); err != nil {
				return err
			}
		}
	}
	return nil
}

// runtimeError builds a positioned diagnostic from the line table entry of
// the faulting instruction. Runtime errors carry no column.
func (vm *VM) runtimeError(p *Program, operands int, code diagnostics.Code, format string, args ...any) *diagnostics.DiagnosticError {
	return &diagnostics.DiagnosticError{
		Code:    code,
		File:    p.File,
		Line:    p.Lines[operands],
		Message: fmt.Sprintf(format, args...),
	}
}

func (vm *VM) lookupName(p *Program, offset int) (string, error) {
	idx := p.ReadNameIndex(offset)
	if idx >= len(p.Names) {
		return "", fmt.Errorf("%w: %d of %d", errInvalidNameIndex, idx, len(p.Names))
	}
	return p.Names[idx], nil
}

// setRegister stores v, releasing whatever occupied the slot before.
func (vm *VM) setRegister(r uint8, v Value) {
	vm.registers[r].release()
	vm.registers[r] = v
}

func (vm *VM) releaseAll() {
	for i := range vm.registers {
		vm.registers[i].release()
	}
	for i := range vm.locals {
		vm.locals[i].release()
	}
}

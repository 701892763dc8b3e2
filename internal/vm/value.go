package vm

import "github.com/zenith391/rhm/internal/exact"

// ValueKind identifies what a register or local slot holds
type ValueKind uint8

const (
	ValNone ValueKind = iota
	ValNumber
	ValString
)

func (k ValueKind) String() string {
	switch k {
	case ValNumber:
		return "number"
	case ValString:
		return "string"
	default:
		return "none"
	}
}

// Value is one slot of the register file or local array. Numbers own their
// Real and must be released when the slot is overwritten; strings borrow
// the source program's name pool and are never released.
type Value struct {
	Kind ValueKind
	Num  *exact.Real
	Str  string
}

func NoneVal() Value {
	return Value{Kind: ValNone}
}

func NumberVal(n *exact.Real) Value {
	return Value{Kind: ValNumber, Num: n}
}

func StringVal(s string) Value {
	return Value{Kind: ValString, Str: s}
}

// Clone deep-copies the value. Numbers get an independent Real with a fresh
// reference count; strings stay borrowed.
func (v Value) Clone() Value {
	if v.Kind == ValNumber {
		return NumberVal(v.Num.Clone())
	}
	return v
}

// release drops ownership of the slot's contents.
func (v *Value) release() {
	if v.Kind == ValNumber {
		v.Num.Release()
	}
	*v = NoneVal()
}

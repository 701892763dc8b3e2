// Package exact represents real numbers exactly, including irrational
// constants, as symbolic trees over arbitrary-precision rationals. Nothing
// in this package ever rounds; approximation happens only at render time.
package exact

import "fmt"

// Multiple classifies what a Real node denotes relative to its multiplier.
type Multiple uint8

const (
	// One means the multiplier is the value itself.
	One Multiple = iota
	// Root is the multiplier under a root.
	Root
	// Sqrt is the square root of the multiplier.
	Sqrt
	// Log is the logarithm of the multiplier; extra holds the base.
	Log
	// Exponential is the multiplier raised to extra.
	Exponential
	// Addition is the multiplier plus extra.
	Addition
	// Pi, EulerNumber and GoldenRatio scale the named constant by the
	// multiplier.
	Pi
	EulerNumber
	GoldenRatio
)

func (m Multiple) String() string {
	switch m {
	case One:
		return "One"
	case Root:
		return "Root"
	case Sqrt:
		return "Sqrt"
	case Log:
		return "Log"
	case Exponential:
		return "Exponential"
	case Addition:
		return "Addition"
	case Pi:
		return "Pi"
	case EulerNumber:
		return "EulerNumber"
	case GoldenRatio:
		return "GoldenRatio"
	default:
		return fmt.Sprintf("Multiple(%d)", uint8(m))
	}
}

// Real is one node of an exact value tree.
//
// Exactly one of rat and sub is set: the multiplier is either a rational
// leaf or an owned nested Real. extra is owned too and is populated only
// for Exponential (the exponent), Log (the base) and Addition (the addend).
//
// Every node carries a strong-reference count. The engine always
// deep-copies on assignment, so in normal operation the count stays at 1;
// the counter is a use-after-free and double-free guard, not a sharing
// mechanism.
type Real struct {
	refs     int32
	multiple Multiple
	rat      *Rational
	sub      *Real
	extra    *Real
}

// FromRational wraps a rational as a canonical One node. Takes ownership
// of r.
func FromRational(r *Rational) *Real {
	return &Real{refs: 1, multiple: One, rat: r}
}

// FromFloat converts a float exactly via the rational primitive.
func FromFloat(f float64) (*Real, error) {
	r, err := RationalFromFloat(f)
	if err != nil {
		return nil, err
	}
	return FromRational(r), nil
}

// NewPi returns π with coefficient 1.
func NewPi() *Real {
	return &Real{refs: 1, multiple: Pi, rat: NewRational(1, 1)}
}

// NewEulerNumber returns e with coefficient 1.
func NewEulerNumber() *Real {
	return &Real{refs: 1, multiple: EulerNumber, rat: NewRational(1, 1)}
}

// NewGoldenRatio returns Φ with coefficient 1.
func NewGoldenRatio() *Real {
	return &Real{refs: 1, multiple: GoldenRatio, rat: NewRational(1, 1)}
}

// Multiple returns the node's tag.
func (n *Real) Multiple() Multiple {
	return n.multiple
}

// RationalValue returns the node's rational multiplier, or nil when the
// multiplier is a nested Real.
func (n *Real) RationalValue() *Rational {
	return n.rat
}

// Refs returns the current strong-reference count.
func (n *Real) Refs() int32 {
	return n.refs
}

// Retain adds a strong reference. Retaining a dead node is a programming
// error.
func (n *Real) Retain() {
	n.mustLive("retain")
	n.refs++
}

// Release drops a strong reference. At zero the node recursively releases
// everything it owns. Releasing a dead node is a programming error.
func (n *Real) Release() {
	n.mustLive("release")
	n.refs--
	if n.refs > 0 {
		return
	}
	if n.sub != nil {
		n.sub.Release()
		n.sub = nil
	}
	if n.extra != nil {
		n.extra.Release()
		n.extra = nil
	}
	n.rat = nil
}

func (n *Real) mustLive(op string) {
	if n.refs <= 0 {
		panic(fmt.Sprintf("exact: %s of Real with %d references", op, n.refs))
	}
}

// Clone returns a structurally independent deep copy with a fresh count of
// one. Nothing is shared with the original, not even rational leaves.
func (n *Real) Clone() *Real {
	n.mustLive("clone")
	c := &Real{refs: 1, multiple: n.multiple}
	if n.rat != nil {
		c.rat = n.rat.Clone()
	}
	if n.sub != nil {
		c.sub = n.sub.Clone()
	}
	if n.extra != nil {
		c.extra = n.extra.Clone()
	}
	return c
}

// detach moves the node's contents into a fresh single-owner node, leaving
// the receiver empty but alive. Used when an operation wraps its previous
// value one level deeper.
func (n *Real) detach() *Real {
	old := &Real{refs: 1, multiple: n.multiple, rat: n.rat, sub: n.sub, extra: n.extra}
	n.multiple = One
	n.rat = nil
	n.sub = nil
	n.extra = nil
	return old
}

// discard releases a node whose children have already been adopted by
// another node.
func (n *Real) discard() {
	n.rat = nil
	n.sub = nil
	n.extra = nil
	n.Release()
}

// Multiply folds b into n in place: n becomes n·b. n's previous value is
// wrapped as the multiplier of a node tagged like b. A rational coefficient
// is folded straight into the innermost rational multiplier; a nested-Real
// coefficient recurses.
func (n *Real) Multiply(b *Real) {
	n.mustLive("multiply")
	b.mustLive("multiply")

	old := n.detach()
	n.multiple = b.multiple
	n.sub = old
	if b.extra != nil {
		n.extra = b.extra.Clone()
	}

	if b.rat != nil {
		old.innermostRational().Mul(b.rat)
	} else {
		old.Multiply(b.sub)
	}
	n.Canonicalize()
}

// innermostRational descends the multiplier chain to its rational leaf.
// Every chain terminates in one.
func (n *Real) innermostRational() *Rational {
	cur := n
	for cur.rat == nil {
		cur = cur.sub
	}
	return cur.rat
}

// RaisePower raises n to exponent in place, taking ownership of exponent.
// A non-One node is first wrapped so the exponent attaches to a wrapper
// rather than overwriting a named constant.
func (n *Real) RaisePower(exponent *Real) {
	n.mustLive("raise")
	exponent.mustLive("raise")

	if n.multiple != One {
		n.sub = n.detach()
	}
	n.multiple = Exponential
	n.extra = exponent
	n.Canonicalize()
}

// Add adds b to n in place. Both operands are deep-copied so the result
// never aliases either input; n keeps its identity and reference count.
func (n *Real) Add(b *Real) {
	n.mustLive("add")
	b.mustLive("add")

	addend := b.Clone()
	left := n.Clone()
	if n.sub != nil {
		n.sub.Release()
	}
	if n.extra != nil {
		n.extra.Release()
	}
	n.multiple = Addition
	n.rat = nil
	n.sub = left
	n.extra = addend
	n.Canonicalize()
}

// Canonicalize rewrites the node into canonical form. It is idempotent.
//
//  1. A One node whose multiplier is a Real is redundant: the nested
//     contents replace the node and the empty wrapper is released.
//  2. A multiplier that is a One node over a bare rational flattens into a
//     direct rational multiplier.
//  3. extra is canonicalized recursively.
//  4. An Addition of a rational multiplier and a rational One addend
//     degenerates into their sum. An addend whose multiplier is a nested
//     Real has no fold rule yet and is left unsimplified.
func (n *Real) Canonicalize() {
	n.mustLive("canonicalize")

	for n.multiple == One && n.sub != nil {
		child := n.sub
		n.multiple = child.multiple
		n.rat = child.rat
		n.sub = child.sub
		n.extra = child.extra
		child.discard()
	}

	if n.sub != nil && n.sub.multiple == One && n.sub.rat != nil {
		flat := n.sub.rat.Clone()
		n.sub.Release()
		n.sub = nil
		n.rat = flat
	}

	if n.extra != nil {
		n.extra.Canonicalize()
	}

	if n.multiple == Addition && n.rat != nil && n.extra != nil && n.extra.multiple == One {
		if n.extra.rat != nil {
			n.rat.Add(n.extra.rat)
			n.extra.Release()
			n.extra = nil
			n.multiple = One
		}
	}
}

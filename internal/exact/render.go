package exact

import "io"

// RenderMode selects the presentation of rational leaves. The symbolic
// structure renders identically in both modes.
type RenderMode int

const (
	// RenderExact prints rational leaves as p/q fractions.
	RenderExact RenderMode = iota
	// RenderDecimal prints rational leaves as float approximations.
	RenderDecimal
)

// Render writes a textual form of the value to w, in tree order and without
// materializing intermediate strings.
//
// Bracketing by tag: root(…), √(…), log(…), (…)^(…) for Exponential and
// ((…)+(…)) for Addition. Named constants render as π, e and Φ scaled by
// their coefficient. One renders as its bare multiplier. extra renders
// before the multiplier for every tag except Exponential, where it follows
// the base.
func (n *Real) Render(w io.Writer, mode RenderMode) error {
	n.mustLive("render")

	switch n.multiple {
	case One:
		return n.renderMultiplier(w, mode)

	case Pi, EulerNumber, GoldenRatio:
		if !n.coefficientIsOne() {
			if err := n.renderMultiplier(w, mode); err != nil {
				return err
			}
			if _, err := io.WriteString(w, " * "); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, n.multiple.symbol())
		return err

	case Exponential:
		if err := writeAll(w, "("); err != nil {
			return err
		}
		if err := n.renderMultiplier(w, mode); err != nil {
			return err
		}
		if err := writeAll(w, ") ^ ("); err != nil {
			return err
		}
		if err := n.extra.Render(w, mode); err != nil {
			return err
		}
		return writeAll(w, ")")

	case Addition:
		if err := writeAll(w, "(("); err != nil {
			return err
		}
		if err := n.extra.Render(w, mode); err != nil {
			return err
		}
		if err := writeAll(w, ")+("); err != nil {
			return err
		}
		if err := n.renderMultiplier(w, mode); err != nil {
			return err
		}
		return writeAll(w, "))")

	default: // Root, Sqrt, Log
		if err := writeAll(w, n.multiple.prefix()); err != nil {
			return err
		}
		if n.extra != nil {
			if err := n.extra.Render(w, mode); err != nil {
				return err
			}
			if err := writeAll(w, ", "); err != nil {
				return err
			}
		}
		if err := n.renderMultiplier(w, mode); err != nil {
			return err
		}
		return writeAll(w, ")")
	}
}

func (n *Real) renderMultiplier(w io.Writer, mode RenderMode) error {
	if n.rat != nil {
		return n.rat.Render(w, mode)
	}
	return n.sub.Render(w, mode)
}

func (n *Real) coefficientIsOne() bool {
	return n.rat != nil && n.rat.Eq(NewRational(1, 1))
}

func (m Multiple) symbol() string {
	switch m {
	case Pi:
		return "π"
	case EulerNumber:
		return "e"
	default:
		return "Φ"
	}
}

func (m Multiple) prefix() string {
	switch m {
	case Root:
		return "root("
	case Sqrt:
		return "√("
	default:
		return "log("
	}
}

func writeAll(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

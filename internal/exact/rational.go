package exact

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// Rational is an exact arbitrary-precision fraction. It wraps math/big so
// the rest of the engine never touches big.Rat directly.
type Rational struct {
	rat big.Rat
}

// NewRational returns num/den. den must be non-zero.
func NewRational(num, den int64) *Rational {
	r := &Rational{}
	r.rat.SetFrac64(num, den)
	return r
}

// RationalFromFloat converts a float exactly. Non-finite floats have no
// rational value.
func RationalFromFloat(f float64) (*Rational, error) {
	r := &Rational{}
	if r.rat.SetFloat64(f) == nil {
		return nil, fmt.Errorf("no exact rational for non-finite float %v", f)
	}
	return r, nil
}

// Mul multiplies r by o in place.
func (r *Rational) Mul(o *Rational) {
	r.rat.Mul(&r.rat, &o.rat)
}

// Add adds o to r in place.
func (r *Rational) Add(o *Rational) {
	r.rat.Add(&r.rat, &o.rat)
}

// Eq reports exact equality.
func (r *Rational) Eq(o *Rational) bool {
	return r.rat.Cmp(&o.rat) == 0
}

// Float64 returns the nearest float approximation.
func (r *Rational) Float64() float64 {
	f, _ := r.rat.Float64()
	return f
}

// Clone returns an independent copy.
func (r *Rational) Clone() *Rational {
	c := &Rational{}
	c.rat.Set(&r.rat)
	return c
}

// Render writes the fraction to w. Exact mode prints p/q (or just p for
// integers); decimal mode prints the shortest float approximation. The mode
// is presentational only and never feeds back into the representation.
func (r *Rational) Render(w io.Writer, mode RenderMode) error {
	var err error
	switch mode {
	case RenderExact:
		if r.rat.IsInt() {
			_, err = io.WriteString(w, r.rat.Num().String())
		} else {
			_, err = io.WriteString(w, r.rat.RatString())
		}
	default:
		_, err = io.WriteString(w, strconv.FormatFloat(r.Float64(), 'f', -1, 64))
	}
	return err
}

// String renders in exact mode, for error messages and tests.
func (r *Rational) String() string {
	return r.rat.RatString()
}

package taxsplit

import (
	"fmt"
	"math"

	"github.com/govalues/decimal"
)

// RoundHalfUp rounds d to the given number of digits after the decimal
// point, breaking ties toward positive infinity:
//
//	RoundHalfUp(0.5, 0)  = 1
//	RoundHalfUp(-0.5, 0) = 0
//	RoundHalfUp(1.5, 0)  = 2
//	RoundHalfUp(-1.5, 0) = -1
//
// This is the single rounding primitive of the package; every other
// rounding decision routes through it, so tie-breaking is consistent
// everywhere.
// It is computed as floor(d + 5*10^-(scale+1)) over exact decimals, never
// through binary floating point.
//
// RoundHalfUp returns an error if the scale is out of range or the
// intermediate sum is not representable.
func RoundHalfUp(d decimal.Decimal, scale int) (decimal.Decimal, error) {
	if scale < 0 || scale > decimal.MaxScale {
		return decimal.Decimal{}, fmt.Errorf("rounding to %v places: %w", scale, ErrInvalidInput)
	}
	if d.Scale() <= scale {
		return d, nil
	}
	half := decimal.MustNew(5, scale+1)
	e, err := d.AddExact(half, scale+1)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rounding %v: %w", d, ErrOverflow)
	}
	return e.Floor(scale), nil
}

// AdjustForDisplay rounds d to 2 decimal places using [RoundHalfUp] and then
// snaps values that sit one cent away from a clean boundary, improving the
// readability of computed amounts:
//
//	121.99 -> 122.00    (.99 at magnitude >= 1.99 rounds up to the next whole unit)
//	122.01 -> 122.00    (.01 at magnitude >= 2.01 rounds down to the whole unit below)
//	 56.49 ->  56.50    (.49 bumps to .50)
//	123.45 -> 123.45    (all other values are unchanged)
//
// Negative values apply the mirror-image rule, so -121.99 snaps to -122.00.
// The adjustment is idempotent and purely cosmetic: it must only be applied
// at the display boundary, never before or during a tax computation.
//
// Values whose minor units do not fit in an int64 are returned rounded but
// unsnapped, since the snap has no failure semantics.
func AdjustForDisplay(d decimal.Decimal) (decimal.Decimal, error) {
	r, err := RoundHalfUp(d, 2)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("adjusting %v for display: %w", d, err)
	}
	r = r.Pad(2)
	neg := r.IsNeg()
	whole, frac, ok := r.Abs().Int64(2)
	if !ok || whole > (math.MaxInt64-CentsScale+1)/CentsScale {
		return r, nil
	}
	m := whole*CentsScale + frac
	switch m % CentsScale {
	case 99:
		if m >= 199 {
			m++
		}
	case 1:
		if m >= 201 {
			m--
		}
	case 49:
		m++
	}
	a := decimal.MustNew(m, 2)
	if neg {
		a = a.Neg()
	}
	return a, nil
}

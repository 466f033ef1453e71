package taxsplit

import (
	"encoding/json"
	"fmt"

	"github.com/govalues/decimal"
)

// TaxBreakdown represents a tax-inclusive total split into its base and
// tax components.
// Values constructed by this package always satisfy base + tax = total
// exactly; the invariant is established at construction and never violated.
// TaxBreakdown is designed to be safe for concurrent use by multiple goroutines.
type TaxBreakdown struct {
	base  Cents // amount before tax
	tax   Cents // tax amount, authoritative once computed
	total Cents // tax-inclusive amount, always base + tax
}

// Base returns the amount before tax.
func (b TaxBreakdown) Base() Cents {
	return b.base
}

// Tax returns the tax amount.
func (b TaxBreakdown) Tax() Cents {
	return b.tax
}

// Total returns the tax-inclusive amount.
func (b TaxBreakdown) Total() Cents {
	return b.total
}

// String implements the [fmt.Stringer] interface and returns the components
// in major currency units, e.g. "107.97 + 14.03 = 122.00".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (b TaxBreakdown) String() string {
	return fmt.Sprintf("%v + %v = %v", b.base, b.tax, b.total)
}

// MarshalJSON implements the [json.Marshaler] interface.
// Components are encoded as integer counts of minor units.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (b TaxBreakdown) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"base":%d,"tax":%d,"total":%d}`,
		int64(b.base), int64(b.tax), int64(b.total))), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// It re-validates the exact-total invariant, so a hand-edited payload whose
// components do not sum to the total is rejected.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (b *TaxBreakdown) UnmarshalJSON(text []byte) error {
	var raw struct {
		Base  Cents `json:"base"`
		Tax   Cents `json:"tax"`
		Total Cents `json:"total"`
	}
	if err := json.Unmarshal(text, &raw); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", TaxBreakdown{}, err)
	}
	sum, err := raw.Base.Add(raw.Tax)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", TaxBreakdown{}, err)
	}
	if sum != raw.Total {
		return fmt.Errorf("unmarshaling %T: base %v and tax %v do not sum to total %v: %w",
			TaxBreakdown{}, raw.Base, raw.Tax, raw.Total, ErrInvalidInput)
	}
	b.base, b.tax, b.total = raw.Base, raw.Tax, raw.Total
	return nil
}

// DiscountedBreakdown is a [TaxBreakdown] extended with the discount that
// was applied to the base before the tax was computed.
// The discount fields are informational; the exact-total invariant holds on
// the embedded breakdown exactly as without a discount.
type DiscountedBreakdown struct {
	TaxBreakdown
	discount     Cents       // discount applied to the undiscounted base
	discountRate BasisPoints // rate the discount was computed from
}

// Discount returns the discount amount.
func (b DiscountedBreakdown) Discount() Cents {
	return b.discount
}

// DiscountRate returns the rate the discount was computed from.
func (b DiscountedBreakdown) DiscountRate() BasisPoints {
	return b.discountRate
}

// MarshalJSON implements the [json.Marshaler] interface.
// Amounts are encoded as integer counts of minor units and the discount
// rate as an integer count of basis points.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (b DiscountedBreakdown) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"base":%d,"tax":%d,"total":%d,"discount":%d,"discountRate":%d}`,
		int64(b.base), int64(b.tax), int64(b.total),
		int64(b.discount), int64(b.discountRate))), nil
}

// TaxFromBase returns the tax on the given base amount at the given rate,
// computed as the half-up rounding of base * rate / [BasisPointsScale].
//
// TaxFromBase returns an error if:
//   - an operand is out of range;
//   - the product base * rate would exceed the safe integer range.
//     The bound is checked before multiplying.
func TaxFromBase(base Cents, rate BasisPoints) (Cents, error) {
	t, err := applyRate(base, rate)
	if err != nil {
		return 0, fmt.Errorf("computing tax on [%v] at [%v]: %w", base, rate, err)
	}
	return t, nil
}

// applyRate returns the half-up rounding of amount * rate / BasisPointsScale.
// It is shared by the tax and discount computations so that both round
// through the same primitive.
func applyRate(amount Cents, rate BasisPoints) (Cents, error) {
	if err := amount.validate(); err != nil {
		return 0, err
	}
	if err := rate.validate(); err != nil {
		return 0, err
	}
	if rate.IsZero() {
		return 0, nil
	}
	// Bound check before the multiplication, since the product itself could
	// leave the safe range.
	if int64(amount) > maxSafeInt/int64(rate) {
		return 0, ErrOverflow
	}
	d := decimal.MustNew(int64(amount), 0)
	p, err := d.Mul(rate.Decimal())
	if err != nil {
		return 0, ErrOverflow
	}
	p, err = RoundHalfUp(p, 0)
	if err != nil {
		return 0, err
	}
	return centsFromDecimal(p)
}

// BaseFromTotal returns the base amount whose tax at the given rate sums
// with it to exactly the given tax-inclusive total.
//
// The ideal base is the half-up rounding of
// total * [BasisPointsScale] / ([BasisPointsScale] + rate).
// The tax computed from the ideal base is authoritative; the returned base
// is total minus that tax and therefore absorbs any residual cent left by
// the two independent roundings.
// As a consequence the effective rate implied by the returned base may
// differ from the nominal rate by at most one minor unit, which is the
// intentional trade-off in favor of exact totals.
//
// BaseFromTotal returns an error if:
//   - an operand is out of range;
//   - an intermediate value would exceed the safe integer range;
//   - the authoritative tax exceeds the total, which can happen for tiny
//     totals at extreme rates.
func BaseFromTotal(total Cents, rate BasisPoints) (Cents, error) {
	b, err := baseFromTotal(total, rate)
	if err != nil {
		return 0, fmt.Errorf("computing base of [%v] at [%v]: %w", total, rate, err)
	}
	return b, nil
}

func baseFromTotal(total Cents, rate BasisPoints) (Cents, error) {
	if err := total.validate(); err != nil {
		return 0, err
	}
	if err := rate.validate(); err != nil {
		return 0, err
	}
	if rate.IsZero() {
		// Tax is zero by definition.
		return total, nil
	}
	num := decimal.MustNew(int64(total)*BasisPointsScale, 0)
	den := decimal.MustNew(BasisPointsScale+int64(rate), 0)
	q, err := num.Quo(den)
	if err != nil {
		return 0, ErrOverflow
	}
	q, err = RoundHalfUp(q, 0)
	if err != nil {
		return 0, err
	}
	ideal, err := centsFromDecimal(q)
	if err != nil {
		return 0, err
	}
	tax, err := applyRate(ideal, rate)
	if err != nil {
		return 0, err
	}
	// The tax derived from the ideal base is fixed; the base absorbs the
	// residual cent so that base + tax lands exactly on the total.
	return total.sub(tax)
}

// Breakdown splits a tax-inclusive total at the given rate.
// The returned breakdown satisfies base + tax = total exactly, with the
// base absorbing any rounding residual as described in [BaseFromTotal].
//
// Breakdown returns an error under the same conditions as [BaseFromTotal].
func Breakdown(total Cents, rate BasisPoints) (TaxBreakdown, error) {
	base, err := baseFromTotal(total, rate)
	if err != nil {
		return TaxBreakdown{}, fmt.Errorf("breaking down [%v] at [%v]: %w", total, rate, err)
	}
	// base <= total by construction, so the difference cannot go negative.
	return TaxBreakdown{base: base, tax: total - base, total: total}, nil
}

// BreakdownFromBase reconciles a previously computed base against a total
// the caller has already presented.
// The tax is computed from the given base and held fixed; if base + tax
// does not meet the expected total, the base is recomputed as
// expectedTotal - tax.
//
// BreakdownFromBase returns an error if:
//   - an operand is out of range;
//   - the product base * rate would exceed the safe integer range;
//   - the expected total is too small to cover the fixed tax.
func BreakdownFromBase(base Cents, rate BasisPoints, expectedTotal Cents) (TaxBreakdown, error) {
	b, err := breakdownFromBase(base, rate, expectedTotal)
	if err != nil {
		return TaxBreakdown{}, fmt.Errorf("reconciling base [%v] at [%v] against total [%v]: %w",
			base, rate, expectedTotal, err)
	}
	return b, nil
}

func breakdownFromBase(base Cents, rate BasisPoints, expectedTotal Cents) (TaxBreakdown, error) {
	if err := expectedTotal.validate(); err != nil {
		return TaxBreakdown{}, err
	}
	tax, err := applyRate(base, rate)
	if err != nil {
		return TaxBreakdown{}, err
	}
	sum, err := base.add(tax)
	if err != nil {
		return TaxBreakdown{}, err
	}
	if sum != expectedTotal {
		// The tax stays fixed; the base moves to meet the total.
		base, err = expectedTotal.sub(tax)
		if err != nil {
			return TaxBreakdown{}, err
		}
	}
	return TaxBreakdown{base: base, tax: tax, total: expectedTotal}, nil
}

// BreakdownWithDiscount splits a tax-inclusive total at the given rate
// after discounting the base.
// The undiscounted base is computed as in [BaseFromTotal], the discount is
// the half-up rounding of that base times the discount rate, and the tax is
// computed from the discounted base and held fixed.
// The returned base is total minus tax, so the exact-total invariant holds
// on the embedded breakdown; the discount amount and rate are carried as
// informational fields.
//
// BreakdownWithDiscount returns an error if:
//   - an operand is out of range;
//   - an intermediate value would exceed the safe integer range;
//   - the discount would exceed the base it is applied to.
func BreakdownWithDiscount(total Cents, rate, discountRate BasisPoints) (DiscountedBreakdown, error) {
	b, err := breakdownWithDiscount(total, rate, discountRate)
	if err != nil {
		return DiscountedBreakdown{}, fmt.Errorf("breaking down [%v] at [%v] with discount [%v]: %w",
			total, rate, discountRate, err)
	}
	return b, nil
}

func breakdownWithDiscount(total Cents, rate, discountRate BasisPoints) (DiscountedBreakdown, error) {
	originalBase, err := baseFromTotal(total, rate)
	if err != nil {
		return DiscountedBreakdown{}, err
	}
	discount, err := applyRate(originalBase, discountRate)
	if err != nil {
		return DiscountedBreakdown{}, err
	}
	if discount > originalBase {
		return DiscountedBreakdown{}, ErrInvalidDiscount
	}
	tax, err := applyRate(originalBase-discount, rate)
	if err != nil {
		return DiscountedBreakdown{}, err
	}
	base, err := total.sub(tax)
	if err != nil {
		return DiscountedBreakdown{}, err
	}
	return DiscountedBreakdown{
		TaxBreakdown: TaxBreakdown{base: base, tax: tax, total: total},
		discount:     discount,
		discountRate: discountRate,
	}, nil
}

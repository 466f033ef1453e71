/*
Package taxsplit implements fixed-point tax arithmetic over integer cents
with an exact-total guarantee: a computed base amount and tax amount always
sum to exactly the given total, even when the mathematically ideal split
falls between two representable cents.
It builds on the [decimal] package for all intermediate arithmetic, so no
computation ever passes through binary floating point.

# Representation

The package consists of two scalar types and one record type.
A [Cents] value is a non-negative integer number of minor currency units,
bounded by [MaxSafeCents] so that multiplying by any valid rate stays within
the range of integers exactly representable in a float64.
A [BasisPoints] value is a non-negative tax or discount rate where one unit
is 0.01% and [BasisPointsScale] is 100%.
A [TaxBreakdown] is an immutable triple of base, tax, and total cents whose
components always sum exactly.

# Exact totals

[Breakdown] splits a tax-inclusive total at a given rate.
The ideal base is computed by half-up division, the tax derived from that
base is treated as authoritative, and the base is then adjusted to absorb
any residual cent, so base + tax equals the total by construction.
The adjusted base may differ from the ideal base by at most one cent, which
is the documented trade-off in favor of exact totals.

# Rounding

All rounding routes through a single primitive, [RoundHalfUp], which breaks
ties toward positive infinity: 0.5 rounds to 1 and -0.5 rounds to 0.
A separate display-time refinement, [AdjustForDisplay], snaps amounts ending
in .99, .01, or .49 to the nearest clean boundary for readability.
It is cosmetic, idempotent, and never used inside the tax math.

# Errors

Operations are pure and either return a value satisfying every invariant or
fail synchronously with an error wrapping one of the exported sentinel
kinds: [ErrInvalidInput], [ErrOverflow], [ErrNegativeResult],
[ErrNegativeFactor], or [ErrInvalidDiscount].
Callers branch on kinds with [errors.Is]; the package never retries or
silently coerces an invalid value.

All types are immutable values and safe for concurrent use by multiple
goroutines without synchronization.

[decimal]: https://pkg.go.dev/github.com/govalues/decimal
[errors.Is]: https://pkg.go.dev/errors#Is
*/
package taxsplit

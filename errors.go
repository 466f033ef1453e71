package taxsplit

import "errors"

// Sentinel error kinds returned by this package.
// Errors returned from operations wrap one of these kinds together with the
// offending operands, so callers can branch with [errors.Is] and still see
// enough context to diagnose the bad input.
//
// [errors.Is]: https://pkg.go.dev/errors#Is
var (
	// ErrInvalidInput indicates a value that is not a non-negative integer
	// within the range declared for its type.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOverflow indicates an intermediate or final value that would exceed
	// the safe integer range.
	ErrOverflow = errors.New("cents overflow")

	// ErrNegativeResult indicates a subtraction or adjustment that would
	// produce a negative monetary amount.
	ErrNegativeResult = errors.New("negative result")

	// ErrNegativeFactor indicates a negative multiplication factor.
	ErrNegativeFactor = errors.New("negative factor")

	// ErrInvalidDiscount indicates a discount amount that would exceed the
	// base it is applied to.
	ErrInvalidDiscount = errors.New("invalid discount")
)

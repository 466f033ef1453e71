package taxsplit

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// MaxBasisPoints is the largest valid rate, 10,000%.
// It is a sanity ceiling for tax and discount rates, not a mathematical limit.
const MaxBasisPoints = BasisPoints(1_000_000)

// BasisPoints represents a non-negative tax or discount rate, where one
// basis point is 0.01% and [BasisPointsScale] basis points are 100%.
// Valid values lie in the range [0, [MaxBasisPoints]].
// BasisPoints is designed to be safe for concurrent use by multiple goroutines.
type BasisPoints int64

// NewBasisPoints returns a rate equal to the given number of basis points.
//
// NewBasisPoints returns an error if the value is negative or greater
// than [MaxBasisPoints].
func NewBasisPoints(bp int64) (BasisPoints, error) {
	r := BasisPoints(bp)
	if err := r.validate(); err != nil {
		return 0, fmt.Errorf("converting basis points %v: %w", bp, err)
	}
	return r, nil
}

// MustNewBasisPoints is like [NewBasisPoints] but panics if the rate cannot
// be constructed.
// It simplifies safe initialization of global variables holding rates.
func MustNewBasisPoints(bp int64) BasisPoints {
	r, err := NewBasisPoints(bp)
	if err != nil {
		panic(fmt.Sprintf("NewBasisPoints(%v) failed: %v", bp, err))
	}
	return r
}

// ParseBasisPoints converts a decimal integer string, representing a count
// of basis points, to a rate.
// Leading and trailing whitespace is ignored.
// See also constructor [ParsePercent].
func ParseBasisPoints(s string) (BasisPoints, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing basis points %q: %w", s, ErrInvalidInput)
	}
	r, err := NewBasisPoints(v)
	if err != nil {
		return 0, fmt.Errorf("parsing basis points %q: %w", s, err)
	}
	return r, nil
}

// MustParseBasisPoints is like [ParseBasisPoints] but panics if the string
// cannot be parsed.
// It simplifies safe initialization of global variables holding rates.
func MustParseBasisPoints(s string) BasisPoints {
	r, err := ParseBasisPoints(s)
	if err != nil {
		panic(fmt.Sprintf("ParseBasisPoints(%q) failed: %v", s, err))
	}
	return r
}

// ParsePercent converts a decimal percentage string, such as "6.5" or
// "6.5%", to a rate.
// Leading and trailing whitespace and a trailing percent sign are ignored.
//
// ParsePercent returns an error if the string is not a valid non-negative
// decimal number, has a resolution finer than one basis point, or is out
// of range.
func ParsePercent(s string) (BasisPoints, error) {
	t := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := decimal.Parse(t)
	if err != nil {
		return 0, fmt.Errorf("parsing percent %q: %w", s, ErrInvalidInput)
	}
	if d.IsNeg() {
		return 0, fmt.Errorf("parsing percent %q: %w", s, ErrInvalidInput)
	}
	if d.MinScale() > 2 {
		return 0, fmt.Errorf("parsing percent %q: finer than one basis point: %w", s, ErrInvalidInput)
	}
	whole, frac, ok := d.Int64(2)
	if !ok || whole > int64(MaxBasisPoints)/CentsScale {
		return 0, fmt.Errorf("parsing percent %q: %w", s, ErrInvalidInput)
	}
	r, err := NewBasisPoints(whole*CentsScale + frac)
	if err != nil {
		return 0, fmt.Errorf("parsing percent %q: %w", s, err)
	}
	return r, nil
}

// MustParsePercent is like [ParsePercent] but panics if the string cannot
// be parsed.
// It simplifies safe initialization of global variables holding rates.
func MustParsePercent(s string) BasisPoints {
	r, err := ParsePercent(s)
	if err != nil {
		panic(fmt.Sprintf("ParsePercent(%q) failed: %v", s, err))
	}
	return r
}

// validate checks the range invariant.
func (r BasisPoints) validate() error {
	if r < 0 {
		return ErrInvalidInput
	}
	if r > MaxBasisPoints {
		return ErrInvalidInput
	}
	return nil
}

// Int64 returns the rate as an integer count of basis points.
func (r BasisPoints) Int64() int64 {
	return int64(r)
}

// Decimal returns the rate as a decimal fraction of the whole,
// e.g. 1300 basis points yield 0.1300.
func (r BasisPoints) Decimal() decimal.Decimal {
	return decimal.MustNew(int64(r), 4)
}

// Percent returns the rate as a decimal percentage with trailing zeros
// removed, e.g. 1300 basis points yield 13 and 650 basis points yield 6.5.
func (r BasisPoints) Percent() decimal.Decimal {
	return decimal.MustNew(int64(r), 2).Trim(0)
}

// IsZero returns:
//
//	true  if r = 0
//	false otherwise
func (r BasisPoints) IsZero() bool {
	return r == 0
}

// String implements the [fmt.Stringer] interface and returns the rate as
// a percentage, e.g. "13%".
// See also method [BasisPoints.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r BasisPoints) String() string {
	return r.Percent().String() + "%"
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example | Description        |
//	| ------ | ------- | ------------------ |
//	| %s, %v | 13%     | Percentage         |
//	| %q     | "13%"   | Quoted percentage  |
//	| %f     | 13      | Percentage number  |
//	| %d     | 1300    | Basis points       |
//
// The '-' format flag and a width can be used with all verbs.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (r BasisPoints) Format(state fmt.State, verb rune) {
	switch verb {
	case 'd', 'D':
		writePadded(state, strconv.FormatInt(int64(r), 10))
	case 'f', 'F':
		writePadded(state, r.Percent().String())
	case 's', 'S', 'v', 'V':
		writePadded(state, r.String())
	case 'q', 'Q':
		writePadded(state, `"`+r.String()+`"`)
	default:
		//nolint:errcheck
		fmt.Fprintf(state, "%%!%c(taxsplit.BasisPoints=%s)", verb, r.String())
	}
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// The payload must be an integer count of basis points, optionally quoted.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (r *BasisPoints) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*r, err = ParseBasisPoints(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", BasisPoints(0), err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns an integer count of basis points.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (r BasisPoints) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(r), 10), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseBasisPoints].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (r *BasisPoints) UnmarshalText(text []byte) error {
	var err error
	*r, err = ParseBasisPoints(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", BasisPoints(0), err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
// AppendText always appends an integer count of basis points.
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (r BasisPoints) AppendText(text []byte) ([]byte, error) {
	return strconv.AppendInt(text, int64(r), 10), nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// MarshalText always returns an integer count of basis points.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (r BasisPoints) MarshalText() ([]byte, error) {
	return r.AppendText(nil)
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (r *BasisPoints) UnmarshalBSONValue(typ byte, data []byte) error {
	// constants are from https://bsonspec.org/spec.html
	if typ == 10 {
		// null, do nothing
		return nil
	}
	v, err := parseBSONInt(typ, data)
	if err == nil {
		*r, err = NewBasisPoints(v)
	}
	if err != nil {
		return fmt.Errorf("converting from BSON type %d to %T: %w", typ, BasisPoints(0), err)
	}
	return nil
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// MarshalBSONValue always returns a 64-bit integer count of basis points.
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (r BasisPoints) MarshalBSONValue() (typ byte, data []byte, err error) {
	return 18, bsonInt64(int64(r)), nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (r *BasisPoints) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case int64:
		*r, err = NewBasisPoints(value)
	case string:
		*r, err = ParseBasisPoints(value)
	case []byte:
		*r, err = ParseBasisPoints(string(value))
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", BasisPoints(0), NullBasisPoints{}, BasisPoints(0))
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, BasisPoints(0), err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (r BasisPoints) Value() (driver.Value, error) {
	return int64(r), nil
}

// NullBasisPoints represents a rate that can be null.
// Its zero value is null.
// NullBasisPoints is not thread-safe.
type NullBasisPoints struct {
	BasisPoints BasisPoints
	Valid       bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [BasisPoints.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullBasisPoints) Scan(value any) error {
	if value == nil {
		n.BasisPoints = 0
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.BasisPoints.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [BasisPoints.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullBasisPoints) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.BasisPoints.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [BasisPoints.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullBasisPoints) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.BasisPoints = 0
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.BasisPoints.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [BasisPoints.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullBasisPoints) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.BasisPoints.MarshalJSON()
}

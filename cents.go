package taxsplit

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// Scale factors and bounds exposed at the package boundary.
const (
	// CentsScale is the number of minor units in one major currency unit.
	CentsScale = 100

	// BasisPointsScale is the number of basis points representing 100%.
	BasisPointsScale = 10_000

	// maxSafeInt is the largest integer exactly representable in a float64.
	maxSafeInt = 1<<53 - 1

	// MaxSafeCents is the largest valid amount.
	// It is chosen so that multiplying any valid amount by any valid rate
	// stays within maxSafeInt.
	MaxSafeCents = Cents(maxSafeInt / BasisPointsScale)
)

// Cents represents a non-negative monetary amount as an integer count of
// minor currency units (e.g. cents, pennies, fens).
// Valid values lie in the range [0, [MaxSafeCents]].
// Cents is designed to be safe for concurrent use by multiple goroutines.
type Cents int64

// NewCents returns an amount equal to the given number of minor units.
//
// NewCents returns an error if the value is negative or greater
// than [MaxSafeCents].
func NewCents(units int64) (Cents, error) {
	c := Cents(units)
	if err := c.validate(); err != nil {
		return 0, fmt.Errorf("converting minor units %v: %w", units, err)
	}
	return c, nil
}

// MustNewCents is like [NewCents] but panics if the amount cannot be constructed.
// It simplifies safe initialization of global variables holding amounts.
func MustNewCents(units int64) Cents {
	c, err := NewCents(units)
	if err != nil {
		panic(fmt.Sprintf("NewCents(%v) failed: %v", units, err))
	}
	return c
}

// ParseCents converts a decimal integer string, representing a count of
// minor units, to an amount.
// Leading and trailing whitespace is ignored.
// See also constructor [ParseUnits] for strings denominated in major units.
func ParseCents(s string) (Cents, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing cents %q: %w", s, ErrInvalidInput)
	}
	c, err := NewCents(v)
	if err != nil {
		return 0, fmt.Errorf("parsing cents %q: %w", s, err)
	}
	return c, nil
}

// MustParseCents is like [ParseCents] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding amounts.
func MustParseCents(s string) Cents {
	c, err := ParseCents(s)
	if err != nil {
		panic(fmt.Sprintf("ParseCents(%q) failed: %v", s, err))
	}
	return c
}

// ParseUnits converts a decimal string denominated in major currency units,
// such as "121.99", to an amount in minor units.
// Leading and trailing whitespace is ignored.
//
// ParseUnits returns an error if the string is not a valid non-negative
// decimal number, carries sub-cent precision, or is out of range.
// See also constructor [ParseCents].
func ParseUnits(s string) (Cents, error) {
	d, err := decimal.ParseExact(strings.TrimSpace(s), 2)
	if err != nil {
		return 0, fmt.Errorf("parsing units %q: %w", s, ErrInvalidInput)
	}
	if d.IsNeg() {
		return 0, fmt.Errorf("parsing units %q: %w", s, ErrInvalidInput)
	}
	if d.MinScale() > 2 {
		return 0, fmt.Errorf("parsing units %q: sub-cent precision: %w", s, ErrInvalidInput)
	}
	whole, frac, ok := d.Int64(2)
	if !ok || whole > math.MaxInt64/CentsScale {
		return 0, fmt.Errorf("parsing units %q: %w", s, ErrOverflow)
	}
	c, err := NewCents(whole*CentsScale + frac)
	if err != nil {
		return 0, fmt.Errorf("parsing units %q: %w", s, err)
	}
	return c, nil
}

// MustParseUnits is like [ParseUnits] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding amounts.
func MustParseUnits(s string) Cents {
	c, err := ParseUnits(s)
	if err != nil {
		panic(fmt.Sprintf("ParseUnits(%q) failed: %v", s, err))
	}
	return c
}

// NewCentsFromFloat64 converts a float, representing a count of minor units,
// to a (possibly rounded) amount.
// The fractional part is rounded using [RoundHalfUp].
//
// NewCentsFromFloat64 returns an error if the float is a special value
// (NaN or Inf), negative, or out of range.
func NewCentsFromFloat64(units float64) (Cents, error) {
	if math.IsNaN(units) || math.IsInf(units, 0) || units < 0 {
		return 0, fmt.Errorf("converting float %v: %w", units, ErrInvalidInput)
	}
	d, err := decimal.NewFromFloat64(units)
	if err != nil {
		return 0, fmt.Errorf("converting float %v: %w", units, ErrInvalidInput)
	}
	d, err = RoundHalfUp(d, 0)
	if err != nil {
		return 0, fmt.Errorf("converting float %v: %w", units, err)
	}
	c, err := centsFromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("converting float %v: %w", units, err)
	}
	return c, nil
}

// centsFromDecimal converts a scale-0 decimal back to an amount.
func centsFromDecimal(d decimal.Decimal) (Cents, error) {
	whole, _, ok := d.Int64(0)
	if !ok {
		return 0, ErrOverflow
	}
	if whole < 0 {
		return 0, ErrNegativeResult
	}
	if whole > int64(MaxSafeCents) {
		return 0, ErrOverflow
	}
	return Cents(whole), nil
}

// validate checks the range invariant.
// Operations call it on every operand, so an invalid value smuggled in by
// a direct conversion still fails with a typed error.
func (c Cents) validate() error {
	if c < 0 {
		return ErrInvalidInput
	}
	if c > MaxSafeCents {
		return ErrInvalidInput
	}
	return nil
}

// MinorUnits returns the amount as an integer count of minor units.
func (c Cents) MinorUnits() int64 {
	return int64(c)
}

// Decimal returns the amount denominated in major currency units as
// a decimal with 2 digits after the decimal point.
// See also method [Cents.Display].
func (c Cents) Decimal() decimal.Decimal {
	return decimal.MustNew(int64(c), 2)
}

// Float64 returns the amount in major currency units as a binary
// floating-point number.
// The conversion is exact for all valid amounts, since [MaxSafeCents] is
// bounded by the float64 safe-integer range.
func (c Cents) Float64() (f float64, ok bool) {
	return c.Decimal().Float64()
}

// Display returns the amount in major currency units with the cosmetic
// display adjustment applied.
// See [AdjustForDisplay] for the snapping rules.
// The adjustment belongs strictly to the rendering boundary; results of
// tax computations are never adjusted.
func (c Cents) Display() (decimal.Decimal, error) {
	d, err := AdjustForDisplay(c.Decimal())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("displaying %v: %w", c, err)
	}
	return d, nil
}

// IsZero returns:
//
//	true  if c = 0
//	false otherwise
func (c Cents) IsZero() bool {
	return c == 0
}

// Add returns the sum of amounts c and b.
//
// Add returns an error if the sum exceeds [MaxSafeCents].
func (c Cents) Add(b Cents) (Cents, error) {
	r, err := c.add(b)
	if err != nil {
		return 0, fmt.Errorf("computing [%v + %v]: %w", c, b, err)
	}
	return r, nil
}

func (c Cents) add(b Cents) (Cents, error) {
	if err := c.validate(); err != nil {
		return 0, err
	}
	if err := b.validate(); err != nil {
		return 0, err
	}
	if b > MaxSafeCents-c {
		return 0, ErrOverflow
	}
	return c + b, nil
}

// Sub returns the difference between amounts c and b.
// Monetary amounts are never negative in this domain, so subtracting
// a larger amount from a smaller one is an error, not a negative result.
//
// Sub returns an error if b is greater than c.
func (c Cents) Sub(b Cents) (Cents, error) {
	r, err := c.sub(b)
	if err != nil {
		return 0, fmt.Errorf("computing [%v - %v]: %w", c, b, err)
	}
	return r, nil
}

func (c Cents) sub(b Cents) (Cents, error) {
	if err := c.validate(); err != nil {
		return 0, err
	}
	if err := b.validate(); err != nil {
		return 0, err
	}
	if b > c {
		return 0, ErrNegativeResult
	}
	return c - b, nil
}

// Mul returns the product of amount c and factor e, rounded to a whole
// number of minor units using [RoundHalfUp].
//
// Mul returns an error if the factor is negative or the product exceeds
// [MaxSafeCents].
func (c Cents) Mul(e decimal.Decimal) (Cents, error) {
	r, err := c.mul(e)
	if err != nil {
		return 0, fmt.Errorf("computing [%v * %v]: %w", c, e, err)
	}
	return r, nil
}

func (c Cents) mul(e decimal.Decimal) (Cents, error) {
	if err := c.validate(); err != nil {
		return 0, err
	}
	if e.IsNeg() {
		return 0, ErrNegativeFactor
	}
	d := decimal.MustNew(int64(c), 0)
	p, err := d.Mul(e)
	if err != nil {
		return 0, ErrOverflow
	}
	p, err = RoundHalfUp(p, 0)
	if err != nil {
		return 0, err
	}
	return centsFromDecimal(p)
}

// String implements the [fmt.Stringer] interface and returns the amount
// denominated in major currency units, e.g. "121.99".
// See also method [Cents.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (c Cents) String() string {
	return c.Decimal().String()
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example  | Description            |
//	| ------ | -------- | ---------------------- |
//	| %s, %v | 121.99   | Major currency units   |
//	| %q     | "121.99" | Quoted major units     |
//	| %f     | 121.99   | Major units, precision-aware |
//	| %d     | 12199    | Minor units            |
//
// The '-' format flag and a width can be used with all verbs.
// Precision is only supported for the %f verb; reducing the precision
// rounds using [RoundHalfUp].
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (c Cents) Format(state fmt.State, verb rune) {
	d := c.Decimal()
	switch verb {
	case 'd', 'D':
		writePadded(state, strconv.FormatInt(int64(c), 10))
	case 'f', 'F':
		if p, ok := state.Precision(); ok {
			switch {
			case p < d.Scale():
				// The scale of d is at most 2, so the primitive cannot fail here.
				d, _ = RoundHalfUp(d, p)
				d = d.Pad(p)
			case p > d.Scale():
				d = d.Pad(p)
			}
		}
		writePadded(state, d.String())
	case 's', 'S', 'v', 'V':
		writePadded(state, d.String())
	case 'q', 'Q':
		writePadded(state, `"`+d.String()+`"`)
	default:
		//nolint:errcheck
		fmt.Fprintf(state, "%%!%c(taxsplit.Cents=%s)", verb, d.String())
	}
}

// writePadded writes s honoring the width and '-' flag of the state.
func writePadded(state fmt.State, s string) {
	lspaces, tspaces := 0, 0
	if w, ok := state.Width(); ok && w > len(s) {
		if state.Flag('-') {
			tspaces = w - len(s)
		} else {
			lspaces = w - len(s)
		}
	}
	//nolint:errcheck
	state.Write([]byte(strings.Repeat(" ", lspaces) + s + strings.Repeat(" ", tspaces)))
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// The payload must be an integer count of minor units, optionally quoted.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (c *Cents) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*c, err = ParseCents(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Cents(0), err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// MarshalJSON always returns an integer count of minor units.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (c Cents) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(c), 10), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseCents].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (c *Cents) UnmarshalText(text []byte) error {
	var err error
	*c, err = ParseCents(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Cents(0), err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
// AppendText always appends an integer count of minor units.
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (c Cents) AppendText(text []byte) ([]byte, error) {
	return strconv.AppendInt(text, int64(c), 10), nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// MarshalText always returns an integer count of minor units.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (c Cents) MarshalText() ([]byte, error) {
	return c.AppendText(nil)
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
// See also constructor [ParseCents].
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (c *Cents) UnmarshalBinary(data []byte) error {
	return c.UnmarshalText(data)
}

// AppendBinary implements the [encoding.BinaryAppender] interface.
// AppendBinary always appends an integer count of minor units.
//
// [encoding.BinaryAppender]: https://pkg.go.dev/encoding#BinaryAppender
func (c Cents) AppendBinary(data []byte) ([]byte, error) {
	return c.AppendText(data)
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
// MarshalBinary always returns an integer count of minor units.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (c Cents) MarshalBinary() ([]byte, error) {
	return c.AppendText(nil)
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (c *Cents) UnmarshalBSONValue(typ byte, data []byte) error {
	// constants are from https://bsonspec.org/spec.html
	if typ == 10 {
		// null, do nothing
		return nil
	}
	v, err := parseBSONInt(typ, data)
	if err == nil {
		*c, err = NewCents(v)
	}
	if err != nil {
		return fmt.Errorf("converting from BSON type %d to %T: %w", typ, Cents(0), err)
	}
	return nil
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// MarshalBSONValue always returns a 64-bit integer count of minor units.
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (c Cents) MarshalBSONValue() (typ byte, data []byte, err error) {
	return 18, bsonInt64(int64(c)), nil
}

// parseBSONInt parses a BSON int32 or int64 value.
// The byte order of the input data must be little-endian.
func parseBSONInt(typ byte, data []byte) (int64, error) {
	switch typ {
	case 16:
		if len(data) < 4 {
			return 0, fmt.Errorf("invalid data length %v: %w", len(data), ErrInvalidInput)
		}
		u := uint32(data[0])
		u |= uint32(data[1]) << 8
		u |= uint32(data[2]) << 16
		u |= uint32(data[3]) << 24
		return int64(int32(u)), nil
	case 18:
		if len(data) < 8 {
			return 0, fmt.Errorf("invalid data length %v: %w", len(data), ErrInvalidInput)
		}
		var u uint64
		for i := 0; i < 8; i++ {
			u |= uint64(data[i]) << (8 * i)
		}
		return int64(u), nil
	default:
		return 0, fmt.Errorf("BSON type %d is not supported", typ)
	}
}

// bsonInt64 returns the BSON representation of a 64-bit integer.
// The byte order of the result is little-endian.
func bsonInt64(v int64) []byte {
	data := make([]byte, 8)
	u := uint64(v)
	for i := 0; i < 8; i++ {
		data[i] = byte(u >> (8 * i))
	}
	return data
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (c *Cents) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case int64:
		*c, err = NewCents(value)
	case string:
		*c, err = ParseCents(value)
	case []byte:
		*c, err = ParseCents(string(value))
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Cents(0), NullCents{}, Cents(0))
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, Cents(0), err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}

// NullCents represents an amount that can be null.
// Its zero value is null.
// NullCents is not thread-safe.
type NullCents struct {
	Cents Cents
	Valid bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Cents.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullCents) Scan(value any) error {
	if value == nil {
		n.Cents = 0
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Cents.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [Cents.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullCents) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Cents.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Cents.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullCents) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Cents = 0
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Cents.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Cents.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullCents) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Cents.MarshalJSON()
}

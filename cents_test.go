package taxsplit

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/govalues/decimal"
)

func TestCents_Interfaces(t *testing.T) {
	var i any = Cents(0)
	_, ok := i.(fmt.Stringer)
	if !ok {
		t.Errorf("%T does not implement fmt.Stringer", i)
	}
	_, ok = i.(fmt.Formatter)
	if !ok {
		t.Errorf("%T does not implement fmt.Formatter", i)
	}
}

func TestNewCents(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []int64{0, 1, 100, 12_199, int64(MaxSafeCents)}
		for _, tt := range tests {
			got, err := NewCents(tt)
			if err != nil {
				t.Errorf("NewCents(%v) failed: %v", tt, err)
				continue
			}
			if got.MinorUnits() != tt {
				t.Errorf("NewCents(%v) = %v, want %v", tt, got.MinorUnits(), tt)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []int64{-1, math.MinInt64, int64(MaxSafeCents) + 1, math.MaxInt64}
		for _, tt := range tests {
			_, err := NewCents(tt)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("NewCents(%v) = %v, want %v", tt, err, ErrInvalidInput)
			}
		}
	})
}

func TestMustNewCents(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustNewCents(-1) did not panic")
			}
		}()
		MustNewCents(-1)
	})
}

func TestParseCents(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			want Cents
		}{
			{"0", 0},
			{"12199", 12_199},
			{" 123 ", 123},
			{"900719925474", MaxSafeCents},
		}
		for _, tt := range tests {
			got, err := ParseCents(tt.s)
			if err != nil {
				t.Errorf("ParseCents(%q) failed: %v", tt.s, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseCents(%q) = %v, want %v", tt.s, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []string{"", "abc", "-5", "12.5", "1e3", "900719925475"}
		for _, tt := range tests {
			_, err := ParseCents(tt)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseCents(%q) = %v, want %v", tt, err, ErrInvalidInput)
			}
		}
	})
}

func TestParseUnits(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			want Cents
		}{
			{"0", 0},
			{"121.99", 12_199},
			{"1.2", 120},
			{" 1 ", 100},
			{"0.01", 1},
			{"0.50", 50},
		}
		for _, tt := range tests {
			got, err := ParseUnits(tt.s)
			if err != nil {
				t.Errorf("ParseUnits(%q) failed: %v", tt.s, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseUnits(%q) = %v, want %v", tt.s, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]string{
			"empty":        "",
			"letters":      "abc",
			"negative":     "-1.00",
			"sub-cent":     "121.995",
			"out of range": "9007199254.75",
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := ParseUnits(tt)
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseUnits(%q) = %v, want %v", tt, err, ErrInvalidInput)
				}
			})
		}
	})
}

func TestNewCentsFromFloat64(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			f    float64
			want Cents
		}{
			{0, 0},
			{12199, 12_199},
			{0.5, 1},  // tie rounds up
			{1.5, 2},  // tie rounds up
			{2.4, 2},
			{2.6, 3},
		}
		for _, tt := range tests {
			got, err := NewCentsFromFloat64(tt.f)
			if err != nil {
				t.Errorf("NewCentsFromFloat64(%v) failed: %v", tt.f, err)
				continue
			}
			if got != tt.want {
				t.Errorf("NewCentsFromFloat64(%v) = %v, want %v", tt.f, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1, -0.4}
		for _, tt := range tests {
			_, err := NewCentsFromFloat64(tt)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("NewCentsFromFloat64(%v) = %v, want %v", tt, err, ErrInvalidInput)
			}
		}
	})
}

func TestCents_Add(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			c, b, want Cents
		}{
			{0, 0, 0},
			{1, 2, 3},
			{12_199, 1, 12_200},
			{MaxSafeCents - 1, 1, MaxSafeCents},
		}
		for _, tt := range tests {
			got, err := tt.c.Add(tt.b)
			if err != nil {
				t.Errorf("%v.Add(%v) failed: %v", tt.c, tt.b, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%v.Add(%v) = %v, want %v", tt.c, tt.b, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			c, b Cents
			want error
		}{
			"overflow 1":      {MaxSafeCents, 1, ErrOverflow},
			"overflow 2":      {MaxSafeCents, MaxSafeCents, ErrOverflow},
			"invalid operand": {-1, 1, ErrInvalidInput},
			"invalid addend":  {1, -1, ErrInvalidInput},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := tt.c.Add(tt.b)
				if !errors.Is(err, tt.want) {
					t.Errorf("%v.Add(%v) = %v, want %v", tt.c, tt.b, err, tt.want)
				}
			})
		}
	})
}

func TestCents_Sub(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			c, b, want Cents
		}{
			{0, 0, 0},
			{5, 2, 3},
			{12_200, 1403, 10_797},
			{MaxSafeCents, MaxSafeCents, 0},
		}
		for _, tt := range tests {
			got, err := tt.c.Sub(tt.b)
			if err != nil {
				t.Errorf("%v.Sub(%v) failed: %v", tt.c, tt.b, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%v.Sub(%v) = %v, want %v", tt.c, tt.b, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			c, b Cents
			want error
		}{
			"negative result":  {2, 5, ErrNegativeResult},
			"negative result 2": {0, 1, ErrNegativeResult},
			"invalid operand":  {-1, 1, ErrInvalidInput},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := tt.c.Sub(tt.b)
				if !errors.Is(err, tt.want) {
					t.Errorf("%v.Sub(%v) = %v, want %v", tt.c, tt.b, err, tt.want)
				}
			})
		}
	})
}

func TestCents_Mul(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			c    Cents
			e    string
			want Cents
		}{
			{100, "0.13", 13},
			{150, "0.5", 75},
			{25, "0.1", 3},  // 2.5 is a tie, rounds up
			{35, "0.1", 4},  // 3.5 is a tie, rounds up
			{12_199, "1", 12_199},
			{12_199, "0", 0},
			{0, "123.45", 0},
		}
		for _, tt := range tests {
			got, err := tt.c.Mul(decimal.MustParse(tt.e))
			if err != nil {
				t.Errorf("%v.Mul(%q) failed: %v", tt.c, tt.e, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%v.Mul(%q) = %v, want %v", tt.c, tt.e, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			c    Cents
			e    string
			want error
		}{
			"negative factor": {100, "-0.5", ErrNegativeFactor},
			"overflow":        {MaxSafeCents, "2", ErrOverflow},
			"invalid operand": {-1, "0.5", ErrInvalidInput},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := tt.c.Mul(decimal.MustParse(tt.e))
				if !errors.Is(err, tt.want) {
					t.Errorf("%v.Mul(%q) = %v, want %v", tt.c, tt.e, err, tt.want)
				}
			})
		}
	})
}

func TestCents_Decimal(t *testing.T) {
	tests := []struct {
		c    Cents
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{12_199, "121.99"},
		{MaxSafeCents, "9007199254.74"},
	}
	for _, tt := range tests {
		got := tt.c.Decimal()
		if got.String() != tt.want {
			t.Errorf("Cents(%d).Decimal() = %q, want %q", int64(tt.c), got, tt.want)
		}
	}
}

func TestCents_Display(t *testing.T) {
	tests := []struct {
		c    Cents
		want string
	}{
		{12_199, "122.00"},
		{12_201, "122.00"},
		{5649, "56.50"},
		{12_345, "123.45"},
		{99, "0.99"},
	}
	for _, tt := range tests {
		got, err := tt.c.Display()
		if err != nil {
			t.Errorf("Cents(%d).Display() failed: %v", int64(tt.c), err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("Cents(%d).Display() = %q, want %q", int64(tt.c), got, tt.want)
		}
	}
}

func TestCents_Float64(t *testing.T) {
	tests := []struct {
		c    Cents
		want float64
	}{
		{0, 0},
		{12_199, 121.99},
		{50, 0.5},
	}
	for _, tt := range tests {
		got, ok := tt.c.Float64()
		if !ok {
			t.Errorf("Cents(%d).Float64() failed", int64(tt.c))
			continue
		}
		if got != tt.want {
			t.Errorf("Cents(%d).Float64() = %v, want %v", int64(tt.c), got, tt.want)
		}
	}
}

func TestCents_Format(t *testing.T) {
	tests := []struct {
		format string
		c      Cents
		want   string
	}{
		{"%v", 12_199, "121.99"},
		{"%s", 12_199, "121.99"},
		{"%q", 12_199, `"121.99"`},
		{"%f", 12_199, "121.99"},
		{"%.1f", 12_199, "122.0"},
		{"%.4f", 12_199, "121.9900"},
		{"%d", 12_199, "12199"},
		{"%9s", 12_199, "   121.99"},
		{"%-9d", 12_199, "12199    "},
		{"%v", 0, "0.00"},
		{"%x", 12_199, "%!x(taxsplit.Cents=121.99)"},
	}
	for _, tt := range tests {
		got := fmt.Sprintf(tt.format, tt.c)
		if got != tt.want {
			t.Errorf("fmt.Sprintf(%q, Cents(%d)) = %q, want %q", tt.format, int64(tt.c), got, tt.want)
		}
	}
}

func TestCents_JSON(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		tests := []Cents{0, 1, 12_199, MaxSafeCents}
		for _, tt := range tests {
			data, err := json.Marshal(tt)
			if err != nil {
				t.Errorf("json.Marshal(%v) failed: %v", tt, err)
				continue
			}
			var got Cents
			if err := json.Unmarshal(data, &got); err != nil {
				t.Errorf("json.Unmarshal(%q) failed: %v", data, err)
				continue
			}
			if got != tt {
				t.Errorf("json.Unmarshal(%q) = %v, want %v", data, got, tt)
			}
		}
	})

	t.Run("quoted", func(t *testing.T) {
		var got Cents
		if err := json.Unmarshal([]byte(`"12199"`), &got); err != nil {
			t.Fatalf("json.Unmarshal(`\"12199\"`) failed: %v", err)
		}
		if got != 12_199 {
			t.Errorf("json.Unmarshal(`\"12199\"`) = %v, want %v", got, Cents(12_199))
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []string{`-1`, `"abc"`, `12.5`}
		for _, tt := range tests {
			var got Cents
			if err := json.Unmarshal([]byte(tt), &got); err == nil {
				t.Errorf("json.Unmarshal(%q) did not fail", tt)
			}
		}
	})
}

func TestCents_Text(t *testing.T) {
	tests := []Cents{0, 12_199, MaxSafeCents}
	for _, tt := range tests {
		data, err := tt.MarshalText()
		if err != nil {
			t.Errorf("%v.MarshalText() failed: %v", tt, err)
			continue
		}
		var got Cents
		if err := got.UnmarshalText(data); err != nil {
			t.Errorf("UnmarshalText(%q) failed: %v", data, err)
			continue
		}
		if got != tt {
			t.Errorf("UnmarshalText(%q) = %v, want %v", data, got, tt)
		}
	}
}

func TestCents_Binary(t *testing.T) {
	tests := []Cents{0, 12_199, MaxSafeCents}
	for _, tt := range tests {
		data, err := tt.MarshalBinary()
		if err != nil {
			t.Errorf("%v.MarshalBinary() failed: %v", tt, err)
			continue
		}
		var got Cents
		if err := got.UnmarshalBinary(data); err != nil {
			t.Errorf("UnmarshalBinary(%q) failed: %v", data, err)
			continue
		}
		if got != tt {
			t.Errorf("UnmarshalBinary(%q) = %v, want %v", data, got, tt)
		}
	}
}

func TestCents_BSON(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		tests := []Cents{0, 12_199, MaxSafeCents}
		for _, tt := range tests {
			typ, data, err := tt.MarshalBSONValue()
			if err != nil {
				t.Errorf("%v.MarshalBSONValue() failed: %v", tt, err)
				continue
			}
			var got Cents
			if err := got.UnmarshalBSONValue(typ, data); err != nil {
				t.Errorf("UnmarshalBSONValue(%d, % x) failed: %v", typ, data, err)
				continue
			}
			if got != tt {
				t.Errorf("UnmarshalBSONValue(%d, % x) = %v, want %v", typ, data, got, tt)
			}
		}
	})

	t.Run("int32", func(t *testing.T) {
		var got Cents
		if err := got.UnmarshalBSONValue(16, []byte{0xA7, 0x2F, 0, 0}); err != nil {
			t.Fatalf("UnmarshalBSONValue(16, ...) failed: %v", err)
		}
		if got != 12_199 {
			t.Errorf("UnmarshalBSONValue(16, ...) = %v, want %v", got, Cents(12_199))
		}
	})

	t.Run("null", func(t *testing.T) {
		got := Cents(5)
		if err := got.UnmarshalBSONValue(10, nil); err != nil {
			t.Fatalf("UnmarshalBSONValue(10, nil) failed: %v", err)
		}
		if got != 5 {
			t.Errorf("UnmarshalBSONValue(10, nil) = %v, want %v", got, Cents(5))
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			typ  byte
			data []byte
		}{
			"unsupported type": {2, []byte{1, 0, 0, 0, 0}},
			"short int32":      {16, []byte{1}},
			"short int64":      {18, []byte{1}},
			"negative":         {18, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				var got Cents
				if err := got.UnmarshalBSONValue(tt.typ, tt.data); err == nil {
					t.Errorf("UnmarshalBSONValue(%d, % x) did not fail", tt.typ, tt.data)
				}
			})
		}
	})
}

func TestCents_Scan(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			value any
			want  Cents
		}{
			{int64(12_199), Cents(12_199)},
			{"12199", Cents(12_199)},
			{[]byte("12199"), Cents(12_199)},
		}
		for _, tt := range tests {
			var got Cents
			if err := got.Scan(tt.value); err != nil {
				t.Errorf("Scan(%v) failed: %v", tt.value, err)
				continue
			}
			if got != tt.want {
				t.Errorf("Scan(%v) = %v, want %v", tt.value, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []any{nil, int64(-1), "abc", float64(1.5), true}
		for _, tt := range tests {
			var got Cents
			if err := got.Scan(tt); err == nil {
				t.Errorf("Scan(%v) did not fail", tt)
			}
		}
	})
}

func TestCents_Value(t *testing.T) {
	got, err := Cents(12_199).Value()
	if err != nil {
		t.Fatalf("Cents(12199).Value() failed: %v", err)
	}
	if got != int64(12_199) {
		t.Errorf("Cents(12199).Value() = %v, want %v", got, int64(12_199))
	}
}

func TestNullCents(t *testing.T) {
	t.Run("scan null", func(t *testing.T) {
		n := NullCents{Cents: 5, Valid: true}
		if err := n.Scan(nil); err != nil {
			t.Fatalf("Scan(nil) failed: %v", err)
		}
		if n.Valid || n.Cents != 0 {
			t.Errorf("Scan(nil) = %+v, want zero and invalid", n)
		}
	})

	t.Run("scan value", func(t *testing.T) {
		var n NullCents
		if err := n.Scan(int64(12_199)); err != nil {
			t.Fatalf("Scan(12199) failed: %v", err)
		}
		if !n.Valid || n.Cents != 12_199 {
			t.Errorf("Scan(12199) = %+v, want valid 12199", n)
		}
	})

	t.Run("json", func(t *testing.T) {
		var n NullCents
		if err := json.Unmarshal([]byte("null"), &n); err != nil {
			t.Fatalf("json.Unmarshal(null) failed: %v", err)
		}
		if n.Valid {
			t.Errorf("json.Unmarshal(null) = %+v, want invalid", n)
		}
		data, err := json.Marshal(n)
		if err != nil {
			t.Fatalf("json.Marshal(%+v) failed: %v", n, err)
		}
		if string(data) != "null" {
			t.Errorf("json.Marshal(%+v) = %q, want null", n, data)
		}
	})
}

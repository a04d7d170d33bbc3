// Package money provides the exact decimal value type used for every monetary
// amount, quantity and rate in the finance core.
//
// Decimal wraps github.com/shopspring/decimal and never converts implicitly to a
// binary float. Intermediate arithmetic keeps full precision (at least
// WorkingScale fractional digits); values are rounded to PresentationScale only
// when they are formatted for storage or display.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// WorkingScale is the minimum number of fractional digits carried by
	// intermediate results such as divisions.
	WorkingScale int32 = 4
	// PresentationScale is the number of fractional digits used when amounts
	// are persisted or displayed.
	PresentationScale int32 = 2
)

var (
	// ErrArithmetic is the parent of every arithmetic failure.
	ErrArithmetic = errors.New("arithmetic error")
	// ErrDivisionByZero is returned by Div when the divisor is zero.
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrArithmetic)
	// ErrInvalidDecimalLiteral is returned when input is not a canonical decimal literal.
	ErrInvalidDecimalLiteral = fmt.Errorf("%w: invalid decimal literal", ErrArithmetic)
)

// canonicalLiteral accepts an optional leading minus, digits, and an optional
// fractional part. Scientific notation, a leading '+', whitespace and bare
// separators ("1.", ".5") are rejected.
var canonicalLiteral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// LiteralError reports the offending input of a failed Parse.
type LiteralError struct {
	Input string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidDecimalLiteral.Error(), e.Input)
}

func (e *LiteralError) Unwrap() error {
	return ErrInvalidDecimalLiteral
}

// Decimal is an immutable exact base-10 number. The zero value is 0.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the decimal 0.
var Zero = Decimal{}

// Parse converts a canonical decimal literal such as "15.00" or "-3.5".
func Parse(s string) (Decimal, error) {
	if !canonicalLiteral.MatchString(s) {
		return Zero, &LiteralError{Input: s}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, &LiteralError{Input: s}
	}
	return Decimal{d: d}, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewFromInt returns the decimal value of i.
func NewFromInt(i int64) Decimal {
	return Decimal{d: decimal.NewFromInt(i)}
}

// FromFloat64 converts a binary float. This is lossy: a float64 holds only 15 to
// 17 significant decimal digits, so values like 0.1 are first approximated in
// binary and then recovered as the shortest decimal that round-trips to the
// same float. Use it only at system boundaries that hand over native numbers.
func FromFloat64(f float64) Decimal {
	return Decimal{d: decimal.NewFromFloat(f)}
}

// Float64 converts to a binary float. This is lossy for any value that has
// more significant digits than a float64 can represent; exact reports whether
// the conversion kept the value.
func (d Decimal) Float64() (f float64, exact bool) {
	return d.d.Float64()
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) Decimal {
	return Decimal{d: d.d.Add(o.d)}
}

// Sub returns d - o.
func (d Decimal) Sub(o Decimal) Decimal {
	return Decimal{d: d.d.Sub(o.d)}
}

// Mul returns d * o. The product is exact.
func (d Decimal) Mul(o Decimal) Decimal {
	return Decimal{d: d.d.Mul(o.d)}
}

// Div returns d / o rounded half away from zero to scale fractional digits.
// A scale below WorkingScale is raised to WorkingScale.
func (d Decimal) Div(o Decimal, scale int32) (Decimal, error) {
	if o.d.IsZero() {
		return Zero, ErrDivisionByZero
	}
	if scale < WorkingScale {
		scale = WorkingScale
	}
	return Decimal{d: d.d.DivRound(o.d, scale)}, nil
}

// Percentage returns base * rate / 100. Dividing by 100 is a decimal shift, so
// the result is never rounded here.
func Percentage(base, rate Decimal) Decimal {
	return Decimal{d: base.d.Mul(rate.d).Shift(-2)}
}

// Cmp returns -1, 0 or 1 when d is less than, equal to or greater than o.
func (d Decimal) Cmp(o Decimal) int {
	return d.d.Cmp(o.d)
}

// Equal reports numeric equality; "1.50" equals "1.5".
func (d Decimal) Equal(o Decimal) bool {
	return d.d.Equal(o.d)
}

// LessThan reports d < o.
func (d Decimal) LessThan(o Decimal) bool {
	return d.d.LessThan(o.d)
}

// GreaterThan reports d > o.
func (d Decimal) GreaterThan(o Decimal) bool {
	return d.d.GreaterThan(o.d)
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	return Decimal{d: d.d.Abs()}
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return Decimal{d: d.d.Neg()}
}

// IsZero reports d == 0.
func (d Decimal) IsZero() bool { return d.d.IsZero() }

// IsPositive reports d > 0.
func (d Decimal) IsPositive() bool { return d.d.IsPositive() }

// IsNegative reports d < 0.
func (d Decimal) IsNegative() bool { return d.d.IsNegative() }

// Scale returns the number of significant fractional digits, ignoring
// trailing zeros: "10.50" has scale 1 and "0.125" has scale 3.
func (d Decimal) Scale() int32 {
	_, frac, _ := strings.Cut(d.d.String(), ".")
	return int32(len(frac))
}

// Round rounds half away from zero to scale fractional digits.
func (d Decimal) Round(scale int32) Decimal {
	return Decimal{d: d.d.Round(scale)}
}

// Format renders d with exactly scale fractional digits, rounding half away
// from zero, using the given separators. Formatting never depends on locale.
func (d Decimal) Format(scale int32, decimalSep, thousandsSep string) string {
	if scale < 0 {
		scale = 0
	}
	fixed := d.d.StringFixed(scale)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	if thousandsSep != "" && len(intPart) > 3 {
		var b strings.Builder
		head := len(intPart) % 3
		if head > 0 {
			b.WriteString(intPart[:head])
		}
		for i := head; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteString(thousandsSep)
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	if fracPart == "" {
		return sign + intPart
	}
	return sign + intPart + decimalSep + fracPart
}

// StringFixed is Format(scale, ".", "").
func (d Decimal) StringFixed(scale int32) string {
	return d.Format(scale, ".", "")
}

// String renders the presentation form, e.g. "35.00".
func (d Decimal) String() string {
	return d.StringFixed(PresentationScale)
}

// Exact renders the full-precision value without rounding.
func (d Decimal) Exact() string {
	return d.d.String()
}

// Precise renders d with at least minScale fractional digits. Unlike Format it
// never rounds: "19.999" stays "19.999" while "10" becomes "10.00" for a
// minScale of 2.
func (d Decimal) Precise(minScale int32) string {
	if d.Scale() <= minScale {
		return d.StringFixed(minScale)
	}
	return d.Exact()
}

// MarshalJSON emits the presentation form as a JSON string. Types holding
// quantities or rates marshal those fields with Precise instead.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a canonical decimal literal in a JSON string. A bare
// JSON number is accepted only through the lossy FromFloat64 path.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if len(s) < 2 || !strings.HasSuffix(s, `"`) {
			return &LiteralError{Input: s}
		}
		parsed, err := Parse(s[1 : len(s)-1])
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	raw, err := decimal.NewFromString(s)
	if err != nil {
		return &LiteralError{Input: s}
	}
	f, _ := raw.Float64()
	*d = FromFloat64(f)
	return nil
}

// Value implements driver.Valuer with the full-precision value.
func (d Decimal) Value() (driver.Value, error) {
	return d.d.Value()
}

// Scan implements sql.Scanner for NUMERIC columns.
func (d *Decimal) Scan(value interface{}) error {
	return d.d.Scan(value)
}

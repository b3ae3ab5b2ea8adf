package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor units (cents).
type Amount int64

const scale = 2

// ErrOutOfRange is returned when a value does not fit in an Amount.
var ErrOutOfRange = errors.New("amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// FromDecimal converts a decimal value into minor units.
// Values with more than two fractional digits are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Round(scale)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", d, scale)
	}

	return fromMinor(d.Mul(hundred))
}

// fromMinor narrows a whole number of minor units to an Amount. IntPart keeps only the
// low 64 bits, so the range is checked first.
func fromMinor(d decimal.Decimal) (Amount, error) {
	if d.LessThan(minMinor) || d.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%s minor units: %w", d, ErrOutOfRange)
	}

	return Amount(d.IntPart()), nil
}

// Parse reads a plain decimal string such as "1234.56" or "-10".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return FromDecimal(d)
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -scale)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(scale)
}

// Mul multiplies a unit amount by a quantity, failing with ErrOutOfRange on overflow.
func (a Amount) Mul(qty int) (Amount, error) {
	return fromMinor(decimal.NewFromInt(int64(a)).Mul(decimal.NewFromInt(int64(qty))))
}

// Add sums two amounts, failing with ErrOutOfRange on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	return fromMinor(decimal.NewFromInt(int64(a)).Add(decimal.NewFromInt(int64(b))))
}

// MarshalJSON writes the amount as a plain JSON number in major units, e.g. 12.50.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string in major units.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("parsing amount: %w", err)
	}

	v, err := FromDecimal(d)
	if err != nil {
		return err
	}

	*a = v

	return nil
}

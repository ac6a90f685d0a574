package models

import (
	"database/sql/driver"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every price and quantity.
const MoneyScale = 2

// Money is a fixed-point amount with exactly two fractional digits. Values are
// rounded half away from zero on the way in and serialised as plain JSON numbers.
type Money struct {
	decimal.Decimal
}

// NewMoney normalises d to two decimals.
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(MoneyScale)}
}

func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d), nil
}

// MustMoney panics on malformed input. Intended for constants and tests.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyPtr is a convenience for optional line item fields.
func MoneyPtr(s string) *Money {
	m := MustMoney(s)
	return &m
}

func (m Money) String() string {
	return m.StringFixed(MoneyScale)
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(MoneyScale)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.StringFixed(MoneyScale), nil
}

func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

// EqualMoney compares two optional amounts; two nils are equal.
func EqualMoney(a, b *Money) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// MoneyInput is the lenient request-side form of an optional amount. It accepts
// JSON numbers and numeric strings. null and "" leave it unset, and anything
// else is flagged as invalid instead of failing the whole decode so the caller
// can report it as a field error.
type MoneyInput struct {
	Value   decimal.Decimal
	Present bool
	Invalid bool
}

// AmountInput builds a present input from a literal, mostly for tests.
func AmountInput(s string) MoneyInput {
	return MoneyInput{Value: decimal.RequireFromString(s), Present: true}
}

func (in *MoneyInput) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*in = MoneyInput{}
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if raw == "" {
		*in = MoneyInput{}
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		*in = MoneyInput{Invalid: true}
		return nil
	}
	*in = MoneyInput{Value: d, Present: true}
	return nil
}

func (in MoneyInput) MarshalJSON() ([]byte, error) {
	if !in.Present || in.Invalid {
		return []byte("null"), nil
	}
	return NewMoney(in.Value).MarshalJSON()
}

// Money returns the normalised amount, or nil when the input was absent or invalid.
func (in MoneyInput) Money() *Money {
	if !in.Present || in.Invalid {
		return nil
	}
	m := NewMoney(in.Value)
	return &m
}

// InputFromMoney converts a stored amount back into request form.
func InputFromMoney(m *Money) MoneyInput {
	if m == nil {
		return MoneyInput{}
	}
	return MoneyInput{Value: m.Decimal, Present: true}
}

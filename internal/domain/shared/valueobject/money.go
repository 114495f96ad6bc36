package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

// PEN is the Peruvian Sol, the currency every amount in the system is
// denominated in. There is no currency conversion; amounts in other
// currencies must be converted before they enter the system.
const PEN Currency = "PEN"

// MoneyScale is the fixed decimal scale used for monetary amounts
const MoneyScale = 2

// Money is a value object representing monetary amounts.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoneyPEN creates Money in the system currency
func NewMoneyPEN(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: PEN}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// SplitBy divides the amount into count equal parts, each rounded half-up to
// the money scale. The rounding remainder is not redistributed; callers that
// need exact totals must supply per-part amounts instead.
func (m Money) SplitBy(count int) (Money, error) {
	if count < 1 {
		return Money{}, errors.New("count must be at least 1")
	}
	part := m.amount.Div(decimal.NewFromInt(int64(count))).Round(MoneyScale)
	return Money{amount: part, currency: m.currency}, nil
}

// Round returns a new Money rounded half-up to the money scale
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(MoneyScale), currency: m.currency}
}

// String returns a human-readable representation
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(MoneyScale), m.currency)
}

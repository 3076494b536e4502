// Package moneypkg converts between user supplied text and exact money amounts.
package moneypkg

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// DefaultCurrency is assumed when the input carries no currency token.
const DefaultCurrency = "TWD"

// Money holds an exact decimal amount in a single currency.
type Money struct {
	Currency string
	Amount   decimal.Decimal
}

// New returns Money for the given currency code and amount.
func New(currency string, amount decimal.Decimal) Money {
	return Money{Currency: currency, Amount: amount}
}

// Equal reports whether m and other have the same currency and numeric value.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String renders m as "CODE AMOUNT" keeping the amount's declared scale.
func (m Money) String() string {
	return m.Currency + " " + renderAmount(m.Amount)
}

// MarshalJSON encodes m as its formatted string, e.g. "TWD 125.00".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON string through the codec grammar.
func (m *Money) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)

	parsed, err := NewCodec(language.Und).Parse(text)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// MalformedAmountError indicates that text matches neither the bare decimal
// nor the "CODE AMOUNT" grammar.
type MalformedAmountError struct {
	Text   string
	Offset int
}

func (e *MalformedAmountError) Error() string {
	return fmt.Sprintf("cannot parse %q as money at offset %d", e.Text, e.Offset)
}

// Codec converts between text and Money.
//
// The locale is part of the contract for symmetry with formatting;
// the grammar itself is locale independent.
type Codec struct {
	locale language.Tag
}

// NewCodec returns a Codec for the given locale.
func NewCodec(locale language.Tag) Codec {
	return Codec{locale: locale}
}

// Parse converts text to Money.
//
// A bare decimal gets the default currency. A "CODE AMOUNT" pair keeps the
// code as given, without checking it against ISO 4217. Anything else,
// including the empty string, fails with *MalformedAmountError.
func (c Codec) Parse(text string) (Money, error) {
	if isDecimalText(text) {
		amount, err := decimal.NewFromString(text)
		if err == nil {
			return Money{Currency: DefaultCurrency, Amount: amount}, nil
		}
	} else if text != "" {
		tokens := strings.Fields(text)

		if len(tokens) == 2 && isDecimalText(tokens[1]) {
			amount, err := decimal.NewFromString(tokens[1])
			if err == nil {
				return Money{Currency: tokens[0], Amount: amount}, nil
			}
		}
	}

	return Money{}, &MalformedAmountError{Text: text}
}

// Format renders m as "CODE AMOUNT". It never fails.
func (c Codec) Format(m Money) string {
	return m.String()
}

func renderAmount(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}

	return d.String()
}

// decimalText is stricter than decimal.NewFromString, which also admits
// exponents and a leading point.
var decimalText = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

func isDecimalText(s string) bool {
	return decimalText.MatchString(s)
}

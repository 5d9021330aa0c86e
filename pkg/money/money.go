// Package money holds the currency and rounding rules shared by every
// amount the lending core produces.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidCurrency is returned for a malformed currency code.
var ErrInvalidCurrency = errors.New("invalid currency code")

// MinorUnits is the number of decimal places every amount is settled in.
const MinorUnits int32 = 2

// Currency is an ISO 4217 alphabetic code.
type Currency struct {
	code string
}

// NewCurrency accepts exactly three uppercase ASCII letters.
func NewCurrency(code string) (Currency, error) {
	if len(code) != 3 {
		return Currency{}, fmt.Errorf("%w %q: must be exactly 3 uppercase letters", ErrInvalidCurrency, code)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return Currency{}, fmt.Errorf("%w %q: must be exactly 3 uppercase letters", ErrInvalidCurrency, code)
		}
	}
	return Currency{code: code}, nil
}

// MustCurrency is NewCurrency for package-level values; it panics on error.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Currency) Code() string   { return c.code }
func (c Currency) String() string { return c.code }
func (c Currency) IsZero() bool   { return c.code == "" }

// Currencies the microloan book is commonly denominated in.
var (
	KES = MustCurrency("KES")
	UGX = MustCurrency("UGX")
	TZS = MustCurrency("TZS")
	NGN = MustCurrency("NGN")
	GHS = MustCurrency("GHS")
	USD = MustCurrency("USD")
)

// Round rounds d to the settlement precision, half away from zero. For the
// non-negative amounts a schedule produces this is plain half-up rounding.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnits)
}

// Format renders d in settlement precision followed by the currency code,
// for example "17156.14 KES".
func Format(d decimal.Decimal, c Currency) string {
	if c.IsZero() {
		return d.StringFixed(MinorUnits)
	}
	return d.StringFixed(MinorUnits) + " " + c.code
}

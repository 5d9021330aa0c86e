package valueobject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPaymentMethod is returned for an unrecognised payment channel.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// PaymentMethod is the channel a farmer used to settle an installment.
// The zero value means the channel was not reported.
type PaymentMethod struct {
	value string
}

const (
	paymentMethodMobileMoney  = "MOBILE_MONEY"
	paymentMethodBankTransfer = "BANK_TRANSFER"
	paymentMethodCash         = "CASH"
	paymentMethodCard         = "CARD"
)

var (
	PaymentMethodMobileMoney  = PaymentMethod{value: paymentMethodMobileMoney}
	PaymentMethodBankTransfer = PaymentMethod{value: paymentMethodBankTransfer}
	PaymentMethodCash         = PaymentMethod{value: paymentMethodCash}
	PaymentMethodCard         = PaymentMethod{value: paymentMethodCard}
)

var validPaymentMethods = map[string]PaymentMethod{
	paymentMethodMobileMoney:  PaymentMethodMobileMoney,
	paymentMethodBankTransfer: PaymentMethodBankTransfer,
	paymentMethodCash:         PaymentMethodCash,
	paymentMethodCard:         PaymentMethodCard,
}

// NewPaymentMethod parses a payment method. Matching is case-insensitive and
// an empty string yields the zero value.
func NewPaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return PaymentMethod{}, nil
	}
	v, ok := validPaymentMethods[s]
	if !ok {
		return PaymentMethod{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
	}
	return v, nil
}

func (m PaymentMethod) String() string { return m.value }

func (m PaymentMethod) IsZero() bool { return m.value == "" }

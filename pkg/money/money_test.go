package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrency_Valid(t *testing.T) {
	for _, code := range []string{"KES", "UGX", "USD"} {
		c, err := NewCurrency(code)
		require.NoError(t, err)
		assert.Equal(t, code, c.Code())
		assert.Equal(t, code, c.String())
	}
}

func TestNewCurrency_Invalid(t *testing.T) {
	for _, code := range []string{"", "ke", "kes", "KESH", "K1S"} {
		t.Run(code, func(t *testing.T) {
			_, err := NewCurrency(code)
			assert.Error(t, err)
		})
	}
}

func TestMustCurrency_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCurrency("bad") })
}

func TestRound_HalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "17156.139418", want: "17156.14"},
		{in: "10.005", want: "10.01"},
		{in: "10.004999", want: "10"},
		{in: "0.125", want: "0.13"},
		{in: "10000", want: "10000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Round(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestNewCurrency_WrapsSentinel(t *testing.T) {
	_, err := NewCurrency("kes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	assert.True(t, Currency{}.IsZero())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "17156.14 KES", Format(decimal.RequireFromString("17156.139"), KES))
	assert.Equal(t, "0.00 USD", Format(decimal.Zero, USD))
	assert.Equal(t, "600.00", Format(decimal.NewFromInt(600), Currency{}))
}

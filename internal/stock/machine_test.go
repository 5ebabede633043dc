package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSell_LegalFromAvailableAndReserved(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("250.00")

	for _, from := range []Status{StatusAvailable, StatusReserved} {
		outcome, err := Sell(from, price, now)
		require.NoError(t, err, "selling from %s", from)
		assert.Equal(t, StatusSold, outcome.Status)
		assert.Equal(t, now, outcome.SoldDate)
		assert.True(t, price.Equal(outcome.SoldPrice))
	}
}

func TestSell_SoldIsTerminal(t *testing.T) {
	_, err := Sell(StatusSold, decimal.NewFromInt(100), time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSell_RejectsNonPositivePrice(t *testing.T) {
	for _, raw := range []string{"0", "0.00", "-1", "-250.50"} {
		_, err := Sell(StatusAvailable, decimal.RequireFromString(raw), time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, "price %s", raw)
	}
}

func TestReserveAndRelease(t *testing.T) {
	next, err := Reserve(StatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, next)

	back, err := Release(next)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, back)

	_, err = Reserve(StatusReserved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = Release(StatusAvailable)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = Reserve(StatusSold)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = Release(StatusSold)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestParse(t *testing.T) {
	s, err := Parse("reserved")
	require.NoError(t, err)
	assert.Equal(t, StatusReserved, s)

	_, err = Parse("on-hold")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestSellable(t *testing.T) {
	assert.True(t, StatusAvailable.Sellable())
	assert.True(t, StatusReserved.Sellable())
	assert.False(t, StatusSold.Sellable())
}

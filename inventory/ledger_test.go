package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"etf-market-maker/exchange"
)

func TestLedgerOpenFillClose(t *testing.T) {
	l := NewLedger(100)

	l.OpenOrder(exchange.SideSell, 20)
	assert.Equal(t, int64(20), l.Reserved(exchange.SideSell))
	assert.Equal(t, 1, l.OrderCount(exchange.SideSell))

	// Partial fill of 4: position moves, reserved volume shrinks by the
	// remaining-volume delta.
	l.ApplyFill(exchange.SideSell, 4)
	l.ReleaseReserved(exchange.SideSell, 4)
	assert.Equal(t, int64(-4), l.Net())
	assert.Equal(t, int64(16), l.Reserved(exchange.SideSell))

	l.ApplyFill(exchange.SideSell, 16)
	l.ReleaseReserved(exchange.SideSell, 16)
	l.CloseOrder(exchange.SideSell)
	assert.Equal(t, int64(-20), l.Net())
	assert.Equal(t, int64(0), l.Reserved(exchange.SideSell))
	assert.Equal(t, 0, l.OrderCount(exchange.SideSell))
}

func TestCanPlaceWorstCase(t *testing.T) {
	l := NewLedger(100)

	assert.True(t, l.CanPlace(exchange.SideSell, 100))
	assert.False(t, l.CanPlace(exchange.SideSell, 101))

	l.OpenOrder(exchange.SideSell, 60)
	assert.True(t, l.CanPlace(exchange.SideSell, 40))
	assert.False(t, l.CanPlace(exchange.SideSell, 41))

	// Buy-side fills push the short bound further away.
	l.ApplyFill(exchange.SideBuy, 30)
	assert.True(t, l.CanPlace(exchange.SideSell, 70))
	assert.True(t, l.CanPlace(exchange.SideBuy, 70))
	assert.False(t, l.CanPlace(exchange.SideBuy, 71))
}

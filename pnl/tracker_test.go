package pnl

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"etf-market-maker/exchange"
)

func TestCashFlowAccounting(t *testing.T) {
	tr := NewTracker()

	// Sell 10 lots at $100.07, hedge-buy them back at $99.00.
	tr.RecordFill(exchange.SideSell, 10007, 10)
	tr.RecordHedgeFill(exchange.SideBuy, 9900, 10)
	tr.RecordFees(25) // 25 cents paid

	snap := tr.Snapshot()
	assert.True(t, snap.QuotedCash.Equal(decimal.RequireFromString("1000.70")), snap.QuotedCash.String())
	assert.True(t, snap.HedgeCash.Equal(decimal.RequireFromString("-990.00")), snap.HedgeCash.String())
	assert.True(t, snap.Fees.Equal(decimal.RequireFromString("0.25")), snap.Fees.String())
	assert.True(t, snap.Net.Equal(decimal.RequireFromString("10.45")), snap.Net.String())
	assert.Equal(t, int64(10), snap.QuotedLots)
	assert.Equal(t, int64(10), snap.HedgeLots)
}

func TestFeeRebates(t *testing.T) {
	tr := NewTracker()
	tr.RecordFees(-10)
	snap := tr.Snapshot()
	assert.True(t, snap.Net.Equal(decimal.RequireFromString("0.10")), snap.Net.String())
}

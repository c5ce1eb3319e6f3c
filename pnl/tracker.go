// Package pnl accounts realized cash flow and fees across both legs.
package pnl

import (
	"sync"

	"github.com/shopspring/decimal"

	"etf-market-maker/exchange"
)

// Tracker accumulates cash flow from quoted-instrument fills (valued at the
// order's limit price; the status feed carries no execution price) and hedge
// fills (valued at the reported average price), plus exchange fees. Prices
// arrive in cents and are kept as exact decimal dollars.
type Tracker struct {
	mu sync.RWMutex

	quotedCash decimal.Decimal
	hedgeCash  decimal.Decimal
	fees       decimal.Decimal

	quotedLots int64
	hedgeLots  int64
}

// Snapshot is a point-in-time copy of the tracker's totals.
type Snapshot struct {
	QuotedCash decimal.Decimal
	HedgeCash  decimal.Decimal
	Fees       decimal.Decimal
	Net        decimal.Decimal
	QuotedLots int64
	HedgeLots  int64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordFill books an incremental fill of volume lots on side.
func (t *Tracker) RecordFill(side exchange.Side, price, volume int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quotedCash = t.quotedCash.Add(cashFlow(side, price, volume))
	t.quotedLots += volume
}

// RecordHedgeFill books an executed hedge order.
func (t *Tracker) RecordHedgeFill(side exchange.Side, price, volume int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hedgeCash = t.hedgeCash.Add(cashFlow(side, price, volume))
	t.hedgeLots += volume
}

// RecordFees books cumulative-fee deltas reported on order statuses.
// Positive fees are paid, negative are rebates.
func (t *Tracker) RecordFees(cents int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fees = t.fees.Add(decimal.New(cents, -2))
}

// Snapshot returns the current totals. Net is quoted plus hedge cash less fees.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		QuotedCash: t.quotedCash,
		HedgeCash:  t.hedgeCash,
		Fees:       t.fees,
		Net:        t.quotedCash.Add(t.hedgeCash).Sub(t.fees),
		QuotedLots: t.quotedLots,
		HedgeLots:  t.hedgeLots,
	}
}

// cashFlow converts a fill into signed dollars: sells bring cash in,
// buys pay cash out.
func cashFlow(side exchange.Side, price, volume int64) decimal.Decimal {
	cents := price * volume
	if side == exchange.SideBuy {
		cents = -cents
	}
	return decimal.New(cents, -2)
}

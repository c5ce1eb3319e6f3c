// Package market holds the engine's view of the outside market: the best
// quotes of the hedge instrument and the sequencing state of the quoted
// instrument's book feed.
package market

import (
	"go.uber.org/zap"

	"etf-market-maker/exchange"
)

// View is the single market snapshot the quoting engine prices against.
// It is mutated only from the serial event loop and needs no locking.
type View struct {
	log *zap.Logger

	lastBookSequence uint64
	hedgeBestBid     int64
	hedgeBestAsk     int64
}

// NewView returns a view with no hedge liquidity: best ask at MaximumAsk,
// best bid at zero.
func NewView(log *zap.Logger) *View {
	return &View{
		log:          log,
		hedgeBestAsk: exchange.MaximumAsk,
	}
}

// ApplyHedge records the hedge instrument's top of book. An absent best ask
// (zero price) means no liquidity and maps to MaximumAsk.
func (v *View) ApplyHedge(book exchange.BookUpdate) {
	v.hedgeBestBid = book.BidPrices[0]
	if book.AskPrices[0] != 0 {
		v.hedgeBestAsk = book.AskPrices[0]
	} else {
		v.hedgeBestAsk = exchange.MaximumAsk
	}
}

// AcceptBook validates a quoted-instrument book sequence number. A sequence
// that does not exceed the last accepted one is stale (duplicate or
// out-of-order delivery) and must be discarded whole.
func (v *View) AcceptBook(sequence uint64) bool {
	if sequence <= v.lastBookSequence {
		v.log.Info("discarding stale order book",
			zap.Uint64("sequence", sequence),
			zap.Uint64("last_sequence", v.lastBookSequence))
		return false
	}
	v.lastBookSequence = sequence
	return true
}

// HedgeBestBid returns the hedge instrument's best bid, zero when absent.
func (v *View) HedgeBestBid() int64 { return v.hedgeBestBid }

// HedgeBestAsk returns the hedge instrument's best ask, MaximumAsk when absent.
func (v *View) HedgeBestAsk() int64 { return v.hedgeBestAsk }

// LastBookSequence returns the sequence number of the last accepted book.
func (v *View) LastBookSequence() uint64 { return v.lastBookSequence }

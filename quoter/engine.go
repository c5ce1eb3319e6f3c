// Package quoter implements the quoting and inventory engine: it reprices
// two-sided quotes on every accepted book update, reconciles fills against
// its own order ledger and hedges filled inventory on the futures leg.
package quoter

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"etf-market-maker/exchange"
	"etf-market-maker/inventory"
	"etf-market-maker/market"
	"etf-market-maker/metrics"
	"etf-market-maker/order"
	"etf-market-maker/pnl"
)

// Params are the quoting parameters. MarginBasis and MaxOrderDepth may be
// replaced at runtime via UpdateQuoting; the structural parameters
// (PositionLimit, TickSize) are fixed for the session.
type Params struct {
	// MarginBasis is the markup in basis points applied to the observed
	// market price on each side.
	MarginBasis int64
	// MaxOrderDepth caps the number of resting orders per side.
	MaxOrderDepth int
	// PositionLimit bounds the filled net position to [-limit, +limit].
	PositionLimit int64
	// TickSize is the price granularity in minimum currency units.
	TickSize int64
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	if p.MarginBasis < 0 || p.MarginBasis >= 10000 {
		return fmt.Errorf("margin basis %d out of range [0,10000)", p.MarginBasis)
	}
	if p.MaxOrderDepth <= 0 {
		return errors.New("max order depth must be > 0")
	}
	if p.PositionLimit <= 0 {
		return errors.New("position limit must be > 0")
	}
	if p.TickSize <= 0 {
		return errors.New("tick size must be > 0")
	}
	return nil
}

// Deps are the engine's collaborators.
type Deps struct {
	Sink    exchange.CommandSink
	Logger  *zap.Logger
	Metrics *metrics.Collector
	PnL     *pnl.Tracker // optional
}

// Engine owns the trader's live orders, net position and per-side counters.
// It implements exchange.EventHandler and requires the transport's serial,
// in-order delivery contract: all state below is mutated only from event
// callbacks and carries no lock. The params mutex exists solely so the
// config watcher can swap quoting parameters between events.
type Engine struct {
	paramsMu sync.RWMutex
	params   Params

	view   *market.View
	asks   *order.Book
	bids   *order.Book
	ledger *inventory.Ledger

	sink  exchange.CommandSink
	log   *zap.Logger
	met   *metrics.Collector
	fills *pnl.Tracker

	nextOrderID uint64
	// hedgeSides remembers the side of each in-flight hedge order so the
	// fill report, which carries no side, can be booked.
	hedgeSides map[uint64]exchange.Side
}

// New creates an engine quoting the ETF instrument and hedging on the future.
func New(params Params, deps Deps) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if deps.Sink == nil {
		return nil, errors.New("command sink is required")
	}
	if deps.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.New("metrics collector is required")
	}
	return &Engine{
		params:     params,
		view:       market.NewView(deps.Logger),
		asks:       order.NewBook(),
		bids:       order.NewBook(),
		ledger:     inventory.NewLedger(params.PositionLimit),
		sink:       deps.Sink,
		log:        deps.Logger,
		met:        deps.Metrics,
		fills:      deps.PnL,
		hedgeSides: make(map[uint64]exchange.Side),
	}, nil
}

// UpdateQuoting swaps the runtime-tunable quoting parameters. Invalid values
// are rejected so a bad config edit cannot poison a live session.
func (e *Engine) UpdateQuoting(marginBasis int64, maxOrderDepth int) error {
	e.paramsMu.Lock()
	defer e.paramsMu.Unlock()
	next := e.params
	next.MarginBasis = marginBasis
	next.MaxOrderDepth = maxOrderDepth
	if err := next.Validate(); err != nil {
		return err
	}
	e.params = next
	e.log.Info("quoting parameters updated",
		zap.Int64("margin_basis", marginBasis),
		zap.Int("max_order_depth", maxOrderDepth))
	return nil
}

func (e *Engine) snapshotParams() Params {
	e.paramsMu.RLock()
	defer e.paramsMu.RUnlock()
	return e.params
}

// Ledger exposes the inventory ledger for read-only inspection.
func (e *Engine) Ledger() *inventory.Ledger { return e.ledger }

// OnOrderBook routes a book snapshot: hedge books refresh the market view,
// quoted books pass the sequence guard and trigger a repricing pass.
func (e *Engine) OnOrderBook(instrument exchange.Instrument, sequence uint64, book exchange.BookUpdate) {
	e.log.Debug("order book received",
		zap.Stringer("instrument", instrument),
		zap.Uint64("sequence", sequence),
		zap.Int64("top_ask", book.AskPrices[0]),
		zap.Int64("top_bid", book.BidPrices[0]))

	if instrument == exchange.InstrumentFuture {
		e.view.ApplyHedge(book)
		return
	}
	if instrument != exchange.InstrumentETF {
		e.log.Warn("order book for unknown instrument", zap.Stringer("instrument", instrument))
		return
	}
	if !e.view.AcceptBook(sequence) {
		e.met.BooksStale.Inc()
		return
	}
	e.met.BooksAccepted.Inc()

	params := e.snapshotParams()
	e.repriceSellOrders(book, params)
	e.repriceBuyOrders(book, params)
}

// OnTradeTicks is informational.
func (e *Engine) OnTradeTicks(instrument exchange.Instrument, sequence uint64, book exchange.BookUpdate) {
	e.met.TradeTicks.Inc()
	e.log.Debug("trade ticks received",
		zap.Stringer("instrument", instrument),
		zap.Uint64("sequence", sequence),
		zap.Int64("top_ask", book.AskPrices[0]),
		zap.Int64("top_bid", book.BidPrices[0]))
}

// OnOrderStatus reconciles a status report against the order ledger. An
// incremental fill adjusts the net position and is hedged immediately on the
// opposite side at the extreme of the hedge instrument's tick range, so the
// hedge is marketable the moment it arrives.
func (e *Engine) OnOrderStatus(orderID uint64, filled, remaining, fees int64) {
	e.log.Debug("order status received",
		zap.Uint64("order_id", orderID),
		zap.Int64("filled", filled),
		zap.Int64("remaining", remaining),
		zap.Int64("fees", fees))

	side := exchange.SideSell
	book := e.asks
	o, ok := book.Get(orderID)
	if !ok {
		side = exchange.SideBuy
		book = e.bids
		o, ok = book.Get(orderID)
	}
	if !ok {
		// Can happen after an order already terminated.
		e.log.Info("status for untracked order", zap.Uint64("order_id", orderID))
		return
	}

	params := e.snapshotParams()

	deltaFilled := filled - o.FilledVolume
	if deltaFilled > 0 {
		e.ledger.ApplyFill(side, deltaFilled)
		e.sendHedge(side.Opposite(), deltaFilled, params)
		if e.fills != nil {
			e.fills.RecordFill(side, o.Price, deltaFilled)
		}
	}
	if e.fills != nil && fees != o.Fees {
		e.fills.RecordFees(fees - o.Fees)
	}

	deltaRemaining := o.RemainingVolume - remaining
	e.ledger.ReleaseReserved(side, deltaRemaining)

	if remaining == 0 {
		e.ledger.CloseOrder(side)
		book.Remove(orderID)
	} else {
		o.FilledVolume = filled
		o.RemainingVolume = remaining
		o.Fees = fees
	}
	e.syncGauges()
}

// OnOrderError terminates a tracked order via a synthetic zero-remaining
// status so its slot and reserved volume are always released.
func (e *Engine) OnOrderError(orderID uint64, message string) {
	e.log.Info("order error received",
		zap.Uint64("order_id", orderID),
		zap.String("message", message))
	if orderID == 0 {
		return
	}
	o, ok := e.asks.Get(orderID)
	if !ok {
		o, ok = e.bids.Get(orderID)
	}
	if !ok {
		return
	}
	e.met.OrdersRejected.Inc()
	// Synthetic terminal status. Fees are carried over so the cumulative-fee
	// delta stays zero.
	e.OnOrderStatus(orderID, 0, 0, o.Fees)
}

// OnHedgeFilled books an executed hedge order. Informational beyond pnl.
func (e *Engine) OnHedgeFilled(orderID uint64, price, volume int64) {
	e.log.Info("hedge order filled",
		zap.Uint64("order_id", orderID),
		zap.Int64("price", price),
		zap.Int64("volume", volume))
	side, ok := e.hedgeSides[orderID]
	if !ok {
		return
	}
	delete(e.hedgeSides, orderID)
	if e.fills != nil {
		e.fills.RecordHedgeFill(side, price, volume)
	}
}

// OnDisconnect logs the end of the session.
func (e *Engine) OnDisconnect() {
	e.log.Warn("execution connection lost")
}

func (e *Engine) sendHedge(side exchange.Side, volume int64, params Params) {
	price := exchange.MinBidNearestTick(params.TickSize)
	if side == exchange.SideBuy {
		price = exchange.MaxAskNearestTick(params.TickSize)
	}
	id := e.nextID()
	e.hedgeSides[id] = side
	e.sink.HedgeOrder(id, side, price, volume)
	e.met.HedgesSent.WithLabelValues(side.String()).Inc()
	e.log.Info("hedge order sent",
		zap.Uint64("order_id", id),
		zap.Stringer("side", side),
		zap.Int64("price", price),
		zap.Int64("volume", volume))
}

// nextID allocates a session-unique, monotonically increasing, non-zero
// client order id. Zero is reserved to mean "no order".
func (e *Engine) nextID() uint64 {
	e.nextOrderID++
	return e.nextOrderID
}

func (e *Engine) syncGauges() {
	e.met.NetPosition.Set(float64(e.ledger.Net()))
	e.met.ReservedVolume.WithLabelValues("SELL").Set(float64(e.ledger.Reserved(exchange.SideSell)))
	e.met.ReservedVolume.WithLabelValues("BUY").Set(float64(e.ledger.Reserved(exchange.SideBuy)))
	e.met.RestingOrders.WithLabelValues("SELL").Set(float64(e.ledger.OrderCount(exchange.SideSell)))
	e.met.RestingOrders.WithLabelValues("BUY").Set(float64(e.ledger.OrderCount(exchange.SideBuy)))
}

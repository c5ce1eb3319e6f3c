// Package recorder journals the market-data and execution stream to sqlite.
// It makes no trading decisions; it exists for offline analysis and can run
// in-process next to the engine or standalone.
package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"etf-market-maker/exchange"
)

// BookRow is one book or trade-tick snapshot. The top level is broken out
// into columns for cheap querying; the full levels ride along as JSON.
type BookRow struct {
	ID         uint `gorm:"primaryKey"`
	At         time.Time
	Kind       string `gorm:"index"` // "book" or "trade"
	Instrument int
	Sequence   uint64
	AskPrice   int64
	AskVolume  int64
	BidPrice   int64
	BidVolume  int64
	Levels     string
}

// StatusRow is one own-order status report.
type StatusRow struct {
	ID        uint `gorm:"primaryKey"`
	At        time.Time
	OrderID   uint64 `gorm:"index"`
	Filled    int64
	Remaining int64
	Fees      int64
}

// HedgeFillRow is one executed hedge order.
type HedgeFillRow struct {
	ID      uint `gorm:"primaryKey"`
	At      time.Time
	OrderID uint64 `gorm:"index"`
	Price   int64
	Volume  int64
}

// Recorder implements exchange.EventHandler by appending rows. Write errors
// are logged, never propagated: recording must not disturb the event loop.
type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open creates (or reuses) the sqlite journal at path.
func Open(path string, log *zap.Logger) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := db.AutoMigrate(&BookRow{}, &StatusRow{}, &HedgeFillRow{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Recorder{db: db, log: log}, nil
}

// DB exposes the underlying handle for queries.
func (r *Recorder) DB() *gorm.DB { return r.db }

func (r *Recorder) OnOrderBook(instrument exchange.Instrument, sequence uint64, book exchange.BookUpdate) {
	r.append(r.bookRow("book", instrument, sequence, book))
}

func (r *Recorder) OnTradeTicks(instrument exchange.Instrument, sequence uint64, book exchange.BookUpdate) {
	r.append(r.bookRow("trade", instrument, sequence, book))
}

func (r *Recorder) OnOrderStatus(orderID uint64, filled, remaining, fees int64) {
	r.append(&StatusRow{
		At:        time.Now().UTC(),
		OrderID:   orderID,
		Filled:    filled,
		Remaining: remaining,
		Fees:      fees,
	})
}

func (r *Recorder) OnOrderError(orderID uint64, message string) {
	r.log.Info("order error recorded",
		zap.Uint64("order_id", orderID),
		zap.String("message", message))
}

func (r *Recorder) OnHedgeFilled(orderID uint64, price, volume int64) {
	r.append(&HedgeFillRow{
		At:      time.Now().UTC(),
		OrderID: orderID,
		Price:   price,
		Volume:  volume,
	})
}

func (r *Recorder) OnDisconnect() {
	r.log.Info("recorder: session ended")
}

func (r *Recorder) bookRow(kind string, instrument exchange.Instrument, sequence uint64, book exchange.BookUpdate) *BookRow {
	levels, err := json.Marshal(book)
	if err != nil {
		levels = nil
	}
	return &BookRow{
		At:         time.Now().UTC(),
		Kind:       kind,
		Instrument: int(instrument),
		Sequence:   sequence,
		AskPrice:   book.AskPrices[0],
		AskVolume:  book.AskVolumes[0],
		BidPrice:   book.BidPrices[0],
		BidVolume:  book.BidVolumes[0],
		Levels:     string(levels),
	}
}

func (r *Recorder) append(row any) {
	if err := r.db.Create(row).Error; err != nil {
		r.log.Error("journal write failed", zap.Error(err))
	}
}

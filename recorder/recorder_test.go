package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"etf-market-maker/exchange"
)

func openTestJournal(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "journal.db"), zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestJournalRows(t *testing.T) {
	r := openTestJournal(t)

	var book exchange.BookUpdate
	book.AskPrices[0] = 10100
	book.AskVolumes[0] = 5
	book.BidPrices[0] = 9900
	book.BidVolumes[0] = 7

	r.OnOrderBook(exchange.InstrumentETF, 1, book)
	r.OnTradeTicks(exchange.InstrumentFuture, 2, book)
	r.OnOrderStatus(3, 4, 16, 2)
	r.OnHedgeFilled(9, 9900, 4)
	r.OnOrderError(3, "rejected")
	r.OnDisconnect()

	var books []BookRow
	require.NoError(t, r.DB().Order("id").Find(&books).Error)
	require.Len(t, books, 2)
	assert.Equal(t, "book", books[0].Kind)
	assert.Equal(t, int(exchange.InstrumentETF), books[0].Instrument)
	assert.Equal(t, uint64(1), books[0].Sequence)
	assert.Equal(t, int64(10100), books[0].AskPrice)
	assert.Equal(t, int64(9900), books[0].BidPrice)
	assert.Contains(t, books[0].Levels, "10100")
	assert.Equal(t, "trade", books[1].Kind)

	var statuses []StatusRow
	require.NoError(t, r.DB().Find(&statuses).Error)
	require.Len(t, statuses, 1)
	assert.Equal(t, uint64(3), statuses[0].OrderID)
	assert.Equal(t, int64(4), statuses[0].Filled)
	assert.Equal(t, int64(16), statuses[0].Remaining)

	var hedges []HedgeFillRow
	require.NoError(t, r.DB().Find(&hedges).Error)
	require.Len(t, hedges, 1)
	assert.Equal(t, uint64(9), hedges[0].OrderID)
	assert.Equal(t, int64(9900), hedges[0].Price)
	assert.Equal(t, int64(4), hedges[0].Volume)
}

func TestReopenAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	r, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	r.OnOrderStatus(1, 0, 20, 0)

	r2, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	r2.OnOrderStatus(2, 0, 20, 0)

	var count int64
	require.NoError(t, r2.DB().Model(&StatusRow{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

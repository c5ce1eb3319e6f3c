// Package order tracks this trader's own resting orders, one book per side.
package order

// Order is a resting limit order owned by the engine.
type Order struct {
	Price           int64
	RemainingVolume int64
	FilledVolume    int64
	// Fees is the cumulative fee total last reported for this order.
	Fees int64
	// Cancelling marks an in-flight cancel request. The order stays in its
	// book until the exchange reports zero remaining volume, but repricing
	// skips it so it is neither cancelled twice nor counted as resting.
	Cancelling bool
}

// Book maps client order id to order for one side. It is mutated only from
// the serial event loop and carries no lock.
type Book struct {
	orders map[uint64]*Order
}

func NewBook() *Book {
	return &Book{orders: make(map[uint64]*Order)}
}

func (b *Book) Put(id uint64, o *Order) {
	b.orders[id] = o
}

func (b *Book) Get(id uint64) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

func (b *Book) Remove(id uint64) {
	delete(b.orders, id)
}

func (b *Book) Len() int {
	return len(b.orders)
}

// Range calls fn for every order until fn returns false. Iteration order is
// unspecified.
func (b *Book) Range(fn func(id uint64, o *Order) bool) {
	for id, o := range b.orders {
		if !fn(id, o) {
			return
		}
	}
}

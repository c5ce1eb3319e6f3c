// Package metrics provides Prometheus metrics for the market maker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups the engine's counters and gauges.
type Collector struct {
	BooksAccepted prometheus.Counter
	BooksStale    prometheus.Counter
	TradeTicks    prometheus.Counter

	OrdersInserted  *prometheus.CounterVec
	OrdersCancelled *prometheus.CounterVec
	OrdersRejected  prometheus.Counter
	HedgesSent      *prometheus.CounterVec

	NetPosition    prometheus.Gauge
	ReservedVolume *prometheus.GaugeVec
	RestingOrders  *prometheus.GaugeVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		BooksAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "mm_order_books_accepted_total",
			Help: "Quoted-instrument books that passed the sequence guard"}),
		BooksStale: f.NewCounter(prometheus.CounterOpts{
			Name: "mm_order_books_stale_total",
			Help: "Books discarded for a non-increasing sequence number"}),
		TradeTicks: f.NewCounter(prometheus.CounterOpts{
			Name: "mm_trade_ticks_total",
			Help: "Trade tick updates received"}),
		OrdersInserted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_orders_inserted_total",
			Help: "Limit orders sent"}, []string{"side"}),
		OrdersCancelled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_orders_cancelled_total",
			Help: "Cancel requests sent"}, []string{"side"}),
		OrdersRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "mm_orders_rejected_total",
			Help: "Tracked orders terminated by an exchange error"}),
		HedgesSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mm_hedges_sent_total",
			Help: "Hedge orders sent against incremental fills"}, []string{"side"}),
		NetPosition: f.NewGauge(prometheus.GaugeOpts{
			Name: "mm_net_position_lots",
			Help: "Filled net position in the quoted instrument"}),
		ReservedVolume: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mm_reserved_volume_lots",
			Help: "Remaining volume committed by resting orders"}, []string{"side"}),
		RestingOrders: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mm_resting_orders",
			Help: "Resting order count per side"}, []string{"side"}),
	}
}

// Serve exposes /metrics on addr in a background goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}

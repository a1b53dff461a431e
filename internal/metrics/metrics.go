package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the tick pipeline.
type Metrics struct {
	TicksTotal    prometheus.Counter
	TicksRejected prometheus.Counter
	CandlesClosed prometheus.Counter
	WSReconnects  prometheus.Counter

	trackedSymbols prometheus.GaugeFunc
}

// New registers and returns the pipeline metrics. symbolCount is sampled
// on every scrape for the tracked-symbols gauge.
func New(reg prometheus.Registerer, symbolCount func() float64) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ohlcproxy_ticks_total",
			Help: "Total normalized ticks accepted from the feed",
		}),
		TicksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ohlcproxy_ticks_rejected_total",
			Help: "Total feed messages dropped as unusable",
		}),
		CandlesClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ohlcproxy_candles_closed_total",
			Help: "Total candles moved from the active slot into history",
		}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ohlcproxy_ws_reconnects_total",
			Help: "Total feed reconnection attempts",
		}),
	}
	m.trackedSymbols = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ohlcproxy_tracked_symbols",
		Help: "Number of symbols currently held in the store",
	}, symbolCount)

	reg.MustRegister(
		m.TicksTotal,
		m.TicksRejected,
		m.CandlesClosed,
		m.WSReconnects,
		m.trackedSymbols,
	)
	return m
}

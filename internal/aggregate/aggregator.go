package aggregate

import (
	"math"

	"ohlcproxy/internal/memorystore"
)

// Tick is a single normalized price observation.
type Tick struct {
	Symbol          string
	Price           float64
	TimestampMillis int64
}

// Aggregator folds normalized ticks into per-timeframe OHLC candles held
// by the store. It performs pure in-memory work and never blocks.
type Aggregator struct {
	store *memorystore.Store

	// Optional hook, invoked once per candle moved to history.
	OnCandleClosed func(symbol string, tf memorystore.Timeframe)
}

func New(store *memorystore.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Process buckets a tick into every configured timeframe. A tick with an
// empty symbol or a non-finite price has no effect. All timeframe updates
// for one tick are applied under a single symbol lock, so a concurrent
// snapshot sees either none or all of them.
//
// Rollover is triggered purely by period-start mismatch, not by timestamp
// monotonicity: a tick older than the current active candle still closes
// it if its computed period differs. Under a disordered feed this can
// fabricate gapped or out-of-order history.
func (a *Aggregator) Process(t Tick) {
	if t.Symbol == "" {
		return
	}
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
		return
	}

	a.store.Update(t.Symbol, func(txn *memorystore.Txn) {
		for tf, dur := range memorystore.TimeframeSeconds {
			start := periodStart(t.TimestampMillis, dur)

			active := txn.Active(tf)
			if active == nil || active.PeriodStart != start {
				if active != nil {
					txn.AppendHistory(tf, *active)
					if a.OnCandleClosed != nil {
						a.OnCandleClosed(t.Symbol, tf)
					}
				}
				txn.SetActive(tf, &memorystore.Candle{
					PeriodStart: start,
					Open:        t.Price,
					High:        t.Price,
					Low:         t.Price,
					Close:       t.Price,
				})
				continue
			}

			// Same period: update in place, open stays fixed.
			if t.Price > active.High {
				active.High = t.Price
			}
			if t.Price < active.Low {
				active.Low = t.Price
			}
			active.Close = t.Price
		}
	})
}

// periodStart returns the bucket start in epoch seconds for a timestamp in
// milliseconds, floored to a multiple of durSec.
func periodStart(tsMillis, durSec int64) int64 {
	durMillis := durSec * 1000
	q := tsMillis / durMillis
	if tsMillis%durMillis != 0 && tsMillis < 0 {
		q--
	}
	return q * durSec
}

package stream

import (
	"ohlcproxy/internal/aggregate"
	"ohlcproxy/internal/metrics"

	"go.uber.org/zap"
)

// MakeMessageHandler returns the feed message callback: normalize the raw
// payload and hand the canonical tick to the aggregator. Unusable messages
// are counted and dropped, never propagated.
func MakeMessageHandler(logger *zap.Logger, agg *aggregate.Aggregator, m *metrics.Metrics) func(msg []byte) {
	return func(msg []byte) {
		tick, ok := Normalize(msg)
		if !ok {
			m.TicksRejected.Inc()
			logger.Debug("dropped unusable feed message", zap.Int("bytes", len(msg)))
			return
		}
		m.TicksTotal.Inc()
		agg.Process(tick)
	}
}

package query

import (
	"errors"
	"fmt"
	"strings"

	"ohlcproxy/internal/memorystore"
)

const (
	// DefaultLimit applies when a caller does not specify a limit.
	DefaultLimit = 1000

	minLimit = 10
	maxLimit = 2000
)

// ErrUnknownTimeframe marks a caller error: the requested timeframe is not
// one of the configured keys. Distinct from an unseen symbol, which is
// valid and yields empty data.
var ErrUnknownTimeframe = errors.New("unknown timeframe")

// Service assembles point-in-time candle snapshots from the store.
type Service struct {
	store *memorystore.Store
}

func NewService(store *memorystore.Store) *Service {
	return &Service{store: store}
}

// Snapshot returns up to limit candles for (symbol, tf), oldest first,
// with the in-progress candle (if any) last. Symbol and tf are uppercased
// here; an unseen symbol is lazily initialized and yields an empty slice.
// limit is clamped to [10, 2000], never rejected.
func (s *Service) Snapshot(symbol, tf string, limit int) ([]memorystore.Candle, error) {
	timeframe, ok := memorystore.ParseTimeframe(tf)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimeframe, tf)
	}

	if limit < minLimit {
		limit = minLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	history, active := s.store.Snapshot(strings.ToUpper(symbol), timeframe)

	out := history // Snapshot already returns a copy
	if active != nil {
		out = append(out, *active)
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

package memorystore

import (
	"sync"
)

// Store owns all per-symbol candle state. Locking is two-level: a global
// RWMutex guards the symbol map, and a per-symbol Mutex guards that
// symbol's active slots and histories. All mutations for one tick run
// inside a single Update call so a concurrent Snapshot never observes a
// half-applied rollover.
type Store struct {
	globalMu sync.RWMutex
	data     map[string]*symbolState
}

type symbolState struct {
	mu      sync.Mutex
	active  map[Timeframe]*Candle
	history map[Timeframe][]Candle
}

func NewStore() *Store {
	return &Store{
		data: make(map[string]*symbolState),
	}
}

// ensure returns the state for symbol, creating it on first reference.
func (s *Store) ensure(symbol string) *symbolState {
	// Fast path: symbol already known
	s.globalMu.RLock()
	state, ok := s.data[symbol]
	s.globalMu.RUnlock()
	if ok {
		return state
	}

	s.globalMu.Lock()
	if state, ok = s.data[symbol]; !ok {
		state = &symbolState{
			active:  make(map[Timeframe]*Candle, len(TimeframeSeconds)),
			history: make(map[Timeframe][]Candle, len(TimeframeSeconds)),
		}
		s.data[symbol] = state
	}
	s.globalMu.Unlock()
	return state
}

// Ensure creates empty state for symbol if it has never been seen.
// Idempotent.
func (s *Store) Ensure(symbol string) {
	s.ensure(symbol)
}

// Update runs fn while holding the symbol's lock. The Txn passed to fn
// exposes the active slots and histories for every timeframe.
func (s *Store) Update(symbol string, fn func(*Txn)) {
	state := s.ensure(symbol)
	state.mu.Lock()
	fn(&Txn{state: state})
	state.mu.Unlock()
}

// Txn exposes one symbol's candle slots to an Update callback. Valid only
// for the duration of the callback.
type Txn struct {
	state *symbolState
}

// Active returns the in-progress candle for tf, or nil. The pointer may
// be mutated in place; the symbol lock is held for the whole callback.
func (t *Txn) Active(tf Timeframe) *Candle {
	return t.state.active[tf]
}

// SetActive replaces the in-progress candle for tf.
func (t *Txn) SetActive(tf Timeframe, c *Candle) {
	t.state.active[tf] = c
}

// AppendHistory appends a closed candle and evicts the oldest entry once
// the history exceeds HistoryCap. Strict FIFO.
func (t *Txn) AppendHistory(tf Timeframe, c Candle) {
	h := append(t.state.history[tf], c)
	if len(h) > HistoryCap {
		h = h[1:]
	}
	t.state.history[tf] = h
}

// Snapshot returns a copy of the closed history and the in-progress candle
// (nil if none) for (symbol, tf). The symbol is created lazily if unseen,
// so querying a never-ticked symbol yields empty data, not an error.
func (s *Store) Snapshot(symbol string, tf Timeframe) ([]Candle, *Candle) {
	state := s.ensure(symbol)

	state.mu.Lock()
	defer state.mu.Unlock()

	hist := state.history[tf]
	cp := make([]Candle, len(hist))
	copy(cp, hist)

	var active *Candle
	if a := state.active[tf]; a != nil {
		c := *a
		active = &c
	}
	return cp, active
}

// CountSymbols returns the number of symbols currently tracked.
func (s *Store) CountSymbols() int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()
	return len(s.data)
}

// Symbols returns all tracked symbols in unspecified order.
func (s *Store) Symbols() []string {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	out := make([]string, 0, len(s.data))
	for symbol := range s.data {
		out = append(out, symbol)
	}
	return out
}

package memorystore

import "strings"

// Timeframe identifies one of the fixed aggregation periods.
type Timeframe string

const (
	M1  Timeframe = "M1"
	M5  Timeframe = "M5"
	M15 Timeframe = "M15"
	H1  Timeframe = "H1"
)

// TimeframeSeconds maps each configured timeframe to its period length in seconds.
// The set is process-wide and immutable.
var TimeframeSeconds = map[Timeframe]int64{
	M1:  60,
	M5:  300,
	M15: 900,
	H1:  3600,
}

// HistoryCap is the maximum number of closed candles retained per
// (symbol, timeframe). Insertion is append-only; once the cap is exceeded
// the oldest entry is evicted.
const HistoryCap = 3000

// Candle is one OHLC bucket. PeriodStart is epoch seconds aligned to the
// timeframe's duration. While a candle sits in the active slot its
// high/low/close still move with incoming ticks; open never changes after
// creation.
type Candle struct {
	PeriodStart int64   `json:"ts"` // start of the bucket (epoch seconds)
	Open        float64 `json:"o"`
	High        float64 `json:"h"`
	Low         float64 `json:"l"`
	Close       float64 `json:"c"`
}

// ParseTimeframe resolves a timeframe key such as "m5" or "H1".
// Matching is case-insensitive.
func ParseTimeframe(s string) (Timeframe, bool) {
	tf := Timeframe(strings.ToUpper(s))
	_, ok := TimeframeSeconds[tf]
	return tf, ok
}

package stream

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"ohlcproxy/internal/aggregate"
)

// Timestamps below this threshold are epoch seconds and get scaled to
// milliseconds.
const millisThreshold = 1e12

// number accepts a JSON number or a numeric string. Feed bridges are not
// consistent about quoting prices and timestamps.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// wireTick covers the field-name variants seen across feeds:
// {"symbol":...,"price":...,"timestamp":...} and the short form
// {"s":...,"p":...,"t":...}. Long names win when both are present.
type wireTick struct {
	Symbol    *string `json:"symbol"`
	S         *string `json:"s"`
	Price     *number `json:"price"`
	P         *number `json:"p"`
	Timestamp *number `json:"timestamp"`
	T         *number `json:"t"`
}

// Normalize converts a raw feed payload into a canonical tick. ok is false
// for anything unusable: non-JSON input, array (batched) payloads, a
// missing field, or a non-finite price or timestamp. The symbol is
// uppercased here, once, at ingestion.
func Normalize(raw []byte) (aggregate.Tick, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '[' {
		// Batched payloads are not fanned out at this stage.
		return aggregate.Tick{}, false
	}

	var w wireTick
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return aggregate.Tick{}, false
	}

	symbol := firstString(w.Symbol, w.S)
	price, okPrice := firstNumber(w.Price, w.P)
	ts, okTS := firstNumber(w.Timestamp, w.T)
	if symbol == "" || !okPrice || !okTS {
		return aggregate.Tick{}, false
	}
	if !isFinite(price) || !isFinite(ts) {
		return aggregate.Tick{}, false
	}

	if ts < millisThreshold {
		ts *= 1000 // epoch seconds → milliseconds
	}

	return aggregate.Tick{
		Symbol:          strings.ToUpper(symbol),
		Price:           price,
		TimestampMillis: int64(ts),
	}, true
}

func firstString(vals ...*string) string {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstNumber(vals ...*number) (float64, bool) {
	for _, v := range vals {
		if v != nil {
			return float64(*v), true
		}
	}
	return 0, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

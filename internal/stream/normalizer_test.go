package stream

import (
	"testing"

	"ohlcproxy/internal/aggregate"
)

func TestNormalizeFieldVariants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want aggregate.Tick
	}{
		{
			name: "long field names, millis",
			raw:  `{"symbol":"EURUSD","price":1.2345,"timestamp":1690000000000}`,
			want: aggregate.Tick{Symbol: "EURUSD", Price: 1.2345, TimestampMillis: 1690000000000},
		},
		{
			name: "short field names, seconds",
			raw:  `{"s":"gbpusd","p":1.27,"t":1690000000}`,
			want: aggregate.Tick{Symbol: "GBPUSD", Price: 1.27, TimestampMillis: 1690000000000},
		},
		{
			name: "mixed long and short",
			raw:  `{"symbol":"USDJPY","p":147.5,"timestamp":1690000000}`,
			want: aggregate.Tick{Symbol: "USDJPY", Price: 147.5, TimestampMillis: 1690000000000},
		},
		{
			name: "numeric strings",
			raw:  `{"symbol":"EURUSD","price":"1.1050","timestamp":"1690000000000"}`,
			want: aggregate.Tick{Symbol: "EURUSD", Price: 1.1050, TimestampMillis: 1690000000000},
		},
		{
			name: "lowercase symbol uppercased",
			raw:  `{"symbol":"eurusd","price":1.1,"timestamp":1690000000000}`,
			want: aggregate.Tick{Symbol: "EURUSD", Price: 1.1, TimestampMillis: 1690000000000},
		},
		{
			name: "long names win over short",
			raw:  `{"symbol":"EURUSD","s":"IGNORED","price":1.5,"p":9.9,"timestamp":1690000000000,"t":1}`,
			want: aggregate.Tick{Symbol: "EURUSD", Price: 1.5, TimestampMillis: 1690000000000},
		},
		{
			name: "price of zero is valid",
			raw:  `{"symbol":"XTEST","price":0,"timestamp":1690000000000}`,
			want: aggregate.Tick{Symbol: "XTEST", Price: 0, TimestampMillis: 1690000000000},
		},
		{
			name: "leading whitespace",
			raw:  "  \n {\"symbol\":\"EURUSD\",\"price\":1.1,\"timestamp\":1690000000000}",
			want: aggregate.Tick{Symbol: "EURUSD", Price: 1.1, TimestampMillis: 1690000000000},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Normalize([]byte(c.raw))
			if !ok {
				t.Fatalf("Normalize(%s) unusable, want %+v", c.raw, c.want)
			}
			if got != c.want {
				t.Errorf("Normalize(%s)=%+v, want %+v", c.raw, got, c.want)
			}
		})
	}
}

func TestNormalizeTimestampUnitThreshold(t *testing.T) {
	// Just below 1e12 is seconds, at or above is already milliseconds.
	got, ok := Normalize([]byte(`{"symbol":"A","price":1,"timestamp":999999999999}`))
	if !ok || got.TimestampMillis != 999_999_999_999_000 {
		t.Errorf("below threshold: got %+v ok=%v", got, ok)
	}

	got, ok = Normalize([]byte(`{"symbol":"A","price":1,"timestamp":1000000000000}`))
	if !ok || got.TimestampMillis != 1_000_000_000_000 {
		t.Errorf("at threshold: got %+v ok=%v", got, ok)
	}
}

func TestNormalizeUnusable(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"not json", "hello"},
		{"truncated json", `{"symbol":"EURUSD","price":`},
		{"array payload", `[{"s":"EURUSD","p":1.1,"t":1690000000}]`},
		{"missing symbol", `{"price":1.1,"timestamp":1690000000000}`},
		{"empty symbol", `{"symbol":"","price":1.1,"timestamp":1690000000000}`},
		{"missing price", `{"symbol":"EURUSD","timestamp":1690000000000}`},
		{"missing timestamp", `{"symbol":"EURUSD","price":1.1}`},
		{"non-numeric price string", `{"symbol":"EURUSD","price":"abc","timestamp":1690000000000}`},
		{"nan price string", `{"symbol":"EURUSD","price":"NaN","timestamp":1690000000000}`},
		{"inf timestamp string", `{"symbol":"EURUSD","price":1.1,"timestamp":"+Inf"}`},
		{"price is object", `{"symbol":"EURUSD","price":{},"timestamp":1690000000000}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got, ok := Normalize([]byte(c.raw)); ok {
				t.Errorf("Normalize(%s) accepted as %+v, want unusable", c.raw, got)
			}
		})
	}
}

package marketdata

import (
	"testing"
	"time"
)

// go test -v --run TestParseCandleRows
func TestParseCandleRows(t *testing.T) {
	rows := [][]string{
		{"2024-03-04T09:15:00+05:30", "100", "103", "99", "101", "1500"},
		{"2024-03-04T09:20:00+05:30", "101"},                           // incomplete, skipped
		{"not-a-time", "101", "102", "100", "101", "900"},              // bad timestamp, skipped
		{"2024-03-04T09:25:00+05:30", "x", "102", "100", "101", "900"}, // bad price, skipped
		{"2024-03-04T09:20:00+05:30", "101", "102", "100", "101", "900"},
	}

	candles := ParseCandleRows(rows)
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}

	want, _ := time.Parse(time.RFC3339, "2024-03-04T09:15:00+05:30")
	if !candles[0].Start.Equal(want) {
		t.Errorf("unexpected start: %v", candles[0].Start)
	}
	if candles[0].High != 103 || candles[1].Volume != 900 {
		t.Errorf("unexpected candle values: %+v %+v", candles[0], candles[1])
	}
}

package market

import "time"

// Tick represents a single trade event for one instrument.
// CumulativeVolume is the exchange's "volume traded today" counter, not a per-trade quantity.
type Tick struct {
	Instrument       string    `json:"instrument"`
	Time             time.Time `json:"time"`
	Price            float64   `json:"price"`
	CumulativeVolume float64   `json:"cumulativeVolume"`

	// Optional OHLC carried by historical replay ticks. A replay tick opens
	// fresh buckets with its own candle values instead of its last price.
	Open  float64 `json:"open,omitempty"`
	High  float64 `json:"high,omitempty"`
	Low   float64 `json:"low,omitempty"`
	Close float64 `json:"close,omitempty"`
}

// HasCandle reports whether the tick carries replay OHLC values.
func (t Tick) HasCandle() bool {
	return t.High > 0 && t.Low > 0
}

// Bar is one time bucket of price/volume. Begin is inclusive, End exclusive.
type Bar struct {
	Begin  time.Time `json:"begin"`
	End    time.Time `json:"end"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Height is the absolute body size of the bar.
func (b Bar) Height() float64 {
	h := b.Close - b.Open
	if h < 0 {
		return -h
	}
	return h
}

// Bullish reports close above open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Bearish reports close below open.
func (b Bar) Bearish() bool { return b.Close < b.Open }

// newBar opens a bucket [begin, end) from a tick. Replay ticks seed the
// bucket with their own candle values.
func newBar(begin, end time.Time, tk Tick, deltaVolume float64) Bar {
	if tk.HasCandle() {
		return Bar{
			Begin: begin, End: end,
			Open: tk.Open, High: tk.High, Low: tk.Low, Close: tk.Close,
			Volume: deltaVolume,
		}
	}
	return Bar{
		Begin: begin, End: end,
		Open: tk.Price, High: tk.Price, Low: tk.Price, Close: tk.Price,
		Volume: deltaVolume,
	}
}

package stream

// TickMessage represents a WebSocket message from the feed carrying one
// trade event.
type TickMessage struct {
	Topic string      `json:"topic"` // subscription stream, e.g. "tick.RELIANCE"
	Data  TickPayload `json:"data"`
	Ts    int64       `json:"ts"`   // ms since epoch when the message was sent
	Type  string      `json:"type"` // "snapshot" or "delta"
}

// TickPayload is the trade event body. Volume is the exchange's cumulative
// "traded today" counter.
type TickPayload struct {
	Ts     int64   `json:"ts"` // event time, ms since epoch
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`

	// Optional OHLC for replay streams.
	Open  float64 `json:"open,omitempty"`
	High  float64 `json:"high,omitempty"`
	Low   float64 `json:"low,omitempty"`
	Close float64 `json:"close,omitempty"`
}

package marketdata

import (
	"encoding/json"
	"time"
)

// ProviderResponse is the generic envelope the data provider wraps every
// REST payload in.
type ProviderResponse struct {
	Status  string          `json:"status"`  // "success" or "error"
	Message string          `json:"message"` // human-readable error detail
	Data    json.RawMessage `json:"data"`    // delay decoding; varies per endpoint
}

// CandlesResponse is the candles endpoint payload: rows of
// [startISO, open, high, low, close, volume] strings.
type CandlesResponse struct {
	Instrument string     `json:"instrument"`
	Candles    [][]string `json:"candles"`
}

// Candle is one historical OHLCV bucket as the provider reports it.
// Provider buckets are assumed already aligned to the trading session.
type Candle struct {
	Start  time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

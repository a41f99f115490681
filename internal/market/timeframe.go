package market

import (
	"fmt"
	"time"
)

// Timeframe is one of the six supported bucket durations.
type Timeframe string

const (
	Timeframe1Min  Timeframe = "1m"
	Timeframe3Min  Timeframe = "3m"
	Timeframe5Min  Timeframe = "5m"
	Timeframe15Min Timeframe = "15m"
	Timeframe1Hour Timeframe = "1h"
	Timeframe1Day  Timeframe = "1d"
)

// TimeframeMeta holds the duration, the provider API value, and the
// historical lookback window requested at backfill time.
type TimeframeMeta struct {
	Duration time.Duration
	APIValue string
	Lookback time.Duration
}

// validTimeframes maps each supported Timeframe to its metadata. Coarser
// timeframes request longer lookback windows so derived analytics have
// enough sealed buckets to work with.
var validTimeframes = map[Timeframe]TimeframeMeta{
	Timeframe1Min:  {Duration: time.Minute, APIValue: "1", Lookback: 24 * time.Hour},
	Timeframe3Min:  {Duration: 3 * time.Minute, APIValue: "3", Lookback: 2 * 24 * time.Hour},
	Timeframe5Min:  {Duration: 5 * time.Minute, APIValue: "5", Lookback: 5 * 24 * time.Hour},
	Timeframe15Min: {Duration: 15 * time.Minute, APIValue: "15", Lookback: 10 * 24 * time.Hour},
	Timeframe1Hour: {Duration: time.Hour, APIValue: "60", Lookback: 30 * 24 * time.Hour},
	Timeframe1Day:  {Duration: 24 * time.Hour, APIValue: "D", Lookback: 200 * 24 * time.Hour},
}

// AllTimeframes lists the supported timeframes from finest to coarsest.
var AllTimeframes = []Timeframe{
	Timeframe1Min, Timeframe3Min, Timeframe5Min,
	Timeframe15Min, Timeframe1Hour, Timeframe1Day,
}

// IsValid checks if the Timeframe is one of the supported set.
func (tf Timeframe) IsValid() bool {
	_, ok := validTimeframes[tf]
	return ok
}

// Duration returns the bucket duration, or zero for an unsupported timeframe.
func (tf Timeframe) Duration() time.Duration {
	return validTimeframes[tf].Duration
}

// Meta returns the metadata for a supported timeframe.
func (tf Timeframe) Meta() TimeframeMeta {
	return validTimeframes[tf]
}

// ParseTimeframe parses a string into a supported Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !tf.IsValid() {
		return "", fmt.Errorf("invalid timeframe: %s", s)
	}
	return tf, nil
}

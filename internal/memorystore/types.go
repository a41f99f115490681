package memorystore

import (
	"context"
	"time"

	"barcollector/internal/market"
)

// SealedBar is a bucket that just became immutable because a later bucket
// was appended to its series. Emitted by Add so callers can archive it.
type SealedBar struct {
	Instrument string           `json:"instrument"`
	Timeframe  market.Timeframe `json:"timeframe"`
	Bar        market.Bar       `json:"bar"`
}

// Backfiller seeds a full set of series for one instrument from historical
// data. Implemented by the backfill loader.
type Backfiller interface {
	Backfill(ctx context.Context, instrument string, asOf time.Time) (map[market.Timeframe]*market.BarSeries, error)
}

// instrumentState bundles everything the engine tracks for one instrument.
// It exists only after a successful backfill.
type instrumentState struct {
	series         map[market.Timeframe]*market.BarSeries
	volumeBaseline float64
	lastTick       market.Tick
	avgHeight      map[market.Timeframe]float64
}

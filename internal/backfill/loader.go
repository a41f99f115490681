package backfill

import (
	"context"
	"fmt"
	"time"

	"barcollector/internal/market"
	"barcollector/pkg/marketdata"

	"go.uber.org/zap"
)

// CandleFetcher fetches historical candles from the data provider.
// Satisfied by marketdata.RESTClient.
type CandleFetcher interface {
	GetCandles(ctx context.Context, instrument, interval string, from, to time.Time) ([]marketdata.Candle, error)
}

// Loader seeds per-instrument bar series from historical data before live
// ticks arrive. One batch per timeframe, with a timeframe-appropriate
// lookback window (longer for coarser timeframes).
type Loader struct {
	Client  CandleFetcher
	Timeout time.Duration
	Logger  *zap.Logger
}

// Backfill fetches history for every supported timeframe and converts it
// to sealed bar series. Provider buckets are taken as-is: candle end is
// candle start plus the timeframe duration, never recomputed.
func (l *Loader) Backfill(ctx context.Context, instrument string, asOf time.Time) (map[market.Timeframe]*market.BarSeries, error) {
	out := make(map[market.Timeframe]*market.BarSeries, len(market.AllTimeframes))

	for _, tf := range market.AllTimeframes {
		meta := tf.Meta()

		// Each provider call is bounded so an outage cannot stall startup.
		reqCtx, cancel := context.WithTimeout(ctx, l.Timeout)
		candles, err := l.Client.GetCandles(reqCtx, instrument, meta.APIValue, asOf.Add(-meta.Lookback), asOf)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("fetch %s candles for %s: %w", tf, instrument, err)
		}

		bars := make([]market.Bar, 0, len(candles))
		for _, c := range candles {
			bars = append(bars, market.Bar{
				Begin:  c.Start,
				End:    c.Start.Add(meta.Duration),
				Open:   c.Open,
				High:   c.High,
				Low:    c.Low,
				Close:  c.Close,
				Volume: c.Volume,
			})
		}
		out[tf] = market.NewBarSeries(bars)

		l.Logger.Debug("backfilled series",
			zap.String("instrument", instrument),
			zap.String("timeframe", string(tf)),
			zap.Int("bars", out[tf].Len()))
	}

	return out, nil
}

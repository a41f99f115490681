package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"barcollector/internal/market"
	"barcollector/internal/memorystore"
	"barcollector/pkg/marketdata"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	candles map[string][]marketdata.Candle // keyed by API interval value
	err     error
	calls   []string
}

func (f *fakeFetcher) GetCandles(_ context.Context, _, interval string, _, _ time.Time) ([]marketdata.Candle, error) {
	f.calls = append(f.calls, interval)
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[interval], nil
}

func fiveMinuteHistory(t *testing.T, days, perDay int) []marketdata.Candle {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	var out []marketdata.Candle
	for d := 0; d < days; d++ {
		open := time.Date(2024, 3, 4+d, 9, 15, 0, 0, loc)
		for i := 0; i < perDay; i++ {
			out = append(out, marketdata.Candle{
				Start:  open.Add(time.Duration(i) * 5 * time.Minute),
				Open:   100, High: 103, Low: 99, Close: 101,
				Volume: 50,
			})
		}
	}
	return out
}

func TestBackfillConvertsCandlesAsIs(t *testing.T) {
	history := fiveMinuteHistory(t, 1, 10)
	fetcher := &fakeFetcher{candles: map[string][]marketdata.Candle{"5": history}}
	loader := &Loader{Client: fetcher, Timeout: time.Second, Logger: zap.NewNop()}

	series, err := loader.Backfill(context.Background(), "RELIANCE", time.Now())
	require.NoError(t, err)

	// One batch per supported timeframe.
	require.Len(t, fetcher.calls, len(market.AllTimeframes))
	require.Len(t, series, len(market.AllTimeframes))

	fiveMin := series[market.Timeframe5Min]
	require.Equal(t, 10, fiveMin.Len())

	bars := fiveMin.Bars()
	require.Equal(t, history[0].Start, bars[0].Begin)
	require.Equal(t, history[0].Start.Add(5*time.Minute), bars[0].End)
	require.Equal(t, 103.0, bars[0].High)
	require.Equal(t, 50.0, bars[0].Volume)
}

func TestBackfillPropagatesProviderError(t *testing.T) {
	loader := &Loader{
		Client:  &fakeFetcher{err: errors.New("timeout")},
		Timeout: time.Second,
		Logger:  zap.NewNop(),
	}

	_, err := loader.Backfill(context.Background(), "RELIANCE", time.Now())
	require.Error(t, err)
}

// Backfill five days of 5-minute history, then feed a live tick inside the
// most recent historical bucket: the tick must merge into the last
// backfilled bucket, not open a new one.
func TestBackfillThenLiveTickMerges(t *testing.T) {
	history := fiveMinuteHistory(t, 5, 20)
	fetcher := &fakeFetcher{candles: map[string][]marketdata.Candle{"5": history}}
	loader := &Loader{Client: fetcher, Timeout: time.Second, Logger: zap.NewNop()}

	sess, err := market.NewSession("09:15", "Asia/Kolkata")
	require.NoError(t, err)
	store := memorystore.NewBarStore(
		market.NewAggregator(sess, zap.NewNop()), loader, nil, 0, zap.NewNop())

	require.NoError(t, store.Initialize(context.Background(), "RELIANCE", time.Now()))

	before, err := store.Series("RELIANCE", market.Timeframe5Min)
	require.NoError(t, err)
	require.Equal(t, 100, before.Len())
	lastHistorical := before.Last()

	store.Add(market.Tick{
		Instrument:       "RELIANCE",
		Time:             lastHistorical.Begin.Add(2 * time.Minute),
		Price:            150,
		CumulativeVolume: 9,
	})

	after, err := store.Series("RELIANCE", market.Timeframe5Min)
	require.NoError(t, err)
	require.Equal(t, 100, after.Len()) // merged, not appended
	require.Equal(t, 150.0, after.Last().Close)
	require.Equal(t, 150.0, after.Last().High)
	require.Equal(t, lastHistorical.Volume+9, after.Last().Volume)
}

package memorystore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"barcollector/internal/market"

	"go.uber.org/zap"
)

// BarStore is the single entry point live ticks use. All mutating
// operations across all instruments and timeframes are serialized behind
// one exclusive lock; reads take the shared side and return copies, so a
// reader never observes a half-updated bucket.
type BarStore struct {
	mu         sync.RWMutex
	data       map[string]*instrumentState
	lastIngest time.Time

	aggregator *market.Aggregator
	backfiller Backfiller
	logger     *zap.Logger

	// Average-height statistics are cached at backfill time for these
	// timeframes only.
	heightTimeframes []market.Timeframe
	heightDepth      int
}

// NewBarStore creates an empty store. heightTimeframes names the (two)
// timeframes whose average bucket height is cached at backfill time over
// the most recent heightDepth sealed buckets.
func NewBarStore(agg *market.Aggregator, bf Backfiller, heightTimeframes []market.Timeframe, heightDepth int, logger *zap.Logger) *BarStore {
	return &BarStore{
		data:             make(map[string]*instrumentState),
		aggregator:       agg,
		backfiller:       bf,
		logger:           logger,
		heightTimeframes: heightTimeframes,
		heightDepth:      heightDepth,
	}
}

// Initialize seeds the instrument from historical data. Re-running
// replaces the instrument's state wholesale. A backfill failure leaves the
// instrument uninitialized and is reported, never fatal.
func (s *BarStore) Initialize(ctx context.Context, instrument string, asOf time.Time) error {
	// Network call stays outside the lock.
	series, err := s.backfiller.Backfill(ctx, instrument, asOf)
	if err != nil {
		s.logger.Warn("backfill failed, instrument stays uninitialized",
			zap.String("instrument", instrument), zap.Error(err))
		return fmt.Errorf("backfill %s: %w", instrument, err)
	}

	st := &instrumentState{
		series:    series,
		avgHeight: make(map[market.Timeframe]float64, len(s.heightTimeframes)),
	}
	for _, tf := range s.heightTimeframes {
		if sr, ok := series[tf]; ok {
			st.avgHeight[tf] = sr.AverageHeight(s.heightDepth)
		}
	}

	s.mu.Lock()
	s.data[instrument] = st
	s.mu.Unlock()

	s.logger.Info("instrument initialized",
		zap.String("instrument", instrument),
		zap.Int("timeframes", len(series)))
	return nil
}

// IsInitialized reports whether the instrument has been backfilled.
func (s *BarStore) IsInitialized(instrument string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[instrument]
	return ok
}

// Instruments returns the initialized instrument ids.
func (s *BarStore) Instruments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for id := range s.data {
		out = append(out, id)
	}
	return out
}

// Add ingests one live tick into all six timeframe series. Ticks for
// uninitialized instruments are dropped with a warning. The volume delta
// is extracted from the cumulative counter once, then every timeframe
// receives the same delta. Returns the buckets this tick sealed.
func (s *BarStore) Add(tk market.Tick) []SealedBar {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.data[tk.Instrument]
	if !ok {
		s.logger.Warn("dropping tick for uninitialized instrument",
			zap.String("instrument", tk.Instrument))
		return nil
	}

	delta := tk.CumulativeVolume - st.volumeBaseline
	if delta < 0 {
		// Cumulative counter restarted (new session on the feed side);
		// the tick contributes its full cumulative value.
		delta = tk.CumulativeVolume
	}
	st.volumeBaseline = tk.CumulativeVolume
	st.lastTick = tk
	s.lastIngest = time.Now()

	var sealed []SealedBar
	for _, tf := range market.AllTimeframes {
		sr, ok := st.series[tf]
		if !ok {
			continue
		}
		before := sr.Len()
		s.aggregator.Ingest(sr, tk, tf.Duration(), delta)
		if sr.Len() > before && before > 0 {
			sealed = append(sealed, SealedBar{
				Instrument: tk.Instrument,
				Timeframe:  tf,
				Bar:        sr.Bars()[before-1],
			})
		}
	}
	return sealed
}

// Series returns an immutable snapshot of one series.
func (s *BarStore) Series(instrument string, tf market.Timeframe) (*market.BarSeries, error) {
	if !tf.IsValid() {
		return nil, fmt.Errorf("invalid timeframe: %s", tf)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[instrument]
	if !ok {
		return nil, fmt.Errorf("instrument not initialized: %s", instrument)
	}
	sr, ok := st.series[tf]
	if !ok {
		return nil, fmt.Errorf("no %s series for %s", tf, instrument)
	}
	return sr.Snapshot(), nil
}

// LastTick returns the most recent tick seen for the instrument.
func (s *BarStore) LastTick(instrument string) (market.Tick, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[instrument]
	if !ok {
		return market.Tick{}, false
	}
	return st.lastTick, true
}

// AverageHeight returns the cached average bucket height. Only the
// timeframes configured at construction are supported.
func (s *BarStore) AverageHeight(instrument string, tf market.Timeframe) (float64, error) {
	if !tf.IsValid() {
		return 0, fmt.Errorf("invalid timeframe: %s", tf)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[instrument]
	if !ok {
		return 0, fmt.Errorf("instrument not initialized: %s", instrument)
	}
	h, ok := st.avgHeight[tf]
	if !ok {
		return 0, fmt.Errorf("average height not tracked for timeframe %s", tf)
	}
	return h, nil
}

// IsCurrentBucketOpen reports whether the open bucket of the given series
// still covers the probe time.
func (s *BarStore) IsCurrentBucketOpen(instrument string, tf market.Timeframe, probe time.Time) (bool, error) {
	if !tf.IsValid() {
		return false, fmt.Errorf("invalid timeframe: %s", tf)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[instrument]
	if !ok {
		return false, nil
	}
	sr, ok := st.series[tf]
	if !ok {
		return false, nil
	}
	return sr.IsOpenAt(probe), nil
}

// LastIngestTime returns when the store last accepted a tick.
func (s *BarStore) LastIngestTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastIngest
}

// Reset clears all per-instrument state. Subsequent ticks are dropped
// until instruments are initialized again.
func (s *BarStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.data)
	s.data = make(map[string]*instrumentState)
	s.lastIngest = time.Time{}
	s.logger.Info("store reset", zap.Int("instrumentsCleared", n))
}

// CountAll returns the total number of buckets held across all
// instruments and timeframes.
func (s *BarStore) CountAll() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, st := range s.data {
		for _, sr := range st.series {
			total += sr.Len()
		}
	}
	return total
}

package market

import (
	"fmt"
	"time"
)

// BarSeries is the append-ordered bucket sequence for one (instrument,
// timeframe) pair. Buckets are non-overlapping and strictly increasing;
// only the last bucket is mutable, every earlier one is sealed.
type BarSeries struct {
	bars []Bar
}

// NewBarSeries builds a series from already-aligned sealed bars, e.g. a
// historical backfill batch. Bars violating the ordering invariant are
// skipped rather than corrupting the series.
func NewBarSeries(bars []Bar) *BarSeries {
	s := &BarSeries{bars: make([]Bar, 0, len(bars))}
	for _, b := range bars {
		if err := s.Append(b); err != nil {
			continue
		}
	}
	return s
}

// Len returns the number of buckets.
func (s *BarSeries) Len() int { return len(s.bars) }

// Empty reports whether the series holds no buckets.
func (s *BarSeries) Empty() bool { return len(s.bars) == 0 }

// Last returns the open (mutable) bucket, or nil for an empty series.
func (s *BarSeries) Last() *Bar {
	if len(s.bars) == 0 {
		return nil
	}
	return &s.bars[len(s.bars)-1]
}

// Bars returns a copy of all buckets, oldest first.
func (s *BarSeries) Bars() []Bar {
	cp := make([]Bar, len(s.bars))
	copy(cp, s.bars)
	return cp
}

// Snapshot returns an independent copy of the series; mutating the
// original never changes the copy.
func (s *BarSeries) Snapshot() *BarSeries {
	return &BarSeries{bars: s.Bars()}
}

// Append adds a new bucket, sealing the previous one. The new bucket must
// begin at or after the previous end and must end strictly later; anything
// else would overlap a sealed bucket and is rejected.
func (s *BarSeries) Append(b Bar) error {
	if !b.End.After(b.Begin) {
		return fmt.Errorf("bar end %s not after begin %s", b.End, b.Begin)
	}
	if last := s.Last(); last != nil {
		if b.Begin.Before(last.End) || !b.End.After(last.End) {
			return fmt.Errorf("bar [%s, %s) overlaps last bucket ending %s",
				b.Begin, b.End, last.End)
		}
	}
	s.bars = append(s.bars, b)
	return nil
}

// Direction classifies a back-to-back run of buckets.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionBullish
	DirectionBearish
)

// AverageHeight averages |close-open| over the most recent n sealed
// buckets (the open last bucket is excluded). Returns 0 when fewer than n
// sealed buckets exist.
func (s *BarSeries) AverageHeight(n int) float64 {
	sealed := len(s.bars) - 1
	if n <= 0 || sealed < n {
		return 0
	}
	sum := 0.0
	for _, b := range s.bars[sealed-n : sealed] {
		sum += b.Height()
	}
	return sum / float64(n)
}

// BackToBack reports whether the last k buckets all closed above their
// open (bullish) or all below (bearish). DirectionNone for mixed runs or
// series shorter than k.
func (s *BarSeries) BackToBack(k int) Direction {
	if k <= 0 || len(s.bars) < k {
		return DirectionNone
	}
	tail := s.bars[len(s.bars)-k:]
	bullish, bearish := true, true
	for _, b := range tail {
		bullish = bullish && b.Bullish()
		bearish = bearish && b.Bearish()
	}
	switch {
	case bullish:
		return DirectionBullish
	case bearish:
		return DirectionBearish
	default:
		return DirectionNone
	}
}

// Span returns |high of the first − low of the last| across the most
// recent n buckets, or 0 when the series is shorter than n.
func (s *BarSeries) Span(n int) float64 {
	if n <= 0 || len(s.bars) < n {
		return 0
	}
	tail := s.bars[len(s.bars)-n:]
	span := tail[0].High - tail[n-1].Low
	if span < 0 {
		return -span
	}
	return span
}

// IsOpenAt reports whether the current (last) bucket still covers the
// probe time.
func (s *BarSeries) IsOpenAt(probe time.Time) bool {
	last := s.Last()
	if last == nil {
		return false
	}
	return !probe.Before(last.Begin) && probe.Before(last.End)
}

package market

import (
	"time"

	"go.uber.org/zap"
)

// Aggregator owns the append/merge decision for a bar series. Given a tick
// and its pre-extracted volume delta, it either extends the open bucket or
// seals it and opens the next one, using session-anchored boundaries and
// defensive checks so no two buckets ever overlap.
//
// Aggregator has no locking of its own; callers serialize mutation.
type Aggregator struct {
	session Session
	logger  *zap.Logger
}

// NewAggregator creates an Aggregator anchored to the given session.
func NewAggregator(session Session, logger *zap.Logger) *Aggregator {
	return &Aggregator{session: session, logger: logger}
}

// Session returns the trading session the aggregator is anchored to.
func (a *Aggregator) Session() Session { return a.session }

// Ingest applies one tick to one (instrument, timeframe) series.
func (a *Aggregator) Ingest(series *BarSeries, tk Tick, d time.Duration, deltaVolume float64) {
	if series.Empty() {
		begin := a.session.BucketStart(tk.Time, d)
		bar := newBar(begin, begin.Add(d), tk, deltaVolume)
		if err := series.Append(bar); err == nil {
			return
		}
		// A concurrent writer created this bucket first. Re-read the now
		// non-empty series and merge instead of failing.
		a.logger.Warn("lost bucket-create race, retrying as merge",
			zap.String("instrument", tk.Instrument),
			zap.Duration("timeframe", d))
	}

	last := series.Last()
	dayScale := d >= 24*time.Hour

	// Tick inside the open bucket on the same trading day extends it.
	// Day buckets legitimately span two calendar days, so the day check
	// is skipped for them.
	if !tk.Time.Before(last.Begin) && tk.Time.Before(last.End) {
		if dayScale || a.session.SameTradingDay(tk.Time, last.Begin) {
			mergeTick(last, tk, deltaVolume)
			return
		}
	}

	calcBegin := a.session.BucketStart(tk.Time, d)
	calcEnd := calcBegin.Add(d)

	// Clock skew: the tick maps back to the bucket we already have.
	if calcBegin.Equal(last.Begin) {
		mergeTick(last, tk, deltaVolume)
		return
	}
	if !calcEnd.After(last.End) {
		mergeTick(last, tk, deltaVolume)
		return
	}

	begin := calcBegin
	if !dayScale && a.session.SameTradingDay(tk.Time, last.Begin) {
		// Same-day intraday buckets are adjacent by construction. A tick
		// landing exactly on the closing edge still belongs to the
		// closing bucket.
		if tk.Time.Equal(last.End) {
			mergeTick(last, tk, deltaVolume)
			return
		}
		begin = last.End
	}
	end := begin.Add(d)

	// Core overlap defense: never append a bucket that does not end
	// strictly after the previous one.
	if !end.After(last.End) {
		a.logger.Warn("refusing overlapping bucket, merging into last",
			zap.String("instrument", tk.Instrument),
			zap.Time("tickTime", tk.Time),
			zap.Time("lastEnd", last.End),
			zap.Duration("timeframe", d))
		mergeTick(last, tk, deltaVolume)
		return
	}

	if err := series.Append(newBar(begin, end, tk, deltaVolume)); err != nil {
		a.logger.Warn("append rejected, merging into last",
			zap.String("instrument", tk.Instrument), zap.Error(err))
		mergeTick(series.Last(), tk, deltaVolume)
	}
}

// mergeTick folds a tick into the open bucket: high/low extend, close
// follows the latest price, and the volume delta accumulates.
func mergeTick(b *Bar, tk Tick, deltaVolume float64) {
	if tk.Price > b.High {
		b.High = tk.Price
	}
	if tk.Price < b.Low {
		b.Low = tk.Price
	}
	b.Close = tk.Price
	b.Volume += deltaVolume
}

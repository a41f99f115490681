package watchdog

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Gate is the public store surface the watchdog is allowed to touch. It
// never reaches into series internals.
type Gate interface {
	LastIngestTime() time.Time
	Instruments() []string
	Reset()
}

// Watchdog periodically checks the last-ingest timestamp and resets the
// store when the feed has gone silent for longer than the configured
// window. A reset is a recovery action, not an error: instruments stay
// uninitialized until they are backfilled again.
type Watchdog struct {
	cron      *cron.Cron
	gate      Gate
	window    time.Duration
	logger    *zap.Logger
	startedAt time.Time
}

// New creates a Watchdog over the given gate.
func New(gate Gate, window time.Duration, logger *zap.Logger) *Watchdog {
	return &Watchdog{
		cron:   cron.New(cron.WithSeconds()),
		gate:   gate,
		window: window,
		logger: logger,
	}
}

// Start registers the staleness check on the given cron spec and starts
// the schedule.
func (w *Watchdog) Start(cronSpec string) error {
	if _, err := w.cron.AddFunc(cronSpec, w.check); err != nil {
		return fmt.Errorf("register staleness check: %w", err)
	}
	w.startedAt = time.Now()
	w.cron.Start()
	w.logger.Info("watchdog started",
		zap.String("cron", cronSpec), zap.Duration("window", w.window))
	return nil
}

// Stop stops the schedule.
func (w *Watchdog) Stop() {
	w.cron.Stop()
	w.logger.Info("watchdog stopped")
}

func (w *Watchdog) check() {
	if len(w.gate.Instruments()) == 0 {
		return // nothing initialized, nothing to guard
	}

	last := w.gate.LastIngestTime()
	if last.IsZero() {
		// No tick since startup yet; measure from when the watchdog started.
		last = w.startedAt
	}

	stale := time.Since(last)
	if stale <= w.window {
		return
	}

	w.logger.Warn("ingestion stalled, resetting store",
		zap.Duration("sinceLastTick", stale),
		zap.Duration("window", w.window))
	w.gate.Reset()
}

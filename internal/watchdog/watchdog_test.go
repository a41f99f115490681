package watchdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGate struct {
	instruments []string
	lastIngest  time.Time
	resets      int
}

func (g *fakeGate) LastIngestTime() time.Time { return g.lastIngest }
func (g *fakeGate) Instruments() []string     { return g.instruments }
func (g *fakeGate) Reset()                    { g.resets++ }

func TestCheckResetsWhenStale(t *testing.T) {
	gate := &fakeGate{
		instruments: []string{"RELIANCE"},
		lastIngest:  time.Now().Add(-10 * time.Minute),
	}
	w := New(gate, 5*time.Minute, zap.NewNop())

	w.check()
	require.Equal(t, 1, gate.resets)
}

func TestCheckLeavesFreshIngestAlone(t *testing.T) {
	gate := &fakeGate{
		instruments: []string{"RELIANCE"},
		lastIngest:  time.Now().Add(-time.Minute),
	}
	w := New(gate, 5*time.Minute, zap.NewNop())

	w.check()
	require.Equal(t, 0, gate.resets)
}

func TestCheckSkipsEmptyStore(t *testing.T) {
	gate := &fakeGate{lastIngest: time.Now().Add(-time.Hour)}
	w := New(gate, 5*time.Minute, zap.NewNop())

	w.check()
	require.Equal(t, 0, gate.resets)
}

func TestCheckMeasuresFromStartupBeforeFirstTick(t *testing.T) {
	gate := &fakeGate{instruments: []string{"RELIANCE"}}
	w := New(gate, 5*time.Minute, zap.NewNop())

	// Just started: no tick yet, but not stale either.
	w.startedAt = time.Now()
	w.check()
	require.Equal(t, 0, gate.resets)

	// Started long ago with no tick ever: stale.
	w.startedAt = time.Now().Add(-time.Hour)
	w.check()
	require.Equal(t, 1, gate.resets)
}

func TestStartRejectsBadCronSpec(t *testing.T) {
	w := New(&fakeGate{}, time.Minute, zap.NewNop())
	require.Error(t, w.Start("not a cron spec"))
}

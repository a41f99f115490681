package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	for _, tf := range AllTimeframes {
		got, err := ParseTimeframe(string(tf))
		require.NoError(t, err)
		require.Equal(t, tf, got)
		require.True(t, got.Duration() > 0)
	}

	_, err := ParseTimeframe("7m")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid timeframe")
}

func TestTimeframeDurations(t *testing.T) {
	require.Equal(t, time.Minute, Timeframe1Min.Duration())
	require.Equal(t, 3*time.Minute, Timeframe3Min.Duration())
	require.Equal(t, 5*time.Minute, Timeframe5Min.Duration())
	require.Equal(t, 15*time.Minute, Timeframe15Min.Duration())
	require.Equal(t, time.Hour, Timeframe1Hour.Duration())
	require.Equal(t, 24*time.Hour, Timeframe1Day.Duration())
}

func TestLookbackGrowsWithCoarseness(t *testing.T) {
	prev := time.Duration(0)
	for _, tf := range AllTimeframes {
		lb := tf.Meta().Lookback
		require.True(t, lb >= prev, "lookback for %s shrank", tf)
		prev = lb
	}
}

package stream

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"barcollector/internal/market"
	"barcollector/internal/memorystore"
	"barcollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

// MakeMessageHandler returns a function that handles incoming WebSocket
// messages by parsing tick data and routing it into the bar store. Buckets
// sealed by a tick are archived when a Postgres client is configured;
// archiving failures are logged and never stall ingestion.
func MakeMessageHandler(logger *zap.Logger, store *memorystore.BarStore,
	postgresClient *postgres.PostgresClient) func(msg []byte) {
	return func(msg []byte) {
		// Step 1: Extract topic string for early filtering
		var meta struct {
			Topic string `json:"topic"`
		}
		if err := json.Unmarshal(msg, &meta); err != nil {
			logger.Warn("failed to extract topic", zap.Error(err))
			return
		}
		if !isTickTopic(meta.Topic) {
			return // ignore non-tick messages (e.g. subscription responses)
		}

		// Step 2: Fully parse the tick payload
		var parsed TickMessage
		if err := json.Unmarshal(msg, &parsed); err != nil {
			logger.Warn("failed to parse tick payload", zap.Error(err))
			return
		}
		instrument := extractInstrumentFromTopic(parsed.Topic) // "tick.RELIANCE" → "RELIANCE"
		if instrument == "" {
			return
		}

		// Step 3: Route the tick into all timeframe series
		sealed := store.Add(market.Tick{
			Instrument:       instrument,
			Time:             time.UnixMilli(parsed.Data.Ts),
			Price:            parsed.Data.Price,
			CumulativeVolume: parsed.Data.Volume,
			Open:             parsed.Data.Open,
			High:             parsed.Data.High,
			Low:              parsed.Data.Low,
			Close:            parsed.Data.Close,
		})

		if postgresClient == nil {
			return
		}
		for _, sb := range sealed {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			err := postgresClient.InsertBar(ctx, postgres.ToBarRecord(sb))
			cancel()
			if err != nil {
				logger.Warn("failed to archive sealed bar",
					zap.String("instrument", sb.Instrument),
					zap.String("timeframe", string(sb.Timeframe)),
					zap.Error(err))
			}
		}
	}
}

// isTickTopic returns true if the topic string indicates a tick stream.
func isTickTopic(topic string) bool {
	return strings.HasPrefix(topic, "tick.")
}

// extractInstrumentFromTopic parses the instrument from a topic like "tick.RELIANCE".
func extractInstrumentFromTopic(topic string) string {
	parts := strings.Split(topic, ".")
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

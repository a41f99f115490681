package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"barcollector/config"
	"barcollector/internal/backfill"
	"barcollector/internal/market"
	"barcollector/internal/memorystore"
	"barcollector/internal/stream"
	"barcollector/internal/watchdog"
	"barcollector/pkg/marketdata"
	"barcollector/pkg/storage/postgres"

	"go.uber.org/zap"
)

// StartCollector initializes the full bar-consolidation pipeline: backfill
// every configured instrument from the historical provider, attach the
// live WebSocket tick feed, and start the staleness watchdog. Sealed bars
// are archived to Postgres when one is configured.
func StartCollector(cfg *config.Config, logger *zap.Logger) error {

	// Optional bar archive
	var postgresClient *postgres.PostgresClient
	if cfg.Postgres.Enabled() {
		client, err := postgres.InitializeAndMigrateBarRecord(cfg.Postgres, true)
		if err != nil {
			return fmt.Errorf("failed to connect to DB: %w", err)
		}
		postgresClient = client
	} else {
		logger.Info("no archive database configured, sealed bars stay in memory only")
	}

	session, err := market.NewSession(cfg.Session.Open, cfg.Session.Timezone)
	if err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}

	heightTimeframes := make([]market.Timeframe, 0, len(cfg.Analytics.HeightTimeframes))
	for _, name := range cfg.Analytics.HeightTimeframes {
		tf, err := market.ParseTimeframe(name)
		if err != nil {
			return fmt.Errorf("invalid analytics config: %w", err)
		}
		heightTimeframes = append(heightTimeframes, tf)
	}

	restClient := marketdata.NewRESTClient(cfg.Provider.REST.BaseURL, cfg.Provider.REST.Timeout)
	loader := &backfill.Loader{
		Client:  restClient,
		Timeout: cfg.Provider.REST.Timeout,
		Logger:  logger,
	}

	store := memorystore.NewBarStore(
		market.NewAggregator(session, logger),
		loader,
		heightTimeframes,
		cfg.Analytics.HeightDepth,
		logger,
	)

	// Backfill instruments concurrently behind a bounded semaphore. A
	// failed instrument stays uninitialized; its live ticks are dropped
	// until a later initialize succeeds.
	sem := make(chan struct{}, 5)
	var wg sync.WaitGroup
	asOf := time.Now()
	for _, instrument := range cfg.Instruments {
		instrument := instrument // capture
		sem <- struct{}{}
		wg.Add(1)

		go func() {
			defer func() { <-sem; wg.Done() }()
			if err := store.Initialize(context.Background(), instrument, asOf); err != nil {
				logger.Warn("instrument left uninitialized",
					zap.String("instrument", instrument), zap.Error(err))
			}
		}()
	}

	go func() {
		wg.Wait()
		logger.Info("backfill complete",
			zap.Int("initialized", len(store.Instruments())),
			zap.Int("requested", len(cfg.Instruments)))
	}()

	// Staleness watchdog over the public store surface
	wd := watchdog.New(store, cfg.Watchdog.Window, logger)
	if err := wd.Start(cfg.Watchdog.Cron); err != nil {
		return fmt.Errorf("failed to start watchdog: %w", err)
	}

	// Live feed
	wsClient := marketdata.NewWSClient(cfg.Provider.WS.URL, cfg.Instruments, logger)
	wsClient.SetMessageHandler(stream.MakeMessageHandler(logger, store, postgresClient))

	// Periodically print stored bucket count for visibility
	go func() {
		for {
			count := store.CountAll()
			logger.Info("current stored buckets", zap.Int("count", count))

			time.Sleep(30 * time.Second)
		}
	}()

	if err := wsClient.Connect(); err != nil {
		return err
	}
	go wsClient.Listen() // explicitly start listener

	return nil
}

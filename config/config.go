package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Provider    ProviderConfig  `mapstructure:"provider"`
	Session     SessionConfig   `mapstructure:"session"`
	Instruments []string        `mapstructure:"instruments"`
	Analytics   AnalyticsConfig `mapstructure:"analytics"`
	Watchdog    WatchdogConfig  `mapstructure:"watchdog"`
	Log         LogConfig       `mapstructure:"log"`
	Postgres    PostgresConfig  `mapstructure:"postgres"`
}

type ProviderConfig struct {
	REST RESTConfig `mapstructure:"rest"`
	WS   WSConfig   `mapstructure:"ws"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}
type WSConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig anchors bucket boundaries: the session's opening
// wall-clock time ("09:15") and its IANA timezone.
type SessionConfig struct {
	Open     string `mapstructure:"open"`
	Timezone string `mapstructure:"timezone"`
}

// AnalyticsConfig selects the timeframes whose average bucket height is
// cached at backfill time, and how many sealed buckets the average covers.
type AnalyticsConfig struct {
	HeightTimeframes []string `mapstructure:"height_timeframes"`
	HeightDepth      int      `mapstructure:"height_depth"`
}

// WatchdogConfig controls staleness detection: the cron schedule of the
// check and the silence window that triggers a reset.
type WatchdogConfig struct {
	Cron   string        `mapstructure:"cron"`
	Window time.Duration `mapstructure:"window"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load loads application configuration using Viper.
// It reads from config.yaml and overrides with environment variables.
func Load() *Config {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")

	ex, _ := os.Executable()
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		v.AddConfigPath(filepath.Join(pwd, "../../config"))
	} else {
		v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
	}

	// Support environment variables with dot notation (e.g., PROVIDER_WS_URL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("session.open", "09:15")
	v.SetDefault("session.timezone", "Asia/Kolkata")
	v.SetDefault("analytics.height_timeframes", []string{"5m", "15m"})
	v.SetDefault("analytics.height_depth", 20)
	v.SetDefault("watchdog.cron", "0 * * * * *")
	v.SetDefault("watchdog.window", 5*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config: %v", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	return &cfg
}

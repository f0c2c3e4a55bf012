package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"metagame-tracker/internal/components/configutil"
	"metagame-tracker/internal/fetcher"
	"metagame-tracker/internal/formats"
	"metagame-tracker/internal/novelty"
	"metagame-tracker/internal/store"
	"metagame-tracker/internal/syncer"
)

type FetchConfig struct {
	OS                string  `json:"os"`
	Browser           string  `json:"browser"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	AcceptLanguage    string  `json:"accept_language"`
}

type SyncConfig struct {
	RetentionDays     int `json:"retention_days"`
	LookbackDays      int `json:"lookback_days"`
	MaxCommitAttempts int `json:"max_commit_attempts"`
}

type ComparisonConfig struct {
	WindowDays  int    `json:"window_days"`
	PoolSize    int    `json:"pool_size"`
	Concurrency int    `json:"concurrency"`
	Policy      string `json:"policy"`
}

type Config struct {
	// Timezone decides what "today" is for age windows, empty means UTC.
	Timezone   string           `json:"timezone"`
	Store      store.Config     `json:"store"`
	Fetch      FetchConfig      `json:"fetch"`
	Sources    syncer.Sources   `json:"sources"`
	Sync       SyncConfig       `json:"sync"`
	Comparison ComparisonConfig `json:"comparison"`
}

func DefaultConfig() Config {
	return Config{
		Store: store.Config{
			Kind:     "http",
			Location: store.DefaultLocation,
		},
		Fetch: FetchConfig{
			OS:                fetcher.DefaultIdentity.OS,
			Browser:           fetcher.DefaultIdentity.Browser,
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
			AcceptLanguage:    fetcher.DefaultAcceptLanguage,
		},
		Sources: syncer.Sources{
			MetagameBaseUrl: syncer.DefaultMetagameBaseUrl,
			EventsBaseUrl:   syncer.DefaultEventsBaseUrl,
		},
		Sync: SyncConfig{
			RetentionDays:     30,
			LookbackDays:      int(formats.LastMonth),
			MaxCommitAttempts: 3,
		},
		Comparison: ComparisonConfig{
			WindowDays:  int(formats.LastWeek),
			PoolSize:    4,
			Concurrency: fetcher.MaxConcurrency,
			Policy:      novelty.DefaultPolicy.String(),
		},
	}
}

// StoreTokenEnv overrides the configured store credential when set.
const StoreTokenEnv = "METATRACKER_STORE_TOKEN"

// LoadConfig reads path (and its .local override), a missing file means
// running on defaults.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err = configutil.WithDefaults(cfg, DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	if token := os.Getenv(StoreTokenEnv); token != "" {
		cfg.Store.Token = token
	}
	return cfg, nil
}

func (c Config) FetcherConfig() fetcher.Config {
	return fetcher.Config{
		Identity:          fetcher.Identity{OS: c.Fetch.OS, Browser: c.Fetch.Browser},
		Timeout:           time.Duration(c.Fetch.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.Fetch.RequestsPerSecond,
		AcceptLanguage:    c.Fetch.AcceptLanguage,
	}
}

func (c Config) SyncerOptions() syncer.Options {
	return syncer.Options{
		Sources:           c.Sources,
		Lookback:          formats.Lookback(c.Sync.LookbackDays),
		Retention:         c.Retention(),
		MaxAgeDays:        c.Sync.LookbackDays,
		MaxCommitAttempts: c.Sync.MaxCommitAttempts,
		Concurrency:       c.Comparison.Concurrency,
	}
}

func (c Config) Retention() time.Duration {
	return time.Duration(c.Sync.RetentionDays) * 24 * time.Hour
}

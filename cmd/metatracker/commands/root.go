package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"metagame-tracker/internal/components/chrono"
	"metagame-tracker/internal/components/restydump"
	"metagame-tracker/internal/components/telemetry"
	"metagame-tracker/internal/fetcher"
	"metagame-tracker/internal/store"
	"metagame-tracker/internal/syncer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dumpDir    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The configuration file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump-dir", "", "Write every fetched page to this directory.")
}

type app struct {
	config Config
	clock  chrono.API
	store  *store.Store
	syncer *syncer.Syncer
	otel   telemetry.Telemetry
}

type appKeyType int

var appKey appKeyType

func getApp(ctx context.Context) *app {
	return ctx.Value(appKey).(*app)
}

func newApp(ctx context.Context, cfg Config) (*app, error) {
	tel := telemetry.SlogAPI{}

	otel, err := telemetry.SetupFromEnv(ctx, "metatracker")
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without exporters", "err", err)
	}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	fetchConfig := cfg.FetcherConfig()
	if dumpDir != "" {
		output, err := restydump.NewFilesystemOutput(dumpDir)
		if err != nil {
			return nil, fmt.Errorf("create dump dir: %w", err)
		}
		fetchConfig.Dump = output
	}

	documents, err := fetcher.New(fetchConfig, tel)
	if err != nil {
		return nil, err
	}

	backend, err := store.OpenBackend(cfg.Store, tel)
	if err != nil {
		return nil, err
	}

	return &app{
		config: cfg,
		clock:  clock,
		store:  store.New(backend, clock, cfg.Retention(), tel),
		syncer: syncer.New(documents, clock, cfg.SyncerOptions(), tel),
		otel:   otel,
	}, nil
}

var rootCmd = &cobra.Command{
	Use:   "metatracker",
	Short: "metatracker tracks tournament metagames and finds the spicy cards in winning lists.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		// a missing .env is fine
		_ = godotenv.Load()

		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := getApp(cmd.Context()).otel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

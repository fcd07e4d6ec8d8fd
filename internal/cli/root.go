package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/orglens/internal/core/config"
	"github.com/vietddude/orglens/internal/metrics"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath     string
	isDebug     bool
	batchSize   int
	retryFailed bool
)

var rootCmd = &cobra.Command{
	Use:   "orglens",
	Short: "Orglens repository classifier",
	Long:  `Orglens classifies every repository in a GitHub organization into solution categories, checkpointing progress so interrupted runs resume where they left off.`,
	Run:   runClassify,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 0, "override the configured batch size")
	rootCmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "reprocess repositories in the failed set")
}

// loadConfig loads the YAML config and initializes logging. Exits on error.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	return cfg
}

func runClassify(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if batchSize > 0 {
		cfg.Engine.BatchSize = batchSize
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	if cfg.Metrics.Listen != "" {
		srv := metrics.NewServer(cfg.Metrics.Listen)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	idx, err := a.loadIndex(ctx)
	if err != nil {
		slog.Error("Failed to load master index", "error", err)
		os.Exit(1)
	}

	eng, err := a.newEngine(retryFailed || cfg.Engine.RetryFailed)
	if err != nil {
		slog.Error("Failed to build engine", "error", err)
		os.Exit(1)
	}

	summary, err := eng.Run(ctx, idx.Repositories)
	if err != nil {
		slog.Error("Run aborted", "error", err)
		os.Exit(1)
	}

	slog.Info("Run finished",
		"completed", summary.Completed,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed.Round(time.Second),
	)
}

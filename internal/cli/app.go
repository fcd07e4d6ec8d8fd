package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/orglens/internal/classify"
	"github.com/vietddude/orglens/internal/core/checkpoint"
	"github.com/vietddude/orglens/internal/core/config"
	"github.com/vietddude/orglens/internal/core/ledger"
	"github.com/vietddude/orglens/internal/engine"
	"github.com/vietddude/orglens/internal/index"
	"github.com/vietddude/orglens/internal/infra/blob"
	"github.com/vietddude/orglens/internal/infra/github"
	"github.com/vietddude/orglens/internal/report"
)

// app holds the wired components shared by the CLI commands.
type app struct {
	cfg         *config.AppConfig
	blobs       blob.Store
	client      *github.Client
	checkpoints checkpoint.Store
	ledger      *ledger.Ledger
	log         *slog.Logger
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	if cfg.Org == "" {
		return nil, errors.New("no organization configured")
	}

	log := slog.Default()
	blobs, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	limiter := engine.NewLimiter(log)
	client := github.NewClient(cfg.GitHub, limiter, log)

	return &app{
		cfg:         cfg,
		blobs:       blobs,
		client:      client,
		checkpoints: checkpoint.NewBlobStore(blobs, checkpoint.DefaultKey),
		ledger:      ledger.New(blobs, ledger.DefaultKey),
		log:         log,
	}, nil
}

// loadIndex returns the stored master index, building one on first use.
func (a *app) loadIndex(ctx context.Context) (*index.Index, error) {
	idx, err := index.Load(ctx, a.blobs, a.cfg.Org)
	if errors.Is(err, blob.ErrNotFound) {
		a.log.Info("no master index found, building one", "org", a.cfg.Org)
		return index.NewBuilder(a.client, a.blobs, a.log).Build(ctx, a.cfg.Org)
	}
	return idx, err
}

// newEngine wires a batch engine over the app's shared components.
func (a *app) newEngine(retryFailed bool) (*engine.Engine, error) {
	return engine.New(engine.Config{
		BatchSize:   a.cfg.Engine.BatchSize,
		MaxAttempts: a.cfg.Engine.MaxAttempts,
		RetryFailed: retryFailed,
		Checkpoints: a.checkpoints,
		Ledger:      a.ledger,
		Classifier:  classify.NewKeywordClassifier(a.client, a.log),
		Sink:        report.NewCSVSink(a.blobs, report.DefaultKey),
		Log:         a.log,
	})
}

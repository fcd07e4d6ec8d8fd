// Package engine drives resumable batch classification: process N
// independently-failable repositories against a rate-limited remote source,
// checkpointing after every batch so a crash or quota stall loses at most
// one in-flight batch.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/orglens/internal/core/checkpoint"
	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/core/ledger"
	"github.com/vietddude/orglens/internal/metrics"
)

// Classifier derives the label set for one repository. Implementations must
// wrap malformed-input failures with Permanent so the engine fails the item
// without burning retry attempts.
type Classifier interface {
	Classify(ctx context.Context, repo *domain.Repo) (domain.Classification, error)
}

// Sink receives classification results. Write buffers; Flush persists the
// buffer at batch boundaries.
type Sink interface {
	Write(result domain.Classification)
	Flush(ctx context.Context) error
}

// Config wires the engine's collaborators.
type Config struct {
	BatchSize   int
	MaxAttempts int
	// RetryFailed includes repositories from the checkpoint's failed set;
	// a success removes them from it.
	RetryFailed bool

	Checkpoints checkpoint.Store
	Ledger      *ledger.Ledger
	Classifier  Classifier
	Sink        Sink

	Log  *slog.Logger
	Wait WaitFunc
	Now  func() time.Time
}

// Engine is the single-worker orchestrator. It owns the checkpoint and all
// caches for the lifetime of a run; nothing else mutates them.
type Engine struct {
	cfg  Config
	log  *slog.Logger
	wait WaitFunc
	now  func() time.Time
}

// New validates the configuration and builds an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", cfg.BatchSize)
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be >= 1, got %d", cfg.MaxAttempts)
	}
	if cfg.Checkpoints == nil || cfg.Ledger == nil || cfg.Classifier == nil || cfg.Sink == nil {
		return nil, errors.New("checkpoints, ledger, classifier and sink are required")
	}

	e := &Engine{
		cfg:  cfg,
		log:  cfg.Log,
		wait: cfg.Wait,
		now:  cfg.Now,
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.wait == nil {
		e.wait = Wait
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Run classifies every repository in repos not already settled by a prior
// run. The order of repos must be stable across resumed runs; the checkpoint
// cursor is an offset into it.
//
// Per-item failures are isolated into the failure ledger and never abort the
// run. Persistence failures do: the typed *blob.PersistenceError propagates
// out, and progress up to the last checkpoint save stays valid. Context
// cancellation also aborts, without marking any pending item failed; the
// in-flight batch is simply re-derived on the next run.
func (e *Engine) Run(ctx context.Context, repos []*domain.Repo) (domain.RunSummary, error) {
	started := e.now()

	cp, err := e.cfg.Checkpoints.Load(ctx)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	e.log.Info("Starting classification run",
		"total", len(repos),
		"resume_from", cp.Cursor,
		"completed", len(cp.Completed),
		"failed", len(cp.Failed),
		"batch_size", e.cfg.BatchSize,
		"retry_failed", e.cfg.RetryFailed,
	)

	start := cp.Cursor
	if e.cfg.RetryFailed {
		// Failed repositories live behind the cursor; rescan from the top.
		// Completed ones are skipped, so the pass is cheap.
		start = 0
	}

	for i := start; i < len(repos); i += e.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return e.summary(cp, started), err
		}

		end := i + e.cfg.BatchSize
		if end > len(repos) {
			end = len(repos)
		}
		batch := repos[i:end]

		e.log.Info("Processing batch", "from", i+1, "to", end, "total", len(repos))

		for j, repo := range batch {
			if err := e.processRepo(ctx, cp, repo); err != nil {
				// Cancellation mid-batch: nothing from this batch is
				// persisted, so the items stay pending for the next run.
				return e.summary(cp, started), err
			}
			// Cursor moves per item but is persisted per batch, so a crash
			// mid-batch re-derives at worst this batch. It never regresses,
			// even on a retry-failed rescan.
			if next := i + j + 1; next > cp.Cursor {
				cp.Cursor = next
			}
		}

		if err := e.persistBatch(ctx, cp); err != nil {
			return e.summary(cp, started), err
		}

		e.log.Info("Checkpoint saved",
			"completed", len(cp.Completed),
			"failed", len(cp.Failed),
			"cursor", cp.Cursor,
		)
		metrics.BatchesProcessed.Inc()
	}

	summary := e.summary(cp, started)
	e.log.Info("Classification run finished",
		"completed", summary.Completed,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

// processRepo settles one repository in the checkpoint. The returned error
// is non-nil only for context cancellation, which aborts the run: a canceled
// item was never classified and must not be marked failed.
func (e *Engine) processRepo(ctx context.Context, cp *domain.Checkpoint, repo *domain.Repo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := repo.ID()

	if cp.Completed.Has(id) {
		e.log.Debug("Skipping repository, already completed", "repo", id)
		metrics.ReposSkipped.Inc()
		return nil
	}
	if _, failed := cp.Failed[id]; failed && !e.cfg.RetryFailed {
		e.log.Debug("Skipping repository, previously failed", "repo", id)
		metrics.ReposSkipped.Inc()
		return nil
	}

	result, err := ExecuteWithRetry(ctx, RetryConfig{
		MaxAttempts: e.cfg.MaxAttempts,
		Wait:        e.wait,
		Log:         e.log,
	}, func(ctx context.Context) (domain.Classification, error) {
		return e.cfg.Classifier.Classify(ctx, repo)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		e.log.Error("Repository failed classification", "repo", id, "error", err)
		e.cfg.Ledger.Append(domain.FailureRecord{
			ID:         uuid.NewString(),
			Repository: repo.FullName,
			URL:        repo.URL,
			Error:      err.Error(),
			Timestamp:  e.now(),
		})
		cp.Failed[id] = e.now()
		metrics.ReposFailed.Inc()
		return nil
	}

	cp.Completed.Add(id)
	delete(cp.Failed, id)
	cp.TotalProcessed++
	e.cfg.Sink.Write(result)
	metrics.ReposProcessed.Inc()
	return nil
}

// persistBatch flushes results, then the checkpoint, then the ledger. The
// sink goes first: if results cannot be persisted the checkpoint must not
// claim the batch, and the result sink dedupes re-derived rows by key.
func (e *Engine) persistBatch(ctx context.Context, cp *domain.Checkpoint) error {
	if err := e.cfg.Sink.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}
	if err := e.cfg.Checkpoints.Save(ctx, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	metrics.CheckpointSaves.Inc()
	if err := e.cfg.Ledger.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush failure ledger: %w", err)
	}
	return nil
}

func (e *Engine) summary(cp *domain.Checkpoint, started time.Time) domain.RunSummary {
	return domain.RunSummary{
		Completed: len(cp.Completed),
		Failed:    len(cp.Failed),
		Elapsed:   e.now().Sub(started),
	}
}

package service

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/ingest"
	"github.com/tx-dispute-ledger/internal/report"
)

// BatchJob describes one independent ledger run: a CSV input and the
// destination for its account report.
type BatchJob struct {
	Name   string
	Input  io.Reader
	Output io.Writer
}

// BatchRunner processes independent runs concurrently on a worker pool.
// Each job gets its own engine, so runs never share state; within a job
// operations are applied strictly in input order.
type BatchRunner struct {
	logger     *slog.Logger
	pool       *ants.Pool
	engineOpts []ledger.Option
}

// NewBatchRunner creates a runner backed by a pool of size workers.
func NewBatchRunner(logger *slog.Logger, size int, engineOpts ...ledger.Option) (*BatchRunner, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &BatchRunner{logger: logger, pool: pool, engineOpts: engineOpts}, nil
}

// RunAll executes every job and waits for completion. Per-job failures are
// collected; one failing job does not stop the others.
func (r *BatchRunner) RunAll(jobs []BatchJob) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, job := range jobs {
		job := job
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			if err := r.runOne(job); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("job %s: %w", job.Name, err))
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("submit job %s: %w", job.Name, submitErr))
			mu.Unlock()
		}
	}

	wg.Wait()
	return errs
}

func (r *BatchRunner) runOne(job BatchJob) error {
	logger := r.logger.With("job", job.Name)

	src, err := ingest.NewCSVReader(logger, job.Input)
	if err != nil {
		return err
	}

	engine := ledger.NewEngine(r.engineOpts...)
	stats, err := NewProcessor(logger).Run(engine, src)
	if err != nil {
		return err
	}

	logger.Info("run complete",
		"applied", stats.Applied,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)

	return report.WriteAccountsCSV(job.Output, engine)
}

// Shutdown releases the worker pool.
func (r *BatchRunner) Shutdown() {
	r.logger.Info("shutting down batch worker pool", "running_workers", r.pool.Running())
	r.pool.Release()
}

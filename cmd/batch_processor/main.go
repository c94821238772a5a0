package main

import (
	"fmt"
	"os"

	"github.com/tx-dispute-ledger/internal/config"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/logger"
	"github.com/tx-dispute-ledger/internal/service"
)

func main() {
	cfg, err := config.LoadConfig("batch_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	inputs := os.Args[1:]
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: batch_processor <transactions.csv> [more.csv ...]")
		os.Exit(2)
	}

	log.Info("starting batch processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"inputs", len(inputs),
	)

	var engineOpts []ledger.Option
	if cfg.Processor.AllowWithdrawalDisputes {
		engineOpts = append(engineOpts, ledger.WithWithdrawalDisputes(true))
	}

	runner, err := service.NewBatchRunner(log, cfg.WorkerPool.Size, engineOpts...)
	if err != nil {
		log.Error("failed to create batch runner", "error", err)
		os.Exit(1)
	}
	defer runner.Shutdown()

	jobs, cleanup, err := buildJobs(inputs)
	defer cleanup()
	if err != nil {
		log.Error("failed to open inputs", "error", err)
		os.Exit(1)
	}

	if errs := runner.RunAll(jobs); len(errs) > 0 {
		for _, runErr := range errs {
			log.Error("run failed", "error", runErr)
		}
		os.Exit(1)
	}

	log.Info("all runs complete", "inputs", len(inputs))
}

// buildJobs opens every input. A single input reports to stdout; several
// inputs each get a sibling <input>.accounts.csv so concurrent runs never
// interleave output.
func buildJobs(inputs []string) ([]service.BatchJob, func(), error) {
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	jobs := make([]service.BatchJob, 0, len(inputs))
	for _, path := range inputs {
		in, err := os.Open(path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open %s: %w", path, err)
		}
		closers = append(closers, func() { in.Close() })

		job := service.BatchJob{Name: path, Input: in, Output: os.Stdout}
		if len(inputs) > 1 {
			out, err := os.Create(path + ".accounts.csv")
			if err != nil {
				return nil, cleanup, fmt.Errorf("create report for %s: %w", path, err)
			}
			closers = append(closers, func() { out.Close() })
			job.Output = out
		}
		jobs = append(jobs, job)
	}

	return jobs, cleanup, nil
}

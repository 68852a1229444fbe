package batch

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

// Summary is what a batch run reports at the end.
type Summary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Malformed int           `json:"malformed"`
	Duration  time.Duration `json:"duration_ns"`
}

// OutputRecord is one line of the batch output file.
type OutputRecord struct {
	Line   int                        `json:"line"`
	Result *models.EvaluationResponse `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

type Runner struct {
	executor        *executor.Executor
	workers         int
	continueOnError bool
	logger          *zerolog.Logger
}

func NewRunner(exec *executor.Executor, workers int, continueOnError bool, logger *zerolog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		executor:        exec,
		workers:         workers,
		continueOnError: continueOnError,
		logger:          logger,
	}
}

// Run evaluates every record with the worker pool and writes one JSON line
// per record to out. With continueOnError false, the first failed job stops
// the run after in-flight jobs drain.
func (r *Runner) Run(ctx context.Context, records <-chan InputRecord, out io.Writer) Summary {
	start := time.Now()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		summary Summary
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	enc := json.NewEncoder(out)
	writeRecord := func(rec OutputRecord, failed bool, malformed bool) {
		mu.Lock()
		defer mu.Unlock()
		summary.Total++
		switch {
		case malformed:
			summary.Malformed++
		case failed:
			summary.Failed++
		default:
			summary.Succeeded++
		}
		if err := enc.Encode(rec); err != nil {
			r.logger.Error().Err(err).Int("line", rec.Line).Msg("failed to write output record")
		}
	}

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range records {
				if runCtx.Err() != nil {
					return
				}

				if record.Error != nil {
					writeRecord(OutputRecord{Line: record.Line, Error: record.Error.Error()}, false, true)
					if !r.continueOnError {
						cancel()
						return
					}
					continue
				}

				result, err := r.executor.Execute(runCtx, record.Request)
				if err != nil {
					r.logger.Warn().Err(err).Int("line", record.Line).Msg("job rejected")
					writeRecord(OutputRecord{Line: record.Line, Error: err.Error()}, true, false)
					if !r.continueOnError {
						cancel()
						return
					}
					continue
				}

				writeRecord(OutputRecord{Line: record.Line, Result: &result}, false, false)
			}
		}()
	}

	wg.Wait()

	// After an early stop the reader may still be blocked sending; drain the
	// channel so it can finish and close.
	for range records {
	}

	summary.Duration = time.Since(start)

	r.logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("malformed", summary.Malformed).
		Dur("duration", summary.Duration).
		Msg("batch run complete")

	return summary
}

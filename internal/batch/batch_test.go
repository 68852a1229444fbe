package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/heuristics"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

const validJob = `{"job_id":"j1","conversation":[{"speaker":"Patient","text":"I feel hopeless."}],"metrics":["toxicity"]}`

func TestReader_ReadAll(t *testing.T) {
	input := strings.Join([]string{
		validJob,
		"",
		"not json at all",
		`{"job_id":"j2","conversation":[{"speaker":"Patient","text":"Better today."}],"metrics":["toxicity"]}`,
	}, "\n")

	logger := zerolog.Nop()
	records := NewReader(strings.NewReader(input), &logger).ReadAll(context.Background())

	var got []InputRecord
	for record := range records {
		got = append(got, record)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 records (blank line skipped), got %d", len(got))
	}
	if got[0].Line != 1 || got[0].Error != nil || got[0].Request.JobID != "j1" {
		t.Errorf("record 0 = %+v", got[0])
	}
	if got[1].Line != 3 || got[1].Error == nil {
		t.Errorf("record 1 should carry a parse error: %+v", got[1])
	}
	if got[2].Line != 4 || got[2].Request.JobID != "j2" {
		t.Errorf("record 2 = %+v", got[2])
	}
}

func TestReader_ContextCancellation(t *testing.T) {
	input := strings.Repeat(validJob+"\n", 100)

	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	records := NewReader(strings.NewReader(input), &logger).ReadAll(ctx)

	// Take one record, then cancel; the channel must close without draining
	// all 100 lines.
	<-records
	cancel()

	count := 0
	for range records {
		count++
	}
	if count >= 99 {
		t.Errorf("reader kept producing after cancellation: %d records", count)
	}
}

func newBatchExecutor(t *testing.T) *executor.Executor {
	t.Helper()
	logger := zerolog.Nop()
	registry := evaluator.NewRegistry(&logger)
	err := registry.Register(evaluator.Registration{
		MetricName: heuristics.ToxicityMetric,
		New: func(opts models.Options) (evaluator.Evaluator, error) {
			return heuristics.NewToxicity(), nil
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return executor.New(registry, 0, &logger)
}

func TestRunner_Run(t *testing.T) {
	input := strings.Join([]string{
		validJob,
		"garbage line",
		`{"job_id":"j3","conversation":[],"metrics":["toxicity"]}`,
	}, "\n")

	logger := zerolog.Nop()
	ctx := context.Background()
	records := NewReader(strings.NewReader(input), &logger).ReadAll(ctx)

	var out bytes.Buffer
	runner := NewRunner(newBatchExecutor(t), 2, true, &logger)
	summary := runner.Run(ctx, records, &out)

	if summary.Total != 3 {
		t.Errorf("total = %d, want 3", summary.Total)
	}
	if summary.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1 (empty conversation)", summary.Failed)
	}
	if summary.Malformed != 1 {
		t.Errorf("malformed = %d, want 1", summary.Malformed)
	}

	// Every input line produced exactly one output line.
	lines := 0
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		lines++
		var rec OutputRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("output line %d is not JSON: %v", lines, err)
		}
		if rec.Line == 1 {
			if rec.Result == nil || rec.Error != "" {
				t.Errorf("line 1 output = %+v, want a result", rec)
			} else if rec.Result.Results["toxicity"].Result == nil {
				t.Errorf("line 1 missing toxicity result: %+v", rec.Result)
			}
		}
	}
	if lines != 3 {
		t.Errorf("output lines = %d, want 3", lines)
	}
}

func TestRunner_StopsOnFirstFailure(t *testing.T) {
	badJob := `{"job_id":"bad","conversation":[],"metrics":["toxicity"]}`
	input := badJob + "\n" + strings.Repeat(validJob+"\n", 50)

	logger := zerolog.Nop()
	ctx := context.Background()
	records := NewReader(strings.NewReader(input), &logger).ReadAll(ctx)

	var out bytes.Buffer
	runner := NewRunner(newBatchExecutor(t), 1, false, &logger)
	summary := runner.Run(ctx, records, &out)

	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", summary.Failed)
	}
	if summary.Total >= 51 {
		t.Errorf("run did not stop after the first failure: %d records processed", summary.Total)
	}

	// Run must leave the reader finished: the channel is drained and closed,
	// not held open by a blocked send.
	if _, open := <-records; open {
		t.Error("records channel still open after Run returned")
	}
}

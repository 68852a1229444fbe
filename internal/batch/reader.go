// Package batch reads transcript evaluation jobs from JSONL files and runs
// them through the executor with a bounded worker pool.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/models"
)

// InputRecord is one parsed line of a batch input file. A malformed line
// carries its parse error instead of a request so the caller can decide
// whether to continue.
type InputRecord struct {
	Line    int
	Request models.EvaluationRequest
	Error   error
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{r: r, logger: logger}
}

// ReadAll streams records from the input, one JSON object per line. Blank
// lines are skipped. The channel closes at EOF or when ctx is done.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			record := InputRecord{Line: line}
			if err := json.Unmarshal([]byte(text), &record.Request); err != nil {
				record.Error = err
				r.logger.Warn().Err(err).Int("line", line).Msg("skipping malformed record")
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("failed to read batch input")
		}
	}()

	return out
}

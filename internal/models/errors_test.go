package models

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMetricErrorFrom(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantKind      MetricErrorKind
		wantRetryable bool
	}{
		{
			name:     "unknown metric",
			err:      &UnknownMetricError{Metric: "vibes"},
			wantKind: ErrKindUnknownMetric,
		},
		{
			name:     "invalid input",
			err:      &InvalidInputError{Msg: "conversation is empty"},
			wantKind: ErrKindInvalidInput,
		},
		{
			name:     "configuration",
			err:      &ConfigurationError{Msg: "nil factory"},
			wantKind: ErrKindConfiguration,
		},
		{
			name:          "retryable backend failure",
			err:           &BackendError{Metric: "empathy", Retryable: true, Err: errors.New("throttled")},
			wantKind:      ErrKindBackendFailure,
			wantRetryable: true,
		},
		{
			name:     "permanent backend failure",
			err:      &BackendError{Metric: "empathy", Err: errors.New("bad verdict")},
			wantKind: ErrKindBackendFailure,
		},
		{
			name:     "wrapped typed error",
			err:      fmt.Errorf("evaluating: %w", &UnknownMetricError{Metric: "vibes"}),
			wantKind: ErrKindUnknownMetric,
		},
		{
			name:          "deadline exceeded",
			err:           context.DeadlineExceeded,
			wantKind:      ErrKindBackendFailure,
			wantRetryable: true,
		},
		{
			name:     "unclassified error",
			err:      errors.New("something odd"),
			wantKind: ErrKindBackendFailure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MetricErrorFrom(tc.err)
			if got.Kind != tc.wantKind {
				t.Errorf("kind = %q, want %q", got.Kind, tc.wantKind)
			}
			if got.Retryable != tc.wantRetryable {
				t.Errorf("retryable = %v, want %v", got.Retryable, tc.wantRetryable)
			}
			if got.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestBackendError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &BackendError{Metric: "empathy", Retryable: true, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("BackendError does not unwrap to its cause")
	}
}

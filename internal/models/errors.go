package models

import (
	"context"
	"errors"
	"fmt"
)

// ConfigurationError means an evaluator or registration is mis-declared.
// It is fatal at construction time and should never surface at request time.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// UnknownMetricError means a caller asked for a metric name nobody registered.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.Metric)
}

// InvalidInputError means the conversation (or another caller-supplied value)
// was empty or malformed.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Msg
}

// BackendError means an evaluator's underlying model or API call failed.
// Retryable separates transient causes (throttling, timeout) from permanent
// ones (rejected credentials).
type BackendError struct {
	Metric    string
	Retryable bool
	Err       error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend failure for metric %q: %v", e.Metric, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// MetricErrorKind classifies a per-metric failure in a response payload.
type MetricErrorKind string

const (
	ErrKindUnknownMetric  MetricErrorKind = "unknown_metric"
	ErrKindInvalidInput   MetricErrorKind = "invalid_input"
	ErrKindConfiguration  MetricErrorKind = "configuration"
	ErrKindBackendFailure MetricErrorKind = "backend_failure"
)

// MetricError is the serializable form of a per-metric failure.
type MetricError struct {
	Kind      MetricErrorKind `json:"kind"`
	Message   string          `json:"message"`
	Retryable bool            `json:"retryable"`
}

// MetricErrorFrom classifies err into a MetricError. Deadline expiry counts
// as a retryable backend failure; anything unrecognized is a permanent one.
func MetricErrorFrom(err error) *MetricError {
	var unknown *UnknownMetricError
	if errors.As(err, &unknown) {
		return &MetricError{Kind: ErrKindUnknownMetric, Message: err.Error()}
	}
	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		return &MetricError{Kind: ErrKindInvalidInput, Message: err.Error()}
	}
	var config *ConfigurationError
	if errors.As(err, &config) {
		return &MetricError{Kind: ErrKindConfiguration, Message: err.Error()}
	}
	var backend *BackendError
	if errors.As(err, &backend) {
		return &MetricError{Kind: ErrKindBackendFailure, Message: err.Error(), Retryable: backend.Retryable}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &MetricError{Kind: ErrKindBackendFailure, Message: err.Error(), Retryable: true}
	}
	return &MetricError{Kind: ErrKindBackendFailure, Message: err.Error()}
}

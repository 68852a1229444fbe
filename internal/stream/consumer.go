// Package stream consumes transcript evaluation jobs from a message stream
// and publishes their results.
package stream

import "context"

type Consumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}

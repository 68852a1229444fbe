package stream

import (
	redisstream "github.com/mindwell-ai/convo-eval/internal/stream/redis"
)

type Config struct {
	Provider string // redis for now; kafka, sqs later
	Redis    *redisstream.Config
}

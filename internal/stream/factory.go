package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/redis"
	redisstream "github.com/mindwell-ai/convo-eval/internal/stream/redis"
)

func NewConsumer(
	ctx context.Context,
	cfg *Config,
	exec *executor.Executor,
	logger *zerolog.Logger,
) (Consumer, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, 5)
		if err != nil {
			return nil, err
		}

		return redisstream.NewConsumer(client, cfg.Redis, exec, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}

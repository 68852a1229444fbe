package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

// Consumer reads transcript evaluation jobs from a Redis stream consumer
// group, runs them through the executor, and publishes the per-metric
// outcomes to the results stream.
type Consumer struct {
	client   *redis.Client
	cfg      *Config
	executor *executor.Executor
	logger   *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *Config, exec *executor.Executor, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:   client,
		cfg:      cfg,
		executor: exec,
		logger:   logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("group", c.cfg.Group).
		Str("consumer", c.cfg.ConsumerName).
		Msg("consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.Group,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.Stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("job received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var job models.EvaluationRequest
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("failed to decode job")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	result, err := c.executor.Execute(ctx, job)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Str("job_id", job.JobID).Msg("job rejected")
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("job_id", job.JobID).
		Int("metrics", len(result.Results)).
		Msg("job evaluated")

	c.publish(ctx, result)
	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, result models.EvaluationResponse) {
	if c.cfg.ResultsStream == "" {
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("job_id", result.JobID).Msg("failed to serialize result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.cfg.ResultsStream,
		Values: map[string]any{"payload": string(body)},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("job_id", result.JobID).Msg("failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, id).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("failed to ack message")
	}
}

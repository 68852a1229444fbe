// Package setup loads process configuration from the environment and wires
// the registry, evaluators, and executor together.
package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/config"
	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/heuristics"
	"github.com/mindwell-ai/convo-eval/internal/judge"
	"github.com/mindwell-ai/convo-eval/internal/llm"
	"github.com/mindwell-ai/convo-eval/internal/llm/bedrock"
	"github.com/mindwell-ai/convo-eval/internal/llm/openai"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string
	MetricTimeout   time.Duration
}

type Dependencies struct {
	Registry *evaluator.Registry
	Executor *executor.Executor
	Logger   *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
		MetricTimeout:   getEnvDuration("METRIC_TIMEOUT", 60*time.Second),
	}
}

// Wire builds the registry from the evaluator catalog and returns the ready
// dependencies. Registration happens here, once, before any traffic.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	catalog, err := config.LoadEvaluatorsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluators config: %w", err)
	}

	registry := evaluator.NewRegistry(logger)
	if err := RegisterFromCatalog(registry, catalog, llmClient, logger); err != nil {
		return nil, err
	}

	logger.Info().
		Strs("metrics", registry.MetricNames()).
		Msg("evaluator registry initialized")

	return &Dependencies{
		Registry: registry,
		Executor: executor.New(registry, cfg.MetricTimeout, logger),
		Logger:   logger,
	}, nil
}

// RegisterFromCatalog registers every enabled catalog entry. Factories are
// closures over the shared LLM client; each Create call builds a fresh
// evaluator instance, so per-request options never leak between requests.
func RegisterFromCatalog(registry *evaluator.Registry, catalog *config.EvaluatorsConfig, llmClient llm.Client, logger *zerolog.Logger) error {
	for _, entry := range catalog.Evaluators {
		if !entry.Enabled {
			logger.Info().Str("metric", entry.Metric).Msg("evaluator disabled in config, skipping")
			continue
		}

		factory, err := buildFactory(entry, llmClient, logger)
		if err != nil {
			return err
		}

		err = registry.Register(evaluator.Registration{
			MetricName: entry.Metric,
			New:        factory,
			UILabel:    entry.UILabel,
			Category:   entry.Category,
			Metadata:   entry.Metadata,
		})
		if err != nil {
			return err
		}

		logger.Info().
			Str("metric", entry.Metric).
			Str("kind", string(entry.Kind)).
			Str("category", entry.Category).
			Msg("evaluator registered")
	}
	return nil
}

func buildFactory(entry config.EvaluatorConfig, llmClient llm.Client, logger *zerolog.Logger) (evaluator.Factory, error) {
	switch entry.Kind {
	case config.KindHeuristic:
		switch entry.Metric {
		case heuristics.ToxicityMetric:
			return func(models.Options) (evaluator.Evaluator, error) {
				return heuristics.NewToxicity(), nil
			}, nil
		case heuristics.EmotionMetric:
			return func(models.Options) (evaluator.Evaluator, error) {
				return heuristics.NewEmotion(), nil
			}, nil
		case heuristics.EngagementMetric:
			return func(models.Options) (evaluator.Evaluator, error) {
				return heuristics.NewEngagement(), nil
			}, nil
		default:
			return nil, &models.ConfigurationError{Msg: "no built-in heuristic for metric " + entry.Metric}
		}
	case config.KindTurnJudge:
		return func(models.Options) (evaluator.Evaluator, error) {
			return judge.NewTurnJudge(entry, llmClient, logger)
		}, nil
	case config.KindConversationJudge:
		return func(models.Options) (evaluator.Evaluator, error) {
			return judge.NewConversationJudge(entry, llmClient, logger)
		}, nil
	default:
		return nil, &models.ConfigurationError{Msg: "unknown evaluator kind " + string(entry.Kind)}
	}
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.Client, error) {
	switch provider {
	case "openai":
		return openai.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

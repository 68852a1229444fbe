// Package config loads the evaluator catalog from YAML. The catalog decides
// which metrics get registered at startup and with what prompts, model
// parameters, and picker metadata.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EvaluatorKind selects the construction path for a configured metric.
type EvaluatorKind string

const (
	// KindHeuristic maps to a built-in lexicon or structural scorer.
	KindHeuristic EvaluatorKind = "heuristic"
	// KindTurnJudge is an LLM judge invoked once per selected turn.
	KindTurnJudge EvaluatorKind = "turn_judge"
	// KindConversationJudge is an LLM judge invoked once per transcript.
	KindConversationJudge EvaluatorKind = "conversation_judge"
)

// ModelParams are the per-evaluator LLM call parameters.
type ModelParams struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

// EvaluatorConfig is one entry in the catalog.
type EvaluatorConfig struct {
	Metric   string         `yaml:"metric"`
	UILabel  string         `yaml:"ui_label"`
	Category string         `yaml:"category"`
	Kind     EvaluatorKind  `yaml:"kind"`
	Enabled  bool           `yaml:"enabled"`
	Prompt   string         `yaml:"prompt"`
	Speaker  string         `yaml:"speaker"`
	Scale    float64        `yaml:"scale"`
	Model    *ModelParams   `yaml:"model"`
	Metadata map[string]any `yaml:"metadata"`
}

// EvaluatorsConfig is the full catalog file.
type EvaluatorsConfig struct {
	Defaults struct {
		Model ModelParams `yaml:"model"`
	} `yaml:"defaults"`
	Evaluators []EvaluatorConfig `yaml:"evaluators"`
}

// LoadEvaluatorsConfig reads the catalog from EVALUATORS_CONFIG_PATH, falling
// back to configs/evaluators.yaml.
func LoadEvaluatorsConfig() (*EvaluatorsConfig, error) {
	path := os.Getenv("EVALUATORS_CONFIG_PATH")
	if path == "" {
		path = "configs/evaluators.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseEvaluatorsConfig(data)
}

// ParseEvaluatorsConfig unmarshals, applies defaults, and validates a catalog.
func ParseEvaluatorsConfig(data []byte) (*EvaluatorsConfig, error) {
	var cfg EvaluatorsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse evaluators config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *EvaluatorsConfig) {
	if cfg.Defaults.Model.MaxTokens == 0 {
		cfg.Defaults.Model.MaxTokens = 256
	}

	for i := range cfg.Evaluators {
		e := &cfg.Evaluators[i]
		if e.Model == nil {
			model := cfg.Defaults.Model
			e.Model = &model
		} else if e.Model.MaxTokens == 0 {
			e.Model.MaxTokens = cfg.Defaults.Model.MaxTokens
		}
		if e.Scale == 0 {
			e.Scale = 1.0
		}
		if e.UILabel == "" {
			e.UILabel = e.Metric
		}
	}
}

// Validate rejects catalogs an operator would otherwise only discover broken
// at request time: missing metric names, duplicates, judges without prompts.
func (c *EvaluatorsConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Evaluators))
	for i, e := range c.Evaluators {
		if e.Metric == "" {
			return fmt.Errorf("evaluator %d has empty metric name", i)
		}
		if _, dup := seen[e.Metric]; dup {
			return fmt.Errorf("duplicate metric %q in evaluators config", e.Metric)
		}
		seen[e.Metric] = struct{}{}

		switch e.Kind {
		case KindHeuristic:
		case KindTurnJudge:
			if e.Prompt == "" {
				return fmt.Errorf("turn judge %q has no prompt", e.Metric)
			}
			if e.Speaker == "" {
				return fmt.Errorf("turn judge %q has no target speaker", e.Metric)
			}
		case KindConversationJudge:
			if e.Prompt == "" {
				return fmt.Errorf("conversation judge %q has no prompt", e.Metric)
			}
		default:
			return fmt.Errorf("evaluator %q has unknown kind %q", e.Metric, e.Kind)
		}
	}
	return nil
}

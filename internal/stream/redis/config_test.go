package redis

import "testing"

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("localhost:6379", "", "transcript-jobs", "eval-group", "")

	if cfg.ConsumerName != "convo-eval-consumer" {
		t.Errorf("consumer name = %q", cfg.ConsumerName)
	}
	if cfg.ResultsStream != "transcript-jobs-results" {
		t.Errorf("results stream = %q", cfg.ResultsStream)
	}
}

func TestNewConfig_ExplicitConsumerName(t *testing.T) {
	cfg := NewConfig("localhost:6379", "secret", "jobs", "eval-group", "worker-3")

	if cfg.ConsumerName != "worker-3" {
		t.Errorf("consumer name = %q", cfg.ConsumerName)
	}
	if cfg.Group != "eval-group" || cfg.Password != "secret" {
		t.Errorf("config = %+v", cfg)
	}
}

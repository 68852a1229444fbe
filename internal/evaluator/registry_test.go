package evaluator

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/models"
)

type staticEvaluator struct {
	name string
}

func (e *staticEvaluator) MetricName() string { return e.name }

func (e *staticEvaluator) Evaluate(ctx context.Context, conv models.Conversation, opts models.Options) (*models.EvaluationResult, error) {
	return &models.EvaluationResult{
		Granularity: models.GranularityConversation,
		Overall:     models.MetricScore{e.name: models.Numerical(1, 1, models.HigherIsBetter)},
	}, nil
}

func staticFactory(name string) Factory {
	return func(opts models.Options) (Evaluator, error) {
		return &staticEvaluator{name: name}, nil
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := zerolog.Nop()
	return NewRegistry(&logger)
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	registry := newTestRegistry(t)

	err := registry.Register(Registration{
		MetricName: "toxicity",
		New:        staticFactory("toxicity"),
		UILabel:    "Toxicity",
		Category:   "Safety",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if !registry.Has("toxicity") {
		t.Error("expected Has to report registered metric")
	}

	ev, err := registry.Create("toxicity", models.Options{})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ev.MetricName() != "toxicity" {
		t.Errorf("created evaluator reports metric %q", ev.MetricName())
	}
}

func TestRegistry_RegisterRejects(t *testing.T) {
	registry := newTestRegistry(t)

	tests := []struct {
		name string
		reg  Registration
	}{
		{name: "empty metric name", reg: Registration{New: staticFactory("x")}},
		{name: "nil factory", reg: Registration{MetricName: "x"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := registry.Register(tc.reg)
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr *models.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %T", err)
			}
		})
	}
}

func TestRegistry_UnknownMetric(t *testing.T) {
	registry := newTestRegistry(t)

	if registry.Has("empathy") {
		t.Error("Has reported an unregistered metric")
	}

	_, err := registry.Lookup("empathy")
	var unknown *models.UnknownMetricError
	if !errors.As(err, &unknown) {
		t.Errorf("Lookup: expected UnknownMetricError, got %v", err)
	}

	_, err = registry.Create("empathy", models.Options{})
	if !errors.As(err, &unknown) {
		t.Errorf("Create: expected UnknownMetricError, got %v", err)
	}
	if unknown.Metric != "empathy" {
		t.Errorf("error carries metric %q, want empathy", unknown.Metric)
	}
}

func TestRegistry_LastWriteWins(t *testing.T) {
	registry := newTestRegistry(t)

	if err := registry.Register(Registration{
		MetricName: "empathy",
		New:        staticFactory("empathy"),
		UILabel:    "Empathy (v1)",
	}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := registry.Register(Registration{
		MetricName: "empathy",
		New:        staticFactory("empathy"),
		UILabel:    "Empathy (v2)",
	}); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}

	reg, err := registry.Lookup("empathy")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if reg.UILabel != "Empathy (v2)" {
		t.Errorf("expected last registration to win, got label %q", reg.UILabel)
	}
	if got := len(registry.MetricNames()); got != 1 {
		t.Errorf("expected 1 metric after override, got %d", got)
	}
}

func TestRegistry_CreateDetectsNameMismatch(t *testing.T) {
	registry := newTestRegistry(t)

	if err := registry.Register(Registration{
		MetricName: "empathy",
		New:        staticFactory("toxicity"),
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := registry.Create("empathy", models.Options{})
	var cfgErr *models.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError for name mismatch, got %v", err)
	}
}

func TestRegistry_MetricNamesSorted(t *testing.T) {
	registry := newTestRegistry(t)

	for _, name := range []string{"toxicity", "empathy", "engagement"} {
		if err := registry.Register(Registration{MetricName: name, New: staticFactory(name)}); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}

	want := []string{"empathy", "engagement", "toxicity"}
	if got := registry.MetricNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("MetricNames = %v, want %v", got, want)
	}
	// Enumeration must be stable across calls.
	if got := registry.MetricNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("second MetricNames = %v, want %v", got, want)
	}
}

func TestRegistry_GroupingAndMetadata(t *testing.T) {
	registry := newTestRegistry(t)

	regs := []Registration{
		{MetricName: "toxicity", New: staticFactory("toxicity"), UILabel: "Toxicity", Category: "Safety"},
		{MetricName: "emotion", New: staticFactory("emotion"), UILabel: "Emotion", Category: "Affect"},
		{MetricName: "empathy", New: staticFactory("empathy"), UILabel: "Empathy", Category: "Affect",
			Metadata: map[string]any{"description": "judged per therapist turn"}},
	}
	for _, reg := range regs {
		if err := registry.Register(reg); err != nil {
			t.Fatalf("Register %s failed: %v", reg.MetricName, err)
		}
	}

	labels := registry.UILabels()
	if labels["empathy"] != "Empathy" || labels["toxicity"] != "Toxicity" {
		t.Errorf("unexpected labels: %v", labels)
	}

	byCategory := registry.MetricsByCategory()
	if !reflect.DeepEqual(byCategory["Affect"], []string{"emotion", "empathy"}) {
		t.Errorf("Affect group = %v", byCategory["Affect"])
	}
	if !reflect.DeepEqual(byCategory["Safety"], []string{"toxicity"}) {
		t.Errorf("Safety group = %v", byCategory["Safety"])
	}

	meta, err := registry.Metadata("empathy")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if meta["description"] != "judged per therapist turn" {
		t.Errorf("unexpected metadata: %v", meta)
	}

	// Mutating the returned copy must not touch the registration.
	meta["description"] = "changed"
	again, _ := registry.Metadata("empathy")
	if again["description"] != "judged per therapist turn" {
		t.Error("Metadata returned a shared map")
	}
}

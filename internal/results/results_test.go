package results

import (
	"errors"
	"testing"

	"github.com/mindwell-ai/convo-eval/internal/models"
)

func TestUtterances_RoundTrip(t *testing.T) {
	scores := []models.MetricScore{
		{"toxicity": models.Numerical(0.0, 1.0, models.LowerIsBetter)},
		{"toxicity": models.Numerical(0.5, 1.0, models.LowerIsBetter)},
	}

	result, err := Utterances(scores, nil)
	if err != nil {
		t.Fatalf("Utterances failed: %v", err)
	}
	if err := result.Validate(); err != nil {
		t.Fatalf("result failed validation: %v", err)
	}

	if result.Granularity != models.GranularityUtterance {
		t.Errorf("expected utterance granularity, got %s", result.Granularity)
	}
	if len(result.PerUtterance) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.PerUtterance))
	}
	for i, entry := range result.PerUtterance {
		if entry.Index != i {
			t.Errorf("entry %d has index %d", i, entry.Index)
		}
		if entry.Reasoning != nil {
			t.Errorf("entry %d carries reasoning without any being provided", i)
		}
	}
	if result.PerSegment != nil || result.Overall != nil {
		t.Error("expected per_segment and overall to be absent")
	}
}

func TestUtterances_ReasoningAttachment(t *testing.T) {
	scores := []models.MetricScore{
		{"toxicity": models.Numerical(0.0, 1.0, models.LowerIsBetter)},
		{"toxicity": models.Numerical(0.75, 1.0, models.LowerIsBetter)},
		{"toxicity": models.Numerical(0.0, 1.0, models.LowerIsBetter)},
	}
	reasoning := []map[string]string{
		{},
		{"toxicity": "flagged slur"},
		{},
	}

	result, err := Utterances(scores, reasoning)
	if err != nil {
		t.Fatalf("Utterances failed: %v", err)
	}

	if result.PerUtterance[0].Reasoning != nil {
		t.Error("entry 0 should not carry reasoning")
	}
	if got := result.PerUtterance[1].Reasoning["toxicity"]; got != "flagged slur" {
		t.Errorf("entry 1 reasoning = %q, want 'flagged slur'", got)
	}
	if result.PerUtterance[2].Reasoning != nil {
		t.Error("entry 2 should not carry reasoning")
	}
}

func TestUtterances_LengthMismatch(t *testing.T) {
	scores := []models.MetricScore{
		{"toxicity": models.Numerical(0.0, 1.0, models.LowerIsBetter)},
	}
	reasoning := []map[string]string{{}, {}}

	_, err := Utterances(scores, reasoning)
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	var invalid *models.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

func TestUtterances_Empty(t *testing.T) {
	result, err := Utterances(nil, nil)
	if err != nil {
		t.Fatalf("Utterances failed: %v", err)
	}
	if result.PerUtterance == nil {
		t.Error("expected populated (empty) per_utterance, got nil")
	}
	if len(result.PerUtterance) != 0 {
		t.Errorf("expected 0 entries, got %d", len(result.PerUtterance))
	}
	if err := result.Validate(); err != nil {
		t.Errorf("empty utterance result failed validation: %v", err)
	}
}

func TestSparseUtterances_SkippedTurns(t *testing.T) {
	entries := []models.UtteranceScores{
		{Index: 3, Metrics: models.MetricScore{"empathy": models.Numerical(4, 5, models.HigherIsBetter)}},
		{Index: 1, Metrics: models.MetricScore{"empathy": models.Numerical(2, 5, models.HigherIsBetter)}},
	}

	result, err := SparseUtterances(entries)
	if err != nil {
		t.Fatalf("SparseUtterances failed: %v", err)
	}

	if len(result.PerUtterance) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.PerUtterance))
	}
	if result.PerUtterance[0].Index != 1 || result.PerUtterance[1].Index != 3 {
		t.Errorf("entries not ordered by index: %d, %d", result.PerUtterance[0].Index, result.PerUtterance[1].Index)
	}
}

func TestSparseUtterances_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.UtteranceScores
	}{
		{
			name: "duplicate index",
			entries: []models.UtteranceScores{
				{Index: 1, Metrics: models.MetricScore{}},
				{Index: 1, Metrics: models.MetricScore{}},
			},
		},
		{
			name: "negative index",
			entries: []models.UtteranceScores{
				{Index: -1, Metrics: models.MetricScore{}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SparseUtterances(tc.entries)
			if err == nil {
				t.Fatal("expected error")
			}
			var invalid *models.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Errorf("expected InvalidInputError, got %T", err)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	entries := []models.SegmentScores{
		{UtteranceIndices: []int{0, 2}, Metrics: models.MetricScore{"empathy": models.Numerical(3, 5, models.HigherIsBetter)}},
		{UtteranceIndices: []int{1}, Metrics: models.MetricScore{"empathy": models.Numerical(1, 5, models.HigherIsBetter)}},
	}

	result, err := Segments(entries)
	if err != nil {
		t.Fatalf("Segments failed: %v", err)
	}
	if err := result.Validate(); err != nil {
		t.Fatalf("result failed validation: %v", err)
	}

	if len(result.PerSegment) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.PerSegment))
	}
	if got := result.PerSegment[0].UtteranceIndices; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("segment 0 indices = %v, want [0 2]", got)
	}
	if got := result.PerSegment[1].UtteranceIndices; len(got) != 1 || got[0] != 1 {
		t.Errorf("segment 1 indices = %v, want [1]", got)
	}
	if result.PerUtterance != nil || result.Overall != nil {
		t.Error("expected per_utterance and overall to be absent")
	}
}

func TestSegments_EmptySegment(t *testing.T) {
	_, err := Segments([]models.SegmentScores{{UtteranceIndices: nil, Metrics: models.MetricScore{}}})
	if err == nil {
		t.Fatal("expected error for segment with no utterances")
	}
}

func TestOverall(t *testing.T) {
	result, err := Overall(models.MetricScore{
		"factuality": models.Numerical(0.9, 1.0, models.HigherIsBetter),
	})
	if err != nil {
		t.Fatalf("Overall failed: %v", err)
	}
	if err := result.Validate(); err != nil {
		t.Fatalf("result failed validation: %v", err)
	}

	if result.Granularity != models.GranularityConversation {
		t.Errorf("expected conversation granularity, got %s", result.Granularity)
	}
	if result.PerUtterance != nil || result.PerSegment != nil {
		t.Error("expected per_utterance and per_segment to be absent")
	}
}

func TestOverall_NilMetrics(t *testing.T) {
	_, err := Overall(nil)
	if err == nil {
		t.Fatal("expected error for nil metrics")
	}
}

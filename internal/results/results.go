// Package results builds the three normalized evaluation result shapes from
// raw score maps. All constructors are pure and enforce the exactly-one
// populated payload rule; malformed input fails fast instead of being
// truncated.
package results

import (
	"fmt"
	"sort"

	"github.com/mindwell-ai/convo-eval/internal/models"
)

// Utterances builds an utterance-level result from one score map per turn,
// assigning indices 0..len(scores)-1. reasoning may be nil; when present it
// must match scores in length, and an entry is attached to a turn only when
// its map is non-empty.
func Utterances(scores []models.MetricScore, reasoning []map[string]string) (*models.EvaluationResult, error) {
	if reasoning != nil && len(reasoning) != len(scores) {
		return nil, &models.InvalidInputError{
			Msg: fmt.Sprintf("reasoning length %d does not match scores length %d", len(reasoning), len(scores)),
		}
	}

	entries := make([]models.UtteranceScores, 0, len(scores))
	for i, metrics := range scores {
		entry := models.UtteranceScores{Index: i, Metrics: metrics}
		if reasoning != nil && len(reasoning[i]) > 0 {
			entry.Reasoning = reasoning[i]
		}
		entries = append(entries, entry)
	}

	return &models.EvaluationResult{
		Granularity:  models.GranularityUtterance,
		PerUtterance: entries,
	}, nil
}

// SparseUtterances builds an utterance-level result from explicit entries,
// for evaluators that skip turns they do not score. Entries are ordered by
// index; duplicate or negative indices fail fast.
func SparseUtterances(entries []models.UtteranceScores) (*models.EvaluationResult, error) {
	ordered := make([]models.UtteranceScores, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if e.Index < 0 {
			return nil, &models.InvalidInputError{Msg: fmt.Sprintf("negative utterance index %d", e.Index)}
		}
		if _, dup := seen[e.Index]; dup {
			return nil, &models.InvalidInputError{Msg: fmt.Sprintf("duplicate utterance index %d", e.Index)}
		}
		seen[e.Index] = struct{}{}
		if len(e.Reasoning) == 0 {
			e.Reasoning = nil
		}
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	return &models.EvaluationResult{
		Granularity:  models.GranularityUtterance,
		PerUtterance: ordered,
	}, nil
}

// Segments builds a segment-level result. Each segment must reference at
// least one non-negative utterance index.
func Segments(entries []models.SegmentScores) (*models.EvaluationResult, error) {
	segments := make([]models.SegmentScores, 0, len(entries))
	for i, s := range entries {
		if len(s.UtteranceIndices) == 0 {
			return nil, &models.InvalidInputError{Msg: fmt.Sprintf("segment %d references no utterances", i)}
		}
		for _, idx := range s.UtteranceIndices {
			if idx < 0 {
				return nil, &models.InvalidInputError{Msg: fmt.Sprintf("segment %d has negative utterance index %d", i, idx)}
			}
		}
		segments = append(segments, s)
	}

	return &models.EvaluationResult{
		Granularity: models.GranularitySegment,
		PerSegment:  segments,
	}, nil
}

// Overall builds a conversation-level result from a single score map.
func Overall(metrics models.MetricScore) (*models.EvaluationResult, error) {
	if metrics == nil {
		return nil, &models.InvalidInputError{Msg: "overall metrics map is nil"}
	}

	return &models.EvaluationResult{
		Granularity: models.GranularityConversation,
		Overall:     metrics,
	}, nil
}

package models

import "fmt"

// Granularity is the scope an evaluation result applies to.
type Granularity string

const (
	GranularityUtterance    Granularity = "utterance"
	GranularitySegment      Granularity = "segment"
	GranularityConversation Granularity = "conversation"
)

// UtteranceScores holds the scores for a single turn. Index is the turn's
// 0-based position in the input conversation. Reasoning maps metric names to
// rationale strings and is present only when the evaluator produced one.
type UtteranceScores struct {
	Index     int               `json:"index"`
	Metrics   MetricScore       `json:"metrics"`
	Reasoning map[string]string `json:"reasoning,omitempty"`
}

// SegmentScores holds the scores for a group of turns. The indices are a
// subset of conversation positions and need not be contiguous.
type SegmentScores struct {
	UtteranceIndices []int       `json:"utterance_indices"`
	Metrics          MetricScore `json:"metrics"`
}

// EvaluationResult is the normalized output of one evaluator. Granularity
// selects which payload is populated; the other two stay nil so a consumer
// can tell "no data" from "the wrong shape". A populated payload may still be
// empty, e.g. an evaluator that scores only therapist turns given a
// patient-only conversation.
// The payload fields deliberately carry no omitempty: omitempty drops empty
// slices and maps along with nil ones, which would turn a populated-but-empty
// payload into an absent one on the wire. An absent payload encodes as null.
type EvaluationResult struct {
	Granularity  Granularity       `json:"granularity"`
	PerUtterance []UtteranceScores `json:"per_utterance"`
	PerSegment   []SegmentScores   `json:"per_segment"`
	Overall      MetricScore       `json:"overall"`
}

// Validate checks that exactly one payload is populated and that it matches
// the declared granularity.
func (r *EvaluationResult) Validate() error {
	populated := 0
	if r.PerUtterance != nil {
		populated++
	}
	if r.PerSegment != nil {
		populated++
	}
	if r.Overall != nil {
		populated++
	}
	if populated != 1 {
		return &ConfigurationError{Msg: fmt.Sprintf("result must populate exactly one payload, got %d", populated)}
	}

	switch r.Granularity {
	case GranularityUtterance:
		if r.PerUtterance == nil {
			return &ConfigurationError{Msg: "utterance granularity without per_utterance payload"}
		}
		seen := make(map[int]struct{}, len(r.PerUtterance))
		for _, u := range r.PerUtterance {
			if u.Index < 0 {
				return &ConfigurationError{Msg: fmt.Sprintf("negative utterance index %d", u.Index)}
			}
			if _, dup := seen[u.Index]; dup {
				return &ConfigurationError{Msg: fmt.Sprintf("duplicate utterance index %d", u.Index)}
			}
			seen[u.Index] = struct{}{}
		}
	case GranularitySegment:
		if r.PerSegment == nil {
			return &ConfigurationError{Msg: "segment granularity without per_segment payload"}
		}
	case GranularityConversation:
		if r.Overall == nil {
			return &ConfigurationError{Msg: "conversation granularity without overall payload"}
		}
	default:
		return &ConfigurationError{Msg: fmt.Sprintf("unknown granularity %q", r.Granularity)}
	}
	return nil
}

// Outcome is the per-metric slot in an evaluation response: either a result
// or a typed error, never both.
type Outcome struct {
	Result *EvaluationResult `json:"result,omitempty"`
	Error  *MetricError      `json:"error,omitempty"`
}

// EvaluationResponse maps each requested metric to its outcome. One metric's
// failure sits alongside the other metrics' successes.
type EvaluationResponse struct {
	JobID   string             `json:"job_id,omitempty"`
	Results map[string]Outcome `json:"results"`
}

// EvaluationRequest is a transcript evaluation job as submitted over HTTP,
// a Redis stream, a batch file, or MCP.
type EvaluationRequest struct {
	JobID        string       `json:"job_id"`
	Conversation Conversation `json:"conversation"`
	Metrics      []string     `json:"metrics"`
	Options      Options      `json:"options,omitempty"`
}

package heuristics

import (
	"context"
	"strconv"
	"strings"

	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/models"
	"github.com/mindwell-ai/convo-eval/internal/results"
)

const EngagementMetric = "engagement"

const (
	defaultSegmentTurns   = 4
	defaultPatientSpeaker = "Patient"
)

// Engagement splits the conversation into fixed-size windows of turns and
// scores each window by the patient's share of the spoken words. A patient
// who barely talks scores low; the scale is [0,1], higher is better.
//
// Options read from the Extra bag:
//
//	segment_turns   window size in turns (default 4)
//	patient_speaker speaker label treated as the patient (default "Patient")
type Engagement struct{}

func NewEngagement() *Engagement {
	return &Engagement{}
}

func (e *Engagement) MetricName() string {
	return EngagementMetric
}

func (e *Engagement) Evaluate(ctx context.Context, conv models.Conversation, opts models.Options) (*models.EvaluationResult, error) {
	if err := evaluator.CheckConversation(conv); err != nil {
		return nil, err
	}

	segmentTurns := defaultSegmentTurns
	if raw := opts.ExtraValue("segment_turns"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, &models.InvalidInputError{Msg: "segment_turns must be a positive integer, got " + raw}
		}
		segmentTurns = parsed
	}

	patient := opts.ExtraValue("patient_speaker")
	if patient == "" {
		patient = defaultPatientSpeaker
	}

	var segments []models.SegmentScores
	for start := 0; start < len(conv); start += segmentTurns {
		end := start + segmentTurns
		if end > len(conv) {
			end = len(conv)
		}

		indices := make([]int, 0, end-start)
		patientWords, totalWords := 0, 0
		for i := start; i < end; i++ {
			indices = append(indices, i)
			words := len(tokenize(conv[i].Text))
			totalWords += words
			if strings.EqualFold(conv[i].Speaker, patient) {
				patientWords += words
			}
		}

		ratio := 0.0
		if totalWords > 0 {
			ratio = float64(patientWords) / float64(totalWords)
		}

		segments = append(segments, models.SegmentScores{
			UtteranceIndices: indices,
			Metrics: models.MetricScore{
				EngagementMetric: models.Numerical(ratio, 1.0, models.HigherIsBetter),
			},
		})
	}

	return results.Segments(segments)
}

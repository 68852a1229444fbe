package heuristics

import (
	"context"

	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/models"
	"github.com/mindwell-ai/convo-eval/internal/results"
)

const ToxicityMetric = "toxicity"

// Each lexicon hit adds this much to the turn's score.
const toxicityHitWeight = 0.25

var toxicLexicon = map[string]struct{}{
	"hate":       {},
	"stupid":     {},
	"idiot":      {},
	"useless":    {},
	"worthless":  {},
	"pathetic":   {},
	"shut":       {},
	"loser":      {},
	"disgusting": {},
	"awful":      {},
}

// Toxicity flags hostile language per utterance. Scores are on [0,1] with
// lower being better; the first lexicon hit in a turn becomes its highlight.
type Toxicity struct{}

func NewToxicity() *Toxicity {
	return &Toxicity{}
}

func (t *Toxicity) MetricName() string {
	return ToxicityMetric
}

func (t *Toxicity) Evaluate(ctx context.Context, conv models.Conversation, opts models.Options) (*models.EvaluationResult, error) {
	if err := evaluator.CheckConversation(conv); err != nil {
		return nil, err
	}

	scores := make([]models.MetricScore, 0, len(conv))
	for _, u := range conv {
		hits := 0
		firstHit := ""
		for _, token := range tokenize(u.Text) {
			if _, toxic := toxicLexicon[token]; toxic {
				hits++
				if firstHit == "" {
					firstHit = token
				}
			}
		}

		value := float64(hits) * toxicityHitWeight
		if value > 1.0 {
			value = 1.0
		}

		score := models.Numerical(value, 1.0, models.LowerIsBetter)
		if firstHit != "" {
			score = score.WithHighlight(firstHit)
		}
		scores = append(scores, models.MetricScore{ToxicityMetric: score})
	}

	return results.Utterances(scores, nil)
}

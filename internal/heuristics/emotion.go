package heuristics

import (
	"context"
	"sort"

	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/models"
	"github.com/mindwell-ai/convo-eval/internal/results"
)

const EmotionMetric = "emotion"

const emotionNeutral = "neutral"

var emotionLexicons = map[string][]string{
	"joy":     {"happy", "glad", "hopeful", "relieved", "grateful", "better", "proud", "excited"},
	"sadness": {"sad", "down", "hopeless", "empty", "lonely", "crying", "miserable", "numb"},
	"anger":   {"angry", "mad", "furious", "hate", "annoyed", "frustrated", "resentful"},
	"fear":    {"afraid", "scared", "anxious", "worried", "panic", "nervous", "terrified"},
}

// Emotion classifies the dominant emotion of each utterance from keyword
// lexicons. Turns with no lexicon hits are labeled neutral with no
// confidence.
type Emotion struct{}

func NewEmotion() *Emotion {
	return &Emotion{}
}

func (e *Emotion) MetricName() string {
	return EmotionMetric
}

func (e *Emotion) Evaluate(ctx context.Context, conv models.Conversation, opts models.Options) (*models.EvaluationResult, error) {
	if err := evaluator.CheckConversation(conv); err != nil {
		return nil, err
	}

	scores := make([]models.MetricScore, 0, len(conv))
	for _, u := range conv {
		scores = append(scores, models.MetricScore{EmotionMetric: classify(u.Text)})
	}

	return results.Utterances(scores, nil)
}

func classify(text string) models.Score {
	counts := make(map[string]int)
	highlights := make(map[string]string)
	total := 0

	for _, token := range tokenize(text) {
		for label, words := range emotionLexicons {
			for _, w := range words {
				if token == w {
					counts[label]++
					total++
					if highlights[label] == "" {
						highlights[label] = token
					}
				}
			}
		}
	}

	if total == 0 {
		return models.Categorical(emotionNeutral)
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	// Stable winner when labels tie.
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	top := labels[0]
	confidence := float64(counts[top]) / float64(total)

	return models.Categorical(top).
		WithConfidence(confidence).
		WithHighlight(highlights[top])
}

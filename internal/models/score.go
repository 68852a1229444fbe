package models

// ScoreType tags the two score shapes an evaluator may produce.
type ScoreType string

const (
	ScoreCategorical ScoreType = "categorical"
	ScoreNumerical   ScoreType = "numerical"
)

// Direction tells a consumer how to read a numerical scale.
type Direction string

const (
	HigherIsBetter Direction = "higher_is_better"
	LowerIsBetter  Direction = "lower_is_better"
)

// Score is a single metric score. Type selects which fields are meaningful:
// a categorical score carries Label and optionally Confidence, a numerical
// score carries Value, MaxValue, Direction and optionally a derived Label.
// Highlight is an optional text span from the scored utterance.
type Score struct {
	Type       ScoreType `json:"type"`
	Label      string    `json:"label,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Value      *float64  `json:"value,omitempty"`
	MaxValue   *float64  `json:"max_value,omitempty"`
	Direction  Direction `json:"direction,omitempty"`
	Highlight  string    `json:"highlight,omitempty"`
}

// Categorical builds a label score.
func Categorical(label string) Score {
	return Score{Type: ScoreCategorical, Label: label}
}

// Numerical builds a value score on the scale [0, maxValue].
func Numerical(value, maxValue float64, direction Direction) Score {
	return Score{
		Type:      ScoreNumerical,
		Value:     &value,
		MaxValue:  &maxValue,
		Direction: direction,
	}
}

// WithConfidence returns a copy with confidence in [0,1] attached.
func (s Score) WithConfidence(confidence float64) Score {
	s.Confidence = &confidence
	return s
}

// WithLabel returns a copy with a derived label attached.
func (s Score) WithLabel(label string) Score {
	s.Label = label
	return s
}

// WithHighlight returns a copy with a highlighted text span attached.
func (s Score) WithHighlight(span string) Score {
	s.Highlight = span
	return s
}

// MetricScore maps metric names to their scores.
type MetricScore map[string]Score

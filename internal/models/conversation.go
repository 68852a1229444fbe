package models

import (
	"fmt"
	"strings"
)

// Utterance is one turn of dialogue in a transcript.
type Utterance struct {
	Speaker string `json:"speaker" jsonschema:"required,description=Free-form speaker label, e.g. Patient or Therapist"`
	Text    string `json:"text" jsonschema:"required,description=Verbatim text of the turn"`
}

// Conversation is an ordered sequence of utterances. The position of an
// utterance in the slice is its index in every utterance-level result.
type Conversation []Utterance

// SpeakerIndices returns the positions of all turns by the given speaker.
// Speaker labels are compared case-insensitively.
func (c Conversation) SpeakerIndices(speaker string) []int {
	var indices []int
	for i, u := range c {
		if strings.EqualFold(u.Speaker, speaker) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Transcript renders the conversation as "Speaker: text" lines, one per turn.
func (c Conversation) Transcript() string {
	var b strings.Builder
	for i, u := range c {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(u.Speaker)
		b.WriteString(": ")
		b.WriteString(u.Text)
	}
	return b.String()
}

// Validate checks that the conversation is non-empty and that every turn
// carries non-empty text.
func (c Conversation) Validate() error {
	if len(c) == 0 {
		return &InvalidInputError{Msg: "conversation is empty"}
	}
	for i, u := range c {
		if strings.TrimSpace(u.Text) == "" {
			return &InvalidInputError{Msg: fmt.Sprintf("utterance %d has empty text", i)}
		}
	}
	return nil
}

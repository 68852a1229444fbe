// Package heuristics implements the lexicon and structural evaluators that
// score transcripts without calling a model backend.
package heuristics

import "strings"

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.Trim(f, ".,!?;:'\"()[]")
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Package judge implements the LLM-backed evaluators. Prompts come from the
// evaluator catalog; each judge parses a small JSON verdict out of the model
// response.
package judge

import (
	"encoding/json"
	"fmt"
	"strings"
)

type judgeResponse struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// parseVerdict extracts {"score": x, "reason": "..."} from raw model output.
// scale bounds the accepted score range.
func parseVerdict(content string, scale float64) (judgeResponse, error) {
	content = stripMarkdownFence(content)

	var verdict judgeResponse
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return judgeResponse{}, fmt.Errorf("failed to deserialize judge response: %w", err)
	}

	if verdict.Score == 0.0 && verdict.Reason == "" {
		return judgeResponse{}, fmt.Errorf("judge response missing score and reason")
	}
	if verdict.Score < 0.0 || verdict.Score > scale {
		return judgeResponse{}, fmt.Errorf("judge score %f out of range [0.0, %g]", verdict.Score, scale)
	}
	return verdict, nil
}

// stripMarkdownFence removes a ```json ... ``` wrapper if the model added one.
func stripMarkdownFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	firstNewline := strings.Index(content, "\n")
	if firstNewline == -1 {
		return content
	}
	closing := strings.LastIndex(content, "```")
	if closing == -1 || closing <= firstNewline {
		return content
	}

	return strings.TrimSpace(content[firstNewline+1 : closing])
}

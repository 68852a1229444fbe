package models

// Options carries cross-cutting evaluator parameters. The evaluator contract
// does not interpret them; each implementation documents the fields and Extra
// keys it reads and validates them itself.
type Options struct {
	Provider    string            `json:"provider,omitempty"`
	Model       string            `json:"model,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	Retry       bool              `json:"retry,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`

	// APIKey never round-trips through request or result payloads.
	APIKey string `json:"-"`
}

// ExtraValue reads a key from the Extra bag, returning "" when absent.
func (o Options) ExtraValue(key string) string {
	if o.Extra == nil {
		return ""
	}
	return o.Extra[key]
}

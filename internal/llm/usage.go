package llm

import "fmt"

// Usage tracks token consumption across LLM API calls. The JSON form is the
// one returned to API clients.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates usage from another Usage into this one.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// newUsage fills TotalTokens for vendors that only report the parts.
func newUsage(prompt, completion int) Usage {
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

func (u Usage) String() string {
	return fmt.Sprintf("tokens: %d in / %d out", u.PromptTokens, u.CompletionTokens)
}

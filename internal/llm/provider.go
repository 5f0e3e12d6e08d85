// Package llm talks to chat-completion models. Providers adapt one vendor
// API to the common request and response types; the Orchestrator drives
// multi-round conversations in which the model may call registered tools.
package llm

import "context"

// Provider defines the interface for single-turn LLM completion.
// Each implementation converts between these common types and its
// vendor's wire format.
type Provider interface {
	// Name returns the provider identifier (e.g., "groq", "claude").
	Name() string

	// Complete sends messages to the LLM and returns a single response.
	// The provider is stateless; callers manage conversation history.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest contains input for a single LLM turn.
type CompletionRequest struct {
	SystemPrompt string
	Messages     []Message

	// Tools defines the functions the LLM can call.
	Tools []ToolDef

	// MaxTokens limits the response length. Zero means provider default.
	MaxTokens int

	// Temperature is left to the provider when nil.
	Temperature *float64

	// JSONMode asks the provider for a JSON-only answer where supported.
	// Providers ignore it on turns that also offer tools.
	JSONMode bool
}

// CompletionResponse contains the LLM's response for a single turn.
type CompletionResponse struct {
	// Content may be empty if the response only contains tool calls.
	Content    string
	ToolCalls  []ToolCall
	StopReason string
	Usage      Usage
}

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is only set on assistant messages.
	ToolCalls []ToolCall

	// ToolResult is only set on user messages answering a tool call.
	ToolResult *ToolResult
}

// Role identifies the sender of a message in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Stop reasons normalized across providers.
const (
	StopEndTurn   = "end_turn"
	StopToolUse   = "tool_use"
	StopMaxTokens = "max_tokens"
)

// ToolCall represents an LLM's request to invoke a tool.
type ToolCall struct {
	// ID correlates the call with its ToolResult.
	ID   string
	Name string

	// Arguments is the raw JSON argument object exactly as the model sent
	// it. It is not guaranteed to be valid JSON.
	Arguments string
}

// ToolResult contains the output from executing a tool.
type ToolResult struct {
	CallID string

	// Name repeats the tool name for providers that key results by name.
	Name    string
	Content string
	IsError bool
}

// ToolDef defines a tool that the LLM can call. Parameters is a JSON
// Schema object.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Float is a convenience for CompletionRequest.Temperature.
func Float(v float64) *float64 {
	return &v
}

package llm

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Presets for vendors speaking the OpenAI chat-completions dialect.
const (
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	GroqModel        = "llama-3.3-70b-versatile"
	DeepSeekBaseURL  = "https://api.deepseek.com/v1"
	DeepSeekModel    = "deepseek-chat"
	defaultMaxTokens = 2000
)

// OpenAIProvider implements Provider against any OpenAI-compatible
// /chat/completions endpoint (Groq, DeepSeek).
type OpenAIProvider struct {
	name   string
	model  string
	client *resty.Client
}

// NewOpenAIProvider creates a provider named name that posts to
// baseURL/chat/completions with a bearer apiKey.
func NewOpenAIProvider(name, baseURL, apiKey, model string) *OpenAIProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetHeader("Content-Type", "application/json")

	return &OpenAIProvider{
		name:   name,
		model:  model,
		client: client,
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return p.name
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Tools          []chatTool      `json:"tools,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete posts one chat-completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	body := chatRequest{
		Model:       p.model,
		Messages:    toChatMessages(req.SystemPrompt, req.Messages),
		Tools:       toChatTools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = defaultMaxTokens
	}
	if req.JSONMode && len(req.Tools) == 0 {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var out chatResponse
	var apiErr chatError
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", p.name, err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return nil, fmt.Errorf("%s API returned %d: %s", p.name, resp.StatusCode(), msg)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("no choices in %s response", p.name)
	}

	return fromChatResponse(&out), nil
}

func toChatMessages(system string, msgs []Message) []chatMessage {
	result := make([]chatMessage, 0, len(msgs)+1)
	if system != "" {
		result = append(result, chatMessage{Role: "system", Content: system})
	}

	for _, msg := range msgs {
		switch {
		case msg.ToolResult != nil:
			result = append(result, chatMessage{
				Role:       "tool",
				Content:    msg.ToolResult.Content,
				ToolCallID: msg.ToolResult.CallID,
			})
		case msg.Role == RoleAssistant && len(msg.ToolCalls) > 0:
			calls := make([]chatToolCall, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				calls[i].ID = tc.ID
				calls[i].Type = "function"
				calls[i].Function.Name = tc.Name
				calls[i].Function.Arguments = tc.Arguments
			}
			result = append(result, chatMessage{Role: "assistant", Content: msg.Content, ToolCalls: calls})
		default:
			result = append(result, chatMessage{Role: string(msg.Role), Content: msg.Content})
		}
	}
	return result
}

func toChatTools(tools []ToolDef) []chatTool {
	if len(tools) == 0 {
		return nil
	}
	result := make([]chatTool, len(tools))
	for i, tool := range tools {
		result[i] = chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}
	}
	return result
}

func fromChatResponse(resp *chatResponse) *CompletionResponse {
	choice := resp.Choices[0]
	result := &CompletionResponse{
		Content: choice.Message.Content,
		Usage:   resp.Usage,
	}
	if result.Usage.TotalTokens == 0 {
		result.Usage = newUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	for _, tc := range choice.Message.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	switch choice.FinishReason {
	case "tool_calls":
		result.StopReason = StopToolUse
	case "length":
		result.StopReason = StopMaxTokens
	default:
		result.StopReason = StopEndTurn
	}
	if len(result.ToolCalls) > 0 {
		result.StopReason = StopToolUse
	}
	return result
}

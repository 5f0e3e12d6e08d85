package llm

import (
	"context"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/config"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider(ctx, &config.Config{LLMProvider: "groq"})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	for _, name := range []string{"groq", "deepseek", "claude"} {
		p, err := NewProvider(ctx, &config.Config{LLMProvider: name, LLMAPIKey: "k"})
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}

	_, err = NewProvider(ctx, &config.Config{LLMProvider: "openai", LLMAPIKey: "k"})
	assert.Error(t, err)
}

func TestDisabledProvider(t *testing.T) {
	_, err := DisabledProvider{Reason: ErrNoAPIKey}.Complete(context.Background(), &CompletionRequest{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestToAnthropicMessages(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "a", Name: "echo", Arguments: `{"query":"x"}`},
			{ID: "b", Name: "echo", Arguments: `not json`},
		}},
		{Role: RoleUser, ToolResult: &ToolResult{CallID: "a", Content: "1"}},
		{Role: RoleUser, ToolResult: &ToolResult{CallID: "b", Content: "2", IsError: true}},
		{Role: RoleAssistant},
	}

	result := toAnthropicMessages(msgs)
	require.Len(t, result, 3, "tool results share one user turn and empty assistant turns are dropped")
	assert.Equal(t, anthropic.MessageParamRoleAssistant, result[1].Role)
	assert.Len(t, result[1].Content, 2)
	assert.Len(t, result[2].Content, 2)
}

func TestToAnthropicTools(t *testing.T) {
	tools := toAnthropicTools([]ToolDef{{
		Name: "search",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"query": map[string]any{"type": "string"}},
			"required":   []any{"query"},
		},
	}})
	require.Len(t, tools, 1)
	assert.Equal(t, []string{"query"}, tools[0].OfTool.InputSchema.Required)
	assert.Nil(t, toAnthropicTools(nil))
}

func TestConvertSchemaToGemini(t *testing.T) {
	schema := convertSchemaToGemini(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "dish"},
			"tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"query"},
	})
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, genai.TypeString, schema.Properties["query"].Type)
	assert.Equal(t, "dish", schema.Properties["query"].Description)
	assert.Equal(t, genai.TypeString, schema.Properties["tags"].Items.Type)
	assert.Equal(t, []string{"query"}, schema.Required)
}

func TestToGeminiContents(t *testing.T) {
	contents := toGeminiContents([]Message{
		{Role: RoleUser, Content: "find ramen"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "1", Name: "search", Arguments: `{"query":"ramen"}`}}},
		{Role: RoleUser, ToolResult: &ToolResult{CallID: "1", Name: "search", Content: `{}`}},
	})
	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	call, ok := contents[1].Parts[0].(genai.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "ramen", call.Args["query"])
	resp, ok := contents[2].Parts[0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "search", resp.Name)
}

func TestConvertGeminiResponse(t *testing.T) {
	resp := convertResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("thinking"),
				genai.FunctionCall{Name: "search", Args: map[string]any{"query": "pho"}},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 4, CandidatesTokenCount: 2, TotalTokenCount: 6},
	})
	assert.Equal(t, "thinking", resp.Content)
	assert.Equal(t, StopToolUse, resp.StopReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.JSONEq(t, `{"query":"pho"}`, resp.ToolCalls[0].Arguments)
	assert.Equal(t, 6, resp.Usage.TotalTokens)

	assert.Equal(t, StopEndTurn, convertResponse(nil).StopReason)
}

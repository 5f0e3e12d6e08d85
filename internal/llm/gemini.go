package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiModel is the default Gemini model.
const GeminiModel = "gemini-2.0-flash"

// GeminiProvider implements Provider using the Google AI API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a provider for the given API key and model.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini provider requires an API key")
	}
	if model == "" {
		model = GeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Complete replays the history into a chat session and sends the last turn.
func (p *GeminiProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := p.client.GenerativeModel(p.model)

	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.Temperature != nil {
		model.SetTemperature(float32(*req.Temperature))
	}
	if len(req.Tools) > 0 {
		model.Tools = []*genai.Tool{
			{FunctionDeclarations: convertTools(req.Tools)},
		}
	} else if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	contents := toGeminiContents(req.Messages)
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini request has no messages")
	}
	last := contents[len(contents)-1]

	session := model.StartChat()
	session.History = contents[:len(contents)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return convertResponse(resp), nil
}

// Close releases the Gemini client resources.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// convertTools converts ToolDef slice to Gemini FunctionDeclaration slice.
func convertTools(tools []ToolDef) []*genai.FunctionDeclaration {
	declarations := make([]*genai.FunctionDeclaration, len(tools))
	for i, tool := range tools {
		declarations[i] = &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  convertSchemaToGemini(tool.Parameters),
		}
	}
	return declarations
}

var geminiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
}

// convertSchemaToGemini converts a JSON Schema map to Gemini Schema.
func convertSchemaToGemini(params map[string]any) *genai.Schema {
	if params == nil {
		return nil
	}

	schema := &genai.Schema{}
	if t, ok := params["type"].(string); ok {
		schema.Type = geminiTypes[t]
	}
	if desc, ok := params["description"].(string); ok {
		schema.Description = desc
	}
	if props, ok := params["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if propMap, ok := prop.(map[string]any); ok {
				schema.Properties[name] = convertSchemaToGemini(propMap)
			}
		}
	}
	schema.Required = requiredFields(params)
	if items, ok := params["items"].(map[string]any); ok {
		schema.Items = convertSchemaToGemini(items)
	}

	return schema
}

// toGeminiContents converts messages to role-tagged contents, merging
// consecutive messages from the same side into one turn.
func toGeminiContents(messages []Message) []*genai.Content {
	var contents []*genai.Content

	appendPart := func(role string, part genai.Part) {
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, part)
			return
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{part}})
	}

	for _, msg := range messages {
		switch {
		case msg.ToolResult != nil:
			appendPart("user", genai.FunctionResponse{
				Name:     msg.ToolResult.Name,
				Response: map[string]any{"result": msg.ToolResult.Content, "isError": msg.ToolResult.IsError},
			})
		case msg.Role == RoleAssistant:
			if msg.Content != "" {
				appendPart("model", genai.Text(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				args := map[string]any{}
				_ = json.Unmarshal([]byte(tc.Arguments), &args)
				appendPart("model", genai.FunctionCall{Name: tc.Name, Args: args})
			}
		default:
			appendPart("user", genai.Text(msg.Content))
		}
	}

	return contents
}

// convertResponse converts Gemini response to CompletionResponse.
func convertResponse(resp *genai.GenerateContentResponse) *CompletionResponse {
	result := &CompletionResponse{StopReason: StopEndTurn}

	if resp == nil || len(resp.Candidates) == 0 {
		return result
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			switch v := part.(type) {
			case genai.Text:
				result.Content += string(v)
			case genai.FunctionCall:
				args, _ := json.Marshal(v.Args)
				result.ToolCalls = append(result.ToolCalls, ToolCall{
					ID:        fmt.Sprintf("%s-%d", v.Name, len(result.ToolCalls)),
					Name:      v.Name,
					Arguments: string(args),
				})
			}
		}
	}

	if len(result.ToolCalls) > 0 {
		result.StopReason = StopToolUse
	} else if candidate.FinishReason == genai.FinishReasonMaxTokens {
		result.StopReason = StopMaxTokens
	}

	if resp.UsageMetadata != nil {
		result.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return result
}

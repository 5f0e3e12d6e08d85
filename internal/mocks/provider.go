package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-catalog/backend/internal/llm"
)

// MockProvider is a mock LLM provider. Tests script answers with
// On("Complete", ...).Return(resp, err).
type MockProvider struct {
	mock.Mock
}

var _ llm.Provider = (*MockProvider)(nil)

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.CompletionResponse), args.Error(1)
}

// Answer is a plain end-of-turn completion carrying content.
func Answer(content string) *llm.CompletionResponse {
	return &llm.CompletionResponse{
		Content:    content,
		StopReason: llm.StopEndTurn,
		Usage:      llm.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}
}

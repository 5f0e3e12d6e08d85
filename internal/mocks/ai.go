package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-catalog/backend/internal/model"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// MockAIService is a mock implementation of the AI service
type MockAIService struct {
	mock.Mock
}

var _ service.IAIService = (*MockAIService)(nil)

func (m *MockAIService) Suggest(ctx context.Context, req service.SuggestRequest) (*service.SuggestResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SuggestResult), args.Error(1)
}

func (m *MockAIService) Simplify(ctx context.Context, recipeID string, req service.SimplifyRequest) (*service.SimplifyResult, error) {
	args := m.Called(ctx, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SimplifyResult), args.Error(1)
}

func (m *MockAIService) Generate(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateResult), args.Error(1)
}

func (m *MockAIService) AnalyzeNutrition(ctx context.Context, recipeID string) (*service.NutritionResult, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NutritionResult), args.Error(1)
}

func (m *MockAIService) Promote(ctx context.Context, obj map[string]any) (*model.Recipe, error) {
	args := m.Called(ctx, obj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// MockImageService is a mock implementation of the image service
type MockImageService struct {
	mock.Mock
}

var _ service.IImageService = (*MockImageService)(nil)

func (m *MockImageService) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType)
	return args.String(0), args.Error(1)
}

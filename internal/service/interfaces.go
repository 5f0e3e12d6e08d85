package service

import (
	"context"
	"io"

	"github.com/pageza/recipe-catalog/backend/internal/draft"
	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, plan filter.Plan) (*RecipePage, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	CreateRecipe(ctx context.Context, c model.Candidate) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, c model.Candidate) (*model.Recipe, error)
	SetFavorite(ctx context.Context, id string, favorite bool) (*model.Recipe, error)
	CountRecipes(ctx context.Context) (int64, error)
}

// IAIService defines the interface for the AI-assisted operations
type IAIService interface {
	Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error)
	Simplify(ctx context.Context, recipeID string, req SimplifyRequest) (*SimplifyResult, error)
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	AnalyzeNutrition(ctx context.Context, recipeID string) (*NutritionResult, error)
	Promote(ctx context.Context, obj map[string]any) (*model.Recipe, error)
}

// IImageService defines the interface for image uploads
type IImageService interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// RecipeStore is the part of RecipeService the AI operations need.
type RecipeStore interface {
	FindRecipe(ctx context.Context, id string) (*model.Recipe, error)
	InsertRecipe(ctx context.Context, r *model.Recipe) error
}

// NutritionCache stores analyses by key. Implementations treat failures
// as misses.
type NutritionCache interface {
	Get(ctx context.Context, key string) (*draft.Nutrition, bool)
	Set(ctx context.Context, key string, n draft.Nutrition)
}

// FallbackRecorder counts AI answers that had to be replaced by fallbacks.
type FallbackRecorder interface {
	RecordFallback(operation string)
}

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/internal/api"
	"github.com/pageza/recipe-catalog/backend/internal/draft"
	"github.com/pageza/recipe-catalog/backend/internal/llm"
	"github.com/pageza/recipe-catalog/backend/internal/mocks"
	"github.com/pageza/recipe-catalog/backend/internal/model"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

func setupAIRouter(ai service.IAIService) *gin.Engine {
	router := gin.New()
	api.NewAIHandler(ai, zap.NewNop()).RegisterRoutes(router.Group("/api"))
	return router
}

var usage = llm.Usage{PromptTokens: 12, CompletionTokens: 30, TotalTokens: 42}

func TestSuggest(t *testing.T) {
	t.Run("ingredients must be an array", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		router := setupAIRouter(ai)

		for _, body := range []interface{}{
			map[string]interface{}{"ingredients": "rice"},
			map[string]interface{}{"cuisine": "Thai"},
			"not json",
		} {
			w := PerformRequest(router, http.MethodPost, "/api/ai/suggest", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Please provide an array of ingredients", decode(t, w)["message"])
		}
		ai.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything)
	})

	t.Run("empty array is a popular request", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Suggest", mock.Anything, mock.MatchedBy(func(req service.SuggestRequest) bool {
			return len(req.Ingredients) == 0 && req.PrepTime == "30" && req.IsVegetarian != nil && !*req.IsVegetarian
		})).Return(&service.SuggestResult{
			Message:     "Popular recipe suggestions",
			Suggestions: []draft.Draft{{Name: "Pad Thai", Cuisine: model.CuisineThai}},
			Usage:       usage,
		}, nil)

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/suggest", map[string]interface{}{
			"ingredients":  []string{},
			"prepTime":     30,
			"isVegetarian": false,
		})

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Popular recipe suggestions", body["message"])
		assert.Equal(t, "You can save any of these recipes to your collection", body["tip"])
		assert.Len(t, body["suggestions"], 1)
		assert.Equal(t, float64(42), body["usage"].(map[string]interface{})["total_tokens"])
		ai.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Suggest", mock.Anything, mock.Anything).
			Return(nil, &service.UpstreamError{Provider: "groq", Err: errors.New("timeout")})

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/suggest", map[string]interface{}{
			"ingredients": []string{"tofu"},
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, "AI service temporarily unavailable", body["message"])
		assert.Equal(t, []interface{}{}, body["suggestions"])
		assert.Contains(t, body["error"], "groq")
	})
}

func TestSimplify(t *testing.T) {
	id := uuid.NewString()

	t.Run("no body uses defaults", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Simplify", mock.Anything, id, service.SimplifyRequest{}).Return(&service.SimplifyResult{
			Recipe:     &model.Recipe{Name: "Risotto", Instructions: "Stir.", PrepTimeMinutes: 40},
			Simplified: draft.SimplifiedFallback("Stir.", 40, "beginner"),
			Complexity: "beginner",
			Language:   "english",
			Usage:      usage,
		}, nil)

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/simplify/"+id, nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, map[string]interface{}{"name": "Risotto", "instructions": "Stir.", "prepTime": float64(40)}, body["originalRecipe"])
		assert.Equal(t, "beginner", body["complexity"])
		assert.Equal(t, true, body["simplified"].(map[string]interface{})["isFallback"])
	})

	t.Run("missing recipe", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Simplify", mock.Anything, id, mock.Anything).Return(nil, service.ErrRecipeNotFound)

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/simplify/"+id, map[string]interface{}{"complexity": "advanced"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Recipe not found", decode(t, w)["message"])
	})

	t.Run("provider failure", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Simplify", mock.Anything, id, mock.Anything).Return(nil, &service.UpstreamError{Provider: "groq", Err: errors.New("503")})

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/simplify/"+id, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Failed to simplify recipe instructions", body["message"])
		assert.Contains(t, body, "simplified")
		assert.Nil(t, body["simplified"])
	})
}

func TestGenerate(t *testing.T) {
	t.Run("description required", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Generate", mock.Anything, mock.Anything).Return(nil, service.ErrDescriptionRequired)

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/generate", map[string]interface{}{"cuisine": "Thai"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Please provide a recipe description", decode(t, w)["message"])
	})

	t.Run("generated", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Generate", mock.Anything, mock.MatchedBy(func(req service.GenerateRequest) bool {
			return req.Description == "a cozy soup" && req.MealType == "dinner"
		})).Return(&service.GenerateResult{
			Recipe: draft.Draft{Name: "Cozy Soup", Cuisine: model.CuisineOther},
			Usage:  usage,
		}, nil)

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/generate", map[string]interface{}{
			"description": "a cozy soup",
			"mealType":    "dinner",
		})

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Recipe generated successfully", body["message"])
		assert.Equal(t, "Cozy Soup", body["recipe"].(map[string]interface{})["name"])
	})

	t.Run("provider failure", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Generate", mock.Anything, mock.Anything).Return(nil, &service.UpstreamError{Provider: "groq", Err: errors.New("timeout")})

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/generate", map[string]interface{}{"description": "soup"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Failed to generate recipe", body["message"])
		assert.Contains(t, body, "recipe")
		assert.Nil(t, body["recipe"])
	})
}

func TestAnalyzeNutrition(t *testing.T) {
	id := uuid.NewString()
	ai := &mocks.MockAIService{}
	ai.On("AnalyzeNutrition", mock.Anything, id).Return(&service.NutritionResult{
		RecipeName: "Pad Thai",
		Analysis:   draft.NutritionUnavailable(),
	}, nil)
	ai.On("AnalyzeNutrition", mock.Anything, "bad").Return(nil, service.ErrMalformedID)
	broken := uuid.NewString()
	ai.On("AnalyzeNutrition", mock.Anything, broken).Return(nil, errors.New("connection reset"))
	router := setupAIRouter(ai)

	w := PerformRequest(router, http.MethodGet, "/api/ai/analyze/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Pad Thai", body["recipeName"])
	assert.Equal(t, draft.NutritionUnavailableMessage, body["analysis"].(map[string]interface{})["message"])

	w = PerformRequest(router, http.MethodGet, "/api/ai/analyze/bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequest(router, http.MethodGet, "/api/ai/analyze/"+broken, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Failed to analyze nutrition", body["message"])
	assert.Contains(t, body, "analysis")
	assert.Nil(t, body["analysis"])
}

func TestPromote(t *testing.T) {
	t.Run("nested recipe is unwrapped", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Promote", mock.Anything, mock.MatchedBy(func(obj map[string]any) bool {
			return obj["name"] == "Pad Thai"
		})).Return(&model.Recipe{ID: uuid.New(), Name: "Pad Thai"}, nil)

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/promote", map[string]interface{}{
			"recipe": map[string]interface{}{"name": "Pad Thai"},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		ai.AssertExpectations(t)
	})

	t.Run("invalid draft", func(t *testing.T) {
		ai := &mocks.MockAIService{}
		ai.On("Promote", mock.Anything, mock.Anything).Return(nil, model.ValidationErrors{"At least one ingredient is required"})

		w := PerformRequest(setupAIRouter(ai), http.MethodPost, "/api/ai/promote", map[string]interface{}{"name": "Air"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []interface{}{"At least one ingredient is required"}, decode(t, w)["errors"])
	})
}

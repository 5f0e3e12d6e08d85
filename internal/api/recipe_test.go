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
	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/mocks"
	"github.com/pageza/recipe-catalog/backend/internal/model"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func setupRecipeRouter(recipes service.IRecipeService) *gin.Engine {
	router := gin.New()
	api.NewRecipeHandler(recipes, zap.NewNop()).RegisterRoutes(router.Group("/api"))
	return router
}

func TestGetRecipe(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", service.ErrRecipeNotFound, http.StatusNotFound, "Recipe not found"},
		{"malformed id", service.ErrMalformedID, http.StatusBadRequest, "Invalid recipe ID"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes := &mocks.MockRecipeService{}
			recipes.On("GetRecipe", mock.Anything, id).Return(nil, tt.err)

			w := PerformRequest(setupRecipeRouter(recipes), http.MethodGet, "/api/recipes/get-by-id/"+id, nil)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			recipes.AssertExpectations(t)
		})
	}

	t.Run("found", func(t *testing.T) {
		recipes := &mocks.MockRecipeService{}
		recipes.On("GetRecipe", mock.Anything, id).Return(&model.Recipe{Name: "Pad Thai", Views: 3}, nil)

		w := PerformRequest(setupRecipeRouter(recipes), http.MethodGet, "/api/recipes/get-by-id/"+id, nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		recipe := body["recipe"].(map[string]interface{})
		assert.Equal(t, "Pad Thai", recipe["name"])
		assert.Equal(t, float64(3), recipe["views"])
	})
}

func TestCreateRecipe(t *testing.T) {
	t.Run("validation errors are listed", func(t *testing.T) {
		recipes := &mocks.MockRecipeService{}
		recipes.On("CreateRecipe", mock.Anything, mock.AnythingOfType("model.Candidate")).
			Return(nil, model.ValidationErrors{"Recipe name is required", "Prep time must be at least 1 minute"})

		w := PerformRequest(setupRecipeRouter(recipes), http.MethodPost, "/api/recipes", map[string]interface{}{
			"prepTimeMinutes": 0,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Validation error", body["message"])
		assert.Len(t, body["errors"], 2)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		recipes := &mocks.MockRecipeService{}
		w := PerformRequest(setupRecipeRouter(recipes), http.MethodPost, "/api/recipes", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation error", decode(t, w)["message"])
		recipes.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		recipes := &mocks.MockRecipeService{}
		recipes.On("CreateRecipe", mock.Anything, mock.MatchedBy(func(c model.Candidate) bool {
			return c.Name != nil && *c.Name == "Greek Salad" && len(c.Ingredients) == 2
		})).Return(&model.Recipe{ID: uuid.New(), Name: "Greek Salad"}, nil)

		w := PerformRequest(setupRecipeRouter(recipes), http.MethodPost, "/api/recipes", map[string]interface{}{
			"name":        "Greek Salad",
			"ingredients": []string{"feta", "olives"},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Recipe created successfully", body["message"])
		recipes.AssertExpectations(t)
	})
}

func TestCheckEmpty(t *testing.T) {
	recipes := &mocks.MockRecipeService{}
	recipes.On("CountRecipes", mock.Anything).Return(int64(0), nil).Once()

	w := PerformRequest(setupRecipeRouter(recipes), http.MethodGet, "/api/recipes/check-empty", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"isEmpty":true,"count":0}`, w.Body.String())
}

func TestSetFavorite(t *testing.T) {
	id := uuid.NewString()
	recipes := &mocks.MockRecipeService{}
	recipes.On("SetFavorite", mock.Anything, id, true).Return(&model.Recipe{IsFavorite: true}, nil)
	router := setupRecipeRouter(recipes)

	w := PerformRequest(router, http.MethodPatch, "/api/recipes/"+id+"/favorite", map[string]interface{}{"isFavorite": true})
	assert.Equal(t, http.StatusOK, w.Code)

	w = PerformRequest(router, http.MethodPatch, "/api/recipes/"+id+"/favorite", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	recipes.AssertNumberOfCalls(t, "SetFavorite", 1)
}

func TestListRecipes_PassesCompiledPlan(t *testing.T) {
	recipes := &mocks.MockRecipeService{}
	recipes.On("ListRecipes", mock.Anything, mock.MatchedBy(func(p filter.Plan) bool {
		return p.Criteria.Cuisine == "Thai" && p.Window.Page == 2 && p.Window.Limit == 5
	})).Return(&service.RecipePage{Recipes: []model.Recipe{}, Matches: 6, Total: 40, Page: 2, TotalPages: 2}, nil)

	w := PerformRequest(setupRecipeRouter(recipes), http.MethodGet, "/api/recipes?cuisine=Thai&page=2&limit=5&minTime=abc", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"success":true,"count":0,"total":6,"totalPages":2,"currentPage":2,"isEmpty":false,"recipes":[]}`,
		w.Body.String())
}

func TestListRecipes_Store(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	factory := testhelpers.NewRecipeFactory(42)
	italianEasy := []testhelpers.RecipeOption{
		testhelpers.WithCuisine(model.CuisineItalian),
		testhelpers.WithDifficulty(model.DifficultyEasy),
	}
	for _, name := range []string{"Risotto", "Bruschetta", "Lasagna"} {
		factory.Create(t, db, append(italianEasy, testhelpers.WithName(name))...)
	}
	factory.Create(t, db, testhelpers.WithCuisine(model.CuisineItalian), testhelpers.WithDifficulty(model.DifficultyHard), testhelpers.WithName("Aaa Hard"))
	factory.Create(t, db, testhelpers.WithCuisine(model.CuisineThai), testhelpers.WithDifficulty(model.DifficultyEasy), testhelpers.WithName("Aaa Thai"))

	router := setupRecipeRouter(service.NewRecipeService(db, zap.NewNop()))
	w := PerformRequest(router, http.MethodGet,
		"/api/recipes?cuisine=Italian&difficulty=easy&sortBy=name&order=asc&page=1&limit=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(3), body["total"])
	assert.GreaterOrEqual(t, body["totalPages"].(float64), float64(2))

	list := body["recipes"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, "Bruschetta", list[0].(map[string]interface{})["name"])
	assert.Equal(t, "Lasagna", list[1].(map[string]interface{})["name"])

	w = PerformRequest(router, http.MethodGet, "/api/recipes/get-by-id/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

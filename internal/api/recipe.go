package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/model"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// RecipeHandler serves the recipe catalog.
type RecipeHandler struct {
	recipes service.IRecipeService
	log     *zap.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes service.IRecipeService, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		log:     log.With(zap.String("component", "recipe-handler")),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/check-empty", h.CheckEmpty)
		recipes.GET("/get-by-id/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.PATCH("/:id/favorite", h.SetFavorite)
	}
}

// ListRecipes handles GET /recipes.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	plan := filter.Compile(c.Request.URL.Query())

	page, err := h.recipes.ListRecipes(c.Request.Context(), plan)
	if err != nil {
		h.log.Error("Failed to list recipes", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(page.Recipes),
		"total":       page.Matches,
		"totalPages":  page.TotalPages,
		"currentPage": page.Page,
		"isEmpty":     page.IsEmpty(),
		"recipes":     page.Recipes,
	})
}

// GetRecipe handles GET /recipes/get-by-id/:id and counts the view.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		if failRecipe(c, err) {
			return
		}
		h.log.Error("Failed to get recipe", zap.String("recipe_id", c.Param("id")), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipe":  recipe,
	})
}

// CreateRecipe handles POST /recipes.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var candidate model.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		failValidation(c, []string{"Invalid recipe payload: " + err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), candidate)
	if err != nil {
		if failRecipe(c, err) {
			return
		}
		h.log.Error("Failed to create recipe", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

// UpdateRecipe handles PUT /recipes/:id with a full document.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var candidate model.Candidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		failValidation(c, []string{"Invalid recipe payload: " + err.Error()})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), c.Param("id"), candidate)
	if err != nil {
		if failRecipe(c, err) {
			return
		}
		h.log.Error("Failed to update recipe", zap.String("recipe_id", c.Param("id")), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recipe updated successfully",
		"recipe":  recipe,
	})
}

type favoriteRequest struct {
	IsFavorite *bool `json:"isFavorite" binding:"required"`
}

// SetFavorite handles PATCH /recipes/:id/favorite.
func (h *RecipeHandler) SetFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failValidation(c, []string{"isFavorite must be a boolean"})
		return
	}

	recipe, err := h.recipes.SetFavorite(c.Request.Context(), c.Param("id"), *req.IsFavorite)
	if err != nil {
		if failRecipe(c, err) {
			return
		}
		h.log.Error("Failed to update favorite", zap.String("recipe_id", c.Param("id")), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipe":  recipe,
	})
}

// CheckEmpty handles GET /recipes/check-empty.
func (h *RecipeHandler) CheckEmpty(c *gin.Context) {
	count, err := h.recipes.CountRecipes(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to count recipes", zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"isEmpty": count == 0,
		"count":   count,
	})
}

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/internal/draft"
	"github.com/pageza/recipe-catalog/backend/internal/service"
)

// AIHandler serves the AI-assisted recipe endpoints.
type AIHandler struct {
	ai  service.IAIService
	log *zap.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(ai service.IAIService, log *zap.Logger) *AIHandler {
	return &AIHandler{
		ai:  ai,
		log: log.With(zap.String("component", "ai-handler")),
	}
}

// RegisterRoutes mounts the AI endpoints. Extra middleware, such as the
// rate limiter, runs before every one of them.
func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	ai := router.Group("/ai", middleware...)
	{
		ai.POST("/suggest", h.Suggest)
		ai.POST("/simplify/:recipeId", h.Simplify)
		ai.POST("/generate", h.Generate)
		ai.GET("/analyze/:recipeId", h.AnalyzeNutrition)
		ai.POST("/promote", h.Promote)
	}
}

type suggestRequest struct {
	Ingredients  any    `json:"ingredients"`
	Cuisine      string `json:"cuisine"`
	Difficulty   string `json:"difficulty"`
	PrepTime     any    `json:"prepTime"`
	MealType     string `json:"mealType"`
	IsVegetarian *bool  `json:"isVegetarian"`
}

// ingredientList accepts only a JSON array. Non-string items are rendered
// as text.
func ingredientList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		case nil:
		default:
			out = append(out, fmt.Sprint(s))
		}
	}
	return out, true
}

func optionalText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprint(s)
	}
}

// Suggest handles POST /ai/suggest.
func (h *AIHandler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please provide an array of ingredients", nil)
		return
	}
	ingredients, ok := ingredientList(req.Ingredients)
	if !ok {
		fail(c, http.StatusBadRequest, "Please provide an array of ingredients", nil)
		return
	}

	res, err := h.ai.Suggest(c.Request.Context(), service.SuggestRequest{
		Ingredients:  ingredients,
		Cuisine:      req.Cuisine,
		Difficulty:   req.Difficulty,
		PrepTime:     optionalText(req.PrepTime),
		MealType:     req.MealType,
		IsVegetarian: req.IsVegetarian,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":     false,
			"message":     "AI service temporarily unavailable",
			"suggestions": []draft.Draft{},
			"error":       err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     res.Message,
		"suggestions": res.Suggestions,
		"tip":         "You can save any of these recipes to your collection",
		"usage":       res.Usage,
	})
}

type simplifyRequest struct {
	Complexity string `json:"complexity"`
	Language   string `json:"language"`
}

// Simplify handles POST /ai/simplify/:recipeId. The body is optional.
func (h *AIHandler) Simplify(c *gin.Context) {
	var req simplifyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		failValidation(c, []string{"Invalid request body: " + err.Error()})
		return
	}

	res, err := h.ai.Simplify(c.Request.Context(), c.Param("recipeId"), service.SimplifyRequest{
		Complexity: req.Complexity,
		Language:   req.Language,
	})
	if err != nil {
		if failRecipe(c, err) {
			return
		}
		failAI(c, "Failed to simplify recipe instructions", "simplified", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"originalRecipe": gin.H{
			"name":         res.Recipe.Name,
			"instructions": res.Recipe.Instructions,
			"prepTime":     res.Recipe.PrepTimeMinutes,
		},
		"simplified": res.Simplified,
		"complexity": res.Complexity,
		"language":   res.Language,
		"usage":      res.Usage,
	})
}

type generateRequest struct {
	Description         string `json:"description"`
	Cuisine             string `json:"cuisine"`
	MealType            string `json:"mealType"`
	DietaryRestrictions string `json:"dietaryRestrictions"`
	IsVegetarian        *bool  `json:"isVegetarian"`
}

// Generate handles POST /ai/generate.
func (h *AIHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please provide a recipe description", nil)
		return
	}

	res, err := h.ai.Generate(c.Request.Context(), service.GenerateRequest{
		Description:         req.Description,
		Cuisine:             req.Cuisine,
		MealType:            req.MealType,
		DietaryRestrictions: req.DietaryRestrictions,
		IsVegetarian:        req.IsVegetarian,
	})
	if err != nil {
		if errors.Is(err, service.ErrDescriptionRequired) {
			fail(c, http.StatusBadRequest, "Please provide a recipe description", nil)
			return
		}
		failAI(c, "Failed to generate recipe", "recipe", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recipe generated successfully",
		"recipe":  res.Recipe,
		"usage":   res.Usage,
	})
}

// AnalyzeNutrition handles GET /ai/analyze/:recipeId.
func (h *AIHandler) AnalyzeNutrition(c *gin.Context) {
	res, err := h.ai.AnalyzeNutrition(c.Request.Context(), c.Param("recipeId"))
	if err != nil {
		if failRecipe(c, err) {
			return
		}
		failAI(c, "Failed to analyze nutrition", "analysis", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"recipeName": res.RecipeName,
		"analysis":   res.Analysis,
		"usage":      res.Usage,
		"cached":     res.Cached,
	})
}

// Promote handles POST /ai/promote: a draft in any of the shapes the AI
// endpoints return is validated and saved.
func (h *AIHandler) Promote(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		failValidation(c, []string{"Invalid recipe payload: " + err.Error()})
		return
	}
	if nested, ok := body["recipe"].(map[string]any); ok {
		body = nested
	}

	recipe, err := h.ai.Promote(c.Request.Context(), body)
	if err != nil {
		if failRecipe(c, err) {
			return
		}
		h.log.Error("Failed to promote draft", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

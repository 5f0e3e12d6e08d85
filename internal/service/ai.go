package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/internal/draft"
	"github.com/pageza/recipe-catalog/backend/internal/llm"
	"github.com/pageza/recipe-catalog/backend/internal/model"
)

// Sampling temperatures per operation.
const (
	suggestTemperature   = 0.7
	simplifyTemperature  = 0.5
	generateTemperature  = 0.8
	nutritionTemperature = 0.3
)

// SuggestRequest asks for recipe ideas. No ingredients means popular
// recipes rather than ingredient-bound ones.
type SuggestRequest struct {
	Ingredients  []string
	Cuisine      string
	Difficulty   string
	PrepTime     string
	MealType     string
	IsVegetarian *bool
}

// SuggestResult carries zero or more drafts.
type SuggestResult struct {
	Message     string
	Suggestions []draft.Draft
	Usage       llm.Usage
}

// SimplifyRequest controls the simplification.
type SimplifyRequest struct {
	Complexity string
	Language   string
}

// SimplifyResult pairs the stored recipe with its simplification.
type SimplifyResult struct {
	Recipe     *model.Recipe
	Simplified draft.Simplified
	Complexity string
	Language   string
	Usage      llm.Usage
}

// GenerateRequest describes the recipe to invent.
type GenerateRequest struct {
	Description         string
	Cuisine             string
	MealType            string
	DietaryRestrictions string
	IsVegetarian        *bool
}

// GenerateResult carries exactly one draft, possibly a fallback.
type GenerateResult struct {
	Recipe draft.Draft
	Usage  llm.Usage
}

// NutritionResult is a nutrition analysis for a stored recipe.
type NutritionResult struct {
	RecipeName string
	Analysis   draft.Nutrition
	Usage      llm.Usage
	Cached     bool
}

// AIServiceConfig holds the AI service's collaborators and limits.
type AIServiceConfig struct {
	Orchestrator *llm.Orchestrator
	Recipes      RecipeStore
	Cache        NutritionCache
	Fallbacks    FallbackRecorder
	Timeout      time.Duration
	MaxTokens    int
	ToolsEnabled bool
}

// AIService runs the AI-assisted recipe operations.
type AIService struct {
	orchestrator *llm.Orchestrator
	recipes      RecipeStore
	cache        NutritionCache
	fallbacks    FallbackRecorder
	timeout      time.Duration
	maxTokens    int
	toolsEnabled bool
	log          *zap.Logger
}

// NewAIService creates a new AIService instance
func NewAIService(cfg AIServiceConfig, log *zap.Logger) *AIService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AIService{
		orchestrator: cfg.Orchestrator,
		recipes:      cfg.Recipes,
		cache:        cfg.Cache,
		fallbacks:    cfg.Fallbacks,
		timeout:      timeout,
		maxTokens:    cfg.MaxTokens,
		toolsEnabled: cfg.ToolsEnabled,
		log:          log.With(zap.String("component", "ai-service")),
	}
}

// run executes one conversation under the configured timeout.
func (s *AIService) run(ctx context.Context, op string, req llm.Request) (*llm.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req.MaxTokens = s.maxTokens
	req.JSONMode = true
	start := time.Now()

	res, err := s.orchestrator.Run(ctx, req)
	if err != nil {
		s.log.Error("AI request failed", zap.String("operation", op), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, err
	}
	if res.Exhausted {
		s.log.Warn("AI conversation hit the round limit", zap.String("operation", op), zap.Int("rounds", res.Rounds))
	}
	s.log.Info("AI request completed",
		zap.String("operation", op),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("rounds", res.Rounds),
		zap.Int("tool_calls", res.ToolCalls),
		zap.Int("total_tokens", res.Usage.TotalTokens),
	)
	return res, nil
}

func (s *AIService) recordFallback(op string) {
	s.log.Warn("AI answer could not be parsed, using fallback", zap.String("operation", op))
	if s.fallbacks != nil {
		s.fallbacks.RecordFallback(op)
	}
}

// Suggest asks for recipe ideas.
func (s *AIService) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResult, error) {
	req.Ingredients = nonEmpty(req.Ingredients)

	res, err := s.run(ctx, "suggest", llm.Request{
		SystemPrompt: suggestSystemPrompt,
		Prompt:       suggestPrompt(req, s.toolsEnabled),
		Temperature:  llm.Float(suggestTemperature),
		NoTools:      !s.toolsEnabled,
	})
	if err != nil {
		return nil, err
	}

	hints := draft.Hints{Cuisine: req.Cuisine, IsVegetarian: req.IsVegetarian}
	raw := draft.Raw(res.Content)
	parsed := raw.Parse()
	suggestions := draft.ReconcileAll(parsed, hints)
	if parsed.Unparseable() {
		s.recordFallback("suggest")
		if strings.TrimSpace(string(raw)) != "" {
			suggestions = []draft.Draft{draft.FromText(raw, hints)}
		}
	}
	if suggestions == nil {
		suggestions = []draft.Draft{}
	}

	message := "Popular recipe suggestions"
	if len(req.Ingredients) > 0 {
		message = "Recipes suggested for: " + strings.Join(req.Ingredients, ", ")
	}

	return &SuggestResult{
		Message:     message,
		Suggestions: suggestions,
		Usage:       res.Usage,
	}, nil
}

// Simplify rewrites a stored recipe's instructions for the given level.
func (s *AIService) Simplify(ctx context.Context, recipeID string, req SimplifyRequest) (*SimplifyResult, error) {
	if req.Complexity == "" {
		req.Complexity = "beginner"
	}
	if req.Language == "" {
		req.Language = "english"
	}

	recipe, err := s.recipes.FindRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	res, err := s.run(ctx, "simplify", llm.Request{
		SystemPrompt: simplifySystemPrompt,
		Prompt:       simplifyPrompt(recipe, req.Complexity, req.Language),
		Temperature:  llm.Float(simplifyTemperature),
		NoTools:      true,
	})
	if err != nil {
		return nil, err
	}

	simplified := draft.ReconcileSimplified(draft.Raw(res.Content).Parse(), recipe.Instructions, recipe.PrepTimeMinutes, req.Complexity)
	if simplified.Fallback {
		s.recordFallback("simplify")
	}

	return &SimplifyResult{
		Recipe:     recipe,
		Simplified: simplified,
		Complexity: req.Complexity,
		Language:   req.Language,
		Usage:      res.Usage,
	}, nil
}

// Generate invents one recipe from a description.
func (s *AIService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	res, err := s.run(ctx, "generate", llm.Request{
		SystemPrompt: generateSystemPrompt,
		Prompt:       generatePrompt(req, s.toolsEnabled),
		Temperature:  llm.Float(generateTemperature),
		NoTools:      !s.toolsEnabled,
	})
	if err != nil {
		return nil, err
	}

	hints := draft.Hints{Cuisine: req.Cuisine, IsVegetarian: req.IsVegetarian, Name: draft.DefaultGeneratedName}
	drafts := draft.ReconcileAll(draft.Raw(res.Content).Parse(), hints)
	if len(drafts) == 0 {
		s.recordFallback("generate")
		return &GenerateResult{
			Recipe: draft.Placeholder(draft.DefaultGeneratedName, draft.GenerateFailureInstructions, hints),
			Usage:  res.Usage,
		}, nil
	}

	return &GenerateResult{Recipe: drafts[0], Usage: res.Usage}, nil
}

// AnalyzeNutrition estimates the nutrition of a stored recipe. Readable
// analyses are cached until the recipe changes.
func (s *AIService) AnalyzeNutrition(ctx context.Context, recipeID string) (*NutritionResult, error) {
	recipe, err := s.recipes.FindRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	key := nutritionCacheKey(recipe)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return &NutritionResult{RecipeName: recipe.Name, Analysis: *cached, Cached: true}, nil
		}
	}

	res, err := s.run(ctx, "analyze", llm.Request{
		SystemPrompt: nutritionSystemPrompt,
		Prompt:       nutritionPrompt(recipe),
		Temperature:  llm.Float(nutritionTemperature),
		NoTools:      true,
	})
	if err != nil {
		return nil, err
	}

	analysis := draft.ReconcileNutrition(draft.Raw(res.Content).Parse())
	if !analysis.Available() {
		s.recordFallback("analyze")
	} else if s.cache != nil {
		s.cache.Set(ctx, key, analysis)
	}

	return &NutritionResult{RecipeName: recipe.Name, Analysis: analysis, Usage: res.Usage}, nil
}

// Promote reconciles a loosely shaped draft, validates it and stores it.
func (s *AIService) Promote(ctx context.Context, obj map[string]any) (*model.Recipe, error) {
	d := draft.Reconcile(obj, draft.Hints{})
	if createdBy, ok := obj["createdBy"].(string); ok && strings.TrimSpace(createdBy) != "" {
		d.CreatedBy = createdBy
	}

	recipe, err := d.Promote()
	if err != nil {
		return nil, err
	}
	if err := s.recipes.InsertRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func nutritionCacheKey(r *model.Recipe) string {
	return fmt.Sprintf("recipe:nutrition:%s:%d", r.ID, r.UpdatedAt.UnixNano())
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/model"
)

// RecipePage is one page of a filtered listing.
type RecipePage struct {
	Recipes []model.Recipe

	// Matches counts records matching the filters, before pagination.
	Matches int64

	// Total counts every record, ignoring filters.
	Total      int64
	Page       int
	TotalPages int
}

// IsEmpty reports whether the catalog holds no recipes at all.
func (p *RecipePage) IsEmpty() bool {
	return p.Total == 0
}

// RecipeService handles recipe operations
type RecipeService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, log *zap.Logger) *RecipeService {
	return &RecipeService{
		db:  db,
		log: log.With(zap.String("component", "recipe-service")),
	}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrMalformedID
	}
	return parsed, nil
}

// ListRecipes runs a compiled filter plan.
func (s *RecipeService) ListRecipes(ctx context.Context, plan filter.Plan) (*RecipePage, error) {
	db := s.db.WithContext(ctx)

	var matches int64
	if err := db.Model(&model.Recipe{}).Scopes(plan.Criteria.Apply).Count(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to count matching recipes: %w", err)
	}

	recipes := []model.Recipe{}
	if err := db.Model(&model.Recipe{}).
		Scopes(plan.Criteria.Apply, plan.Sort.Apply, plan.Window.Apply).
		Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	total, err := s.CountRecipes(ctx)
	if err != nil {
		return nil, err
	}

	return &RecipePage{
		Recipes:    recipes,
		Matches:    matches,
		Total:      total,
		Page:       plan.Window.Page,
		TotalPages: filter.TotalPages(matches, plan.Window.Limit),
	}, nil
}

// GetRecipe returns a recipe and counts the view. The increment is a
// single UPDATE so concurrent reads never lose a count.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipeID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to count view: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrRecipeNotFound
	}

	return s.find(ctx, recipeID)
}

// FindRecipe returns a recipe without counting a view.
func (s *RecipeService) FindRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipeID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, recipeID)
}

func (s *RecipeService) find(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// CreateRecipe validates c and stores the result.
func (s *RecipeService) CreateRecipe(ctx context.Context, c model.Candidate) (*model.Recipe, error) {
	recipe, err := model.Validate(c)
	if err != nil {
		return nil, err
	}
	if err := s.InsertRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// InsertRecipe stores an already validated recipe.
func (s *RecipeService) InsertRecipe(ctx context.Context, r *model.Recipe) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	s.log.Info("Recipe created",
		zap.String("recipe_id", r.ID.String()),
		zap.String("name", r.Name),
		zap.String("created_by", r.CreatedBy),
	)
	return nil
}

// UpdateRecipe replaces the whole document through validation. The id,
// view count and creation time are preserved.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, c model.Candidate) (*model.Recipe, error) {
	existing, err := s.FindRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe, err := model.Validate(c)
	if err != nil {
		return nil, err
	}

	// views only ever moves through the atomic increment in GetRecipe.
	res := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ?", existing.ID).
		Select("*").
		Omit("id", "views", "created_at").
		Updates(recipe)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrRecipeNotFound
	}
	return s.find(ctx, existing.ID)
}

// SetFavorite persists the favorite flag.
func (s *RecipeService) SetFavorite(ctx context.Context, id string, favorite bool) (*model.Recipe, error) {
	recipeID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ?", recipeID).
		Update("is_favorite", favorite)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrRecipeNotFound
	}
	return s.find(ctx, recipeID)
}

// CountRecipes counts every stored recipe.
func (s *RecipeService) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

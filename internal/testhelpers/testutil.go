package testhelpers

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/model"
)

// RecipeFactory builds valid recipes with fake but deterministic content.
type RecipeFactory struct {
	faker *gofakeit.Faker
	clock time.Time
}

// NewRecipeFactory creates a factory with a seeded faker.
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// RecipeOption customizes a built recipe.
type RecipeOption func(*model.Recipe)

func WithName(name string) RecipeOption {
	return func(r *model.Recipe) { r.Name = name }
}

func WithCuisine(c model.Cuisine) RecipeOption {
	return func(r *model.Recipe) { r.Cuisine = c }
}

func WithDifficulty(d model.Difficulty) RecipeOption {
	return func(r *model.Recipe) { r.Difficulty = d }
}

func WithPrepTime(minutes int) RecipeOption {
	return func(r *model.Recipe) { r.PrepTimeMinutes = minutes }
}

func WithVegetarian(v bool) RecipeOption {
	return func(r *model.Recipe) { r.IsVegetarian = v }
}

func WithIngredients(items ...string) RecipeOption {
	return func(r *model.Recipe) { r.Ingredients = items }
}

func WithTags(tags ...string) RecipeOption {
	return func(r *model.Recipe) { r.Tags = model.NormalizeTags(tags) }
}

func WithInstructions(text string) RecipeOption {
	return func(r *model.Recipe) { r.Instructions = text }
}

// Build returns an unsaved recipe. Each call advances CreatedAt by one
// minute so newest/oldest orderings are deterministic.
func (f *RecipeFactory) Build(opts ...RecipeOption) *model.Recipe {
	f.clock = f.clock.Add(time.Minute)
	calories := f.faker.IntRange(100, 900)

	r := &model.Recipe{
		Name:            f.faker.Dessert() + " " + f.faker.Noun(),
		Cuisine:         model.Cuisines[f.faker.IntRange(0, len(model.Cuisines)-1)],
		IsVegetarian:    true,
		PrepTimeMinutes: f.faker.IntRange(5, 120),
		CookTimeMinutes: f.faker.IntRange(0, 90),
		Servings:        f.faker.IntRange(1, 8),
		Ingredients:     model.StringList{f.faker.Fruit(), f.faker.Vegetable(), f.faker.Noun()},
		Instructions:    f.faker.Paragraph(1, 3, 8, " "),
		Difficulty:      model.DifficultyMedium,
		Tags:            model.StringList{},
		Calories:        &calories,
		CreatedBy:       model.DefaultCreatedBy,
		CreatedAt:       f.clock,
		UpdatedAt:       f.clock,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create builds and inserts a recipe.
func (f *RecipeFactory) Create(t *testing.T, db *gorm.DB, opts ...RecipeOption) *model.Recipe {
	t.Helper()
	r := f.Build(opts...)
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return r
}

// CreateN inserts n recipes sharing the same options.
func (f *RecipeFactory) CreateN(t *testing.T, db *gorm.DB, n int, opts ...RecipeOption) []*model.Recipe {
	t.Helper()
	out := make([]*model.Recipe, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.Create(t, db, opts...))
	}
	return out
}

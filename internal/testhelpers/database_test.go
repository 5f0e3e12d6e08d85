package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/model"
)

func TestSetupSQLiteDB(t *testing.T) {
	first := SetupSQLiteDB(t)
	second := SetupSQLiteDB(t)

	f := NewRecipeFactory(1)
	f.CreateN(t, first, 3)

	var count int64
	require.NoError(t, first.Model(&model.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	require.NoError(t, second.Model(&model.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "databases are private to each call")
}

func TestRecipeFactory(t *testing.T) {
	a := NewRecipeFactory(42).Build()
	b := NewRecipeFactory(42).Build()
	assert.Equal(t, a.Name, b.Name, "same seed, same recipe")
	assert.True(t, a.Cuisine.Valid())

	f := NewRecipeFactory(7)
	first := f.Build()
	r := f.Build(
		WithName("Pad Thai"),
		WithCuisine(model.CuisineThai),
		WithDifficulty(model.DifficultyHard),
		WithPrepTime(25),
		WithVegetarian(false),
		WithIngredients("Rice noodles", "Tamarind"),
		WithTags("noodles"),
		WithInstructions("Soak the noodles and stir fry."),
	)
	assert.True(t, r.CreatedAt.After(first.CreatedAt))
	assert.Equal(t, "Pad Thai", r.Name)
	assert.Equal(t, model.CuisineThai, r.Cuisine)
	assert.Equal(t, model.DifficultyHard, r.Difficulty)
	assert.Equal(t, 25, r.PrepTimeMinutes)
	assert.False(t, r.IsVegetarian)
	assert.Equal(t, model.StringList{"Rice noodles", "Tamarind"}, r.Ingredients)
	assert.Equal(t, model.StringList{"noodles"}, r.Tags)
	assert.Equal(t, "Soak the noodles and stir fry.", r.Instructions)
}

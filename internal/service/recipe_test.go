package service_test

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/model"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func ptr[T any](v T) *T { return &v }

func validCandidate() model.Candidate {
	return model.Candidate{
		Name:            ptr("Greek Salad"),
		Cuisine:         ptr("Greek"),
		PrepTimeMinutes: ptr(15),
		CookTimeMinutes: ptr(0),
		Servings:        ptr(2),
		Ingredients:     []string{"Tomato", "Cucumber", "Feta"},
		Instructions:    ptr("Chop everything and toss with olive oil."),
		Difficulty:      ptr("easy"),
		Tags:            []string{"Fresh", "quick"},
	}
}

func TestRecipeService_GetRecipe(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewRecipeService(db, zap.NewNop())
	factory := testhelpers.NewRecipeFactory(1)
	ctx := context.Background()

	t.Run("counts a view per read", func(t *testing.T) {
		stored := factory.Create(t, db)

		got, err := svc.GetRecipe(ctx, stored.ID.String())
		require.NoError(t, err)
		assert.Equal(t, stored.Name, got.Name)
		assert.Equal(t, int64(1), got.Views)

		got, err = svc.GetRecipe(ctx, stored.ID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Views)
	})

	t.Run("concurrent reads are both counted", func(t *testing.T) {
		stored := factory.Create(t, db)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.GetRecipe(ctx, stored.ID.String())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := svc.FindRecipe(ctx, stored.ID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Views)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetRecipe(ctx, uuid.NewString())
		assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.GetRecipe(ctx, "not-an-id")
		assert.ErrorIs(t, err, service.ErrMalformedID)
	})

	t.Run("find does not count", func(t *testing.T) {
		stored := factory.Create(t, db)
		got, err := svc.FindRecipe(ctx, stored.ID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.Views)
	})
}

func TestRecipeService_ListRecipes(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewRecipeService(db, zap.NewNop())
	factory := testhelpers.NewRecipeFactory(2)
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		page, err := svc.ListRecipes(ctx, filter.Compile(url.Values{}))
		require.NoError(t, err)
		assert.True(t, page.IsEmpty())
		assert.Empty(t, page.Recipes)
		assert.Equal(t, 0, page.TotalPages)
		assert.Equal(t, 1, page.Page)
	})

	factory.CreateN(t, db, 5, testhelpers.WithCuisine(model.CuisineItalian))
	factory.CreateN(t, db, 3, testhelpers.WithCuisine(model.CuisineThai))

	t.Run("paginates matches", func(t *testing.T) {
		page, err := svc.ListRecipes(ctx, filter.Compile(url.Values{
			"cuisine": {"Italian"},
			"limit":   {"2"},
			"page":    {"3"},
		}))
		require.NoError(t, err)
		assert.Len(t, page.Recipes, 1)
		assert.Equal(t, int64(5), page.Matches)
		assert.Equal(t, int64(8), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.False(t, page.IsEmpty())
	})

	t.Run("no matches in a non-empty catalog", func(t *testing.T) {
		page, err := svc.ListRecipes(ctx, filter.Compile(url.Values{"cuisine": {"Greek"}}))
		require.NoError(t, err)
		assert.Empty(t, page.Recipes)
		assert.Equal(t, int64(0), page.Matches)
		assert.Equal(t, 0, page.TotalPages)
		assert.False(t, page.IsEmpty())
	})
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewRecipeService(db, zap.NewNop())
	ctx := context.Background()

	t.Run("valid candidate", func(t *testing.T) {
		recipe, err := svc.CreateRecipe(ctx, validCandidate())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, recipe.ID)
		assert.Equal(t, model.CuisineGreek, recipe.Cuisine)
		assert.Equal(t, model.StringList{"fresh", "quick"}, recipe.Tags)
		assert.Equal(t, model.DefaultCreatedBy, recipe.CreatedBy)

		count, err := svc.CountRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("invalid candidate is not stored", func(t *testing.T) {
		c := validCandidate()
		c.Name = ptr("")
		c.Cuisine = ptr("Martian")

		_, err := svc.CreateRecipe(ctx, c)
		require.Error(t, err)
		verrs, ok := model.AsValidationErrors(err)
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(verrs), 2)

		count, err := svc.CountRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("absent calories stay distinct from zero", func(t *testing.T) {
		unknown, err := svc.CreateRecipe(ctx, validCandidate())
		require.NoError(t, err)

		c := validCandidate()
		c.Calories = ptr(0)
		zero, err := svc.CreateRecipe(ctx, c)
		require.NoError(t, err)

		got, err := svc.FindRecipe(ctx, unknown.ID.String())
		require.NoError(t, err)
		assert.Nil(t, got.Calories)

		got, err = svc.FindRecipe(ctx, zero.ID.String())
		require.NoError(t, err)
		require.NotNil(t, got.Calories)
		assert.Equal(t, 0, *got.Calories)
	})
}

func TestRecipeService_UpdateAndFavorite(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewRecipeService(db, zap.NewNop())
	factory := testhelpers.NewRecipeFactory(3)
	ctx := context.Background()

	stored := factory.Create(t, db)
	_, err := svc.GetRecipe(ctx, stored.ID.String())
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(ctx, stored.ID.String(), validCandidate())
	require.NoError(t, err)
	assert.Equal(t, stored.ID, updated.ID)
	assert.Equal(t, "Greek Salad", updated.Name)
	assert.Equal(t, int64(1), updated.Views)
	assert.Nil(t, updated.Calories)

	fav, err := svc.SetFavorite(ctx, stored.ID.String(), true)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)

	_, err = svc.SetFavorite(ctx, uuid.NewString(), true)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)

	_, err = svc.UpdateRecipe(ctx, uuid.NewString(), validCandidate())
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestRecipeService_UpdateKeepsConcurrentViews(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := service.NewRecipeService(db, zap.NewNop())
	factory := testhelpers.NewRecipeFactory(4)
	ctx := context.Background()

	stored := factory.Create(t, db)
	_, err := svc.GetRecipe(ctx, stored.ID.String())
	require.NoError(t, err)

	// Reads that land between UpdateRecipe's lookup and its write.
	armed := true
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:concurrent_views", func(tx *gorm.DB) {
		if !armed {
			return
		}
		armed = false
		for i := 0; i < 3; i++ {
			err := tx.Session(&gorm.Session{NewDB: true}).
				Exec("UPDATE recipes SET views = views + 1 WHERE id = ?", stored.ID).Error
			require.NoError(t, err)
		}
	}))

	updated, err := svc.UpdateRecipe(ctx, stored.ID.String(), validCandidate())
	require.NoError(t, err)
	assert.False(t, armed)
	assert.Equal(t, "Greek Salad", updated.Name)
	assert.Equal(t, int64(4), updated.Views)
	assert.Equal(t, stored.CreatedAt.Unix(), updated.CreatedAt.Unix())
	assert.Equal(t, 15, updated.TotalTimeMinutes)

	got, err := svc.FindRecipe(ctx, stored.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Views)
}

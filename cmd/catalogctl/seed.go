package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/model"
)

//go:embed recipes.toml
var embeddedSeed []byte

// seedRecipe is one [[recipes]] table of a seed file.
type seedRecipe struct {
	Name            *string  `toml:"name"`
	Cuisine         *string  `toml:"cuisine"`
	IsVegetarian    *bool    `toml:"is_vegetarian"`
	PrepTimeMinutes *int     `toml:"prep_time_minutes"`
	CookTimeMinutes *int     `toml:"cook_time_minutes"`
	Servings        *int     `toml:"servings"`
	Ingredients     []string `toml:"ingredients"`
	Instructions    *string  `toml:"instructions"`
	Difficulty      *string  `toml:"difficulty"`
	Tags            []string `toml:"tags"`
	ImageURL        *string  `toml:"image_url"`
	Calories        *int     `toml:"calories"`
	CreatedBy       *string  `toml:"created_by"`
	Rating          *float64 `toml:"rating"`
	Views           int64    `toml:"views"`
}

type seedDocument struct {
	Recipes []seedRecipe `toml:"recipes"`
}

// loadSeed decodes and validates a seed file. It fails if any record is
// invalid, naming every bad record.
func loadSeed(data []byte) ([]*model.Recipe, error) {
	var file seedDocument
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in seed file: %v", undecoded)
	}
	if len(file.Recipes) == 0 {
		return nil, errors.New("seed file contains no recipes")
	}

	var errs []error
	recipes := make([]*model.Recipe, 0, len(file.Recipes))
	for i, sr := range file.Recipes {
		recipe, err := model.Validate(model.Candidate{
			Name:            sr.Name,
			Cuisine:         sr.Cuisine,
			IsVegetarian:    sr.IsVegetarian,
			PrepTimeMinutes: sr.PrepTimeMinutes,
			CookTimeMinutes: sr.CookTimeMinutes,
			Servings:        sr.Servings,
			Ingredients:     sr.Ingredients,
			Instructions:    sr.Instructions,
			Difficulty:      sr.Difficulty,
			Tags:            sr.Tags,
			ImageURL:        sr.ImageURL,
			Calories:        sr.Calories,
			CreatedBy:       sr.CreatedBy,
			Rating:          sr.Rating,
		})
		if err != nil {
			name := "<unnamed>"
			if sr.Name != nil {
				name = *sr.Name
			}
			errs = append(errs, fmt.Errorf("recipe %d (%s): %w", i+1, name, err))
			continue
		}
		recipe.Views = sr.Views
		recipes = append(recipes, recipe)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return recipes, nil
}

type seedStats struct {
	Inserted   int
	Skipped    int
	Removed    int64
	Total      int64
	Vegetarian int64
}

// seed writes recipes in one transaction. Without reset, recipes whose
// name is already in the catalog are left alone.
func seed(ctx context.Context, db *gorm.DB, recipes []*model.Recipe, reset bool) (seedStats, error) {
	var stats seedStats
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Recipe{})
			if res.Error != nil {
				return fmt.Errorf("failed to clear recipes: %w", res.Error)
			}
			stats.Removed = res.RowsAffected
		}

		for _, r := range recipes {
			var existing int64
			if err := tx.Model(&model.Recipe{}).Where("name = ?", r.Name).Count(&existing).Error; err != nil {
				return fmt.Errorf("failed to look up %q: %w", r.Name, err)
			}
			if existing > 0 {
				stats.Skipped++
				continue
			}
			if err := tx.Create(r).Error; err != nil {
				return fmt.Errorf("failed to insert %q: %w", r.Name, err)
			}
			stats.Inserted++
		}

		if err := tx.Model(&model.Recipe{}).Count(&stats.Total).Error; err != nil {
			return err
		}
		return tx.Model(&model.Recipe{}).Where("is_vegetarian = ?", true).Count(&stats.Vegetarian).Error
	})
	return stats, err
}

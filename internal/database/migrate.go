package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/filter"
	"github.com/pageza/recipe-catalog/backend/internal/model"
)

// postgresMigration is a named statement applied once and recorded in the
// migrations table.
type postgresMigration struct {
	Name string
	SQL  string
}

var postgresMigrations = []postgresMigration{
	{
		Name: "001_recipes_search_index",
		SQL:  "CREATE INDEX IF NOT EXISTS idx_recipes_search ON recipes USING GIN (" + filter.SearchDocument + ")",
	},
	{
		Name: "002_recipes_tags_index",
		SQL:  "CREATE INDEX IF NOT EXISTS idx_recipes_tags ON recipes USING GIN (tags)",
	},
	{
		Name: "003_recipes_views_non_negative",
		SQL:  "ALTER TABLE recipes ADD CONSTRAINT chk_recipes_views CHECK (views >= 0)",
	},
}

// Migrate creates or updates the recipe schema. On postgres it also
// installs the text-search and tag indexes.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to migrate recipes: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		log.Debug("Using GORM auto-migration only", zap.String("dialect", db.Dialector.Name()))
		return nil
	}

	// Create migrations table if it doesn't exist (PostgreSQL)
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range postgresMigrations {
		// Check if migration has already been applied
		var count int64
		if err := db.Table("migrations").Where("name = ?", m.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			log.Debug("Skipping migration (already applied)", zap.String("migration", m.Name))
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.SQL).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", m.Name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info("Applied migration", zap.String("migration", m.Name))
	}

	return nil
}

package migration

import (
	"fmt"

	"gorm.io/gorm"

	"foodgram/entities"
	"foodgram/internal/logging"
)

// Migrate creates or updates every table. Order matters: referenced
// tables come before the tables holding foreign keys to them.
func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"ingredient", &entities.Ingredient{}},
		{"tag", &entities.Tag{}},
		{"recipe", &entities.Recipe{}},
		{"ingredient amount", &entities.IngredientAmount{}},
		{"favorite recipe", &entities.FavoriteRecipe{}},
		{"shopping cart", &entities.ShoppingCart{}},
		{"subscription", &entities.Subscribe{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	logging.Info().Int("tables", len(models)).Msg("database migration complete")
	return nil
}

package migration

import (
	"SmartExpire/entities"
	"SmartExpire/pkg/recipe"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(ctx context.Context, db *gorm.DB) error {
	// uuid_generate_v4() backs the primary key defaults
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	tables := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"item", &entities.Item{}},
		{"used item", &entities.UsedItem{}},
		{"shopping list", &entities.ShoppingListItem{}},
		{"recipe", &entities.Recipe{}},
		{"recipe favorite", &entities.RecipeFavorite{}},
	}
	for _, table := range tables {
		if err := db.AutoMigrate(table.model); err != nil {
			log.Errorf("Error migrating %s database: %v", table.name, err)
			return fmt.Errorf("migrate %s: %w", table.name, err)
		}
	}

	if err := recipe.SeedRecipes(ctx, recipe.NewRecipeRepository(db)); err != nil {
		log.Errorf("Error seeding recipes: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}

package recipe

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"context"

	"github.com/gofiber/fiber/v2/log"
)

// DefaultCatalog is the recipe set a fresh installation starts with.
func DefaultCatalog() []entities.Recipe {
	return []entities.Recipe{
		{
			Title:       "Quick Chicken Stir-Fry",
			Type:        string(domain.RecipePanic),
			Ingredients: []string{"Chicken Breast", "Any vegetables", "Soy sauce", "Oil"},
			Instructions: []string{
				"Dice chicken breast into small pieces",
				"Chop any vegetables you have on hand",
				"Heat oil in a pan and stir-fry chicken until cooked",
				"Add vegetables and stir-fry for 2-3 minutes",
				"Add soy sauce and serve hot",
			},
			PrepTime: 5,
			CookTime: 10,
		},
		{
			Title:       "Simple Chicken Salad",
			Type:        string(domain.RecipeSimple),
			Ingredients: []string{"Chicken Breast", "Spinach", "Tomatoes", "Olive oil", "Lemon juice", "Salt", "Pepper"},
			Instructions: []string{
				"Cook chicken breast and slice into strips",
				"Wash and dry spinach leaves",
				"Dice tomatoes",
				"Combine all ingredients in a bowl",
				"Drizzle with olive oil and lemon juice",
				"Season with salt and pepper to taste",
			},
			PrepTime: 10,
			CookTime: 15,
		},
		{
			Title: "Gourmet Chicken Parmesan",
			Type:  string(domain.RecipeGourmet),
			Ingredients: []string{
				"Chicken Breast", "Breadcrumbs", "Parmesan cheese", "Mozzarella cheese", "Tomato sauce",
				"Fresh basil", "Olive oil", "Salt", "Pepper", "Garlic powder",
			},
			Instructions: []string{
				"Pound chicken breasts to even thickness",
				"Season with salt, pepper, and garlic powder",
				"Dip in beaten egg, then coat with breadcrumbs mixed with parmesan",
				"Heat olive oil in a pan and cook chicken until golden brown on both sides",
				"Transfer to a baking dish, top with tomato sauce and mozzarella",
				"Bake at 180°C until cheese is bubbly and chicken is cooked through",
				"Garnish with fresh basil before serving",
			},
			PrepTime: 20,
			CookTime: 25,
		},
		{
			Title:       "Spinach and Yogurt Dip",
			Type:        string(domain.RecipePanic),
			Ingredients: []string{"Spinach", "Greek Yogurt", "Garlic", "Lemon juice", "Salt"},
			Instructions: []string{
				"Wilt spinach in a hot pan and chop finely",
				"Stir spinach into yogurt with grated garlic",
				"Season with lemon juice and salt",
			},
			PrepTime: 5,
			CookTime: 3,
		},
	}
}

// SeedRecipes inserts the default catalog when the recipe table is empty.
func SeedRecipes(ctx context.Context, repo RecipeRepository) error {
	count, err := repo.CountRecipes(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, r := range DefaultCatalog() {
		r := r
		if err := repo.CreateRecipe(ctx, &r); err != nil {
			return err
		}
	}
	log.Infof("seeded %d default recipes", len(DefaultCatalog()))
	return nil
}

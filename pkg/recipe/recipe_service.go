package recipe

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"strings"
)

// SearchByIngredient returns the recipes with at least one ingredient that
// contains term, ignoring case. A blank term matches nothing.
func SearchByIngredient(recipes []entities.Recipe, term string) []entities.Recipe {
	term = strings.ToLower(strings.TrimSpace(term))
	matches := make([]entities.Recipe, 0)
	if term == "" {
		return matches
	}

	for _, r := range recipes {
		for _, ingredient := range r.Ingredients {
			if strings.Contains(strings.ToLower(ingredient), term) {
				matches = append(matches, r)
				break
			}
		}
	}
	return matches
}

func ToResponse(r entities.Recipe) domain.Recipe {
	return domain.Recipe{
		ID:           r.ID.String(),
		Title:        r.Title,
		Type:         r.Type,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		ImageURL:     r.ImageURL,
		IsFavorite:   r.IsFavorite,
	}
}

func ToListResponse(recipes []entities.Recipe) domain.RecipeListResponse {
	out := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ToResponse(r))
	}
	return domain.RecipeListResponse{Recipes: out, Total: len(out)}
}

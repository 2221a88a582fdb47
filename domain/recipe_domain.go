package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes     = "success get recipes"
	MessageSuccessSearchRecipes  = "success search recipes"
	MessageSuccessToggleFavorite = "recipe favorite updated successfully"
	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedToggleFavorite  = "failed to update recipe favorite"

	ErrRecipeNotFound = errors.New("recipe not found")
)

type RecipeType string

const (
	RecipePanic   RecipeType = "panic"
	RecipeSimple  RecipeType = "simple"
	RecipeGourmet RecipeType = "gourmet"
)

type (
	Recipe struct {
		ID           string   `json:"id"`
		Title        string   `json:"title"`
		Type         string   `json:"type"`
		Ingredients  []string `json:"ingredients"`
		Instructions []string `json:"instructions"`
		PrepTime     int      `json:"prep_time"`
		CookTime     int      `json:"cook_time"`
		ImageURL     string   `json:"image_url,omitempty"`
		IsFavorite   bool     `json:"is_favorite"`
	}

	RecipeListResponse struct {
		Recipes []Recipe `json:"recipes"`
		Total   int      `json:"total"`
	}
)

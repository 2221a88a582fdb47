package handlers

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/internal/api/presenters"
	"SmartExpire/pkg/coordinator"
	"SmartExpire/pkg/recipe"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetFavoriteRecipes(c *fiber.Ctx) error
		SearchRecipes(c *fiber.Ctx) error
		ToggleFavorite(c *fiber.Ctx) error
	}

	recipeHandler struct {
		registry *coordinator.Registry
	}
)

func NewRecipeHandler(registry *coordinator.Registry) RecipeHandler {
	return &recipeHandler{registry: registry}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetRecipes, err)
	}

	recipes := co.Snapshot().Recipes
	if recipeType := strings.ToLower(c.Query("type")); recipeType != "" {
		byType := make([]entities.Recipe, 0, len(recipes))
		for _, r := range recipes {
			if r.Type == recipeType {
				byType = append(byType, r)
			}
		}
		recipes = byType
	}
	return presenters.SuccessResponse(c, recipe.ToListResponse(recipes), fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetFavoriteRecipes(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, recipe.ToListResponse(co.Snapshot().FavoriteRecipes), fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

// SearchRecipes matches on ingredients; an empty q yields no recipes.
func (h *recipeHandler) SearchRecipes(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, recipe.ToListResponse(co.SearchRecipes(c.Query("q"))), fiber.StatusOK, domain.MessageSuccessSearchRecipes)
}

func (h *recipeHandler) ToggleFavorite(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedToggleFavorite, err)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedToggleFavorite, err)
	}

	if err := co.ToggleFavoriteRecipe(c.Context(), id); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedToggleFavorite, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessToggleFavorite)
}

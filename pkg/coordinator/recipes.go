package coordinator

import (
	"SmartExpire/entities"
	"SmartExpire/pkg/remote"
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// ToggleFavoriteRecipe flips the favourite flag and keeps FavoriteRecipes in
// step with it. Unknown ids are ignored.
func (c *Coordinator) ToggleFavoriteRecipe(ctx context.Context, id uuid.UUID) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}

	c.mu.RLock()
	var target *entities.Recipe
	for i := range c.state.Recipes {
		if c.state.Recipes[i].ID == id {
			r := c.state.Recipes[i]
			target = &r
			break
		}
	}
	c.mu.RUnlock()
	if target == nil {
		return nil
	}

	favorite := !target.IsFavorite
	err = remote.Call(ctx, c.timeout, "SetFavorite", func(ctx context.Context) error {
		return c.repos.Recipes.SetFavorite(ctx, userID, id, favorite)
	})
	if err != nil {
		log.Errorf("toggle favourite on recipe %s: %v", id, err)
		return err
	}

	target.IsFavorite = favorite
	c.mutate(userID, func(s *State) {
		for i := range s.Recipes {
			if s.Recipes[i].ID == id {
				s.Recipes[i].IsFavorite = favorite
			}
		}
		s.FavoriteRecipes = removeByID(s.FavoriteRecipes, id, func(r entities.Recipe) uuid.UUID { return r.ID })
		if favorite {
			s.FavoriteRecipes = append(s.FavoriteRecipes, *target)
		}
	})
	return nil
}

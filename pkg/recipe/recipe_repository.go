package recipe

import (
	"SmartExpire/entities"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		CountRecipes(ctx context.Context) (int64, error)
		ListRecipes(ctx context.Context) ([]entities.Recipe, error)
		ListFavoriteRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
		SetFavorite(ctx context.Context, userID, recipeID uuid.UUID, favorite bool) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) ListRecipes(ctx context.Context) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if err := r.db.WithContext(ctx).
		Order("created_at asc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) ListFavoriteRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeFavorite{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *recipeRepository) SetFavorite(ctx context.Context, userID, recipeID uuid.UUID, favorite bool) error {
	if !favorite {
		return r.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Delete(&entities.RecipeFavorite{}).Error
	}

	// Check if already a favorite
	var existing entities.RecipeFavorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error; err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	favoriteRow := entities.RecipeFavorite{
		ID:        uuid.New(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&favoriteRow).Error
}

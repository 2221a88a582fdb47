package shoppinglist

import (
	"SmartExpire/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingListRepository interface {
		ListShoppingListItems(ctx context.Context, userID uuid.UUID) ([]entities.ShoppingListItem, error)
		CreateShoppingListItem(ctx context.Context, listItem *entities.ShoppingListItem) error
		DeleteShoppingListItem(ctx context.Context, userID, id uuid.UUID) error
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) ListShoppingListItems(ctx context.Context, userID uuid.UUID) ([]entities.ShoppingListItem, error) {
	var listItems []entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added desc").
		Find(&listItems).Error; err != nil {
		return nil, err
	}
	return listItems, nil
}

func (r *shoppingListRepository) CreateShoppingListItem(ctx context.Context, listItem *entities.ShoppingListItem) error {
	return r.db.WithContext(ctx).Create(listItem).Error
}

func (r *shoppingListRepository) DeleteShoppingListItem(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.ShoppingListItem{}).Error
}

package useditem

import (
	"SmartExpire/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UsedItemRepository interface {
		ListUsedItems(ctx context.Context, userID uuid.UUID) ([]entities.UsedItem, error)
		CreateUsedItem(ctx context.Context, usedItem *entities.UsedItem) error
		DeleteUsedItem(ctx context.Context, userID, id uuid.UUID) error
	}

	usedItemRepository struct {
		db *gorm.DB
	}
)

func NewUsedItemRepository(db *gorm.DB) UsedItemRepository {
	return &usedItemRepository{db: db}
}

func (r *usedItemRepository) ListUsedItems(ctx context.Context, userID uuid.UUID) ([]entities.UsedItem, error) {
	var usedItems []entities.UsedItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("used_date desc").
		Find(&usedItems).Error; err != nil {
		return nil, err
	}
	return usedItems, nil
}

func (r *usedItemRepository) CreateUsedItem(ctx context.Context, usedItem *entities.UsedItem) error {
	return r.db.WithContext(ctx).Create(usedItem).Error
}

func (r *usedItemRepository) DeleteUsedItem(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.UsedItem{}).Error
}

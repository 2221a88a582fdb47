package item

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	ItemRepository interface {
		ListItems(ctx context.Context, userID uuid.UUID) ([]entities.Item, error)
		FindItemByName(ctx context.Context, userID uuid.UUID, name string) (*entities.Item, error)
		CreateItem(ctx context.Context, item *entities.Item) error
		UpdateItem(ctx context.Context, item *entities.Item) error
		UpdateItemQuantity(ctx context.Context, userID, id uuid.UUID, quantity decimal.Decimal) error
		UpdateItemOpened(ctx context.Context, userID, id uuid.UUID, opened bool) error
		UpdateItemImage(ctx context.Context, userID, id uuid.UUID, imageURL string) error
		DeleteItem(ctx context.Context, userID, id uuid.UUID) error
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) ListItems(ctx context.Context, userID uuid.UUID) ([]entities.Item, error) {
	var items []entities.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemByName returns nil without error when the user has no item with
// exactly that name.
func (r *itemRepository) FindItemByName(ctx context.Context, userID uuid.UUID, name string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Order("created_at asc").
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Item{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Select("name", "category", "food_subcategory", "expiry_date", "opened", "quantity", "unit", "image_url").
		Updates(item)
	return rowsAffected(res)
}

func (r *itemRepository) UpdateItemQuantity(ctx context.Context, userID, id uuid.UUID, quantity decimal.Decimal) error {
	return r.updateColumn(ctx, userID, id, "quantity", quantity)
}

func (r *itemRepository) UpdateItemOpened(ctx context.Context, userID, id uuid.UUID, opened bool) error {
	return r.updateColumn(ctx, userID, id, "opened", opened)
}

func (r *itemRepository) UpdateItemImage(ctx context.Context, userID, id uuid.UUID, imageURL string) error {
	return r.updateColumn(ctx, userID, id, "image_url", imageURL)
}

func (r *itemRepository) updateColumn(ctx context.Context, userID, id uuid.UUID, column string, value interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Item{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update(column, value)
	return rowsAffected(res)
}

func (r *itemRepository) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Item{}).Error
}

func rowsAffected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

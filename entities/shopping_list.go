package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShoppingListItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `gorm:"type:numeric" json:"quantity"`
	Unit            string          `json:"unit"`
	Category        string          `json:"category"`
	FoodSubcategory *string         `json:"food_subcategory,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Added           time.Time       `gorm:"type:timestamp" json:"added"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName keeps the table name aligned with the other clients of the store.
func (ShoppingListItem) TableName() string {
	return "shopping_list"
}

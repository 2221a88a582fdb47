package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UsedItem is a snapshot of an Item taken when it was consumed.
type UsedItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID              uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	FoodSubcategory     *string         `json:"food_subcategory,omitempty"`
	Quantity            decimal.Decimal `gorm:"type:numeric" json:"quantity"`
	Unit                string          `json:"unit"`
	ImageURL            string          `json:"image_url,omitempty"`
	UsedDate            time.Time       `gorm:"type:timestamp" json:"used_date"`
	AddedToShoppingList bool            `json:"added_to_shopping_list"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

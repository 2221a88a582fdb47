package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index:idx_items_user_name" json:"user_id"`
	Name            string          `gorm:"index:idx_items_user_name" json:"name"`
	Category        string          `json:"category"` // food, pharma, cosmetics, cleaning, pet
	FoodSubcategory *string         `json:"food_subcategory,omitempty"`
	ExpiryDate      *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	Opened          bool            `json:"opened"`
	Quantity        decimal.Decimal `gorm:"type:numeric" json:"quantity"`
	Unit            string          `json:"unit"`
	ImageURL        string          `json:"image_url,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

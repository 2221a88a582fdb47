// File: entities/recipe.go
package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"` // panic, simple, gourmet
	Ingredients  []string  `gorm:"serializer:json;type:text" json:"ingredients"`
	Instructions []string  `gorm:"serializer:json;type:text" json:"instructions"`
	PrepTime     int       `json:"prep_time"`
	CookTime     int       `json:"cook_time"`
	ImageURL     string    `json:"image_url,omitempty"`

	// IsFavorite is resolved per user from RecipeFavorite rows.
	IsFavorite bool `gorm:"-" json:"is_favorite"`
	Timestamp
}

type RecipeFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_recipe_favorite" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_recipe_favorite" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}

package domain

import (
	"errors"
	"strings"
	"time"
)

type Category string

const (
	CategoryFood      Category = "food"
	CategoryPharma    Category = "pharma"
	CategoryCosmetics Category = "cosmetics"
	CategoryCleaning  Category = "cleaning"
	CategoryPet       Category = "pet"

	// CategoryAll is only meaningful as a list filter.
	CategoryAll Category = "all"
)

var Categories = []Category{CategoryFood, CategoryPharma, CategoryCosmetics, CategoryCleaning, CategoryPet}

var FoodSubcategories = []string{"produce", "dairy", "meat", "bakery", "canned", "frozen", "other"}

var (
	MessageSuccessAddItem       = "item added successfully"
	MessageSuccessUpdateItem    = "item updated successfully"
	MessageSuccessGetItems      = "items retrieved successfully"
	MessageSuccessMarkAsUsed    = "item marked as used"
	MessageSuccessToggleOpened  = "item opened state updated"
	MessageSuccessUploadImage   = "item image uploaded successfully"
	MessageSuccessGetStats      = "expiry statistics retrieved successfully"
	MessageSuccessGetUsedItems  = "used items retrieved successfully"
	MessageSuccessRemoveUsed    = "used item removed successfully"
	MessageFailedAddItem        = "failed to add item"
	MessageFailedUpdateItem     = "failed to update item"
	MessageFailedGetItems       = "failed to retrieve items"
	MessageFailedMarkAsUsed     = "failed to mark item as used"
	MessageFailedToggleOpened   = "failed to update item opened state"
	MessageFailedUploadImage    = "failed to upload item image"
	MessageFailedRemoveUsedItem = "failed to remove used item"
	MessageValidationExpiryDate = "Please enter the expiry date as YYYY-MM-DD."

	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidExpiryDate  = errors.New("invalid expiry date")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidImageFormat = errors.New("invalid image format")
)

// ValidCategory reports whether c is one of the tracked item categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if string(known) == c {
			return true
		}
	}
	return false
}

// NormalizeSubcategory drops the subcategory for non-food categories and
// blanks.
func NormalizeSubcategory(category string, subcategory *string) *string {
	if category != string(CategoryFood) || subcategory == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*subcategory))
	if s == "" {
		return nil
	}
	return &s
}

// ParseExpiryDate accepts YYYY-MM-DD. An empty string means no tracked expiry.
func ParseExpiryDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ErrInvalidExpiryDate
	}
	return &t, nil
}

type (
	AddItemRequest struct {
		Name            string  `json:"name" validate:"required"`
		Category        string  `json:"category" validate:"required,oneof=food pharma cosmetics cleaning pet"`
		FoodSubcategory *string `json:"food_subcategory" validate:"omitempty,oneof=produce dairy meat bakery canned frozen other"`
		ExpiryDate      string  `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
		Opened          bool    `json:"opened"`
		Quantity        float64 `json:"quantity" validate:"required,gt=0"`
		Unit            string  `json:"unit" validate:"required"`
		ImageURL        string  `json:"image_url" validate:"omitempty,url"`
	}

	UpdateItemRequest struct {
		Name            string   `json:"name" validate:"omitempty"`
		Category        string   `json:"category" validate:"omitempty,oneof=food pharma cosmetics cleaning pet"`
		FoodSubcategory *string  `json:"food_subcategory" validate:"omitempty,oneof=produce dairy meat bakery canned frozen other"`
		ExpiryDate      string   `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
		Quantity        *float64 `json:"quantity" validate:"omitempty,gt=0"`
		Unit            string   `json:"unit" validate:"omitempty"`
	}

	MarkAsUsedRequest struct {
		AddToShoppingList bool `json:"add_to_shopping_list"`
	}

	ItemFilter struct {
		Category string
		Search   string
	}

	ItemResponse struct {
		ID              string     `json:"id"`
		Name            string     `json:"name"`
		Category        string     `json:"category"`
		FoodSubcategory *string    `json:"food_subcategory,omitempty"`
		ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
		DaysUntilExpiry *int       `json:"days_until_expiry,omitempty"`
		Status          string     `json:"status"`
		StatusText      string     `json:"status_text"`
		Opened          bool       `json:"opened"`
		Quantity        float64    `json:"quantity"`
		Unit            string     `json:"unit"`
		ImageURL        string     `json:"image_url,omitempty"`
		CreatedAt       time.Time  `json:"created_at"`
	}

	UsedItemResponse struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Category        string    `json:"category"`
		FoodSubcategory *string   `json:"food_subcategory,omitempty"`
		Quantity        float64   `json:"quantity"`
		Unit            string    `json:"unit"`
		ImageURL        string    `json:"image_url,omitempty"`
		UsedDate        time.Time `json:"used_date"`
	}

	ExpiryStatsResponse struct {
		TotalItems   int `json:"total_items"`
		ExpiredItems int `json:"expired_items"`
		WarningItems int `json:"warning_items"`
		SafeItems    int `json:"safe_items"`
		Untracked    int `json:"untracked_items"`
		OpenedItems  int `json:"opened_items"`
	}
)

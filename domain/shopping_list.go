package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetShoppingList     = "shopping list retrieved successfully"
	MessageSuccessAddShoppingItem     = "item added to shopping list"
	MessageSuccessRemoveShoppingItem  = "item removed from shopping list"
	MessageSuccessMarkAllPurchased    = "shopping list moved to inventory"
	MessageFailedAddShoppingItem      = "failed to add item to shopping list"
	MessageFailedRemoveShoppingItem   = "failed to remove item from shopping list"
	MessageFailedMarkAllPurchased     = "failed to move shopping list to inventory"
	MessagePartialMarkAllPurchased    = "some shopping list items could not be moved to inventory"
	MessageValidationItemName         = "Please enter an item name."
	MessageValidationQuantity         = "Quantity must be greater than 0."
	MessageValidationUnit             = "Please enter a unit."
	MessageValidationCategory         = "Please select a category."
	MessageValidationShoppingListItem = "Please check the shopping list item."

	ErrShoppingListEmpty = errors.New("shopping list is empty")
)

type PurchaseAction string

const (
	PurchaseMerged  PurchaseAction = "merged"
	PurchaseCreated PurchaseAction = "created"
	PurchaseFailed  PurchaseAction = "failed"
)

type (
	AddShoppingListItemRequest struct {
		Name            string  `json:"name" validate:"required"`
		Quantity        float64 `json:"quantity" validate:"gt=0"`
		Unit            string  `json:"unit" validate:"required"`
		Category        string  `json:"category" validate:"required"`
		FoodSubcategory *string `json:"food_subcategory"`
		ImageURL        string  `json:"image_url"`
	}

	ShoppingListItemResponse struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Quantity        float64   `json:"quantity"`
		Unit            string    `json:"unit"`
		Category        string    `json:"category"`
		FoodSubcategory *string   `json:"food_subcategory,omitempty"`
		ImageURL        string    `json:"image_url,omitempty"`
		Added           time.Time `json:"added"`
	}

	// PurchaseOutcome is the result of reconciling one shopping-list entry
	// into the inventory.
	PurchaseOutcome struct {
		EntryID  string         `json:"entry_id"`
		Name     string         `json:"name"`
		Action   PurchaseAction `json:"action"`
		ItemID   string         `json:"item_id,omitempty"`
		Quantity float64        `json:"quantity,omitempty"`
		Removed  bool           `json:"removed_from_list"`
		Reason   string         `json:"reason,omitempty"`
		Err      error          `json:"-"`
	}

	MarkAllPurchasedResponse struct {
		Outcomes  []PurchaseOutcome `json:"outcomes"`
		Succeeded int               `json:"succeeded"`
		Failed    int               `json:"failed"`
	}
)

// Failed reports whether any step for the entry went wrong.
func (o PurchaseOutcome) Failed() bool {
	return o.Err != nil
}

// Package reconcile moves purchased shopping-list entries into the inventory.
package reconcile

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/pkg/item"
	"SmartExpire/pkg/remote"
	"SmartExpire/pkg/shoppinglist"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	Reconciler interface {
		MarkAllAsPurchased(ctx context.Context, userID uuid.UUID, entries []entities.ShoppingListItem) []domain.PurchaseOutcome
	}

	reconciler struct {
		itemRepository         item.ItemRepository
		shoppingListRepository shoppinglist.ShoppingListRepository
		timeout                time.Duration
	}
)

func NewReconciler(itemRepository item.ItemRepository, shoppingListRepository shoppinglist.ShoppingListRepository, timeout time.Duration) Reconciler {
	return &reconciler{
		itemRepository:         itemRepository,
		shoppingListRepository: shoppingListRepository,
		timeout:                timeout,
	}
}

// MarkAllAsPurchased handles entries one at a time, in order. An entry is
// merged into the inventory row with the same name or becomes a new row, and
// is then removed from the list. A failing entry is recorded and skipped.
//
// Two concurrent runs for the same user can both miss an existing row and
// create duplicates; callers are expected not to overlap runs.
func (r *reconciler) MarkAllAsPurchased(ctx context.Context, userID uuid.UUID, entries []entities.ShoppingListItem) []domain.PurchaseOutcome {
	outcomes := make([]domain.PurchaseOutcome, 0, len(entries))
	for _, entry := range entries {
		outcome := r.purchase(ctx, userID, entry)
		if outcome.Failed() {
			log.Errorf("mark as purchased %q: %v", entry.Name, outcome.Err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (r *reconciler) purchase(ctx context.Context, userID uuid.UUID, entry entities.ShoppingListItem) domain.PurchaseOutcome {
	outcome := domain.PurchaseOutcome{
		EntryID: entry.ID.String(),
		Name:    entry.Name,
		Action:  domain.PurchaseFailed,
	}
	fail := func(step string, err error) domain.PurchaseOutcome {
		outcome.Err = err
		outcome.Reason = fmt.Sprintf("%s: %v", step, err)
		return outcome
	}

	if !entry.Quantity.IsPositive() {
		return fail("validate entry", domain.ErrInvalidQuantity)
	}

	existing, err := remote.Fetch(ctx, r.timeout, "FindItemByName", func(ctx context.Context) (*entities.Item, error) {
		return r.itemRepository.FindItemByName(ctx, userID, entry.Name)
	})
	if err != nil {
		return fail("look up inventory", err)
	}

	if existing != nil {
		quantity := existing.Quantity.Add(entry.Quantity)
		err = remote.Call(ctx, r.timeout, "UpdateItemQuantity", func(ctx context.Context) error {
			return r.itemRepository.UpdateItemQuantity(ctx, userID, existing.ID, quantity)
		})
		if err != nil {
			return fail("update quantity", err)
		}
		outcome.Action = domain.PurchaseMerged
		outcome.ItemID = existing.ID.String()
		outcome.Quantity = quantity.InexactFloat64()
	} else {
		newItem := entities.Item{
			ID:              uuid.New(),
			UserID:          userID,
			Name:            entry.Name,
			Category:        entry.Category,
			FoodSubcategory: domain.NormalizeSubcategory(entry.Category, entry.FoodSubcategory),
			Opened:          false,
			Quantity:        entry.Quantity,
			Unit:            entry.Unit,
			ImageURL:        entry.ImageURL,
		}
		err = remote.Call(ctx, r.timeout, "CreateItem", func(ctx context.Context) error {
			return r.itemRepository.CreateItem(ctx, &newItem)
		})
		if err != nil {
			return fail("create item", err)
		}
		outcome.Action = domain.PurchaseCreated
		outcome.ItemID = newItem.ID.String()
		outcome.Quantity = newItem.Quantity.InexactFloat64()
	}

	// The inventory already holds the entry at this point; a failed delete
	// leaves it on the list and a retry would count it twice.
	err = remote.Call(ctx, r.timeout, "DeleteShoppingListItem", func(ctx context.Context) error {
		return r.shoppingListRepository.DeleteShoppingListItem(ctx, userID, entry.ID)
	})
	if err != nil {
		return fail("remove from shopping list", err)
	}
	outcome.Removed = true
	return outcome
}

package coordinator

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/pkg/remote"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fieldMessages = map[string]string{
	"Name":     domain.MessageValidationItemName,
	"Quantity": domain.MessageValidationQuantity,
	"Unit":     domain.MessageValidationUnit,
	"Category": domain.MessageValidationCategory,
}

// validationError reports the first failing field with a message fit for the
// user. Fields are checked in declaration order.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}
	field := fieldErrs[0].StructField()
	message, ok := fieldMessages[field]
	if !ok {
		message = fmt.Sprintf("Please check the %s field.", strings.ToLower(field))
	}
	return &domain.ValidationError{Field: field, Message: message}
}

func quantityFrom(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero, &domain.ValidationError{Field: "Quantity", Message: domain.MessageValidationQuantity}
	}
	return decimal.NewFromFloat(f), nil
}

// AddToShoppingList validates req, fills in a default picture when none is
// given and puts the new entry first in the cached list.
func (c *Coordinator) AddToShoppingList(ctx context.Context, req domain.AddShoppingListItemRequest) (*entities.ShoppingListItem, error) {
	userID, err := c.currentUser()
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if err := c.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	quantity, err := quantityFrom(req.Quantity)
	if err != nil {
		return nil, err
	}

	subcategory := domain.NormalizeSubcategory(req.Category, req.FoodSubcategory)
	entry := entities.ShoppingListItem{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            req.Name,
		Quantity:        quantity,
		Unit:            req.Unit,
		Category:        req.Category,
		FoodSubcategory: subcategory,
		ImageURL:        c.images.Resolve(req.ImageURL, req.Category, subcategory),
		Added:           c.now(),
	}

	err = remote.Call(ctx, c.timeout, "CreateShoppingListItem", func(ctx context.Context) error {
		return c.repos.ShoppingList.CreateShoppingListItem(ctx, &entry)
	})
	if err != nil {
		log.Errorf("add %q to shopping list: %v", entry.Name, err)
		return nil, err
	}

	c.mutate(userID, func(s *State) {
		s.ShoppingList = append([]entities.ShoppingListItem{entry}, s.ShoppingList...)
	})
	return &entry, nil
}

func (c *Coordinator) RemoveFromShoppingList(ctx context.Context, id uuid.UUID) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}
	c.mu.RLock()
	known := containsID(c.state.ShoppingList, id, func(l entities.ShoppingListItem) uuid.UUID { return l.ID })
	c.mu.RUnlock()
	if !known {
		return nil
	}

	err = remote.Call(ctx, c.timeout, "DeleteShoppingListItem", func(ctx context.Context) error {
		return c.repos.ShoppingList.DeleteShoppingListItem(ctx, userID, id)
	})
	if err != nil {
		log.Errorf("remove shopping list entry %s: %v", id, err)
		return err
	}
	c.mutate(userID, func(s *State) {
		s.ShoppingList = removeByID(s.ShoppingList, id, func(l entities.ShoppingListItem) uuid.UUID { return l.ID })
	})
	return nil
}

// MarkAllAsPurchased moves every cached shopping-list entry into the
// inventory and reloads. An empty list is a no-op. The outcomes are returned
// even when the reload fails.
func (c *Coordinator) MarkAllAsPurchased(ctx context.Context) ([]domain.PurchaseOutcome, error) {
	userID, err := c.currentUser()
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	entries := cloneSlice(c.state.ShoppingList)
	c.mu.RUnlock()
	if len(entries) == 0 {
		return nil, nil
	}

	outcomes := c.reconciler.MarkAllAsPurchased(ctx, userID, entries)
	if err := c.Load(ctx); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

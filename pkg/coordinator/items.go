package coordinator

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/pkg/expiry"
	"SmartExpire/pkg/remote"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Items returns the cached inventory narrowed by category ("" or "all" keeps
// everything) and name, ordered soonest expiry first.
func (c *Coordinator) Items(filter domain.ItemFilter) []entities.Item {
	c.mu.RLock()
	items := cloneSlice(c.state.Items)
	c.mu.RUnlock()

	category := strings.ToLower(strings.TrimSpace(filter.Category))
	if category != "" && category != string(domain.CategoryAll) {
		byCategory := make([]entities.Item, 0, len(items))
		for _, it := range items {
			if it.Category == category {
				byCategory = append(byCategory, it)
			}
		}
		items = byCategory
	}
	return expiry.SortByExpiry(expiry.FilterByName(items, filter.Search))
}

func (c *Coordinator) Item(id uuid.UUID) (entities.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.state.Items {
		if it.ID == id {
			return it, true
		}
	}
	return entities.Item{}, false
}

func (c *Coordinator) AddItem(ctx context.Context, req domain.AddItemRequest) (*entities.Item, error) {
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
	expiryDate, err := domain.ParseExpiryDate(req.ExpiryDate)
	if err != nil {
		return nil, &domain.ValidationError{Field: "ExpiryDate", Message: domain.MessageValidationExpiryDate}
	}

	subcategory := domain.NormalizeSubcategory(req.Category, req.FoodSubcategory)
	newItem := entities.Item{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            req.Name,
		Category:        req.Category,
		FoodSubcategory: subcategory,
		ExpiryDate:      expiryDate,
		Opened:          req.Opened,
		Quantity:        quantity,
		Unit:            req.Unit,
		ImageURL:        c.images.Resolve(req.ImageURL, req.Category, subcategory),
	}

	err = remote.Call(ctx, c.timeout, "CreateItem", func(ctx context.Context) error {
		return c.repos.Items.CreateItem(ctx, &newItem)
	})
	if err != nil {
		log.Errorf("add item %q: %v", newItem.Name, err)
		return nil, err
	}

	c.mutate(userID, func(s *State) {
		s.Items = append(s.Items, newItem)
	})
	return &newItem, nil
}

// UpdateItem applies the non-empty fields of req to a cached item.
func (c *Coordinator) UpdateItem(ctx context.Context, id uuid.UUID, req domain.UpdateItemRequest) (*entities.Item, error) {
	userID, err := c.currentUser()
	if err != nil {
		return nil, err
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	updated, ok := c.Item(id)
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		updated.Name = name
	}
	if req.Category != "" {
		updated.Category = strings.ToLower(strings.TrimSpace(req.Category))
	}
	if req.FoodSubcategory != nil {
		updated.FoodSubcategory = req.FoodSubcategory
	}
	updated.FoodSubcategory = domain.NormalizeSubcategory(updated.Category, updated.FoodSubcategory)
	if req.ExpiryDate != "" {
		expiryDate, err := domain.ParseExpiryDate(req.ExpiryDate)
		if err != nil {
			return nil, &domain.ValidationError{Field: "ExpiryDate", Message: domain.MessageValidationExpiryDate}
		}
		updated.ExpiryDate = expiryDate
	}
	if req.Quantity != nil {
		quantity, err := quantityFrom(*req.Quantity)
		if err != nil {
			return nil, err
		}
		updated.Quantity = quantity
	}
	if unit := strings.TrimSpace(req.Unit); unit != "" {
		updated.Unit = unit
	}

	err = remote.Call(ctx, c.timeout, "UpdateItem", func(ctx context.Context) error {
		return c.repos.Items.UpdateItem(ctx, &updated)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		log.Errorf("update item %s: %v", id, err)
		return nil, err
	}

	c.mutate(userID, func(s *State) {
		for i := range s.Items {
			if s.Items[i].ID == id {
				s.Items[i] = updated
			}
		}
	})
	return &updated, nil
}

// SetItemImage stores an uploaded picture on a cached item.
func (c *Coordinator) SetItemImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}
	if _, ok := c.Item(id); !ok {
		return domain.ErrItemNotFound
	}

	err = remote.Call(ctx, c.timeout, "UpdateItemImage", func(ctx context.Context) error {
		return c.repos.Items.UpdateItemImage(ctx, userID, id, imageURL)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrItemNotFound
	}
	if err != nil {
		log.Errorf("set image of item %s: %v", id, err)
		return err
	}

	c.mutate(userID, func(s *State) {
		for i := range s.Items {
			if s.Items[i].ID == id {
				s.Items[i].ImageURL = imageURL
			}
		}
	})
	return nil
}

// MarkItemAsUsed removes the item from the inventory. With addToShoppingList
// the item goes onto the shopping list; otherwise a used-item snapshot is
// recorded. Unknown ids are ignored.
func (c *Coordinator) MarkItemAsUsed(ctx context.Context, id uuid.UUID, addToShoppingList bool) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}
	target, ok := c.Item(id)
	if !ok {
		return nil
	}

	err = remote.Call(ctx, c.timeout, "DeleteItem", func(ctx context.Context) error {
		return c.repos.Items.DeleteItem(ctx, userID, id)
	})
	if err != nil {
		log.Errorf("mark item %s as used: %v", id, err)
		return err
	}
	c.mutate(userID, func(s *State) {
		s.Items = removeByID(s.Items, id, func(it entities.Item) uuid.UUID { return it.ID })
	})

	if addToShoppingList {
		_, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{
			Name:            target.Name,
			Quantity:        target.Quantity.InexactFloat64(),
			Unit:            target.Unit,
			Category:        target.Category,
			FoodSubcategory: target.FoodSubcategory,
			ImageURL:        target.ImageURL,
		})
		return err
	}

	used := entities.UsedItem{
		ID:                  uuid.New(),
		UserID:              userID,
		Name:                target.Name,
		Category:            target.Category,
		FoodSubcategory:     target.FoodSubcategory,
		Quantity:            target.Quantity,
		Unit:                target.Unit,
		ImageURL:            target.ImageURL,
		UsedDate:            c.now(),
		AddedToShoppingList: false,
	}
	err = remote.Call(ctx, c.timeout, "CreateUsedItem", func(ctx context.Context) error {
		return c.repos.UsedItems.CreateUsedItem(ctx, &used)
	})
	if err != nil {
		log.Errorf("record used item %q: %v", used.Name, err)
		return err
	}
	c.mutate(userID, func(s *State) {
		s.UsedItems = append([]entities.UsedItem{used}, s.UsedItems...)
	})
	return nil
}

// ToggleItemOpened flips the opened flag. Unknown ids are ignored.
func (c *Coordinator) ToggleItemOpened(ctx context.Context, id uuid.UUID) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}
	target, ok := c.Item(id)
	if !ok {
		return nil
	}

	opened := !target.Opened
	err = remote.Call(ctx, c.timeout, "UpdateItemOpened", func(ctx context.Context) error {
		return c.repos.Items.UpdateItemOpened(ctx, userID, id, opened)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Errorf("toggle opened on item %s: %v", id, err)
		return err
	}

	c.mutate(userID, func(s *State) {
		for i := range s.Items {
			if s.Items[i].ID == id {
				s.Items[i].Opened = opened
			}
		}
	})
	return nil
}

func (c *Coordinator) RemoveFromUsedItems(ctx context.Context, id uuid.UUID) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}
	c.mu.RLock()
	known := containsID(c.state.UsedItems, id, func(u entities.UsedItem) uuid.UUID { return u.ID })
	c.mu.RUnlock()
	if !known {
		return nil
	}

	err = remote.Call(ctx, c.timeout, "DeleteUsedItem", func(ctx context.Context) error {
		return c.repos.UsedItems.DeleteUsedItem(ctx, userID, id)
	})
	if err != nil {
		log.Errorf("remove used item %s: %v", id, err)
		return err
	}
	c.mutate(userID, func(s *State) {
		s.UsedItems = removeByID(s.UsedItems, id, func(u entities.UsedItem) uuid.UUID { return u.ID })
	})
	return nil
}

func removeByID[T any](rows []T, id uuid.UUID, key func(T) uuid.UUID) []T {
	kept := make([]T, 0, len(rows))
	for _, row := range rows {
		if key(row) != id {
			kept = append(kept, row)
		}
	}
	return kept
}

func containsID[T any](rows []T, id uuid.UUID, key func(T) uuid.UUID) bool {
	for _, row := range rows {
		if key(row) == id {
			return true
		}
	}
	return false
}

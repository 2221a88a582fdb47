// Package memstore is an in-memory implementation of every repository in the
// application. It backs STORAGE_DRIVER=memory and the test suites.
package memstore

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/pkg/item"
	"SmartExpire/pkg/recipe"
	"SmartExpire/pkg/shoppinglist"
	"SmartExpire/pkg/useditem"
	"SmartExpire/pkg/user"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compile-time interface checks.
var (
	_ item.ItemRepository                 = (*Store)(nil)
	_ useditem.UsedItemRepository         = (*Store)(nil)
	_ shoppinglist.ShoppingListRepository = (*Store)(nil)
	_ recipe.RecipeRepository             = (*Store)(nil)
	_ user.UserRepository                 = (*Store)(nil)
)

// Fault lets tests fail a single operation. key is the row id, or the item
// name for FindItemByName and CreateItem.
type Fault func(op, key string) error

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	items        []entities.Item
	usedItems    []entities.UsedItem
	shoppingList []entities.ShoppingListItem
	recipes      []entities.Recipe
	favorites    []entities.RecipeFavorite
	users        []entities.User

	fault   Fault
	latency time.Duration
	calls   []string
	now     func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// SetFault installs f for subsequent calls; nil clears it.
func (s *Store) SetFault(f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// SetLatency delays every call by d, honouring context cancellation.
func (s *Store) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Calls returns the operations served so far, in order.
func (s *Store) Calls() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Store) begin(ctx context.Context, op, key string) error {
	s.mu.Lock()
	s.calls = append(s.calls, op+":"+key)
	latency, fault := s.latency, s.fault
	s.mu.Unlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if fault != nil {
		return fault(op, key)
	}
	return nil
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// Items

func (s *Store) ListItems(ctx context.Context, userID uuid.UUID) ([]entities.Item, error) {
	if err := s.begin(ctx, "ListItems", userID.String()); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Item, 0)
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) FindItemByName(ctx context.Context, userID uuid.UUID, name string) (*entities.Item, error) {
	if err := s.begin(ctx, "FindItemByName", name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.UserID == userID && it.Name == name {
			found := it
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateItem(ctx context.Context, it *entities.Item) error {
	if err := s.begin(ctx, "CreateItem", it.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	it.ID = newID(it.ID)
	it.CreatedAt = s.now()
	it.UpdatedAt = it.CreatedAt
	s.items = append(s.items, *it)
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, it *entities.Item) error {
	if err := s.begin(ctx, "UpdateItem", it.ID.String()); err != nil {
		return err
	}
	return s.mutateItem(it.UserID, it.ID, func(row *entities.Item) {
		row.Name = it.Name
		row.Category = it.Category
		row.FoodSubcategory = it.FoodSubcategory
		row.ExpiryDate = it.ExpiryDate
		row.Opened = it.Opened
		row.Quantity = it.Quantity
		row.Unit = it.Unit
		row.ImageURL = it.ImageURL
	})
}

func (s *Store) UpdateItemQuantity(ctx context.Context, userID, id uuid.UUID, quantity decimal.Decimal) error {
	if err := s.begin(ctx, "UpdateItemQuantity", id.String()); err != nil {
		return err
	}
	return s.mutateItem(userID, id, func(row *entities.Item) { row.Quantity = quantity })
}

func (s *Store) UpdateItemOpened(ctx context.Context, userID, id uuid.UUID, opened bool) error {
	if err := s.begin(ctx, "UpdateItemOpened", id.String()); err != nil {
		return err
	}
	return s.mutateItem(userID, id, func(row *entities.Item) { row.Opened = opened })
}

func (s *Store) UpdateItemImage(ctx context.Context, userID, id uuid.UUID, imageURL string) error {
	if err := s.begin(ctx, "UpdateItemImage", id.String()); err != nil {
		return err
	}
	return s.mutateItem(userID, id, func(row *entities.Item) { row.ImageURL = imageURL })
}

func (s *Store) mutateItem(userID, id uuid.UUID, fn func(row *entities.Item)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id && s.items[i].UserID == userID {
			fn(&s.items[i])
			s.items[i].UpdatedAt = s.now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.begin(ctx, "DeleteItem", id.String()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if !(it.ID == id && it.UserID == userID) {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

// Used items

func (s *Store) ListUsedItems(ctx context.Context, userID uuid.UUID) ([]entities.UsedItem, error) {
	if err := s.begin(ctx, "ListUsedItems", userID.String()); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.UsedItem, 0)
	for _, u := range s.usedItems {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UsedDate.After(out[j].UsedDate) })
	return out, nil
}

func (s *Store) CreateUsedItem(ctx context.Context, usedItem *entities.UsedItem) error {
	if err := s.begin(ctx, "CreateUsedItem", usedItem.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	usedItem.ID = newID(usedItem.ID)
	s.usedItems = append(s.usedItems, *usedItem)
	return nil
}

func (s *Store) DeleteUsedItem(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.begin(ctx, "DeleteUsedItem", id.String()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.usedItems[:0]
	for _, u := range s.usedItems {
		if !(u.ID == id && u.UserID == userID) {
			kept = append(kept, u)
		}
	}
	s.usedItems = kept
	return nil
}

// Shopping list

func (s *Store) ListShoppingListItems(ctx context.Context, userID uuid.UUID) ([]entities.ShoppingListItem, error) {
	if err := s.begin(ctx, "ListShoppingListItems", userID.String()); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.ShoppingListItem, 0)
	for _, l := range s.shoppingList {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Added.After(out[j].Added) })
	return out, nil
}

func (s *Store) CreateShoppingListItem(ctx context.Context, listItem *entities.ShoppingListItem) error {
	if err := s.begin(ctx, "CreateShoppingListItem", listItem.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	listItem.ID = newID(listItem.ID)
	s.shoppingList = append(s.shoppingList, *listItem)
	return nil
}

func (s *Store) DeleteShoppingListItem(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.begin(ctx, "DeleteShoppingListItem", id.String()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.shoppingList[:0]
	for _, l := range s.shoppingList {
		if !(l.ID == id && l.UserID == userID) {
			kept = append(kept, l)
		}
	}
	s.shoppingList = kept
	return nil
}

// Recipes

func (s *Store) CreateRecipe(ctx context.Context, r *entities.Recipe) error {
	if err := s.begin(ctx, "CreateRecipe", r.Title); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = newID(r.ID)
	r.CreatedAt = s.now()
	s.recipes = append(s.recipes, *r)
	return nil
}

func (s *Store) CountRecipes(ctx context.Context) (int64, error) {
	if err := s.begin(ctx, "CountRecipes", ""); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.recipes)), nil
}

func (s *Store) ListRecipes(ctx context.Context) ([]entities.Recipe, error) {
	if err := s.begin(ctx, "ListRecipes", ""); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out, nil
}

func (s *Store) ListFavoriteRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.begin(ctx, "ListFavoriteRecipeIDs", userID.String()); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0)
	for _, f := range s.favorites {
		if f.UserID == userID {
			ids = append(ids, f.RecipeID)
		}
	}
	return ids, nil
}

func (s *Store) SetFavorite(ctx context.Context, userID, recipeID uuid.UUID, favorite bool) error {
	if err := s.begin(ctx, "SetFavorite", recipeID.String()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, f := range s.favorites {
		if f.UserID == userID && f.RecipeID == recipeID {
			idx = i
			break
		}
	}
	switch {
	case favorite && idx < 0:
		s.favorites = append(s.favorites, entities.RecipeFavorite{
			ID:        uuid.New(),
			UserID:    userID,
			RecipeID:  recipeID,
			CreatedAt: s.now(),
		})
	case !favorite && idx >= 0:
		s.favorites = append(s.favorites[:idx], s.favorites[idx+1:]...)
	}
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *entities.User) error {
	if err := s.begin(ctx, "CreateUser", u.Email); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.ID = newID(u.ID)
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users = append(s.users, *u)
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	if err := s.begin(ctx, "GetUserByEmail", email); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	if err := s.begin(ctx, "GetUserByID", id.String()); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	if err := s.begin(ctx, "MarkEmailVerified", id.String()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].EmailVerified = true
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// Package coordinator holds the per-user cache of inventory, used items,
// shopping list and recipes, and the actions that change them. Every action
// calls the backing store first and only touches the cache once that call
// has succeeded.
package coordinator

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/pkg/expiry"
	"SmartExpire/pkg/images"
	"SmartExpire/pkg/item"
	"SmartExpire/pkg/recipe"
	"SmartExpire/pkg/reconcile"
	"SmartExpire/pkg/remote"
	"SmartExpire/pkg/shoppinglist"
	"SmartExpire/pkg/useditem"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// State is everything the coordinator caches for one user.
type State struct {
	UserID          uuid.UUID                   `json:"user_id"`
	Items           []entities.Item             `json:"items"`
	UsedItems       []entities.UsedItem         `json:"used_items"`
	ShoppingList    []entities.ShoppingListItem `json:"shopping_list"`
	Recipes         []entities.Recipe           `json:"recipes"`
	FavoriteRecipes []entities.Recipe           `json:"favorite_recipes"`
}

func (s State) clone() State {
	return State{
		UserID:          s.UserID,
		Items:           cloneSlice(s.Items),
		UsedItems:       cloneSlice(s.UsedItems),
		ShoppingList:    cloneSlice(s.ShoppingList),
		Recipes:         cloneSlice(s.Recipes),
		FavoriteRecipes: cloneSlice(s.FavoriteRecipes),
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

type Repositories struct {
	Items        item.ItemRepository
	UsedItems    useditem.UsedItemRepository
	ShoppingList shoppinglist.ShoppingListRepository
	Recipes      recipe.RecipeRepository
}

type Option func(*Coordinator)

// WithTimeout bounds every call against the backing store.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithValidator(v *validator.Validate) Option {
	return func(c *Coordinator) { c.validate = v }
}

func WithImages(r *images.Resolver) Option {
	return func(c *Coordinator) { c.images = r }
}

func WithReconciler(r reconcile.Reconciler) Option {
	return func(c *Coordinator) { c.reconciler = r }
}

// Coordinator is safe for concurrent use. The mutex guards the cache only;
// store calls run unlocked, so two overlapping actions for the same user are
// not serialized against each other.
type Coordinator struct {
	mu    sync.RWMutex
	state State

	repos      Repositories
	reconciler reconcile.Reconciler
	images     *images.Resolver
	validate   *validator.Validate
	timeout    time.Duration
	now        func() time.Time
}

func New(repos Repositories, opts ...Option) *Coordinator {
	c := &Coordinator{
		repos:    repos,
		timeout:  remote.DefaultTimeout,
		now:      time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reconciler == nil {
		c.reconciler = reconcile.NewReconciler(repos.Items, repos.ShoppingList, c.timeout)
	}
	return c
}

// SetUser switches the identity the cache belongs to. uuid.Nil clears every
// collection without touching the store; any other id triggers Load.
func (c *Coordinator) SetUser(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	if c.state.UserID != userID {
		c.state = State{UserID: userID}
	}
	c.mu.Unlock()

	if userID == uuid.Nil {
		return nil
	}
	return c.Load(ctx)
}

// Load refreshes every collection. Used items already moved to the shopping
// list are purged from the store and never cached. A collection whose fetch
// fails keeps its previous cached value and the failures are joined into the
// returned error.
func (c *Coordinator) Load(ctx context.Context) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}

	var errs []error
	record := func(what string, err error) {
		log.Errorf("load %s for user %s: %v", what, userID, err)
		errs = append(errs, err)
	}

	items, err := remote.Fetch(ctx, c.timeout, "ListItems", func(ctx context.Context) ([]entities.Item, error) {
		return c.repos.Items.ListItems(ctx, userID)
	})
	itemsOK := err == nil
	if !itemsOK {
		record("items", err)
	}

	usedItems, err := c.loadUsedItems(ctx, userID)
	usedOK := err == nil
	if !usedOK {
		record("used items", err)
	}

	shoppingList, err := remote.Fetch(ctx, c.timeout, "ListShoppingListItems", func(ctx context.Context) ([]entities.ShoppingListItem, error) {
		return c.repos.ShoppingList.ListShoppingListItems(ctx, userID)
	})
	listOK := err == nil
	if !listOK {
		record("shopping list", err)
	}

	recipes, favorites, err := c.loadRecipes(ctx, userID)
	recipesOK := err == nil
	if !recipesOK {
		record("recipes", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.UserID != userID {
		return errors.Join(errs...)
	}
	if itemsOK {
		c.state.Items = cloneSlice(items)
	}
	if usedOK {
		c.state.UsedItems = usedItems
	}
	if listOK {
		c.state.ShoppingList = cloneSlice(shoppingList)
	}
	if recipesOK {
		c.state.Recipes = recipes
		c.state.FavoriteRecipes = favorites
	}
	return errors.Join(errs...)
}

func (c *Coordinator) loadUsedItems(ctx context.Context, userID uuid.UUID) ([]entities.UsedItem, error) {
	fetched, err := remote.Fetch(ctx, c.timeout, "ListUsedItems", func(ctx context.Context) ([]entities.UsedItem, error) {
		return c.repos.UsedItems.ListUsedItems(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	keep := make([]entities.UsedItem, 0, len(fetched))
	for _, used := range fetched {
		if !used.AddedToShoppingList {
			keep = append(keep, used)
			continue
		}
		id := used.ID
		err := remote.Call(ctx, c.timeout, "DeleteUsedItem", func(ctx context.Context) error {
			return c.repos.UsedItems.DeleteUsedItem(ctx, userID, id)
		})
		if err != nil {
			log.Warnf("purge used item %s: %v", id, err)
		}
	}
	return keep, nil
}

func (c *Coordinator) loadRecipes(ctx context.Context, userID uuid.UUID) ([]entities.Recipe, []entities.Recipe, error) {
	recipes, err := remote.Fetch(ctx, c.timeout, "ListRecipes", func(ctx context.Context) ([]entities.Recipe, error) {
		return c.repos.Recipes.ListRecipes(ctx)
	})
	if err != nil {
		return nil, nil, err
	}
	favoriteIDs, err := remote.Fetch(ctx, c.timeout, "ListFavoriteRecipeIDs", func(ctx context.Context) ([]uuid.UUID, error) {
		return c.repos.Recipes.ListFavoriteRecipeIDs(ctx, userID)
	})
	if err != nil {
		return nil, nil, err
	}

	isFavorite := make(map[uuid.UUID]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		isFavorite[id] = true
	}
	all := make([]entities.Recipe, 0, len(recipes))
	favorites := make([]entities.Recipe, 0, len(favoriteIDs))
	for _, r := range recipes {
		r.IsFavorite = isFavorite[r.ID]
		all = append(all, r)
		if r.IsFavorite {
			favorites = append(favorites, r)
		}
	}
	return all, favorites, nil
}

// Snapshot returns a copy of the cache that the caller may keep.
func (c *Coordinator) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

func (c *Coordinator) UserID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.UserID
}

func (c *Coordinator) currentUser() (uuid.UUID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.UserID == uuid.Nil {
		return uuid.Nil, domain.ErrNoActiveUser
	}
	return c.state.UserID, nil
}

// mutate applies fn to the cache unless the user changed while the store
// call was in flight.
func (c *Coordinator) mutate(userID uuid.UUID, fn func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.UserID != userID {
		return
	}
	fn(&c.state)
}

// Stats summarizes the cached inventory by expiry status.
func (c *Coordinator) Stats(now time.Time) expiry.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return expiry.Summarize(c.state.Items, now)
}

func (c *Coordinator) SearchRecipes(term string) []entities.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return recipe.SearchByIngredient(c.state.Recipes, term)
}

package coordinator

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/pkg/images"
	"SmartExpire/pkg/memstore"
	"SmartExpire/pkg/recipe"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newCoordinator(t *testing.T, store *memstore.Store) *Coordinator {
	t.Helper()
	require.NoError(t, recipe.SeedRecipes(context.Background(), store))
	return New(Repositories{
		Items:        store,
		UsedItems:    store,
		ShoppingList: store,
		Recipes:      store,
	},
		WithTimeout(time.Second),
		WithClock(func() time.Time { return fixedNow }),
		WithImages(images.NewResolver("")),
	)
}

func signedIn(t *testing.T, store *memstore.Store) (*Coordinator, uuid.UUID) {
	t.Helper()
	c := newCoordinator(t, store)
	userID := uuid.New()
	require.NoError(t, c.SetUser(context.Background(), userID))
	return c, userID
}

func seedItem(t *testing.T, store *memstore.Store, userID uuid.UUID, name string, qty int64) entities.Item {
	t.Helper()
	it := entities.Item{
		UserID:   userID,
		Name:     name,
		Category: "food",
		Quantity: decimal.NewFromInt(qty),
		Unit:     "L",
	}
	require.NoError(t, store.CreateItem(context.Background(), &it))
	return it
}

func TestSetUserLoadsAndClears(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := newCoordinator(t, store)
	userID := uuid.New()
	seedItem(t, store, userID, "Milk", 1)

	require.NoError(t, c.SetUser(ctx, userID))
	snap := c.Snapshot()
	assert.Equal(t, userID, snap.UserID)
	assert.Len(t, snap.Items, 1)
	assert.Len(t, snap.Recipes, len(recipe.DefaultCatalog()))

	before := len(store.Calls())
	require.NoError(t, c.SetUser(ctx, uuid.Nil))
	snap = c.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.Recipes)
	assert.Equal(t, before, len(store.Calls()), "clearing makes no store calls")
}

func TestActionsWithoutUser(t *testing.T) {
	c := newCoordinator(t, memstore.New())
	ctx := context.Background()

	assert.ErrorIs(t, c.Load(ctx), domain.ErrNoActiveUser)
	assert.ErrorIs(t, c.ToggleItemOpened(ctx, uuid.New()), domain.ErrNoActiveUser)
	_, err := c.MarkAllAsPurchased(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveUser)
	_, err = c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 1, Unit: "L", Category: "food"})
	assert.ErrorIs(t, err, domain.ErrNoActiveUser)
}

func TestLoadPurgesUsedItemsMovedToShoppingList(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := newCoordinator(t, store)
	userID := uuid.New()

	kept := entities.UsedItem{UserID: userID, Name: "Yogurt", Quantity: decimal.NewFromInt(1), UsedDate: fixedNow}
	purged := entities.UsedItem{UserID: userID, Name: "Bread", Quantity: decimal.NewFromInt(1), UsedDate: fixedNow, AddedToShoppingList: true}
	require.NoError(t, store.CreateUsedItem(ctx, &kept))
	require.NoError(t, store.CreateUsedItem(ctx, &purged))

	require.NoError(t, c.SetUser(ctx, userID))

	snap := c.Snapshot()
	require.Len(t, snap.UsedItems, 1)
	assert.Equal(t, "Yogurt", snap.UsedItems[0].Name)

	remaining, err := store.ListUsedItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestLoadKeepsCollectionThatFailed(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	seedItem(t, store, userID, "Milk", 1)
	require.NoError(t, c.Load(ctx))
	_, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Eggs", Quantity: 12, Unit: "pcs", Category: "food"})
	require.NoError(t, err)

	seedItem(t, store, userID, "Butter", 1)
	store.SetFault(func(op, key string) error {
		if op == "ListItems" {
			return errors.New("unavailable")
		}
		return nil
	})

	err = c.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)

	snap := c.Snapshot()
	require.Len(t, snap.Items, 1, "items keep their previous value")
	assert.Equal(t, "Milk", snap.Items[0].Name)
	assert.Len(t, snap.ShoppingList, 1, "other collections still refresh")
}

func TestMarkItemAsUsedRecordsUsedItem(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	milk := seedItem(t, store, userID, "Milk", 2)
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.MarkItemAsUsed(ctx, milk.ID, false))

	snap := c.Snapshot()
	assert.Empty(t, snap.Items)
	require.Len(t, snap.UsedItems, 1)
	assert.Equal(t, "Milk", snap.UsedItems[0].Name)
	assert.False(t, snap.UsedItems[0].AddedToShoppingList)
	assert.True(t, snap.UsedItems[0].UsedDate.Equal(fixedNow))
	assert.Empty(t, snap.ShoppingList)

	stored, err := store.ListItems(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMarkItemAsUsedMovesToShoppingList(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	milk := seedItem(t, store, userID, "Milk", 2)
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.MarkItemAsUsed(ctx, milk.ID, true))

	snap := c.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.UsedItems)
	require.Len(t, snap.ShoppingList, 1)
	entry := snap.ShoppingList[0]
	assert.Equal(t, "Milk", entry.Name)
	assert.True(t, entry.Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "L", entry.Unit)
	assert.Equal(t, "food", entry.Category)

	used, err := store.ListUsedItems(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestMarkItemAsUsedKeepsCacheWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	milk := seedItem(t, store, userID, "Milk", 2)
	require.NoError(t, c.Load(ctx))
	store.SetFault(func(op, key string) error {
		if op == "DeleteItem" {
			return errors.New("refused")
		}
		return nil
	})

	err := c.MarkItemAsUsed(ctx, milk.ID, false)
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)
	snap := c.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Empty(t, snap.UsedItems)
}

func TestToggleItemOpened(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	milk := seedItem(t, store, userID, "Milk", 1)
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.ToggleItemOpened(ctx, milk.ID))
	got, ok := c.Item(milk.ID)
	require.True(t, ok)
	assert.True(t, got.Opened)

	stored, err := store.FindItemByName(ctx, userID, "Milk")
	require.NoError(t, err)
	assert.True(t, stored.Opened)

	require.NoError(t, c.ToggleItemOpened(ctx, milk.ID))
	got, _ = c.Item(milk.ID)
	assert.False(t, got.Opened)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, _ := signedIn(t, store)
	before := len(store.Calls())

	assert.NoError(t, c.ToggleItemOpened(ctx, uuid.New()))
	assert.NoError(t, c.MarkItemAsUsed(ctx, uuid.New(), false))
	assert.NoError(t, c.RemoveFromShoppingList(ctx, uuid.New()))
	assert.NoError(t, c.RemoveFromUsedItems(ctx, uuid.New()))
	assert.NoError(t, c.ToggleFavoriteRecipe(ctx, uuid.New()))
	assert.Equal(t, before, len(store.Calls()))
}

func TestAddToShoppingListValidation(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, _ := signedIn(t, store)
	before := len(store.Calls())

	tests := []struct {
		name string
		req  domain.AddShoppingListItemRequest
		want string
	}{
		{"blank name", domain.AddShoppingListItemRequest{Name: "  ", Quantity: 1, Unit: "L", Category: "food"}, domain.MessageValidationItemName},
		{"zero quantity", domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 0, Unit: "L", Category: "food"}, domain.MessageValidationQuantity},
		{"negative quantity", domain.AddShoppingListItemRequest{Name: "Milk", Quantity: -2, Unit: "L", Category: "food"}, domain.MessageValidationQuantity},
		{"blank unit", domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 1, Unit: "", Category: "food"}, domain.MessageValidationUnit},
		{"blank category", domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 1, Unit: "L", Category: " "}, domain.MessageValidationCategory},
		{"first failing field wins", domain.AddShoppingListItemRequest{}, domain.MessageValidationItemName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.AddToShoppingList(ctx, tt.req)
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.want, validationErr.Message)
		})
	}
	assert.Equal(t, before, len(store.Calls()), "validation happens before any store call")
	assert.Empty(t, c.Snapshot().ShoppingList)
}

func TestAddToShoppingListResolvesImageAndPrepends(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	dairy := "Dairy"

	first, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: " Milk ", Quantity: 1, Unit: "L", Category: "food", FoodSubcategory: &dairy})
	require.NoError(t, err)
	assert.Equal(t, "Milk", first.Name)
	assert.Equal(t, images.DefaultPath("food", &dairy), first.ImageURL)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.True(t, first.Added.Equal(fixedNow))

	second, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Soap", Quantity: 2, Unit: "bar", Category: "cleaning", FoodSubcategory: &dairy})
	require.NoError(t, err)
	assert.Nil(t, second.FoodSubcategory, "subcategory only applies to food")
	assert.Equal(t, "defaults/cleaning.jpg", second.ImageURL)

	own, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Cat food", Quantity: 1, Unit: "bag", Category: "pet", ImageURL: "https://cdn.example.com/cat.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cat.jpg", own.ImageURL)

	snap := c.Snapshot()
	require.Len(t, snap.ShoppingList, 3)
	assert.Equal(t, []string{"Cat food", "Soap", "Milk"}, []string{snap.ShoppingList[0].Name, snap.ShoppingList[1].Name, snap.ShoppingList[2].Name})

	stored, err := store.ListShoppingListItems(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestAddToShoppingListRemoteFailureLeavesCache(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, _ := signedIn(t, store)
	store.SetFault(func(op, key string) error {
		if op == "CreateShoppingListItem" {
			return errors.New("insert rejected")
		}
		return nil
	})

	_, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 1, Unit: "L", Category: "food"})
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)
	assert.Empty(t, c.Snapshot().ShoppingList)
}

func TestRemoteTimeoutIsRetryableAndLeavesCache(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, recipe.SeedRecipes(ctx, store))
	c := New(Repositories{Items: store, UsedItems: store, ShoppingList: store, Recipes: store},
		WithTimeout(20*time.Millisecond))
	userID := uuid.New()
	milk := seedItem(t, store, userID, "Milk", 1)
	require.NoError(t, c.SetUser(ctx, userID))

	store.SetLatency(time.Second)
	err := c.ToggleItemOpened(ctx, milk.ID)

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.True(t, remoteErr.Retryable())
	assert.ErrorIs(t, err, domain.ErrRemoteTimeout)
	got, _ := c.Item(milk.ID)
	assert.False(t, got.Opened)
}

func TestRemoveFromShoppingListAndUsedItems(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	entry, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 1, Unit: "L", Category: "food"})
	require.NoError(t, err)
	milk := seedItem(t, store, userID, "Milk", 1)
	require.NoError(t, c.Load(ctx))
	require.NoError(t, c.MarkItemAsUsed(ctx, milk.ID, false))
	used := c.Snapshot().UsedItems[0]

	require.NoError(t, c.RemoveFromShoppingList(ctx, entry.ID))
	require.NoError(t, c.RemoveFromUsedItems(ctx, used.ID))

	snap := c.Snapshot()
	assert.Empty(t, snap.ShoppingList)
	assert.Empty(t, snap.UsedItems)
	list, err := store.ListShoppingListItems(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
	usedRows, err := store.ListUsedItems(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, usedRows)
}

func TestToggleFavoriteRecipeInLockstep(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)
	target := c.Snapshot().Recipes[1]

	require.NoError(t, c.ToggleFavoriteRecipe(ctx, target.ID))
	snap := c.Snapshot()
	assert.True(t, snap.Recipes[1].IsFavorite)
	require.Len(t, snap.FavoriteRecipes, 1)
	assert.Equal(t, target.ID, snap.FavoriteRecipes[0].ID)
	assert.True(t, snap.FavoriteRecipes[0].IsFavorite)

	ids, err := store.ListFavoriteRecipeIDs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{target.ID}, ids)

	require.NoError(t, c.ToggleFavoriteRecipe(ctx, target.ID))
	snap = c.Snapshot()
	assert.False(t, snap.Recipes[1].IsFavorite)
	assert.Empty(t, snap.FavoriteRecipes)
}

func TestFavoritesSurviveReload(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, _ := signedIn(t, store)
	target := c.Snapshot().Recipes[0]
	require.NoError(t, c.ToggleFavoriteRecipe(ctx, target.ID))

	require.NoError(t, c.Load(ctx))
	snap := c.Snapshot()
	assert.True(t, snap.Recipes[0].IsFavorite)
	require.Len(t, snap.FavoriteRecipes, 1)
}

func TestSearchRecipes(t *testing.T) {
	store := memstore.New()
	c, _ := signedIn(t, store)

	assert.Empty(t, c.SearchRecipes(""), "blank term finds nothing")
	got := c.SearchRecipes("spinach")
	titles := make([]string, 0, len(got))
	for _, r := range got {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"Simple Chicken Salad", "Spinach and Yogurt Dip"}, titles)
}

func TestMarkAllAsPurchasedWithEmptyListIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, _ := signedIn(t, store)

	before := len(store.Calls())
	outcomes, err := c.MarkAllAsPurchased(ctx)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Equal(t, before, len(store.Calls()), "no reconciliation or reload for an empty list")
}

func TestMarkAllAsPurchasedScenarios(t *testing.T) {
	t.Run("creates missing item", func(t *testing.T) {
		ctx := context.Background()
		store := memstore.New()
		c, userID := signedIn(t, store)
		_, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 1, Unit: "L", Category: "food"})
		require.NoError(t, err)

		outcomes, err := c.MarkAllAsPurchased(ctx)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		assert.Equal(t, domain.PurchaseCreated, outcomes[0].Action)

		snap := c.Snapshot()
		assert.Empty(t, snap.ShoppingList)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "Milk", snap.Items[0].Name)
		assert.True(t, snap.Items[0].Quantity.Equal(decimal.NewFromInt(1)))

		stored, err := store.ListItems(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("merges into existing item", func(t *testing.T) {
		ctx := context.Background()
		store := memstore.New()
		c, userID := signedIn(t, store)
		seedItem(t, store, userID, "Milk", 2)
		require.NoError(t, c.Load(ctx))
		_, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: "Milk", Quantity: 1, Unit: "L", Category: "food"})
		require.NoError(t, err)

		outcomes, err := c.MarkAllAsPurchased(ctx)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		assert.Equal(t, domain.PurchaseMerged, outcomes[0].Action)

		snap := c.Snapshot()
		assert.Empty(t, snap.ShoppingList)
		require.Len(t, snap.Items, 1)
		assert.True(t, snap.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("partial failure keeps failed entry", func(t *testing.T) {
		ctx := context.Background()
		store := memstore.New()
		c, _ := signedIn(t, store)
		for _, name := range []string{"Bread", "Eggs"} {
			_, err := c.AddToShoppingList(ctx, domain.AddShoppingListItemRequest{Name: name, Quantity: 1, Unit: "pcs", Category: "food"})
			require.NoError(t, err)
		}
		store.SetFault(func(op, key string) error {
			if op == "FindItemByName" && key == "Eggs" {
				return errors.New("lookup failed")
			}
			return nil
		})

		outcomes, err := c.MarkAllAsPurchased(ctx)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)
		failed := 0
		for _, o := range outcomes {
			if o.Failed() {
				failed++
				assert.Equal(t, "Eggs", o.Name)
			}
		}
		assert.Equal(t, 1, failed)

		snap := c.Snapshot()
		require.Len(t, snap.ShoppingList, 1)
		assert.Equal(t, "Eggs", snap.ShoppingList[0].Name)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "Bread", snap.Items[0].Name)
	})
}

func TestItemsFilterAndSort(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, _ := signedIn(t, store)
	add := func(name, category, expiry string) {
		_, err := c.AddItem(ctx, domain.AddItemRequest{Name: name, Category: category, ExpiryDate: expiry, Quantity: 1, Unit: "pcs"})
		require.NoError(t, err)
	}
	add("Greek Yogurt", "food", "2026-10-25")
	add("Milk", "food", "2026-10-19")
	add("Shampoo", "cosmetics", "")
	add("Aspirin", "pharma", "2026-10-20")

	names := func(items []entities.Item) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Milk", "Aspirin", "Greek Yogurt", "Shampoo"}, names(c.Items(domain.ItemFilter{Category: "all"})))
	assert.Equal(t, []string{"Milk", "Greek Yogurt"}, names(c.Items(domain.ItemFilter{Category: "food"})))
	assert.Equal(t, []string{"Greek Yogurt"}, names(c.Items(domain.ItemFilter{Search: "yog"})))

	stats := c.Stats(fixedNow)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Yellow)
	assert.Equal(t, 1, stats.Green)
	assert.Equal(t, 1, stats.Untracked)
}

func TestAddAndUpdateItem(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c, userID := signedIn(t, store)

	_, err := c.AddItem(ctx, domain.AddItemRequest{Name: "Milk", Category: "food", Quantity: 1, Unit: "L", ExpiryDate: "18/10/2026"})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	created, err := c.AddItem(ctx, domain.AddItemRequest{Name: "Milk", Category: "food", Quantity: 1, Unit: "L", ExpiryDate: "2026-10-21"})
	require.NoError(t, err)
	assert.Equal(t, images.GenericDefault, created.ImageURL)

	qty := 2.5
	updated, err := c.UpdateItem(ctx, created.ID, domain.UpdateItemRequest{Quantity: &qty, ExpiryDate: "2026-10-30"})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, "Milk", updated.Name)

	stored, err := store.FindItemByName(ctx, userID, "Milk")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Quantity.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, 30, stored.ExpiryDate.Day())

	_, err = c.UpdateItem(ctx, uuid.New(), domain.UpdateItemRequest{Unit: "ml"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	require.NoError(t, c.SetItemImage(ctx, created.ID, "https://cdn.example.com/milk.jpg"))
	got, _ := c.Item(created.ID)
	assert.Equal(t, "https://cdn.example.com/milk.jpg", got.ImageURL)
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	alice, aliceID := signedIn(t, store)
	bob, _ := signedIn(t, store)
	milk := seedItem(t, store, aliceID, "Milk", 1)
	require.NoError(t, alice.Load(ctx))
	require.NoError(t, bob.Load(ctx))

	assert.Empty(t, bob.Snapshot().Items)
	require.NoError(t, bob.ToggleItemOpened(ctx, milk.ID))
	require.NoError(t, bob.MarkItemAsUsed(ctx, milk.ID, false))

	stored, err := store.FindItemByName(ctx, aliceID, "Milk")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Opened)
}

package memstore

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
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

func TestItemsAreScopedByOwner(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice, bob := uuid.New(), uuid.New()

	it := entities.Item{UserID: alice, Name: "Milk", Quantity: decimal.NewFromInt(1)}
	require.NoError(t, s.CreateItem(ctx, &it))
	assert.NotEqual(t, uuid.Nil, it.ID)

	found, err := s.FindItemByName(ctx, bob, "Milk")
	require.NoError(t, err)
	assert.Nil(t, found)

	err = s.UpdateItemOpened(ctx, bob, it.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.DeleteItem(ctx, bob, it.ID))
	items, err := s.ListItems(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFindItemByNameIsExact(t *testing.T) {
	ctx := context.Background()
	s := New()
	userID := uuid.New()
	require.NoError(t, s.CreateItem(ctx, &entities.Item{UserID: userID, Name: "Milk"}))

	found, err := s.FindItemByName(ctx, userID, "milk")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = s.FindItemByName(ctx, userID, "Milk")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Milk", found.Name)
}

func TestFaultAndCallLog(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")
	s.SetFault(func(op, key string) error {
		if op == "CreateItem" && key == "Eggs" {
			return boom
		}
		return nil
	})

	userID := uuid.New()
	assert.ErrorIs(t, s.CreateItem(ctx, &entities.Item{UserID: userID, Name: "Eggs"}), boom)
	require.NoError(t, s.CreateItem(ctx, &entities.Item{UserID: userID, Name: "Milk"}))
	assert.Equal(t, []string{"CreateItem:Eggs", "CreateItem:Milk"}, s.Calls())

	items, err := s.ListItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestLatencyHonoursContext(t *testing.T) {
	s := New()
	s.SetLatency(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.ListItems(ctx, uuid.New())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, recipe.SeedRecipes(ctx, s))
	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, recipes)

	userID := uuid.New()
	id := recipes[0].ID
	require.NoError(t, s.SetFavorite(ctx, userID, id, true))
	require.NoError(t, s.SetFavorite(ctx, userID, id, true))
	ids, err := s.ListFavoriteRecipeIDs(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, ids)

	require.NoError(t, s.SetFavorite(ctx, userID, id, false))
	ids, err = s.ListFavoriteRecipeIDs(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSeedRecipesOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, recipe.SeedRecipes(ctx, s))
	require.NoError(t, recipe.SeedRecipes(ctx, s))

	count, err := s.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(recipe.DefaultCatalog())), count)
}

func TestUsersRejectDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, &entities.User{Email: "ana@example.com"}))
	err := s.CreateUser(ctx, &entities.User{Email: "ANA@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

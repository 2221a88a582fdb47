package handlers

import (
	"SmartExpire/domain"
	"SmartExpire/entities"
	"SmartExpire/pkg/coordinator"
	"SmartExpire/pkg/expiry"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// coordinatorFor resolves the signed-in user's coordinator.
func coordinatorFor(c *fiber.Ctx, registry *coordinator.Registry) (*coordinator.Coordinator, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	return registry.ForUser(c.Context(), id)
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	return id, nil
}

func errorStatus(err error) int {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrRecipeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveUser), errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrRemoteTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, domain.ErrRemoteFailure):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrStorageMissing):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadRequest
	}
}

func toItemResponse(it entities.Item, now time.Time) domain.ItemResponse {
	res := domain.ItemResponse{
		ID:              it.ID.String(),
		Name:            it.Name,
		Category:        it.Category,
		FoodSubcategory: it.FoodSubcategory,
		ExpiryDate:      it.ExpiryDate,
		Opened:          it.Opened,
		Quantity:        it.Quantity.InexactFloat64(),
		Unit:            it.Unit,
		ImageURL:        it.ImageURL,
		CreatedAt:       it.CreatedAt,
	}
	if it.ExpiryDate != nil {
		days := expiry.DaysUntil(*it.ExpiryDate, now)
		res.DaysUntilExpiry = &days
		res.Status = string(expiry.StatusColor(*it.ExpiryDate, now))
		res.StatusText = expiry.StatusText(*it.ExpiryDate, now)
	}
	return res
}

func toItemResponses(items []entities.Item, now time.Time) []domain.ItemResponse {
	out := make([]domain.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it, now))
	}
	return out
}

func toUsedItemResponses(usedItems []entities.UsedItem) []domain.UsedItemResponse {
	out := make([]domain.UsedItemResponse, 0, len(usedItems))
	for _, u := range usedItems {
		out = append(out, domain.UsedItemResponse{
			ID:              u.ID.String(),
			Name:            u.Name,
			Category:        u.Category,
			FoodSubcategory: u.FoodSubcategory,
			Quantity:        u.Quantity.InexactFloat64(),
			Unit:            u.Unit,
			ImageURL:        u.ImageURL,
			UsedDate:        u.UsedDate,
		})
	}
	return out
}

func toShoppingListResponse(entry entities.ShoppingListItem) domain.ShoppingListItemResponse {
	return domain.ShoppingListItemResponse{
		ID:              entry.ID.String(),
		Name:            entry.Name,
		Quantity:        entry.Quantity.InexactFloat64(),
		Unit:            entry.Unit,
		Category:        entry.Category,
		FoodSubcategory: entry.FoodSubcategory,
		ImageURL:        entry.ImageURL,
		Added:           entry.Added,
	}
}

func toShoppingListResponses(entries []entities.ShoppingListItem) []domain.ShoppingListItemResponse {
	out := make([]domain.ShoppingListItemResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toShoppingListResponse(entry))
	}
	return out
}

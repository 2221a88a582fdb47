package handlers

import (
	"SmartExpire/domain"
	"SmartExpire/internal/api/presenters"
	"SmartExpire/pkg/coordinator"

	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingListHandler interface {
		GetShoppingList(c *fiber.Ctx) error
		AddShoppingListItem(c *fiber.Ctx) error
		RemoveShoppingListItem(c *fiber.Ctx) error
		MarkAllAsPurchased(c *fiber.Ctx) error
	}

	shoppingListHandler struct {
		registry *coordinator.Registry
	}
)

func NewShoppingListHandler(registry *coordinator.Registry) ShoppingListHandler {
	return &shoppingListHandler{registry: registry}
}

func (h *shoppingListHandler) GetShoppingList(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedProcessRequest, err)
	}
	return presenters.SuccessResponse(c, toShoppingListResponses(co.Snapshot().ShoppingList), fiber.StatusOK, domain.MessageSuccessGetShoppingList)
}

func (h *shoppingListHandler) AddShoppingListItem(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddShoppingItem, err)
	}
	req := new(domain.AddShoppingListItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	entry, err := co.AddToShoppingList(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddShoppingItem, err)
	}
	return presenters.SuccessResponse(c, toShoppingListResponse(*entry), fiber.StatusCreated, domain.MessageSuccessAddShoppingItem)
}

func (h *shoppingListHandler) RemoveShoppingListItem(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRemoveShoppingItem, err)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveShoppingItem, err)
	}

	if err := co.RemoveFromShoppingList(c.Context(), id); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRemoveShoppingItem, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveShoppingItem)
}

// MarkAllAsPurchased answers 207 when only some entries made it into the
// inventory.
func (h *shoppingListHandler) MarkAllAsPurchased(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedMarkAllPurchased, err)
	}

	outcomes, err := co.MarkAllAsPurchased(c.Context())
	res := domain.MarkAllPurchasedResponse{Outcomes: outcomes}
	if res.Outcomes == nil {
		res.Outcomes = []domain.PurchaseOutcome{}
	}
	for _, o := range res.Outcomes {
		if o.Failed() {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	if err != nil {
		return presenters.ErrorResponseWithData(c, errorStatus(err), domain.MessageFailedMarkAllPurchased, res, err)
	}
	if res.Failed > 0 {
		return presenters.SuccessResponse(c, res, fiber.StatusMultiStatus, domain.MessagePartialMarkAllPurchased)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMarkAllPurchased)
}

package handlers

import (
	"SmartExpire/domain"
	"SmartExpire/internal/api/presenters"
	"SmartExpire/pkg/coordinator"

	"github.com/gofiber/fiber/v2"
)

type (
	UsedItemHandler interface {
		GetUsedItems(c *fiber.Ctx) error
		RemoveUsedItem(c *fiber.Ctx) error
	}

	usedItemHandler struct {
		registry *coordinator.Registry
	}
)

func NewUsedItemHandler(registry *coordinator.Registry) UsedItemHandler {
	return &usedItemHandler{registry: registry}
}

func (h *usedItemHandler) GetUsedItems(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetItems, err)
	}
	return presenters.SuccessResponse(c, toUsedItemResponses(co.Snapshot().UsedItems), fiber.StatusOK, domain.MessageSuccessGetUsedItems)
}

func (h *usedItemHandler) RemoveUsedItem(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRemoveUsedItem, err)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveUsedItem, err)
	}

	if err := co.RemoveFromUsedItems(c.Context(), id); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRemoveUsedItem, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveUsed)
}

package handlers

import (
	"SmartExpire/domain"
	"SmartExpire/internal/api/presenters"
	"SmartExpire/pkg/coordinator"

	"github.com/gofiber/fiber/v2"
)

type (
	SyncHandler interface {
		Sync(c *fiber.Ctx) error
	}

	syncHandler struct {
		registry *coordinator.Registry
	}
)

func NewSyncHandler(registry *coordinator.Registry) SyncHandler {
	return &syncHandler{registry: registry}
}

// Sync reloads every collection from the store and returns the fresh cache.
func (h *syncHandler) Sync(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedSync, err)
	}

	if err := co.Load(c.Context()); err != nil {
		return presenters.ErrorResponseWithData(c, errorStatus(err), domain.MessageFailedSync, co.Snapshot(), err)
	}
	return presenters.SuccessResponse(c, co.Snapshot(), fiber.StatusOK, domain.MessageSuccessSync)
}

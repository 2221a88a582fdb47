package handlers

import (
	"SmartExpire/domain"
	"SmartExpire/internal/api/presenters"
	"SmartExpire/internal/utils/storage"
	"SmartExpire/pkg/coordinator"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	ItemHandler interface {
		GetItems(c *fiber.Ctx) error
		GetItemDetails(c *fiber.Ctx) error
		AddItem(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		MarkAsUsed(c *fiber.Ctx) error
		ToggleOpened(c *fiber.Ctx) error
		UploadItemImage(c *fiber.Ctx) error
		GetExpiryStats(c *fiber.Ctx) error
	}

	itemHandler struct {
		registry *coordinator.Registry
		s3       storage.AwsS3
		now      func() time.Time
	}
)

func NewItemHandler(registry *coordinator.Registry, s3 storage.AwsS3) ItemHandler {
	return &itemHandler{
		registry: registry,
		s3:       s3,
		now:      time.Now,
	}
}

func (h *itemHandler) GetItems(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetItems, err)
	}

	items := co.Items(domain.ItemFilter{
		Category: c.Query("category", string(domain.CategoryAll)),
		Search:   c.Query("search"),
	})
	return presenters.SuccessResponse(c, toItemResponses(items, h.now()), fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) GetItemDetails(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetItems, err)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, err)
	}

	it, ok := co.Item(id)
	if !ok {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetItems, domain.ErrItemNotFound)
	}
	return presenters.SuccessResponse(c, toItemResponse(it, h.now()), fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) AddItem(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddItem, err)
	}
	req := new(domain.AddItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	created, err := co.AddItem(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddItem, err)
	}
	return presenters.SuccessResponse(c, toItemResponse(*created, h.now()), fiber.StatusCreated, domain.MessageSuccessAddItem)
}

func (h *itemHandler) UpdateItem(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateItem, err)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}
	req := new(domain.UpdateItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	updated, err := co.UpdateItem(c.Context(), id, *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUpdateItem, err)
	}
	return presenters.SuccessResponse(c, toItemResponse(*updated, h.now()), fiber.StatusOK, domain.MessageSuccessUpdateItem)
}

func (h *itemHandler) MarkAsUsed(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedMarkAsUsed, err)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkAsUsed, err)
	}
	req := new(domain.MarkAsUsedRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := co.MarkItemAsUsed(c.Context(), id, req.AddToShoppingList); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedMarkAsUsed, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkAsUsed)
}

func (h *itemHandler) ToggleOpened(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedToggleOpened, err)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedToggleOpened, err)
	}

	if err := co.ToggleItemOpened(c.Context(), id); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedToggleOpened, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessToggleOpened)
}

func (h *itemHandler) UploadItemImage(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUploadImage, err)
	}
	if h.s3 == nil {
		return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedUploadImage, domain.ErrStorageMissing)
	}
	id, err := paramID(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}
	current, ok := co.Item(id)
	if !ok {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUploadImage, domain.ErrItemNotFound)
	}
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, domain.ErrInvalidImageFormat)
	}

	objectKey, err := h.s3.UploadFile(id.String(), file, "items", storage.AllowImage...)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}
	link := h.s3.GetPublicLinkKey(objectKey)
	if err := co.SetItemImage(c.Context(), id, link); err != nil {
		if delErr := h.s3.DeleteFile(objectKey); delErr != nil {
			log.Warnf("delete uploaded image %s: %v", objectKey, delErr)
		}
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUploadImage, err)
	}

	if oldKey := h.s3.GetObjectKeyFromLink(current.ImageURL); oldKey != "" && oldKey != objectKey {
		if err := h.s3.DeleteFile(oldKey); err != nil {
			log.Warnf("delete replaced image %s: %v", oldKey, err)
		}
	}
	return presenters.SuccessResponse(c, fiber.Map{"image_url": link}, fiber.StatusOK, domain.MessageSuccessUploadImage)
}

func (h *itemHandler) GetExpiryStats(c *fiber.Ctx) error {
	co, err := coordinatorFor(c, h.registry)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetItems, err)
	}

	s := co.Stats(h.now())
	return presenters.SuccessResponse(c, domain.ExpiryStatsResponse{
		TotalItems:   s.Total,
		ExpiredItems: s.Red,
		WarningItems: s.Yellow,
		SafeItems:    s.Green,
		Untracked:    s.Untracked,
		OpenedItems:  s.Opened,
	}, fiber.StatusOK, domain.MessageSuccessGetStats)
}

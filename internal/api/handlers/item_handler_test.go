package handlers

import (
	"SmartExpire/entities"
	"SmartExpire/pkg/coordinator"
	"SmartExpire/pkg/memstore"
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	uploaded  []string
	deleted   []string
	deleteErr error
}

func (f *fakeS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	key := folder + "/" + fileName + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return f.deleteErr
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.example.com/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return ""
}

func newItemApp(t *testing.T, store *memstore.Store, userID uuid.UUID, s3 *fakeS3) *fiber.App {
	t.Helper()
	registry := coordinator.NewRegistry(func() *coordinator.Coordinator {
		return coordinator.New(coordinator.Repositories{
			Items:        store,
			UsedItems:    store,
			ShoppingList: store,
			Recipes:      store,
		}, coordinator.WithTimeout(time.Second))
	})
	h := NewItemHandler(registry, s3)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID.String())
		return c.Next()
	})
	app.Post("/items/:id/image", h.UploadItemImage)
	return app
}

func TestUploadItemImageCleansUpWhenSaveFails(t *testing.T) {
	store := memstore.New()
	userID := uuid.New()
	it := entities.Item{UserID: userID, Name: "Milk", Category: "food", Quantity: decimal.NewFromInt(1), Unit: "L"}
	require.NoError(t, store.CreateItem(context.Background(), &it))

	s3 := &fakeS3{deleteErr: errors.New("access denied")}
	app := newItemApp(t, store, userID, s3)
	store.SetFault(func(op, key string) error {
		if op == "UpdateItemImage" {
			return errors.New("connection reset")
		}
		return nil
	})

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("image", "milk.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/items/"+it.ID.String()+"/image", body)
	req.Header.Set(fiber.HeaderContentType, form.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	require.Len(t, s3.uploaded, 1)
	assert.Equal(t, s3.uploaded, s3.deleted, "the orphaned upload is removed")
	assert.Contains(t, logs.String(), "delete uploaded image "+s3.uploaded[0])
	assert.Contains(t, logs.String(), "access denied")
}

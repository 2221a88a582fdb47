package routes

import (
	"SmartExpire/internal/api/handlers"
	"SmartExpire/internal/middleware"
	"SmartExpire/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	AuthHandler         handlers.AuthHandler
	ItemHandler         handlers.ItemHandler
	UsedItemHandler     handlers.UsedItemHandler
	ShoppingListHandler handlers.ShoppingListHandler
	RecipeHandler       handlers.RecipeHandler
	SyncHandler         handlers.SyncHandler
	Middleware          middleware.Middleware
	AuthService         auth.AuthService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.Items()
	c.UsedItems()
	c.ShoppingList()
	c.Recipes()
	c.Sync()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	authGroup := c.App.Group("/api/v1/auth")
	{
		authGroup.Post("/signup", c.AuthHandler.SignUp)
		authGroup.Post("/signin", c.AuthHandler.SignIn)
		authGroup.Get("/verify", c.AuthHandler.VerifyEmail)
		authGroup.Post("/signout", c.Middleware.AuthMiddleware(c.AuthService), c.AuthHandler.SignOut)
		authGroup.Get("/session", c.Middleware.AuthMiddleware(c.AuthService), c.AuthHandler.Session)
	}
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.AuthService))
	items.Get("/stats", c.ItemHandler.GetExpiryStats)

	items.Post("", c.ItemHandler.AddItem)
	items.Get("", c.ItemHandler.GetItems)
	items.Get("/:id", c.ItemHandler.GetItemDetails)
	items.Put("/:id", c.ItemHandler.UpdateItem)

	items.Post("/:id/use", c.ItemHandler.MarkAsUsed)
	items.Patch("/:id/opened", c.ItemHandler.ToggleOpened)
	items.Post("/:id/image", c.ItemHandler.UploadItemImage)
}

func (c *Config) UsedItems() {
	used := c.App.Group("/api/v1/used-items", c.Middleware.AuthMiddleware(c.AuthService))
	used.Get("", c.UsedItemHandler.GetUsedItems)
	used.Delete("/:id", c.UsedItemHandler.RemoveUsedItem)
}

func (c *Config) ShoppingList() {
	list := c.App.Group("/api/v1/shopping-list", c.Middleware.AuthMiddleware(c.AuthService))
	list.Get("", c.ShoppingListHandler.GetShoppingList)
	list.Post("", c.ShoppingListHandler.AddShoppingListItem)
	list.Post("/purchase", c.ShoppingListHandler.MarkAllAsPurchased)
	list.Delete("/:id", c.ShoppingListHandler.RemoveShoppingListItem)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.AuthService))
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/favorites", c.RecipeHandler.GetFavoriteRecipes)
	recipes.Get("/search", c.RecipeHandler.SearchRecipes)
	recipes.Post("/:id/favorite", c.RecipeHandler.ToggleFavorite)
}

func (c *Config) Sync() {
	c.App.Post("/api/v1/sync", c.Middleware.AuthMiddleware(c.AuthService), c.SyncHandler.Sync)
}

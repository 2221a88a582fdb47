package config

import (
	"SmartExpire/internal/api/handlers"
	"SmartExpire/internal/api/routes"
	"SmartExpire/internal/middleware"
	"SmartExpire/internal/utils"
	"SmartExpire/internal/utils/mailing"
	"SmartExpire/internal/utils/storage"
	"SmartExpire/pkg/auth"
	"SmartExpire/pkg/coordinator"
	"SmartExpire/pkg/images"
	"SmartExpire/pkg/item"
	"SmartExpire/pkg/jwt"
	"SmartExpire/pkg/memstore"
	"SmartExpire/pkg/recipe"
	"SmartExpire/pkg/remote"
	"SmartExpire/pkg/shoppinglist"
	"SmartExpire/pkg/useditem"
	"SmartExpire/pkg/user"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Repositories is the storage backend the app runs against.
type Repositories struct {
	Users        user.UserRepository
	Items        item.ItemRepository
	UsedItems    useditem.UsedItemRepository
	ShoppingList shoppinglist.ShoppingListRepository
	Recipes      recipe.RecipeRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:        user.NewUserRepository(db),
		Items:        item.NewItemRepository(db),
		UsedItems:    useditem.NewUsedItemRepository(db),
		ShoppingList: shoppinglist.NewShoppingListRepository(db),
		Recipes:      recipe.NewRecipeRepository(db),
	}
}

func NewMemoryRepositories(store *memstore.Store) Repositories {
	return Repositories{
		Users:        store,
		Items:        store,
		UsedItems:    store,
		ShoppingList: store,
		Recipes:      store,
	}
}

// AppOptions carries the pieces tests want to swap out.
type AppOptions struct {
	LogOutput io.Writer
	S3        storage.AwsS3
	Mailer    mailing.Mailer
	JWTSecret string
}

// OptionsFromConfig opens ./logs/app.log and builds S3 and SMTP clients from
// the loaded configuration.
func OptionsFromConfig() AppOptions {
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}

	return AppOptions{
		LogOutput: file,
		S3:        storage.NewAwsS3(),
		Mailer:    mailing.NewMailer(mailing.LoadMailConfig()),
		JWTSecret: utils.GetConfig("JWT_SECRET"),
	}
}

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}

func NewApp(repos Repositories, opts AppOptions) (*fiber.App, *coordinator.Registry) {
	utils.InitValidator()
	setLogLevel(utils.GetConfig("LOG_LEVEL"))
	app := fiber.New()
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	app.Use(recover.New())
	if opts.LogOutput != nil {
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   utils.GetConfigOrDefault("DB_TIMEZONE", "UTC"),
			Output:     opts.LogOutput,
		}))
	}

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetInt("RATE_LIMIT", 10),
		Expiration: 1 * time.Second,
	}))

	requestTimeout := utils.GetDuration("REQUEST_TIMEOUT", remote.DefaultTimeout)
	imageResolver := images.NewResolver(utils.GetConfig("DEFAULT_IMAGE_BASE_URL"))

	// Service
	jwtService := jwt.NewJWTService(opts.JWTSecret, utils.GetDuration("JWT_TTL", 120*time.Minute))
	authService := auth.NewAuthService(repos.Users, jwtService, opts.Mailer, auth.Options{
		AppURL:               utils.GetConfig("APP_URL"),
		RequireVerifiedEmail: utils.GetBool("REQUIRE_VERIFIED_EMAIL", false),
	})
	registry := coordinator.NewRegistry(func() *coordinator.Coordinator {
		return coordinator.New(coordinator.Repositories{
			Items:        repos.Items,
			UsedItems:    repos.UsedItems,
			ShoppingList: repos.ShoppingList,
			Recipes:      repos.Recipes,
		},
			coordinator.WithTimeout(requestTimeout),
			coordinator.WithValidator(validator),
			coordinator.WithImages(imageResolver),
		)
	})
	authService.OnSessionChange(registry.HandleSessionChange)

	// Handler
	authHandler := handlers.NewAuthHandler(authService, validator)
	itemHandler := handlers.NewItemHandler(registry, opts.S3)
	usedItemHandler := handlers.NewUsedItemHandler(registry)
	shoppingListHandler := handlers.NewShoppingListHandler(registry)
	recipeHandler := handlers.NewRecipeHandler(registry)
	syncHandler := handlers.NewSyncHandler(registry)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		AuthHandler:         authHandler,
		ItemHandler:         itemHandler,
		UsedItemHandler:     usedItemHandler,
		ShoppingListHandler: shoppingListHandler,
		RecipeHandler:       recipeHandler,
		SyncHandler:         syncHandler,
		Middleware:          middlewares,
		AuthService:         authService,
	}
	routesConfig.Setup()
	return app, registry
}

package main

import (
	"SmartExpire/cmd/config"
	migration "SmartExpire/cmd/database/migrate"
	"SmartExpire/internal/utils"
	"SmartExpire/pkg/memstore"
	"SmartExpire/pkg/recipe"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smartexpire",
	Short: "SmartExpire - track what expires before it does",
	Long: `SmartExpire keeps a household inventory of perishables, a shopping list,
used-item history and recipe suggestions behind a JSON API.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			os.Setenv("CONFIG_PATH", path)
		}
		utils.LoadConfig()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repos, err := repositories(ctx)
		if err != nil {
			return err
		}

		app, _ := config.NewApp(repos, config.OptionsFromConfig())

		go func() {
			<-ctx.Done()
			log.Info("shutting down")
			if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
				log.Errorf("shutdown: %v", err)
			}
		}()

		port := utils.GetConfigOrDefault("APP_PORT", "8080")
		return app.Listen(":" + port)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and seed the recipe catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}
		return migration.Migrate(cmd.Context(), db)
	},
}

func repositories(ctx context.Context) (config.Repositories, error) {
	switch driver := utils.GetConfigOrDefault("STORAGE_DRIVER", "postgres"); driver {
	case "memory":
		store := memstore.New()
		if err := recipe.SeedRecipes(ctx, store); err != nil {
			return config.Repositories{}, err
		}
		log.Warn("using in-memory storage, data is lost on exit")
		return config.NewMemoryRepositories(store), nil
	case "postgres":
		db, err := config.ConnectDB()
		if err != nil {
			return config.Repositories{}, err
		}
		return config.NewRepositories(db), nil
	default:
		return config.Repositories{}, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config.yaml")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

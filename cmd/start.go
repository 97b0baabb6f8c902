package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tour-admin/core/loader"
	"tour-admin/core/logger"
	"tour-admin/core/middleware/auth"
	"tour-admin/core/middleware/rayid"
	"tour-admin/feature/integrity"
	"tour-admin/feature/tour"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Tour Admin API
// @version 1.0
// @description Admin API for syncing and enriching the TourAPI catalog.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tour admin server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Configuration, logger, database and the tour service
		a, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !a.cfg.Server.IsValidEnvironment() {
			logg.Fatal("Unknown environment", zap.String("environment", a.cfg.Server.Environment))
		}
		if a.cfg.Server.RequiresApiKey() && a.cfg.Server.ApiKey == "" {
			logg.Fatal("SERVER_API_KEY is required outside development")
		}

		if err := a.service.Migrate(ctx); err != nil {
			logg.Fatal("Failed to migrate tour tables", zap.Error(err))
		}

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			Immutable:             true,
		})

		// 3. Register Features
		mgr := loader.NewManager()
		mgr.Register(tour.NewFeature(a.service))
		mgr.Register(integrity.NewFeature(a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.ArchivePrefix, logg, a.db, a.catalog))

		// Middleware: RayID first so every log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Metrics are public; everything else requires the key
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, SkipPaths: []string{"/metrics"}}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", a.cfg.Server.Port),
				zap.String("environment", a.cfg.Server.Environment),
			)
			if err := app.Listen(":" + a.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

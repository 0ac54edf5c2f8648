package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/propdesk/internal/config"
	"github.com/stwalsh4118/propdesk/internal/database"
	"github.com/stwalsh4118/propdesk/internal/handlers"
	"github.com/stwalsh4118/propdesk/internal/ingest"
	"github.com/stwalsh4118/propdesk/internal/logger"
	"github.com/stwalsh4118/propdesk/internal/middleware"
	"github.com/stwalsh4118/propdesk/internal/repository"
	"github.com/stwalsh4118/propdesk/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting propdesk API", map[string]interface{}{
		"version":        handlers.APIVersion,
		"environment":    cfg.Server.Env,
		"port":           cfg.Server.Port,
		"layout_version": ingest.LayoutVersion,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	if cfg.Database.Migrate {
		if err := database.RunMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", err, nil)
		}
	}

	projectRepo := repository.NewProjectRepository(db)
	gateway := services.NewBundleGateway(projectRepo, log)
	importService := services.NewImportService(
		ingest.NewParser(ingest.Defaults{
			Lat: cfg.Geo.DefaultLat,
			Lng: cfg.Geo.DefaultLng,
		}),
		ingest.NewValidator(ingest.Bounds{
			MinLat: cfg.Geo.MinLat,
			MaxLat: cfg.Geo.MaxLat,
			MinLng: cfg.Geo.MinLng,
			MaxLng: cfg.Geo.MaxLng,
		}),
		gateway,
		services.ImportOptions{
			MaxRows:    cfg.Import.MaxRows,
			HeaderRows: cfg.Import.HeaderRows,
		},
		log,
	)
	projectService := services.NewProjectService(projectRepo, log)

	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	importHandler := handlers.NewImportHandler(importService, cfg.Import)
	projectHandler := handlers.NewProjectHandler(projectService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.Import.MaxUploadBytes

	// Order matters: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", healthHandler.Info)

		projects := v1.Group("/projects")
		{
			projects.GET("/nearby", projectHandler.Nearby)
			projects.GET("/:id", projectHandler.Get)

			imports := projects.Group("/import", middleware.BodyLimit(importHandler.BodyLimit()))
			imports.POST("", importHandler.Upload)
			imports.POST("/rows", importHandler.ImportRows)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Uploads are processed inside the request.
		WriteTimeout: cfg.Import.Timeout + 10*time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

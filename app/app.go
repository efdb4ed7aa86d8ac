package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"next-pos/app/controller"
	"next-pos/app/router"
	"next-pos/config"
	"next-pos/db"
	"next-pos/pos"
	"next-pos/repository"
	"next-pos/service"
)

// App is the wired service
type App struct {
	Config    *config.Config
	Handler   http.Handler
	Terminals *service.TerminalService
}

// Initialize initializes the application from its configuration
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	client := repository.NewFrappeClient(cfg.DocStore.BaseURL, cfg.DocStore.APIKey, cfg.DocStore.APISecret, cfg.DocStore.Timeout)
	frappeRepo := repository.NewFrappeRepository(client, cfg.Company.Name, cfg.LookupLimit)

	// Reads go to the document store API unless the ledger database is reachable directly.
	// Sales are always written through the API.
	var reads repository.ReadRepositoryInterface = frappeRepo
	if cfg.ReadBackend == config.BackendPostgres {
		conn, err := db.InitDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		reads = repository.NewPostgresRepository(conn, cfg.Company.Name, cfg.LookupLimit)
		log.Printf("📦 Reading catalog, stock and lookups from Postgres")
	}

	var drive service.DriveServiceInterface
	if cfg.Images.DriveCredentials != "" {
		driveService, err := service.NewDriveService(ctx, cfg.Images.DriveCredentials)
		if err != nil {
			return nil, err
		}
		drive = driveService
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS not set, drive: item images are disabled")
	}

	imageCache, err := service.NewImageCache(cfg.Images.CacheDir)
	if err != nil {
		return nil, err
	}
	images := service.NewItemImageService(client, drive, imageCache)

	terminals := service.NewTerminalService(pos.Dependencies{
		Reads:        reads,
		Sales:        frappeRepo,
		BaseCurrency: cfg.Company.BaseCurrency,
	}, cfg.TerminalIdleTimeout)

	// Create controllers
	controllers := &router.Controllers{
		Terminal: controller.NewTerminalController(terminals),
		Sale:     controller.NewSaleController(terminals),
		Catalog:  controller.NewCatalogController(terminals, images),
		Lookup:   controller.NewLookupController(reads),
	}

	return &App{
		Config:    cfg,
		Handler:   router.SetupRoutes(controllers),
		Terminals: terminals,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker)
	addr := "0.0.0.0:" + a.Config.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go a.sweepTerminals(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return db.CloseDB()
}

func (a *App) sweepTerminals(ctx context.Context) {
	if a.Config.TerminalIdleTimeout <= 0 {
		return
	}
	interval := a.Config.TerminalIdleTimeout / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Terminals.Sweep()
		}
	}
}

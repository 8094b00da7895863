package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pedidos-mostrador/app/controller"
	"pedidos-mostrador/app/router"
	"pedidos-mostrador/config"
	"pedidos-mostrador/db"
	"pedidos-mostrador/metrics"
	"pedidos-mostrador/repository"
	"pedidos-mostrador/service"
	"pedidos-mostrador/session"
)

// shutdownTimeout bounds how long in-flight requests may take once a stop is requested
const shutdownTimeout = 10 * time.Second

// App is the wired counter service
type App struct {
	Config   *config.Config
	DB       *db.DB
	Echo     *echo.Echo
	Sessions *session.Store
	log      *zap.Logger
}

// Initialize opens and migrates the database and wires repositories, services,
// controllers and routes
func Initialize(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	// Initialize database connection
	conn, err := db.Open(ctx, &cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := conn.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if version, err := conn.SchemaVersion(ctx); err == nil && version != nil {
		log.Info("🗄️ Database ready", zap.String("driver", conn.Driver), zap.String("schema_version", version.String()))
	}

	// Initialize metrics
	registry := metrics.NewRegistry()
	m := metrics.New(cfg.Metrics.Prefix, registry)

	// Initialize repositories
	productRepo := repository.NewProductRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)
	settlementRepo := repository.NewSettlementRepository(conn)

	// Initialize services
	clock := service.NewClock(cfg.Shop.Location, time.Now)
	catalogService := service.NewCatalogService(productRepo)
	orderService := service.NewOrderService(productRepo, orderRepo, clock, m)
	settlementService := service.NewSettlementService(settlementRepo, clock, m, cfg.Settlement)

	// Drive archive is optional
	var archiver service.ReportArchiver
	if cfg.Export.DriveEnabled() {
		driveService, err := service.NewDriveService(ctx, cfg.Export.DriveCredentialsFile, cfg.Export.DriveFolderID)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		archiver = driveService
		log.Info("☁️ Drive archive enabled", zap.String("folder_id", cfg.Export.DriveFolderID))
	}
	exportService := service.NewExportService(
		service.NewReportService(cfg.Shop.Location),
		service.NewSummaryService(cfg.Export.ChromePath, cfg.Shop.Location),
		archiver,
		m,
	)

	// Create controllers
	controllers := &router.Controllers{
		Health:  controller.NewHealthController(conn),
		Product: controller.NewProductController(catalogService),
		Order:   controller.NewOrderController(orderService),
		Shift:   controller.NewShiftController(settlementService, exportService),
	}

	sessions := session.NewStore(cfg.Session.MaxEntries, cfg.Session.TTL)
	e := router.New(controllers, router.Dependencies{
		Logger:   log,
		Metrics:  m,
		Registry: registry,
		Sessions: sessions,
		Session:  cfg.Session,
	})

	return &App{Config: cfg, DB: conn, Echo: e, Sessions: sessions, log: log}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and closes the database
func (a *App) Run(ctx context.Context) error {
	addr := "0.0.0.0:" + a.Config.Server.Port
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("🚀 Server starting", zap.String("addr", addr))
		if err := a.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			_ = a.DB.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		a.log.Info("🛑 Shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		a.log.Error("❌ Server shutdown failed", zap.Error(err))
	}
	return a.DB.Close()
}

package router

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pedidos-mostrador/app/controller"
	"pedidos-mostrador/app/middleware"
	"pedidos-mostrador/config"
	"pedidos-mostrador/metrics"
	"pedidos-mostrador/session"
)

type Controllers struct {
	Health  *controller.HealthController
	Product *controller.ProductController
	Order   *controller.OrderController
	Shift   *controller.ShiftController
}

// Dependencies are the shared pieces the middleware chain needs
type Dependencies struct {
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Sessions *session.Store
	Session  config.SessionConfig
}

// New builds the echo instance with the middleware chain and every route
func New(controllers *Controllers, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// order matters: the request id must exist before anything logs
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID(deps.Logger))
	e.Use(middleware.AccessLog())
	e.Use(middleware.Metrics(deps.Metrics))

	SetupRoutes(e, controllers, deps)
	return e
}

func SetupRoutes(e *echo.Echo, controllers *Controllers, deps Dependencies) {
	// Ping and health endpoints
	e.GET("/ping", controllers.Health.Ping)
	e.GET("/health", controllers.Health.Health)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	// Catalog maintenance routes
	products := e.Group("/products")
	products.GET("", controllers.Product.List)
	products.POST("", controllers.Product.Create)
	products.GET("/:id", controllers.Product.Get)
	products.PUT("/:id", controllers.Product.Update)
	products.DELETE("/:id", controllers.Product.Delete)

	// Order routes (static paths are matched before /:id)
	orders := e.Group("/orders")
	orders.GET("/new", controllers.Order.NewForm)
	orders.POST("", controllers.Order.Place)
	orders.GET("/pending", controllers.Order.ListPending)
	orders.GET("/completed", controllers.Order.ListCompleted)
	orders.GET("/:id", controllers.Order.Get)
	orders.GET("/:id/edit", controllers.Order.EditForm)
	orders.PUT("/:id", controllers.Order.Edit)
	orders.POST("/:id/complete", controllers.Order.Complete)

	// Shift close routes; only the ones touching the batch open a session
	withSession := middleware.Session(deps.Sessions, deps.Session)
	shift := e.Group("/shift")
	shift.GET("/close", controllers.Shift.Preview)
	shift.POST("/close/confirm", controllers.Shift.Confirm, withSession)
	shift.GET("/close/report", controllers.Shift.Report, withSession)
	shift.GET("/close/summary", controllers.Shift.Summary, withSession)
	shift.GET("/reports", controllers.Shift.ListReports)
}

package api

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/otcdesk/exchange-bot/internal/api/handler"
	"github.com/otcdesk/exchange-bot/internal/api/middleware"
	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
	"github.com/otcdesk/exchange-bot/internal/core/service"
	mongodb "github.com/otcdesk/exchange-bot/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, pg *pgxpool.Pool, rdb *redis.Client, deposits ports.DepositRepository, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	operatorRepo := mongodb.NewOperatorRepository(db)
	authService := service.NewAuthService(operatorRepo, jwtSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)
	depositHandler := handler.NewDepositHandler(deposits)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Back-office API ---
	v1 := e.Group("/api/v1", authMiddleware)
	v1.GET("/deposits", depositHandler.List, middleware.RBAC(domain.OperatorRoleAdmin, domain.OperatorRoleViewer))
	v1.GET("/deposits/stats", depositHandler.Stats, middleware.RBAC(domain.OperatorRoleAdmin, domain.OperatorRoleViewer))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, pg, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Metrics ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

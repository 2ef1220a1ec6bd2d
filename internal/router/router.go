package router

import (
	"net/http"
	"time"

	"github.com/fleeter/fleeter/internal/cache"
	"github.com/fleeter/fleeter/internal/handlers"
	"github.com/fleeter/fleeter/internal/middleware"
	"github.com/fleeter/fleeter/internal/models"
	"github.com/fleeter/fleeter/internal/repositories"
	"github.com/fleeter/fleeter/pkg/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware: panic recovery, CORS,
// request IDs and structured request logging.
func SetupMiddleware(e *echo.Echo, log *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	e.HTTPErrorHandler = errorHandler(log)
}

// SetupRoutes configures all application routes and injects dependencies.
// rdb may be nil, in which case user counters are computed on every read.
func SetupRoutes(e *echo.Echo, db *gorm.DB, rdb *redis.Client, cfg *config.Config, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Fleet{},
		&models.Follow{},
	); err != nil {
		return err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(db, rdb))

	userRepo := repositories.NewPostgresUserRepository(db)
	fleetRepo := repositories.NewPostgresFleetRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)

	stats := cache.NewStatsCache(rdb, time.Duration(cfg.StatsCacheTTLSeconds)*time.Second, func(userID uint) (*models.UserStats, error) {
		fleets, err := fleetRepo.CountByUserID(userID)
		if err != nil {
			return nil, err
		}
		following, err := followRepo.GetFollowingCount(userID)
		if err != nil {
			return nil, err
		}
		followers, err := followRepo.GetFollowersCount(userID)
		if err != nil {
			return nil, err
		}
		return &models.UserStats{
			TotalFleets:    fleets,
			TotalFollowing: following,
			TotalFollowers: followers,
		}, nil
	})

	auth := middleware.JWTAuth(cfg.JWTSecret)

	api := e.Group("/api")
	api.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Welcome! You just discovered fleeter.",
		})
	})

	userHandler := handlers.NewUserHandler(userRepo, fleetRepo, followRepo, stats, cfg.FleetsPerPage, cfg.UsersPerPage)
	userHandler.RegisterUserRoutes(api, auth)

	fleetHandler := handlers.NewFleetHandler(userRepo, fleetRepo, stats, cfg.FleetsPerPage, cfg.FleetMaxLen)
	fleetHandler.RegisterFleetRoutes(api, auth)

	followHandler := handlers.NewFollowHandler(userRepo, followRepo, stats)
	followHandler.RegisterFollowRoutes(api, auth)

	log.Info("routes configured")
	return nil
}

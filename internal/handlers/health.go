package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthCheck reports whether the backing stores answer a ping.
func HealthCheck(db *gorm.DB, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			status = "degraded"
		}
		if rdb != nil && rdb.Ping(c.Request().Context()).Err() != nil {
			status = "degraded"
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":  status,
			"service": "fleeter-api",
		})
	}
}

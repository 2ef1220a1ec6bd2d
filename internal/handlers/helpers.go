package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fleeter/fleeter/internal/cache"
	"github.com/fleeter/fleeter/internal/middleware"
	"github.com/fleeter/fleeter/internal/models"
	"github.com/fleeter/fleeter/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// parseIDParam reads the numeric :id path parameter. Route ids are numeric;
// anything else names an unknown resource.
func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return uint(id), nil
}

// actingUser resolves the verified token subject to a User row. A subject
// with no matching row is a data-consistency problem, surfaced as 404, never
// as an implicit owner.
func actingUser(repo repositories.UserRepository, c echo.Context) (*models.User, error) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing token claims")
	}
	user, err := repo.GetUserByAuth0ID(claims.Subject)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "No account for authenticated subject")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}

// userEnvelope is the response prefix shared by every user-scoped listing.
func userEnvelope(user *models.User, stats *models.UserStats) echo.Map {
	return echo.Map{
		"success":         true,
		"id":              user.ID,
		"username":        user.Username,
		"total_fleets":    stats.TotalFleets,
		"total_following": stats.TotalFollowing,
		"total_followers": stats.TotalFollowers,
	}
}

// userSummaries builds public summaries for a user list, counters included.
func userSummaries(ctx context.Context, stats *cache.StatsCache, users []models.User) ([]models.UserSummary, error) {
	out := make([]models.UserSummary, len(users))
	for i, u := range users {
		s, err := stats.Get(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out[i] = models.UserSummary{ID: u.ID, Username: u.Username, UserStats: *s}
	}
	return out, nil
}

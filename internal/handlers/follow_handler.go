package handlers

import (
	"errors"
	"net/http"

	"github.com/fleeter/fleeter/internal/cache"
	"github.com/fleeter/fleeter/internal/middleware"
	"github.com/fleeter/fleeter/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow HTTP requests. The acting user is
// always the follower.
type FollowHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	stats            *cache.StatsCache
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, stats *cache.StatsCache) *FollowHandler {
	return &FollowHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		stats:            stats,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/follows/:id", h.FollowUser, auth, middleware.RequirePermission(middleware.PermFollowUsers))
	g.DELETE("/follows/:id", h.UnfollowUser, auth, middleware.RequirePermission(middleware.PermFollowUsers))
}

// FollowUser follows the addressed user. Re-following is a no-op.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	return h.changeFollow(c, h.followRepository.CreateFollow)
}

// UnfollowUser unfollows the addressed user. Unfollowing a user not being
// followed is a no-op.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	return h.changeFollow(c, h.followRepository.DeleteFollow)
}

func (h *FollowHandler) changeFollow(c echo.Context, apply func(followerID, followeeID uint) error) error {
	actor, err := actingUser(h.userRepository, c)
	if err != nil {
		return err
	}
	targetID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	target, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := apply(actor.ID, target.ID); err != nil {
		if errors.Is(err, repositories.ErrSelfFollow) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.stats.Invalidate(c.Request().Context(), actor.ID, target.ID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": target.ID})
}

package handlers

import (
	"net/http"

	"github.com/fleeter/fleeter/internal/cache"
	"github.com/fleeter/fleeter/internal/middleware"
	"github.com/fleeter/fleeter/internal/models"
	"github.com/fleeter/fleeter/internal/pagination"
	"github.com/fleeter/fleeter/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles user-scoped HTTP requests: timelines, follow lists and
// user deletion.
type UserHandler struct {
	userRepository   repositories.UserRepository
	fleetRepository  repositories.FleetRepository
	followRepository repositories.FollowRepository
	stats            *cache.StatsCache
	fleetsPerPage    int
	usersPerPage     int
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	fleetRepo repositories.FleetRepository,
	followRepo repositories.FollowRepository,
	stats *cache.StatsCache,
	fleetsPerPage, usersPerPage int,
) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		fleetRepository:  fleetRepo,
		followRepository: followRepo,
		stats:            stats,
		fleetsPerPage:    fleetsPerPage,
		usersPerPage:     usersPerPage,
	}
}

// RegisterUserRoutes registers user-related routes. Timelines are public;
// follow lists and deletion require a token.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/users/:id/fleets", h.GetUserFleets)
	g.GET("/users/:id/following", h.GetUserFollowing, auth, middleware.RequirePermission(middleware.PermReadFollow))
	g.GET("/users/:id/followers", h.GetUserFollowers, auth, middleware.RequirePermission(middleware.PermReadFollow))
	g.DELETE("/users/:id", h.DeleteUser, auth, middleware.RequirePermission(middleware.PermDeleteUsers))
}

// getUser loads the addressed user or reports 404.
func (h *UserHandler) getUser(c echo.Context) (*models.User, error) {
	id, err := parseIDParam(c)
	if err != nil {
		return nil, err
	}
	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}

// GetUserFleets returns a page of the user's own fleets.
func (h *UserHandler) GetUserFleets(c echo.Context) error {
	user, err := h.getUser(c)
	if err != nil {
		return err
	}
	params, err := pagination.Parse(c.QueryParam("page"), c.QueryParam("per_page"), h.fleetsPerPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	fleets, err := h.fleetRepository.GetFleetsByUserID(user.ID, params.Offset(), params.PerPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := pagination.CheckRange(params, len(fleets)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	stats, err := h.stats.Get(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	response := userEnvelope(user, stats)
	response["fleets"] = models.NewFleetResponses(fleets)
	return c.JSON(http.StatusOK, response)
}

// GetUserFollowing returns a page of the users this user follows, most
// recently followed first.
func (h *UserHandler) GetUserFollowing(c echo.Context) error {
	return h.getFollowList(c, "following", h.followRepository.GetFollowing)
}

// GetUserFollowers returns a page of this user's followers.
func (h *UserHandler) GetUserFollowers(c echo.Context) error {
	return h.getFollowList(c, "followers", h.followRepository.GetFollowers)
}

func (h *UserHandler) getFollowList(c echo.Context, field string, list func(uint, int, int) ([]models.User, error)) error {
	user, err := h.getUser(c)
	if err != nil {
		return err
	}
	params, err := pagination.Parse(c.QueryParam("page"), c.QueryParam("per_page"), h.usersPerPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	users, err := list(user.ID, params.Offset(), params.PerPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := pagination.CheckRange(params, len(users)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	ctx := c.Request().Context()
	stats, err := h.stats.Get(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	summaries, err := userSummaries(ctx, h.stats, users)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	response := userEnvelope(user, stats)
	response[field] = summaries
	return c.JSON(http.StatusOK, response)
}

// DeleteUser removes a user and cascades to their fleets and follow edges.
// Reserved to moderator tokens by the route's permission gate.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	user, err := h.getUser(c)
	if err != nil {
		return err
	}

	// Edge peers lose a counter when the edges go; capture them first.
	neighbors, err := h.followRepository.GetNeighborIDs(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.userRepository.DeleteUser(user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.stats.Invalidate(c.Request().Context(), append(neighbors, user.ID)...)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": user.ID})
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fleeter/fleeter/internal/cache"
	"github.com/fleeter/fleeter/internal/middleware"
	"github.com/fleeter/fleeter/internal/models"
	"github.com/fleeter/fleeter/internal/pagination"
	"github.com/fleeter/fleeter/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FleetHandler handles fleet mutations and the newsfeed.
type FleetHandler struct {
	userRepository  repositories.UserRepository
	fleetRepository repositories.FleetRepository
	stats           *cache.StatsCache
	fleetsPerPage   int
	maxFleetLen     int
}

// NewFleetHandler creates a new FleetHandler
func NewFleetHandler(
	userRepo repositories.UserRepository,
	fleetRepo repositories.FleetRepository,
	stats *cache.StatsCache,
	fleetsPerPage, maxFleetLen int,
) *FleetHandler {
	return &FleetHandler{
		userRepository:  userRepo,
		fleetRepository: fleetRepo,
		stats:           stats,
		fleetsPerPage:   fleetsPerPage,
		maxFleetLen:     maxFleetLen,
	}
}

// RegisterFleetRoutes registers fleet-related routes, all token-gated.
func (h *FleetHandler) RegisterFleetRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/fleets/newsfeed", h.GetNewsfeed, auth, middleware.RequirePermission(middleware.PermReadNewsfeed))
	g.POST("/fleets", h.CreateFleet, auth, middleware.RequirePermission(middleware.PermPostFleets))
	g.PATCH("/fleets/:id", h.UpdateFleet, auth, middleware.RequirePermission(middleware.PermPatchFleets))
	g.DELETE("/fleets/:id", h.DeleteFleet, auth, middleware.RequirePermission(middleware.PermDeleteFleets))
}

// GetNewsfeed returns a page of the acting user's newsfeed: their own fleets
// merged with those of everyone they follow, newest first.
func (h *FleetHandler) GetNewsfeed(c echo.Context) error {
	user, err := actingUser(h.userRepository, c)
	if err != nil {
		return err
	}
	params, err := pagination.Parse(c.QueryParam("page"), c.QueryParam("per_page"), h.fleetsPerPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	fleets, err := h.fleetRepository.GetNewsfeed(user.ID, params.Offset(), params.PerPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := pagination.CheckRange(params, len(fleets)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	length, err := h.fleetRepository.CountNewsfeed(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	stats, err := h.stats.Get(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	response := userEnvelope(user, stats)
	response["newsfeed"] = models.NewFleetResponses(fleets)
	response["newsfeed_length"] = length
	return c.JSON(http.StatusOK, response)
}

// CreateFleet posts a new fleet as the acting user.
func (h *FleetHandler) CreateFleet(c echo.Context) error {
	user, err := actingUser(h.userRepository, c)
	if err != nil {
		return err
	}
	body, err := h.bindFleetBody(c)
	if err != nil {
		return err
	}

	fleet := &models.Fleet{Post: body, UserID: user.ID}
	if err := h.fleetRepository.CreateFleet(fleet); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.stats.Invalidate(c.Request().Context(), user.ID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": fleet.ID})
}

// UpdateFleet replaces the body of an existing fleet. Owner only.
func (h *FleetHandler) UpdateFleet(c echo.Context) error {
	user, err := actingUser(h.userRepository, c)
	if err != nil {
		return err
	}
	fleet, err := h.getFleet(c)
	if err != nil {
		return err
	}
	if fleet.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author may edit a fleet")
	}
	body, err := h.bindFleetBody(c)
	if err != nil {
		return err
	}

	fleet.Post = body
	if err := h.fleetRepository.UpdateFleet(fleet); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": fleet.ID})
}

// DeleteFleet removes a fleet. The owner may delete their own; a token whose
// subject maps to no user row acts as a moderator and may delete any.
func (h *FleetHandler) DeleteFleet(c echo.Context) error {
	fleet, err := h.getFleet(c)
	if err != nil {
		return err
	}

	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token claims")
	}
	user, err := h.userRepository.GetUserByAuth0ID(claims.Subject)
	if err != nil && err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user != nil && user.ID != fleet.UserID { // neither moderator nor owner
		return echo.NewHTTPError(http.StatusForbidden, "Only the author or a moderator may delete a fleet")
	}

	if err := h.fleetRepository.DeleteFleet(fleet.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.stats.Invalidate(c.Request().Context(), fleet.UserID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": fleet.ID})
}

// getFleet loads the addressed fleet or reports 404.
func (h *FleetHandler) getFleet(c echo.Context) (*models.Fleet, error) {
	id, err := parseIDParam(c)
	if err != nil {
		return nil, err
	}
	fleet, err := h.fleetRepository.GetFleetByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Fleet not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return fleet, nil
}

// bindFleetBody validates a fleet payload. A payload without the post key is
// malformed (400); a present but empty, blank or over-long body is
// semantically invalid (422).
func (h *FleetHandler) bindFleetBody(c echo.Context) (string, error) {
	var req models.FleetRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return "", err
	}
	body := *req.Post
	if strings.TrimSpace(body) == "" {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity, "Fleet body must not be empty")
	}
	if len([]rune(body)) > h.maxFleetLen {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity,
			fmt.Sprintf("Fleet body must be at most %d characters", h.maxFleetLen))
	}
	return body, nil
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/fleeter/fleeter/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// Permission strings granted by the identity provider. A regular user token
// carries the posting/following set; a moderator token carries the delete
// permissions and nothing that implies a personal feed.
const (
	PermReadFollow   = "get:user_follow"
	PermReadNewsfeed = "get:newsfeed"
	PermPostFleets   = "post:fleets"
	PermPatchFleets  = "patch:fleets"
	PermDeleteFleets = "delete:fleets"
	PermFollowUsers  = "follow:users"
	PermDeleteUsers  = "delete:users"
)

// contextClaimsKey is where verified claims are stored on the echo context.
const contextClaimsKey = "claims"

// JWTAuth checks for a valid bearer JWT and stores its claims in the request
// context. Requests without a verifiable token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})

			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(contextClaimsKey, claims)

			return next(c)
		}
	}
}

// RequirePermission rejects verified tokens that lack the route's permission.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token claims")
			}
			if !claims.HasPermission(permission) {
				return echo.NewHTTPError(http.StatusForbidden, "Permission not granted: "+permission)
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the verified claims set by JWTAuth, or nil.
func ClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(contextClaimsKey).(*models.JwtCustomClaims)
	return claims
}

package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// User represents an account identified by a unique handle. Auth0ID links the
// row to the subject issued by the external identity provider and is never
// serialized.
type User struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Username string  `json:"username" gorm:"size:15;uniqueIndex;not null"`
	Auth0ID  *string `json:"-" gorm:"column:auth0_id;uniqueIndex"`
}

func (User) TableName() string { return "users" }

// UserStats holds the aggregate counters embedded in user-scoped responses.
type UserStats struct {
	TotalFleets    int64 `json:"total_fleets"`
	TotalFollowing int64 `json:"total_following"`
	TotalFollowers int64 `json:"total_followers"`
}

// UserSummary is the public serialization of a user.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	UserStats
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// Subject carries the external-auth subject identifier; Permissions is the
// scope list granted by the identity provider.
type JwtCustomClaims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the token was granted the given permission.
func (c *JwtCustomClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in access tokens.
const (
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

// CoachClaims are the access-token claims issued to coaches by the identity service.
type CoachClaims struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name,omitempty"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

func (c *CoachClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

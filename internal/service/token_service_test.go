package service

import (
	"testing"
	"time"

	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	svc := NewTokenService(config.JWTConfig{Secret: "secret", AccessTokenExpiry: time.Minute})

	token, err := svc.IssueAccessToken("coach-1", "Dana", domain.RoleCoach)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "coach-1", claims.UserID)
	assert.True(t, claims.HasRole(domain.RoleCoach))
	assert.False(t, claims.HasRole(domain.RoleAdmin))

	other := NewTokenService(config.JWTConfig{Secret: "other"})
	_, err = other.ParseAccessToken(token)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ParseAccessToken(token)
	assert.Error(t, err, "expired")

	_, err = svc.IssueAccessToken("", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

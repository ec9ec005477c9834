package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/domain"
)

// TokenService signs coach access tokens with the shared HMAC secret. Production tokens
// come from the identity service; this issues equivalent ones for tooling and tests.
type TokenService struct {
	jwtConfig config.JWTConfig
	now       func() time.Time
}

func NewTokenService(jwtConfig config.JWTConfig) *TokenService {
	if jwtConfig.AccessTokenExpiry <= 0 {
		jwtConfig.AccessTokenExpiry = time.Hour
	}
	return &TokenService{jwtConfig: jwtConfig, now: time.Now}
}

// IssueAccessToken creates a signed access token for a user
func (s *TokenService) IssueAccessToken(userID, name string, roles ...string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if s.jwtConfig.Secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	now := s.now()
	claims := &domain.CoachClaims{
		UserID: userID,
		Name:   name,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
}

// ParseAccessToken validates a token and returns its claims
func (s *TokenService) ParseAccessToken(tokenString string) (*domain.CoachClaims, error) {
	claims := &domain.CoachClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

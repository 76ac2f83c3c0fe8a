package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cookiverse/cookiverse/internal/models"
)

// TokenService issues the access tokens that carry a signed-in user to the
// REST API.
type TokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue signs an HS256 token for u.
func (s *TokenService) Issue(u *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"jti":     uuid.NewString(),
		"sub":     u.UID,
		"name":    u.DisplayName,
		"email":   u.Email,
		"picture": u.PhotoURL,
		"iat":     now.Unix(),
		"exp":     now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// UserFromClaims rebuilds a user from token claims. It returns nil when the
// subject is missing.
func UserFromClaims(claims jwt.MapClaims) *models.User {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	picture, _ := claims["picture"].(string)
	return &models.User{UID: sub, DisplayName: name, Email: email, PhotoURL: picture}
}

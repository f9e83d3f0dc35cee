package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NewID creates a new UUID for row identification
func NewID() string {
	return uuid.New().String()
}

// GenerateSessionToken creates a new UUID for session identification
func GenerateSessionToken() string {
	return uuid.New().String()
}

// AccessClaims are the claims embedded in a session's access token
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewAccessToken signs a JWT for the given user, valid until expiresAt
func NewAccessToken(signingKey []byte, userID, email string, expiresAt time.Time) (string, error) {
	claims := AccessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates a signed access token and returns its claims
func ParseAccessToken(signingKey []byte, tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}

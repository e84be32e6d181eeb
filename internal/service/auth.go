package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserJWTClaims is the token payload the auth boundary issues and the
// middleware verifies.
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IssueUserToken signs a user token with HS256.
func IssueUserToken(secretKey string, userID uint, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserJWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// Package auth implements cookie-session authentication: account signup and
// signin backed by the users collection, HS256 session tokens, and the
// middleware that gates protected routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a session token fails verification or
// carries no usable subject.
var ErrInvalidToken = errors.New("invalid session token")

// CreateToken signs an HS256 session token carrying the account email.
func CreateToken(email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": email,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token and returns the account email it
// carries. Expired, malformed, or foreign-algorithm tokens all return
// ErrInvalidToken.
func VerifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	email, ok := claims["user"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

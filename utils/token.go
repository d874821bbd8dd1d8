package utils

import (
	"fmt"
	"strconv"
	"time"

	"hotel-booking-backend/models"

	jwt "github.com/golang-jwt/jwt/v4"
)

// AuthClaims carries the user id as subject plus the role. The role claim is
// informational for token holders; the auth middleware always re-resolves the
// account, and its current role, from the database.
type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CreateAccessToken signs an HS256 token for the user.
func CreateAccessToken(user *models.User, secret string, expiryHours int) (string, error) {
	expTime := time.Now().Add(time.Hour * time.Duration(expiryHours))

	claims := &AuthClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(expTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ExtractUserID verifies the token and returns the subject user id.
func ExtractUserID(requestToken string, secret string) (uint, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(requestToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return uint(id), nil
}

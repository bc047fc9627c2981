package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrUnknownClaims = errors.New("unknown claims format")
)

func GetToken(u models.User, ttl time.Duration, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  u.Username,
		"role": u.Role,
		"exp":  time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token error: %w", err)
	}

	return signed, nil
}

// ValidateToken checks the signature and expiry and returns
// the principal encoded in the token.
func ValidateToken(tokenString, secret string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v error: %w", t.Header["alg"], ErrInvalidToken)
		}

		return []byte(secret), nil
	})
	if err != nil {
		return models.Principal{}, fmt.Errorf("parse token error: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return models.Principal{}, ErrUnknownClaims
	}

	role, ok := claims["role"].(string)
	if !ok {
		return models.Principal{}, ErrUnknownClaims
	}

	return models.Principal{Username: sub, Role: role}, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cinechain/cinebook/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken signs an HS256 JWT carrying the user id as subject and the
// role as a custom claim. Issuance itself lives with the identity service;
// this helper exists for staff tooling and tests.
func NewAccessToken(secret string, userID int64, role domain.Role, ttl time.Duration) (string, error) {
	const op = "auth.NewAccessToken"

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"role": string(role),
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	return signed, nil
}

// ParseAccessToken validates a bearer token and returns the actor it
// identifies.
//
// Returns:
//   - domain.Actor: the authenticated actor.
//   - error: auth.ErrInvalidToken for any signature, expiry or claim problem.
func ParseAccessToken(secret, raw string) (domain.Actor, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return domain.Actor{}, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, ErrInvalidToken
	}

	var userID int64
	if _, err := fmt.Sscan(sub, &userID); err != nil || userID <= 0 {
		return domain.Actor{}, ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role := domain.Role(roleStr)
	switch role {
	case domain.RoleUser, domain.RoleEmployee, domain.RoleAdmin:
	default:
		return domain.Actor{}, ErrInvalidToken
	}

	return domain.Actor{UserID: userID, Role: role}, nil
}

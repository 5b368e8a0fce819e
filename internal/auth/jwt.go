package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shareline/shareline/internal/model"
)

// Claims represents the session token claims. Role is the capacity chosen at
// login, not a stored attribute: a dual-capability user gets one token per
// role.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the actor the inventory operations expect.
func (c *Claims) Actor() model.Actor {
	return model.Actor{UserID: c.UserID, Role: model.Role(c.Role)}
}

// TokenExpiry is the session token lifetime, matching the 8-hour cookie.
const TokenExpiry = 8 * time.Hour

// GenerateToken creates a signed session token for a user acting in the
// given role. The signing key is passed in explicitly; it is loaded from the
// settings table at startup, never from process-global state.
func GenerateToken(signingKey string, user *model.User, role model.Role) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a session token, returning the claims.
func ValidateToken(signingKey, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if _, err := model.ParseRole(claims.Role); err != nil {
		return nil, fmt.Errorf("invalid token role: %w", err)
	}

	return claims, nil
}

package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"tenantnotes/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	bearerPrefix = "Bearer "
	tokenTTL     = 7 * 24 * time.Hour
)

var (
	ErrMissingToken  = errors.New("missing bearer token")
	errMissingSecret = errors.New("JWT_SECRET is not set")
)

// TokenClaims is the identity/entitlement snapshot embedded in every
// issued token. The subscription field is a point-in-time copy; guards
// that need the current entitlement re-load the user row instead of
// trusting it.
type TokenClaims struct {
	UserID       string      `json:"uid"`
	Email        string      `json:"email"`
	Role         entity.Role `json:"role"`
	TenantID     string      `json:"tid"`
	Subscription entity.Tier `json:"plan"`
	jwt.RegisteredClaims
}

func tokenSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errMissingSecret
	}
	return []byte(secret), nil
}

// IssueToken signs a HS256 token carrying the user's claims.
func IssueToken(user *entity.User) (string, error) {
	secret, err := tokenSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := TokenClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TenantID:     user.TenantID,
		Subscription: user.Subscription,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses AND validates the signature and expiry locally.
// It returns the claims only if the token is authentic and unexpired.
func ValidateToken(tokenString string) (*TokenClaims, error) {
	secret, err := tokenSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ParseTokenDataCtx reads and validates the bearer token of a request.
func ParseTokenDataCtx(ctx echo.Context) (*TokenClaims, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := ExtractBearerToken(header)
	if !ok {
		return nil, ErrMissingToken
	}
	return ValidateToken(token)
}

// ExtractBearerToken requires the literal "Bearer " prefix and returns
// the remainder.
func ExtractBearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

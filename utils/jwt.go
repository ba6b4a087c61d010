package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/wemake/config"
)

// TokenTTL is the lifetime of issued session tokens.
const TokenTTL = 72 * time.Hour

// Claims defines JWT claims used in the application.
type Claims struct {
	ProfileID uint   `json:"profile_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken issues a JWT for the given profile.
func GenerateToken(profileID uint, username string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ProfileID: profileID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "wemake",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	secret := []byte(config.Get().JWTSecret)
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithIssuer("wemake"))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ProfileID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

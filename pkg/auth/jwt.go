package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const watchScope = "watch"

// WatchClaims grant read-only access to the live feed of one game.
type WatchClaims struct {
	GameID string `json:"game_id"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateWatchToken signs a spectator token for gameID valid for ttl.
func GenerateWatchToken(gameID, secret string, ttl time.Duration) (string, error) {
	if gameID == "" {
		return "", errors.New("game id is required")
	}
	if secret == "" {
		return "", errors.New("signing secret is required")
	}

	now := time.Now()
	claims := &WatchClaims{
		GameID: gameID,
		Scope:  watchScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateWatchToken checks the signature and expiry and returns the claims.
func ValidateWatchToken(tokenString, secret string) (*WatchClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &WatchClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*WatchClaims); ok && token.Valid && claims.Scope == watchScope {
		return claims, nil
	}

	return nil, errors.New("invalid watch token")
}

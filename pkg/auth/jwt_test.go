package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchToken_RoundTrip(t *testing.T) {
	token, err := GenerateWatchToken("game-1", "secret", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateWatchToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "game-1", claims.GameID)
	assert.Equal(t, "game-1", claims.Subject)
}

func TestWatchToken_Rejections(t *testing.T) {
	token, err := GenerateWatchToken("game-1", "secret", time.Minute)
	require.NoError(t, err)

	_, err = ValidateWatchToken(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateWatchToken("game-1", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateWatchToken(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = ValidateWatchToken("not-a-token", "secret")
	assert.Error(t, err)

	_, err = GenerateWatchToken("", "secret", time.Minute)
	assert.Error(t, err)
	_, err = GenerateWatchToken("game-1", "", time.Minute)
	assert.Error(t, err)
}

func TestWatchToken_WrongScope(t *testing.T) {
	claims := &WatchClaims{
		GameID: "game-1",
		Scope:  "play",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ValidateWatchToken(signed, "secret")
	assert.Error(t, err)
}

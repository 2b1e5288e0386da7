package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateGameID returns a random 128-bit hex id.
func GenerateGameID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate game ID: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Setup("debug", "json", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger := Component("session")
	logger.Info().Str("game", "abc").Msg("created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "abc", entry["game"])
	assert.Equal(t, "created", entry["message"])
}

func TestSetup_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup("chatty", "json", &buf)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}

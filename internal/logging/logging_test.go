package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewFromConfigLevelClampsOutOfRange(t *testing.T) {
	assert.Equal(t, LevelInfo, NewFromConfigLevel(-1))
	assert.Equal(t, LevelInfo, NewFromConfigLevel(99))
	assert.Equal(t, LevelDebug, NewFromConfigLevel(int(LevelDebug)))
}

func TestNewHonorsConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn, &buf)

	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("suppressed")
	assert.Empty(t, buf.String())

	log.Error().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

package infra

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinesmart/internal/config"
	"dinesmart/internal/maps"
	"dinesmart/internal/modules/conversation"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Equal(t, zerolog.InfoLevel, NewLogger(&buf, "loud").GetLevel())
}

func TestNewStoreMemory(t *testing.T) {
	var cfg config.Config
	cfg.Store.Kind = config.StoreMemory

	store, closeFn, err := NewStore(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &conversation.MemoryStore{}, store)
}

func TestNewStoreUnknown(t *testing.T) {
	var cfg config.Config
	cfg.Store.Kind = "sqlite"
	_, _, err := NewStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewPlaces(t *testing.T) {
	var cfg config.Config
	cfg.Places.APIKey = "k"

	cfg.Places.Backend = config.PlacesBackendV1
	p, err := NewPlaces(cfg)
	require.NoError(t, err)
	assert.IsType(t, &maps.PlacesService{}, p)

	cfg.Places.Backend = config.PlacesBackendLegacy
	p, err = NewPlaces(cfg)
	require.NoError(t, err)
	assert.IsType(t, &maps.LegacyPlacesService{}, p)

	cfg.Places.Backend = "v2"
	_, err = NewPlaces(cfg)
	assert.Error(t, err)
}

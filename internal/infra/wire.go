// README: Builds the conversation service from config (store, places backend, Gemini).
package infra

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"dinesmart/internal/ai"
	"dinesmart/internal/config"
	"dinesmart/internal/maps"
	"dinesmart/internal/modules/conversation"
)

// NewStore opens the session store selected by cfg.Store.Kind. The returned
// close func releases any connection and is never nil.
func NewStore(ctx context.Context, cfg config.Config) (conversation.Store, func(), error) {
	switch cfg.Store.Kind {
	case config.StoreRedis:
		client, err := NewRedis(ctx, cfg.Store.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return conversation.NewRedisStore(client, cfg.Store.SessionTTL), func() { client.Close() }, nil
	case config.StorePostgres:
		pool, err := NewDB(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return conversation.NewPostgresStore(pool), pool.Close, nil
	case config.StoreMemory:
		return conversation.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store.Kind)
}

// NewPlaces returns the restaurant searcher selected by cfg.Places.Backend.
func NewPlaces(cfg config.Config) (conversation.Searcher, error) {
	switch cfg.Places.Backend {
	case config.PlacesBackendLegacy:
		return maps.NewLegacyPlacesService(cfg.Places.APIKey)
	case config.PlacesBackendV1:
		return maps.NewPlacesService(cfg.Places.APIKey), nil
	}
	return nil, fmt.Errorf("unknown places backend %q", cfg.Places.Backend)
}

// NewConversationService wires Gemini, the places backend and the store.
// The returned close func must be called on shutdown.
func NewConversationService(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*conversation.Service, func(), error) {
	store, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("store init: %w", err)
	}

	places, err := NewPlaces(cfg)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("places init: %w", err)
	}

	provider, err := ai.NewGeminiProvider(ctx, ai.GeminiConfig{
		APIKey:          cfg.AI.GeminiKey,
		CredentialsFile: cfg.Google.CredentialsFile,
		ProjectID:       cfg.Google.ProjectID,
		Model:           cfg.AI.Model,
	})
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("gemini init: %w", err)
	}

	logger.Info().
		Str("project_id", cfg.Google.ProjectID).
		Str("region", cfg.Google.Region).
		Str("model", cfg.AI.Model).
		Str("store", cfg.Store.Kind).
		Str("places_backend", cfg.Places.Backend).
		Msg("conversation service ready")

	svc := conversation.NewService(store, provider, places, logger)
	return svc, func() {
		provider.Close()
		closeStore()
	}, nil
}

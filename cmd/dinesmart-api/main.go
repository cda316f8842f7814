// README: Entry point; loads config, wires the conversation service and serves the chat UI over HTTP.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinesmart/internal/config"
	httptransport "dinesmart/internal/http"
	"dinesmart/internal/infra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := infra.NewLogger(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conversationSvc, closeSvc, err := infra.NewConversationService(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("wire conversation service")
	}
	defer closeSvc()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Conversation: conversationSvc,
		Logger:       logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("http shutdown")
		}
	}()

	logger.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("http server")
		return
	}
	logger.Info().Msg("http server stopped")
}

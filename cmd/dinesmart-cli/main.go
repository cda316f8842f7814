// README: Terminal chat against the conversation service; /quit or EOF exits.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dinesmart/internal/config"
	"dinesmart/internal/infra"
	"dinesmart/internal/modules/conversation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := infra.NewLogger(os.Stderr, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeSvc, err := infra.NewConversationService(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("wire conversation service")
	}
	defer closeSvc()

	sessionID, history, err := svc.CreateSession(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("create session")
	}
	for _, turn := range history {
		printTurn(turn.Role, turn.Content)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			return
		}

		reply, err := svc.Handle(ctx, sessionID, input)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Printf("error: %v\n", err)
			continue
		}
		printTurn(conversation.RoleAssistant, reply)
	}
}

func printTurn(role conversation.Role, content string) {
	if role == conversation.RoleAssistant {
		fmt.Printf("Assistant: %s\n", content)
		return
	}
	fmt.Printf("You: %s\n", content)
}

// README: Conversation service runs one restaurant-chat turn per user submission.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dinesmart/internal/ai"
	"dinesmart/internal/maps"
)

// Searcher finds restaurants for a location and cuisine. Upstream API errors
// are returned as Payload data, not as error values.
type Searcher interface {
	Search(ctx context.Context, location, cuisine string) (maps.Payload, error)
}

// Service orchestrates history, the model and the places search.
type Service struct {
	store  Store
	llm    ai.LLMProvider
	places Searcher
	log    zerolog.Logger
	now    func() time.Time

	mu     sync.Mutex
	guards map[string]*turnGuard
}

// turnGuard serializes turns of one session. cancel belongs to the most
// recently registered turn, identified by seq.
type turnGuard struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

func NewService(store Store, llm ai.LLMProvider, places Searcher, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		llm:    llm,
		places: places,
		log:    logger,
		now:    time.Now,
		guards: make(map[string]*turnGuard),
	}
}

// CreateSession starts a session seeded with the assistant greeting.
func (s *Service) CreateSession(ctx context.Context) (string, []Turn, error) {
	id := uuid.NewString()
	seed := Turn{Role: RoleAssistant, Content: Greeting, CreatedAt: s.now().UTC()}
	if err := s.store.CreateSession(ctx, id, seed); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return id, []Turn{seed}, nil
}

func (s *Service) History(ctx context.Context, sessionID string) ([]Turn, error) {
	return s.store.History(ctx, sessionID)
}

// Handle runs one turn: the input is recorded as a user turn, the trailing
// context window goes to a fresh chat session, and a function call is
// answered with one places search before the final reply is recorded.
//
// A newer Handle on the same session cancels this one. If the turn fails
// after the user turn was recorded, that turn stays and no assistant turn
// is added.
func (s *Service) Handle(ctx context.Context, sessionID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: empty message", ErrBadRequest)
	}

	ctx, release := s.acquire(ctx, sessionID)
	defer release()
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w: superseded before start", ErrTurnCancelled)
	}

	answer, err := s.runTurn(ctx, sessionID, input)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return "", fmt.Errorf("%w: %v", ErrTurnCancelled, err)
		}
		return "", err
	}
	return answer, nil
}

func (s *Service) runTurn(ctx context.Context, sessionID, input string) (string, error) {
	logger := s.log.With().Str("session_id", sessionID).Logger()

	if err := s.store.Append(ctx, sessionID, Turn{Role: RoleUser, Content: input, CreatedAt: s.now().UTC()}); err != nil {
		return "", fmt.Errorf("append user turn: %w", err)
	}

	recent, err := s.store.Recent(ctx, sessionID, ContextWindow)
	if err != nil {
		return "", fmt.Errorf("load context: %w", err)
	}

	chat := s.llm.StartChat()
	reply, err := chat.SendMessage(ctx, BuildContext(recent))
	if err != nil {
		return "", fmt.Errorf("ai error: %w", err)
	}

	if reply.HasFunctionCall() {
		call := *reply.FunctionCall
		query, err := ai.ParseRestaurantQuery(call)
		if err != nil {
			return "", fmt.Errorf("function call: %w", err)
		}
		logger.Info().
			Str("function", query.Function).
			Str("location", query.Location).
			Str("cuisine", query.Cuisine).
			Int("min_reviews", query.MinReviews).
			Msg("restaurant search requested")

		payload, err := s.places.Search(ctx, query.Location, query.Cuisine)
		if err != nil {
			return "", fmt.Errorf("places search: %w", err)
		}

		reply, err = chat.SendFunctionResponse(ctx, call.Name, map[string]any{
			"content": map[string]any(payload),
		})
		if err != nil {
			return "", fmt.Errorf("ai error: %w", err)
		}
		if reply.HasFunctionCall() {
			return "", fmt.Errorf("%w: %s", ErrUnexpectedFunctionCall, reply.FunctionCall.Name)
		}
	}

	if err := s.store.Append(ctx, sessionID, Turn{Role: RoleAssistant, Content: reply.Text, CreatedAt: s.now().UTC()}); err != nil {
		return "", fmt.Errorf("append assistant turn: %w", err)
	}
	return reply.Text, nil
}

// acquire cancels the in-flight turn of sessionID, if any, and waits for the
// session lock. The returned release must be called once the turn is done.
func (s *Service) acquire(parent context.Context, sessionID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	g, ok := s.guards[sessionID]
	if !ok {
		g = &turnGuard{}
		s.guards[sessionID] = g
	}
	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	seq := g.seq
	g.cancel = cancel
	s.mu.Unlock()

	g.mu.Lock()
	return ctx, func() {
		g.mu.Unlock()
		s.mu.Lock()
		if g.seq == seq {
			g.cancel = nil
			delete(s.guards, sessionID)
		}
		s.mu.Unlock()
		cancel()
	}
}

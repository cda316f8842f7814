// README: Session store backed by Redis lists (one JSON-encoded turn per element).
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const turnsKeyPrefix = "conversation:session:%s:turns"

type RedisStore struct {
	redis *redis.Client
	// ttl is refreshed on every write; zero disables expiry.
	ttl time.Duration
}

func NewRedisStore(redis *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: redis, ttl: ttl}
}

func (s *RedisStore) CreateSession(ctx context.Context, sessionID string, seed Turn) error {
	raw, err := json.Marshal(seed)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}
	key := turnsKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, raw)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// appendScript pushes ARGV[1] only when the list exists and refreshes its
// expiry (ARGV[2] milliseconds, 0 keeps none). Returns 0 for a missing list.
var appendScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("RPUSH", KEYS[1], ARGV[1])
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call("PEXPIRE", KEYS[1], ttl)
end
return 1
`)

func (s *RedisStore) Append(ctx context.Context, sessionID string, t Turn) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}
	ok, err := appendScript.Run(ctx, s.redis, []string{turnsKey(sessionID)}, raw, s.ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if ok == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	return s.lrange(ctx, sessionID, 0, -1)
}

func (s *RedisStore) Recent(ctx context.Context, sessionID string, n int) ([]Turn, error) {
	if n <= 0 {
		return s.History(ctx, sessionID)
	}
	return s.lrange(ctx, sessionID, int64(-n), -1)
}

// lrange treats an empty result as a missing session: every session holds
// at least its seed turn.
func (s *RedisStore) lrange(ctx context.Context, sessionID string, start, stop int64) ([]Turn, error) {
	vals, err := s.redis.LRange(ctx, turnsKey(sessionID), start, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrSessionNotFound
	}
	turns := make([]Turn, len(vals))
	for i, v := range vals {
		if err := json.Unmarshal([]byte(v), &turns[i]); err != nil {
			return nil, fmt.Errorf("decode turn %d: %w", i, err)
		}
	}
	return turns, nil
}

func turnsKey(sessionID string) string {
	return fmt.Sprintf(turnsKeyPrefix, sessionID)
}

// README: Session store backed by PostgreSQL (conversation_sessions + conversation_turns).
package conversation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateSession(ctx context.Context, sessionID string, seed Turn) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO conversation_sessions (id, created_at) VALUES ($1, $2)
	`, sessionID, seed.CreatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO conversation_turns (session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
	`, sessionID, string(seed.Role), seed.Content, seed.CreatedAt); err != nil {
		return fmt.Errorf("insert seed turn: %w", err)
	}
	return tx.Commit(ctx)
}

// Append inserts the turn only when the session exists; 0 affected rows
// means ErrSessionNotFound.
func (s *PostgresStore) Append(ctx context.Context, sessionID string, t Turn) error {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO conversation_turns (session_id, role, content, created_at)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM conversation_sessions WHERE id = $1)
	`, sessionID, string(t.Role), t.Content, t.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.Query(ctx, `
		SELECT role, content, created_at
		FROM conversation_turns
		WHERE session_id = $1
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	return collectTurns(rows)
}

func (s *PostgresStore) Recent(ctx context.Context, sessionID string, n int) ([]Turn, error) {
	if n <= 0 {
		return s.History(ctx, sessionID)
	}
	rows, err := s.db.Query(ctx, `
		SELECT role, content, created_at FROM (
			SELECT id, role, content, created_at
			FROM conversation_turns
			WHERE session_id = $1
			ORDER BY id DESC
			LIMIT $2
		) recent
		ORDER BY id ASC
	`, sessionID, n)
	if err != nil {
		return nil, err
	}
	return collectTurns(rows)
}

// collectTurns treats zero rows as a missing session: every session holds
// at least its seed turn.
func collectTurns(rows pgx.Rows) ([]Turn, error) {
	defer rows.Close()
	var turns []Turn
	for rows.Next() {
		var t Turn
		var role string
		if err := rows.Scan(&role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Role = Role(role)
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, ErrSessionNotFound
	}
	return turns, nil
}

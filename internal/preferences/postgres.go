package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Preferences, error) {
	const query = `SELECT language FROM user_preferences WHERE user_id = $1`

	var prefs Preferences
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&prefs.Language); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Preferences{}, ErrNotFound
		}
		return Preferences{}, fmt.Errorf("select preferences: %w", err)
	}
	return prefs, nil
}

func (s *PostgresStore) Put(ctx context.Context, userID string, prefs Preferences) error {
	const query = `
		INSERT INTO user_preferences (user_id, language, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			language = EXCLUDED.language,
			updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, userID, prefs.Language); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

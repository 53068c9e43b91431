package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"smartchat/internal/domain/entity"
)

type PostgresLogStore struct {
	pool *pgxpool.Pool
}

func NewPostgresLogStore(pool *pgxpool.Pool) *PostgresLogStore {
	return &PostgresLogStore{pool: pool}
}

func (s *PostgresLogStore) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS chat_logs (
            id BIGSERIAL PRIMARY KEY,
            question TEXT NOT NULL,
            answer TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	return err
}

func (s *PostgresLogStore) Append(ctx context.Context, question, answer string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_logs (question, answer, created_at) VALUES ($1, $2, now())`,
		question, answer,
	)
	return err
}

// List returns one page of entries, newest first, along with the total row
// count for the pagination controls.
func (s *PostgresLogStore) List(ctx context.Context, page, perPage int) ([]entity.ChatLogEntry, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(id) FROM chat_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, question, answer, created_at
         FROM chat_logs
         ORDER BY created_at DESC
         LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := []entity.ChatLogEntry{}
	for rows.Next() {
		var e entity.ChatLogEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		logs = append(logs, e)
	}
	return logs, total, rows.Err()
}

func (s *PostgresLogStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chat_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrLogNotFound
	}
	return nil
}

func (s *PostgresLogStore) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	tag, err := s.pool.Exec(ctx, `DELETE FROM chat_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSettingsStore is a namespaced key-value table for the
// admin-editable configuration. The chatbot namespace holds this service's
// own settings; the companion Smart Search deployment writes its credentials
// under its own namespace.
type PostgresSettingsStore struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsStore(pool *pgxpool.Pool) *PostgresSettingsStore {
	return &PostgresSettingsStore{pool: pool}
}

func (s *PostgresSettingsStore) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS chat_settings (
            namespace TEXT NOT NULL,
            key TEXT NOT NULL,
            value TEXT NOT NULL,
            PRIMARY KEY (namespace, key)
        )
    `)
	return err
}

func (s *PostgresSettingsStore) Load(ctx context.Context, namespace string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value FROM chat_settings WHERE namespace = $1`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}

func (s *PostgresSettingsStore) Save(ctx context.Context, namespace string, values map[string]string) error {
	for key, value := range values {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO chat_settings (namespace, key, value)
             VALUES ($1, $2, $3)
             ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value`,
			namespace, key, value,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

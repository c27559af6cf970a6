package postgres

import (
	"context"
	"fmt"

	"github.com/bhanu79755/Shopbuy/internal/repository"
	"github.com/bhanu79755/Shopbuy/pkg/database"
)

// Pool is the connection surface the store needs.
type Pool interface {
	database.DBTX
	Ping(ctx context.Context) error
}

// OverrideStore keeps image overrides in the product_image_overrides table,
// keyed the same way as the Redis backend.
type OverrideStore struct {
	pool Pool
}

func NewOverrideStore(pool Pool) *OverrideStore {
	return &OverrideStore{pool: pool}
}

func (s *OverrideStore) GetMany(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = repository.OverrideKey(id)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT key, value FROM product_image_overrides WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("query image overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan image override: %w", err)
		}
		if id, ok := repository.ParseOverrideKey(key); ok {
			out[id] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate image overrides: %w", err)
	}
	return out, nil
}

func (s *OverrideStore) Set(ctx context.Context, productID int64, image string) error {
	query := `
		INSERT INTO product_image_overrides (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, repository.OverrideKey(productID), image); err != nil {
		return fmt.Errorf("upsert image override: %w", err)
	}
	return nil
}

func (s *OverrideStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bhanu79755/Shopbuy/internal/repository"
)

// OverrideStore keeps image overrides as plain string keys without expiry.
type OverrideStore struct {
	client redis.UniversalClient
}

func NewOverrideStore(client redis.UniversalClient) *OverrideStore {
	return &OverrideStore{client: client}
}

// GetMany fetches every requested key in one MGET.
func (s *OverrideStore) GetMany(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = repository.OverrideKey(id)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget image overrides: %w", err)
	}
	for i, v := range vals {
		if img, ok := v.(string); ok && img != "" {
			out[ids[i]] = img
		}
	}
	return out, nil
}

func (s *OverrideStore) Set(ctx context.Context, productID int64, image string) error {
	if err := s.client.Set(ctx, repository.OverrideKey(productID), image, 0).Err(); err != nil {
		return fmt.Errorf("redis set image override: %w", err)
	}
	return nil
}

func (s *OverrideStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

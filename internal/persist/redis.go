package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

const (
	// VisitTTL is how long the first-visit flag stays live.
	VisitTTL = 30 * time.Minute

	stateBaseTTL = 24 * time.Hour
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) SaveState(ctx context.Context, sessionID string, state *domain.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Minute
	if err := r.client.Set(ctx, stateKey(sessionID), data, stateBaseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadState(ctx context.Context, sessionID string) (*domain.CartState, error) {
	data, err := r.client.Get(ctx, stateKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var state domain.CartState
	if err2 := json.Unmarshal(data, &state); err2 != nil {
		return nil, fmt.Errorf("unmarshal session state failed: %w", err2)
	}
	return &state, nil
}

func (r *RedisStore) MarkVisited(ctx context.Context, sessionID string) error {
	if err := r.client.Set(ctx, visitKey(sessionID), "1", VisitTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) SeenRecently(ctx context.Context, sessionID string) (bool, error) {
	_, err := r.client.Get(ctx, visitKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	return true, nil
}

func stateKey(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

func visitKey(sessionID string) string {
	return fmt.Sprintf("session:%s:visited", sessionID)
}

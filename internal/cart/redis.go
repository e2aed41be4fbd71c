package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// cartKeyPrefix mirrors the fixed storage key the web client used for its
// local cart snapshot.
const cartKeyPrefix = "canteen_cart:"

// Carts are abandoned eventually; a day is generous for a canteen.
const cartTTL = 24 * time.Hour

// RedisStore persists cart snapshots in Redis, JSON-serialized under a
// fixed key prefix.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) ([]Item, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", sessionID, err)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	return items, nil
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", sessionID, err)
	}
	if err := r.client.Set(ctx, cartKeyPrefix+sessionID, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", sessionID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", sessionID, err)
	}
	return nil
}

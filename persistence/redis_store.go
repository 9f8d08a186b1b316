package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"square-mapper/models"
)

// RedisStore keeps each snapshot as JSON under "map:<name>". Saves take a
// distributed lock so several editor processes write in turn.
type RedisStore struct {
	client *redis.Client
	locker *redsync.Redsync
}

// NewRedisStore connects to addr and verifies the connection
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	pool := goredis.NewPool(client)
	return &RedisStore{
		client: client,
		locker: redsync.New(pool),
	}
}

func mapKey(name string) string {
	return "map:" + name
}

// SaveMap writes the snapshot under the map's lock
func (rs *RedisStore) SaveMap(name string, snapshot *models.MapSnapshot) error {
	if err := ValidateName(name); err != nil {
		return failure("save", name, err)
	}

	stored := *snapshot
	stored.Name = name
	data, err := json.Marshal(&stored)
	if err != nil {
		return failure("save", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	mutex := rs.locker.NewMutex(mapKey(name) + ":lock")
	if err := mutex.LockContext(ctx); err != nil {
		return failure("lock", name, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	if err := rs.client.Set(ctx, mapKey(name), data, 0).Err(); err != nil {
		return failure("save", name, err)
	}
	return nil
}

// LoadMap reads a snapshot back
func (rs *RedisStore) LoadMap(name string) (*models.MapSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	data, err := rs.client.Get(ctx, mapKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(name)
		}
		return nil, failure("load", name, err)
	}

	var snapshot models.MapSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, failure("load", name, err)
	}
	return &snapshot, nil
}

// Close closes the redis client
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

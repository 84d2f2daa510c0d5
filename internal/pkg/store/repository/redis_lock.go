package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKeyPrefix = "consistency-checker:run:"

// RedisRunLock is an advisory lock keyed per routine. The TTL bounds how
// long a crashed run can block the next one.
type RedisRunLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRunLock(client *redis.Client, ttl time.Duration) *RedisRunLock {
	return &RedisRunLock{client: client, ttl: ttl}
}

func runLockKey(routine string) string {
	return fmt.Sprintf("%s%s", runLockKeyPrefix, routine)
}

func (l *RedisRunLock) Acquire(ctx context.Context, routine string) (bool, error) {
	return l.client.SetNX(ctx, runLockKey(routine), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
}

func (l *RedisRunLock) Release(ctx context.Context, routine string) error {
	return l.client.Del(ctx, runLockKey(routine)).Err()
}

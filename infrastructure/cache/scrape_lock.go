package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"imospy/domain/repository"
)

// releaseScript deletes the key only when it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
  return redis.call('del', KEYS[1])
else
  return 0
end
`)

// ScrapeLock is a Redis SETNX lock. With a nil client every lock succeeds.
type ScrapeLock struct {
	client redis.UniversalClient
	tokens sync.Map
}

func NewScrapeLock(client redis.UniversalClient) repository.IScrapeLock {
	return &ScrapeLock{client: client}
}

func (l *ScrapeLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if l.client == nil {
		return true, nil
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		l.tokens.Store(key, token)
	}
	return ok, nil
}

func (l *ScrapeLock) Unlock(ctx context.Context, key string) error {
	if l.client == nil {
		return nil
	}
	token, ok := l.tokens.LoadAndDelete(key)
	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}

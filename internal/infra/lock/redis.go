package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goRedis "github.com/redis/go-redis/v9"
)

// releaseScript só apaga a chave se o valor ainda for o token do dono.
var releaseScript = goRedis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *goRedis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
}

// NewRedis cria um Locker com SET NX PX. ttl protege contra donos que morrem
// sem liberar a chave.
func NewRedis(client *goRedis.Client, prefix string) Locker {
	return &redisLocker{client: client, prefix: prefix, ttl: defaultTTL, wait: defaultWait}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("redis lock %s: %w", fullKey, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = releaseScript.Run(releaseCtx, l.client, []string{fullKey}, token).Err()
				})
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, fullKey)
		case <-time.After(retryBackoff):
		}
	}
}

package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	redisKeyPrefix = "partition_lock:"
	redisRetry     = 25 * time.Millisecond
)

// Снимаем блокировку, только если она всё ещё наша.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker — распределённая блокировка на SET NX PX.
// Нужна, когда несколько экземпляров сервиса работают с одной базой без advisory-блокировок.
type RedisLocker struct {
	client  redis.UniversalClient
	timeout time.Duration
	ttl     time.Duration
}

func NewRedisLocker(client redis.UniversalClient, timeout time.Duration) *RedisLocker {
	return &RedisLocker{
		client:  client,
		timeout: timeout,
		// ttl страхует от упавшего процесса, который не успел снять блокировку
		ttl: 6 * timeout,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, _ *gorm.DB, keys []string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	token := uuid.NewString()
	var held []string
	release := func() {
		// контекст запроса к этому моменту может быть уже отменён
		rctx, rcancel := context.WithTimeout(context.Background(), l.timeout)
		defer rcancel()
		for _, k := range held {
			_ = unlockScript.Run(rctx, l.client, []string{k}, token).Err()
		}
	}

	for _, k := range normalize(keys) {
		key := redisKeyPrefix + k
		for {
			ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
			if err != nil {
				release()
				if ctx.Err() != nil {
					return nil, fmt.Errorf("%w: %s", ErrTimeout, k)
				}
				return nil, fmt.Errorf("redis lock %s: %w", k, err)
			}
			if ok {
				held = append(held, key)
				break
			}

			select {
			case <-ctx.Done():
				release()
				return nil, fmt.Errorf("%w: %s", ErrTimeout, k)
			case <-time.After(redisRetry):
			}
		}
	}
	return release, nil
}

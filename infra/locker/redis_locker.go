package locker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

// deletes the key only when it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extends the key only when it still holds our token
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker shares the run lock between service instances. The key carries
// a ttl so a crashed holder cannot block other instances forever; while the
// holder is alive the lease is renewed every ttl/3, so a run longer than the
// ttl keeps the lock.
type RedisLocker struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration

	mu     sync.Mutex
	leases map[string]*lease
}

type lease struct {
	token string
	stop  chan struct{}
	done  chan struct{}
}

func NewRedisLocker(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisLocker {
	if keyPrefix == "" {
		keyPrefix = "lock:"
	}
	return &RedisLocker{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		leases:    make(map[string]*lease),
	}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	ls := &lease{token: token, stop: make(chan struct{}), done: make(chan struct{})}
	l.mu.Lock()
	l.leases[key] = ls
	l.mu.Unlock()

	if l.ttl > 0 {
		go l.keepAlive(key, ls)
	} else {
		close(ls.done)
	}
	return true, nil
}

func (l *RedisLocker) keepAlive(key string, ls *lease) {
	defer close(ls.done)

	interval := l.ttl / 3
	if interval <= 0 {
		interval = l.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ls.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			renewed, err := renewScript.Run(ctx, l.client, []string{l.keyPrefix + key}, ls.token, l.ttl.Milliseconds()).Int()
			cancel()
			if err != nil {
				log.Errorf("[RedisLocker] Failed to renew lock %s: %v", key, err)
				continue
			}
			if renewed == 0 {
				log.Errorf("[RedisLocker] Lock %s is no longer ours, stopping renewal", key)
				return
			}
		}
	}
}

func (l *RedisLocker) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	ls, ok := l.leases[key]
	delete(l.leases, key)
	l.mu.Unlock()

	if !ok {
		return nil
	}
	close(ls.stop)
	<-ls.done

	if err := unlockScript.Run(ctx, l.client, []string{l.keyPrefix + key}, ls.token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}

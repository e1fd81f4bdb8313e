// locker/locker.go
package locker

import (
	"context"
	"sync"
)

// RunLocker serializes reconciliation runs. TryLock never blocks: it reports
// false when the key is already held. A held key stays held until the holder
// unlocks it.
type RunLocker interface {
	TryLock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Locker is the single-instance RunLocker. Keys never expire: the holder is
// always in this process and releases with a deferred Unlock.
type Locker struct {
	mu           sync.Mutex
	inProcessMap map[string]struct{}
}

func New() *Locker {
	return &Locker{
		inProcessMap: make(map[string]struct{}),
	}
}

func (l *Locker) TryLock(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.inProcessMap[key]; ok {
		return false, nil
	}
	l.inProcessMap[key] = struct{}{}
	return true, nil
}

// IsProcessing checks if a key is currently held.
func (l *Locker) IsProcessing(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.inProcessMap[key]
	return ok
}

func (l *Locker) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inProcessMap, key)
	return nil
}

var (
	_ RunLocker = (*Locker)(nil)
	_ RunLocker = (*RedisLocker)(nil)
)

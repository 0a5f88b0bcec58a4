package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Lock is a best-effort cross-process marker.
type Lock struct {
	r     *Redis
	key   string
	token string
}

// TryLock attempts to take key for ttl. When Redis is unavailable locking is skipped and the
// caller proceeds as if it held the lock.
func (r *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (*Lock, bool) {
	if !r.Available() {
		return &Lock{}, true
	}
	token := uuid.NewString()
	ok, err := r.SetIfNotExists(ctx, key, token, ttl)
	if err != nil {
		return &Lock{}, true
	}
	if !ok {
		return nil, false
	}
	return &Lock{r: r, key: key, token: token}, true
}

func (l *Lock) Release(ctx context.Context) {
	if l == nil || l.r == nil || !l.r.Available() {
		return
	}
	if err := releaseScript.Run(ctx, l.r.client, []string{l.key}, l.token).Err(); err != nil {
		l.r.warnUnavailableOnce(err)
	}
}

// Acquire adapts TryLock to a release callback.
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool) {
	lock, ok := r.TryLock(ctx, key, ttl)
	if !ok {
		return nil, false
	}
	return func() { lock.Release(context.Background()) }, true
}

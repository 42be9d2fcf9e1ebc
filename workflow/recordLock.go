package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"github.com/bsm/redislock"
)

// RecordLocker serializes mutations per record id. Obtain waits at most the
// given duration for the exclusive section and fails with utils.ErrorBusy on
// expiry so callers get a retryable error instead of hanging. Evict releases
// the arena slot once a record is terminal and can no longer be mutated.
type RecordLocker interface {
	Obtain(ctx context.Context, recordId int, wait time.Duration) (release func(), err error)
	Evict(recordId int)
}

// MemoryLocker is the in-process arena: one semaphore per record id, created
// on first access.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[int]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: map[int]chan struct{}{}}
}

func (l *MemoryLocker) slot(recordId int) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := l.slots[recordId]
	if ch == nil {
		ch = make(chan struct{}, 1)
		l.slots[recordId] = ch
	}
	return ch
}

func (l *MemoryLocker) Obtain(ctx context.Context, recordId int, wait time.Duration) (func(), error) {
	ch := l.slot(recordId)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, utils.ErrorBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Evict drops the slot for a terminal record. A waiter still parked on the old
// semaphore can race a fresh Obtain, but every mutation on a terminal record
// fails its legality check after load, so the lost exclusivity is harmless.
func (l *MemoryLocker) Evict(recordId int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.slots, recordId)
}

// RedisLocker serializes record mutations across instances via redislock.
type RedisLocker struct {
	Locker *redislock.Client
	// TTL bounds how long a crashed holder can block others.
	TTL time.Duration
}

func recordLockKey(recordId int) string {
	return fmt.Sprintf("ServiceRecordLock:%d", recordId)
}

func (l *RedisLocker) Obtain(ctx context.Context, recordId int, wait time.Duration) (func(), error) {
	ttl := l.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	backoff := 100 * time.Millisecond
	retries := int(wait / backoff)
	lock, err := l.Locker.Obtain(ctx, recordLockKey(recordId), ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(backoff), retries),
	})
	if err == redislock.ErrNotObtained {
		return nil, utils.ErrorBusy
	} else if err != nil {
		return nil, err
	}
	return func() { _ = lock.Release(ctx) }, nil
}

// Evict is a no-op: redis keys expire with the lock TTL.
func (l *RedisLocker) Evict(recordId int) {}

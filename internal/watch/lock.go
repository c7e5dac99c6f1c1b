package watch

import "sync/atomic"

// ReloadLock provides non-blocking lock semantics using atomic operations.
// A reload that finds the lock taken is skipped rather than queued.
type ReloadLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire attempts to acquire the lock without blocking.
// Returns true if the lock was successfully acquired, false otherwise.
func (l *ReloadLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release releases the lock.
// Must only be called by the goroutine that successfully acquired the lock.
func (l *ReloadLock) Release() {
	l.state.Store(0)
}

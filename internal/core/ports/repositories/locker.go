package repositories

import "context"

// DocumentLocker is a process-external lock taken around payment operations
// when several application instances share one store.
type DocumentLocker interface {
	// Acquire blocks until the lock for key is held or ctx is done. The
	// returned release function must be called exactly once.
	Acquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

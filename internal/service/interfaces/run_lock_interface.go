package interfaces

import "context"

// RunLockInterface guards a routine against concurrent executions. Acquire
// returns false when another run already holds the lock.
type RunLockInterface interface {
	Acquire(ctx context.Context, routine string) (bool, error)
	Release(ctx context.Context, routine string) error
}

package repositories

import "context"

// UnitOfWork executes a function within a single storage transaction scope.
// Every repository call made with the context passed to fn joins that
// transaction; fn returning an error rolls the whole unit back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

package keypager

import "context"

// Store is the data layer a Pager runs its queries against.
//
// Find returns at most limit records matching where, ordered by sort.
// Count returns the exact number of records matching where.
// Both must honor ctx; their errors are returned to the caller of Paginate
// unchanged.
type Store[T any] interface {
	Find(ctx context.Context, where Where, sort Orderings, limit int) ([]T, error)
	Count(ctx context.Context, where Where) (int64, error)
}

// StoreFuncs adapts a pair of functions to Store. Handy for raw database/sql
// queries built with Where.ToSQL and Orderings.ToSQL.
type StoreFuncs[T any] struct {
	FindFunc  func(ctx context.Context, where Where, sort Orderings, limit int) ([]T, error)
	CountFunc func(ctx context.Context, where Where) (int64, error)
}

func (s StoreFuncs[T]) Find(ctx context.Context, where Where, sort Orderings, limit int) ([]T, error) {
	return s.FindFunc(ctx, where, sort, limit)
}

func (s StoreFuncs[T]) Count(ctx context.Context, where Where) (int64, error) {
	return s.CountFunc(ctx, where)
}

var _ Store[struct{}] = StoreFuncs[struct{}]{}

package keypager

import (
	"context"

	"gorm.io/gorm"
)

// GORMStore runs pagination queries through gorm.
//
// The base dataset is the *gorm.DB passed to NewGORMStore with its table or
// model and any scopes already applied:
//
//	store := keypager.NewGORMStore[User](db.Model(&User{}).Where("deleted_at IS NULL"))
type GORMStore[T any] struct {
	db *gorm.DB
}

// NewGORMStore wraps db into a new session so that every query starts from
// the same statement.
func NewGORMStore[T any](db *gorm.DB) *GORMStore[T] {
	return &GORMStore[T]{
		db: db.Session(&gorm.Session{}),
	}
}

// Find - implements Store.
func (s *GORMStore[T]) Find(ctx context.Context, where Where, sort Orderings, limit int) ([]T, error) {
	var ret []T

	err := sort.Apply(s.scoped(ctx, where)).
		Limit(limit).
		Find(&ret).
		Error
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// Count - implements Store.
func (s *GORMStore[T]) Count(ctx context.Context, where Where) (int64, error) {
	var count int64

	err := s.scoped(ctx, where).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// scoped applies the filter to a fresh statement.
func (s *GORMStore[T]) scoped(ctx context.Context, where Where) *gorm.DB {
	db := s.db.WithContext(ctx)
	if db.Statement.Model == nil && db.Statement.Table == "" {
		db = db.Model(new(T))
	}

	exp := where.toGORMExpression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

var _ Store[struct{}] = (*GORMStore[struct{}])(nil)

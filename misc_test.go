package keypager

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

type tRecord struct {
	ID        string
	Score     int
	CreatedAt time.Time
}

var tRecordGetters = Getters[tRecord]{
	"id":         func(r tRecord) any { return r.ID },
	"score":      func(r tRecord) any { return r.Score },
	"created_at": func(r tRecord) any { return r.CreatedAt },
}

// hexKey returns the i-th ObjectID-shaped key; keys sort in creation order.
func hexKey(i int) string {
	return fmt.Sprintf("%024x", i)
}

var _baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newRecords returns n records k1..kn created one minute apart. score maps a
// record index to its score.
func newRecords(n int, score func(i int) int) []tRecord {
	ret := make([]tRecord, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, tRecord{
			ID:        hexKey(i),
			Score:     score(i),
			CreatedAt: _baseTime.Add(time.Duration(i) * time.Minute),
		})
	}

	return ret
}

func newRecordPager(store Store[tRecord]) *Pager[tRecord] {
	return New(store, tRecordGetters).
		WithKeyColumn("id").
		WithKeys(ObjectIDHexKeys).
		WithParser("score", ParseInt64).
		WithParser("created_at", ParseTime)
}

func recordIDs(records []tRecord) []string {
	ret := make([]string, 0, len(records))
	for _, r := range records {
		ret = append(ret, r.ID)
	}

	return ret
}

// memStore is an in-memory Store evaluating Where and Orderings over the
// values returned by getters.
type memStore[T any] struct {
	mu      sync.Mutex
	records []T
	getters Getters[T]

	findErr  error
	countErr error

	finds     int
	counts    int
	lastWhere Where
	lastSort  Orderings
	lastLimit int
}

func newMemStore[T any](records []T, getters Getters[T]) *memStore[T] {
	return &memStore[T]{records: records, getters: getters}
}

func (s *memStore[T]) Find(ctx context.Context, where Where, sort Orderings, limit int) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finds++
	s.lastWhere, s.lastSort, s.lastLimit = where, sort, limit
	if s.findErr != nil {
		return nil, s.findErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := s.match(where)
	slices.SortStableFunc(matched, func(a, b T) int {
		for _, o := range sort {
			c := compareValues(s.getters[o.Column](a), s.getters[o.Column](b))
			if c == 0 {
				continue
			}
			if o.Direction == DirectionDESC {
				return -c
			}

			return c
		}

		return 0
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

func (s *memStore[T]) Count(ctx context.Context, where Where) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts++
	if s.countErr != nil {
		return 0, s.countErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return int64(len(s.match(where))), nil
}

func (s *memStore[T]) match(where Where) []T {
	var ret []T
	for _, r := range s.records {
		if s.matchOne(r, where) {
			ret = append(ret, r)
		}
	}

	return ret
}

func (s *memStore[T]) matchOne(r T, where Where) bool {
	if where.isTrue() {
		return true
	}

	for _, conj := range where {
		ok := true
		for _, cond := range conj {
			if !evalCondition(s.getters[cond.Column](r), cond.Operator, cond.Value) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}

	return false
}

func evalCondition(field any, op Operator, value any) bool {
	c := compareValues(field, value)
	switch op {
	case OperatorLT:
		return c < 0
	case OperatorGT:
		return c > 0
	case OperatorLTE:
		return c <= 0
	case OperatorGTE:
		return c >= 0
	case OperatorNE:
		return c != 0
	default:
		return c == 0
	}
}

func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	switch at := a.(type) {
	case time.Time:
		return at.Compare(b.(time.Time))
	case primitive.ObjectID:
		bt := b.(primitive.ObjectID)
		return bytes.Compare(at[:], bt[:])
	case string:
		switch bt := b.(type) {
		case string:
			return compareStrings(at, bt)
		case primitive.ObjectID:
			return compareStrings(at, bt.Hex())
		}
	}

	panic(fmt.Sprintf("cannot compare %T with %T", a, b))
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch vt := v.(type) {
	case int:
		return float64(vt), true
	case int32:
		return float64(vt), true
	case int64:
		return float64(vt), true
	case float64:
		return vt, true
	default:
		return 0, false
	}
}

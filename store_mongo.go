package keypager

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore runs pagination queries against a MongoDB collection. Records
// are decoded into T with the bson codec.
type MongoStore[T any] struct {
	coll *mongo.Collection
	base bson.D
}

// NewMongoStore returns a store over coll. base is an optional native
// filter ANDed with every query, e.g. bson.D{{Key: "country", Value: "NL"}}.
func NewMongoStore[T any](coll *mongo.Collection, base bson.D) *MongoStore[T] {
	return &MongoStore[T]{
		coll: coll,
		base: base,
	}
}

// Find - implements Store.
func (s *MongoStore[T]) Find(ctx context.Context, where Where, sort Orderings, limit int) ([]T, error) {
	opts := options.Find().
		SetSort(sort.ToBSON()).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, s.filter(where), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ret := make([]T, 0, limit)
	if err = cursor.All(ctx, &ret); err != nil {
		return nil, err
	}

	return ret, nil
}

// Count - implements Store.
func (s *MongoStore[T]) Count(ctx context.Context, where Where) (int64, error) {
	return s.coll.CountDocuments(ctx, s.filter(where))
}

func (s *MongoStore[T]) filter(where Where) bson.D {
	filter := where.ToBSON()
	if len(s.base) == 0 {
		return filter
	}
	if len(filter) == 0 {
		return s.base
	}

	return bson.D{{Key: "$and", Value: bson.A{s.base, filter}}}
}

var _ Store[struct{}] = (*MongoStore[struct{}])(nil)

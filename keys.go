package keypager

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KeyFormat describes the store-native primary key.
//
// Parse validates the textual key carried by a cursor and converts it to the
// value compared against the key column. Format turns a key read from a
// record into the canonical text stored in a cursor.
type KeyFormat interface {
	Parse(s string) (any, error)
	Format(v any) (string, error)
}

var (
	// ObjectIDKeys - MongoDB ObjectID keys compared as primitive.ObjectID.
	ObjectIDKeys KeyFormat = objectIDKeys{native: true}
	// ObjectIDHexKeys - ObjectID keys stored as 24 lowercase hex characters,
	// e.g. CHAR(24) columns in SQL stores.
	ObjectIDHexKeys KeyFormat = objectIDKeys{native: false}
	// UUIDKeys - canonical 36 character UUID keys compared as uuid.UUID.
	UUIDKeys KeyFormat = uuidKeys{}
)

type objectIDKeys struct {
	native bool
}

func (k objectIDKeys) Parse(s string) (any, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' is not an object id: %w", ErrInvalidKey, s, err)
	}

	if k.native {
		return oid, nil
	}

	return oid.Hex(), nil
}

func (k objectIDKeys) Format(v any) (string, error) {
	switch vt := v.(type) {
	case primitive.ObjectID:
		return vt.Hex(), nil
	case *primitive.ObjectID:
		if vt == nil {
			break
		}

		return vt.Hex(), nil
	case string:
		oid, err := primitive.ObjectIDFromHex(vt)
		if err != nil {
			return "", fmt.Errorf("%w: '%s' is not an object id: %w", ErrInvalidKey, vt, err)
		}

		return oid.Hex(), nil
	}

	return "", fmt.Errorf("%w: cannot format %T as object id", ErrInvalidKey, v)
}

type uuidKeys struct{}

func (uuidKeys) Parse(s string) (any, error) {
	if len(s) != 36 {
		return nil, fmt.Errorf("%w: '%s' is not a canonical uuid", ErrInvalidKey, s)
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' is not a uuid: %w", ErrInvalidKey, s, err)
	}

	return id, nil
}

func (uuidKeys) Format(v any) (string, error) {
	switch vt := v.(type) {
	case uuid.UUID:
		return vt.String(), nil
	case *uuid.UUID:
		if vt == nil {
			break
		}

		return vt.String(), nil
	case string:
		id, err := uuid.Parse(vt)
		if err != nil {
			return "", fmt.Errorf("%w: '%s' is not a uuid: %w", ErrInvalidKey, vt, err)
		}

		return id.String(), nil
	}

	return "", fmt.Errorf("%w: cannot format %T as uuid", ErrInvalidKey, v)
}

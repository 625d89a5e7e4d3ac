package keypager

import (
	"encoding"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValueParser maps the textual secondary sort value stored in a cursor back
// to the native value compared against the sort column.
type ValueParser func(v string) (any, error)

// ParseString keeps the cursor value as is.
func ParseString(v string) (any, error) {
	return v, nil
}

// ParseTime parses RFC 3339 timestamps with optional fractional seconds.
func ParseTime(v string) (any, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, fmt.Errorf("cannot parse time value '%s': %w", v, err)
	}

	return t, nil
}

// ParseInt64 parses base 10 integers into int64.
func ParseInt64(v string) (any, error) {
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse integer value '%s': %w", v, err)
	}

	return i, nil
}

// ParseFloat64 parses decimal and exponent notation into float64.
func ParseFloat64(v string) (any, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse float value '%s': %w", v, err)
	}

	return f, nil
}

// ParseObjectID is meant for secondary columns referencing other documents.
func ParseObjectID(v string) (any, error) {
	return ObjectIDKeys.Parse(v)
}

// defaultParser picks the parser matching the Go type of a sort column value,
// so that cursor values compare against columns of the same type. Nil is
// returned for types it does not know.
func defaultParser(sample any) ValueParser {
	switch sample.(type) {
	case string, []byte:
		return ParseString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ParseInt64
	case float32, float64:
		return ParseFloat64
	case time.Time, *time.Time, primitive.DateTime:
		return ParseTime
	case primitive.ObjectID:
		return ParseObjectID
	default:
		return nil
	}
}

// parseAnyValue is the fallback used when no ValueParser is registered for
// the sort column and none can be picked from its type.
func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}

// stringifyValue renders a record value for the "v" part of a cursor.
// Timestamps are normalized to UTC so that equal instants share one text.
func stringifyValue(v any) (string, error) {
	switch vt := v.(type) {
	case nil:
		return "", fmt.Errorf("cannot stringify nil sort value")
	case string:
		return vt, nil
	case []byte:
		return string(vt), nil
	case time.Time:
		return vt.UTC().Format(time.RFC3339Nano), nil
	case *time.Time:
		if vt == nil {
			return "", fmt.Errorf("cannot stringify nil sort value")
		}

		return vt.UTC().Format(time.RFC3339Nano), nil
	case primitive.DateTime:
		return vt.Time().UTC().Format(time.RFC3339Nano), nil
	case primitive.ObjectID:
		return vt.Hex(), nil
	case int:
		return strconv.Itoa(vt), nil
	case int8:
		return strconv.FormatInt(int64(vt), 10), nil
	case int16:
		return strconv.FormatInt(int64(vt), 10), nil
	case int32:
		return strconv.FormatInt(int64(vt), 10), nil
	case int64:
		return strconv.FormatInt(vt, 10), nil
	case uint:
		return strconv.FormatUint(uint64(vt), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(vt), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(vt), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(vt), 10), nil
	case uint64:
		return strconv.FormatUint(vt, 10), nil
	case float32:
		return strconv.FormatFloat(float64(vt), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(vt, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(vt), nil
	case encoding.TextMarshaler:
		text, err := vt.MarshalText()
		if err != nil {
			return "", fmt.Errorf("cannot stringify sort value: %w", err)
		}

		return string(text), nil
	case fmt.Stringer:
		return vt.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

package keypager

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

var _encoder = base64.RawURLEncoding

// Cursor is a decoded pagination token: the primary key of a boundary record
// and, when the page is sorted by another column, that record's sort value
// rendered as text.
//
// Cursors are obtained from DecodeCursor/ParseCursor or from a Page.
type Cursor struct {
	id       string
	value    string
	hasValue bool
}

// cursorPayload is the wire shape of a cursor. V is a pointer so that an
// empty sort value and an absent one encode differently.
type cursorPayload struct {
	ID string  `json:"id"`
	V  *string `json:"v,omitempty"`
}

func newCursor(id string) *Cursor {
	return &Cursor{id: id}
}

func (c *Cursor) withValue(v string) *Cursor {
	c.value = v
	c.hasValue = true

	return c
}

// ID returns the textual primary key.
func (c *Cursor) ID() string {
	if c == nil {
		return ""
	}

	return c.id
}

// Value returns the textual secondary sort value, if any.
func (c *Cursor) Value() (string, bool) {
	if c == nil {
		return "", false
	}

	return c.value, c.hasValue
}

// ParseCursor decodes a token and validates its key against keys. An empty
// token yields (nil, nil).
func ParseCursor(token string, keys KeyFormat) (*Cursor, error) {
	if len(token) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded cursor: %w", err)
	}

	var payload cursorPayload
	if err = json.Unmarshal(jsonData, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json encoded cursor: %w", err)
	}

	if _, err = keys.Parse(payload.ID); err != nil {
		return nil, fmt.Errorf("cursor key is invalid: %w", err)
	}

	c := newCursor(payload.ID)
	if payload.V != nil {
		c.withValue(*payload.V)
	}

	return c, nil
}

// DecodeCursor is the lenient form of ParseCursor: any malformed or foreign
// token decodes to nil, which callers treat as "no cursor supplied".
func DecodeCursor(token string, keys KeyFormat) *Cursor {
	c, err := ParseCursor(token, keys)
	if err != nil {
		return nil
	}

	return c
}

// String - implements fmt.Stringer. Returns the opaque token.
func (c *Cursor) String() string {
	if c == nil {
		return ""
	}

	payload := cursorPayload{ID: c.id}
	if c.hasValue {
		v := c.value
		payload.V = &v
	}

	jTok, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor value: %w", err))
	}

	return _encoder.EncodeToString(jTok)
}

// IsEmpty reports whether the cursor points nowhere.
func (c *Cursor) IsEmpty() bool {
	return c == nil || c.id == ""
}

// MarshalText - implements encoding.TextMarshaler, so a cursor is rendered as
// its token inside JSON documents.
func (c *Cursor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText - implements encoding.TextUnmarshaler. Only the token
// structure is checked here, the key format is validated when the token is
// decoded for a particular store.
func (c *Cursor) UnmarshalText(text []byte) error {
	parsed, err := ParseCursor(string(text), anyKeys{})
	if err != nil {
		return err
	}

	if parsed == nil {
		*c = Cursor{}
		return nil
	}

	*c = *parsed

	return nil
}

// anyKeys accepts any non-empty key.
type anyKeys struct{}

func (anyKeys) Parse(s string) (any, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	return s, nil
}

func (anyKeys) Format(v any) (string, error) {
	return stringifyValue(v)
}

var (
	_ fmt.Stringer             = (*Cursor)(nil)
	_ encoding.TextMarshaler   = (*Cursor)(nil)
	_ encoding.TextUnmarshaler = (*Cursor)(nil)
)

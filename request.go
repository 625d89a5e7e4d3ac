package keypager

import "fmt"

// Request is a well-formed pagination request.
//
// Zero values are filled with defaults: Limit → DefaultLimit, Order →
// DirectionDESC, SortBy → the pager key column. When both cursors are set
// PrevCursor wins and NextCursor is ignored.
type Request struct {
	Limit      int
	Order      Direction
	SortBy     string
	NextCursor string
	PrevCursor string
}

// Mode returns the traversal mode requested by r.
func (r Request) Mode() Mode {
	switch {
	case r.PrevCursor != "":
		return ModeBackward
	case r.NextCursor != "":
		return ModeForward
	default:
		return ModeInitial
	}
}

// token returns the cursor token relevant for the traversal mode.
func (r Request) token() string {
	if r.PrevCursor != "" {
		return r.PrevCursor
	}

	return r.NextCursor
}

func (r Request) withDefaults(keyColumn string) Request {
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Order == "" {
		r.Order = DirectionDESC
	}
	if r.SortBy == "" {
		r.SortBy = keyColumn
	}

	return r
}

func (r Request) validate() error {
	if err := ValidateLimit(r.Limit); err != nil {
		return err
	}
	if !r.Order.Valid() {
		return fmt.Errorf("%w: '%s'", ErrInvalidOrder, r.Order)
	}

	return nil
}

// RawRequest is intended for API payloads and query strings. For proper code
// generation, inline it:
//
//	type ListUsersRequest struct {
//	    Paging keypager.RawRequest `json:",inline"`
//	}
type RawRequest struct {
	// Limit - maximum number of records to return. Nil means DefaultLimit.
	Limit *int `json:"limit,omitempty" form:"limit"`
	// Order - "asc" or "desc", any letter case. Empty means descending.
	Order string `json:"order,omitempty" form:"order"`
	// SortBy - external alias of the sort column. Empty means the primary key.
	SortBy string `json:"sortBy,omitempty" form:"sortBy"`
	// NextCursor - token obtained from Page.NextCursor.
	NextCursor string `json:"nextCursor,omitempty" form:"nextCursor"`
	// PrevCursor - token obtained from Page.PrevCursor.
	PrevCursor string `json:"prevCursor,omitempty" form:"prevCursor"`
}

// Decode validates r and converts it into a Request. SortBy is resolved via
// columnMapping; with a nil mapping it is used as a column name directly.
// Cursor tokens are passed through untouched: a broken token is not an error.
func (r RawRequest) Decode(columnMapping ColumnMapping) (Request, error) {
	ret := Request{
		Limit:      DefaultLimit,
		Order:      DirectionDESC,
		NextCursor: r.NextCursor,
		PrevCursor: r.PrevCursor,
	}

	if r.Limit != nil {
		if err := ValidateLimit(*r.Limit); err != nil {
			return Request{}, err
		}
		ret.Limit = *r.Limit
	}

	if r.Order != "" {
		order, err := ParseDirection(r.Order)
		if err != nil {
			return Request{}, err
		}
		ret.Order = order
	}

	if r.SortBy != "" {
		sortBy := r.SortBy
		if columnMapping != nil {
			var err error
			sortBy, err = ResolveColumn(r.SortBy, columnMapping)
			if err != nil {
				return Request{}, err
			}
		}

		if err := validateColumn(sortBy); err != nil {
			return Request{}, err
		}
		ret.SortBy = sortBy
	}

	return ret, nil
}

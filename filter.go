package keypager

import "fmt"

// FilterSpec describes the columns a keyset filter is built on.
type FilterSpec struct {
	// KeyColumn is the unique primary key column, the final tiebreaker.
	KeyColumn string
	// SortBy is the requested sort column. Equal to KeyColumn when the page
	// is sorted by the primary key only.
	SortBy string
	// Keys parses the cursor key into its native value.
	Keys KeyFormat
	// Parser parses the cursor sort value. When nil, parseAnyValue is used.
	Parser ValueParser
}

// Query is the fully resolved instruction for the current fetch.
type Query struct {
	Where Where
	Sort  Orderings
	Limit int
	// Reverse is set when the fetch runs against the requested order and its
	// result has to be reversed in memory.
	Reverse bool
}

func (s FilterSpec) secondary() bool {
	return s.SortBy != s.KeyColumn
}

// Sort returns the ordering for the given direction: the sort column, then
// the primary key as a tiebreaker.
func (s FilterSpec) Sort(direction Direction) Orderings {
	if !s.secondary() {
		return Orderings{{Column: s.KeyColumn, Direction: direction}}
	}

	return Orderings{
		{Column: s.SortBy, Direction: direction},
		{Column: s.KeyColumn, Direction: direction},
	}
}

// BuildFilter turns a cursor and a step into a filter and an ordering.
//
// Without a cursor the filter is base itself. With a cursor the records
// strictly beyond it in the step direction are selected:
//
//	key op id                                          (sorted by the key)
//	(sort op v) OR (sort = v AND key op id)            (sorted by another column)
//
// The second form breaks ties between equal sort values with the key and
// matches the ordering {sort: dir, key: dir}. The result is ANDed with base.
// Base must not constrain the key or the sort column.
//
// An error is returned when the cursor key or value cannot be parsed; the
// returned filter is then the one for no cursor.
func BuildFilter(c *Cursor, step Step, spec FilterSpec, base Where) (Where, Orderings, error) {
	sort := spec.Sort(step.Direction)
	if c.IsEmpty() {
		return base, sort, nil
	}

	key, err := spec.Keys.Parse(c.ID())
	if err != nil {
		return base, sort, err
	}

	v, hasValue := c.Value()
	if !hasValue || !spec.secondary() {
		keyset := Where{{{Column: spec.KeyColumn, Operator: step.Operator, Value: key}}}
		return base.And(keyset), sort, nil
	}

	value, err := spec.parseValue(v)
	if err != nil {
		return base, sort, err
	}

	keyset := Where{
		{
			{Column: spec.SortBy, Operator: step.Operator, Value: value},
		},
		{
			{Column: spec.SortBy, Operator: OperatorEq, Value: value},
			{Column: spec.KeyColumn, Operator: step.Operator, Value: key},
		},
	}

	return base.And(keyset), sort, nil
}

func (s FilterSpec) parseValue(v string) (any, error) {
	if s.Parser == nil {
		return parseAnyValue(v), nil
	}

	value, err := s.Parser(v)
	if err != nil {
		return nil, fmt.Errorf("cannot parse cursor value of column '%s': %w", s.SortBy, err)
	}

	return value, nil
}

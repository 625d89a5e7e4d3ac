package keypager

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultKeyColumn is the primary key column of MongoDB documents.
const DefaultKeyColumn = "_id"

// Getters - map of value getters for a record type. It must contain the
// primary key column and every column the pages may be sorted by.
// Example:
//
//	keypager.Getters[models.User]{
//		"_id":        func(u models.User) any { return u.ID },
//		"created_at": func(u models.User) any { return u.CreatedAt },
//	}
type Getters[T any] map[string]func(T) any

// Page is a single page of records.
type Page[T any] struct {
	// Items in the requested order.
	Items []T `json:"data"`
	// TotalCount is the number of records matching the base filter.
	TotalCount int64 `json:"totalCount"`
	// NextCursor points after the last item. Nil when no records follow.
	NextCursor *Cursor `json:"nextCursor"`
	// PrevCursor points before the first item. Nil when no records precede.
	PrevCursor *Cursor `json:"prevCursor"`
}

// Pager binds the pagination algorithm to a Store. A configured Pager is
// safe for concurrent use.
type Pager[T any] struct {
	store     Store[T]
	getters   Getters[T]
	keyColumn string
	keys      KeyFormat
	parsers   map[string]ValueParser
	logger    *zap.Logger
}

// New returns a Pager reading records of type T from store. The key column
// defaults to DefaultKeyColumn holding ObjectIDKeys.
func New[T any](store Store[T], getters Getters[T]) *Pager[T] {
	return &Pager[T]{
		store:     store,
		getters:   getters,
		keyColumn: DefaultKeyColumn,
		keys:      ObjectIDKeys,
		logger:    zap.NewNop(),
	}
}

// WithKeyColumn sets the unique primary key column.
func (p *Pager[T]) WithKeyColumn(column string) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.keyColumn = column

	return p
}

// WithKeys sets the primary key format.
func (p *Pager[T]) WithKeys(keys KeyFormat) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.keys = keys

	return p
}

// WithParser registers the parser for cursor values of a sort column.
func (p *Pager[T]) WithParser(column string, parser ValueParser) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	if p.parsers == nil {
		p.parsers = make(map[string]ValueParser)
	}
	p.parsers[column] = parser

	return p
}

// WithLogger sets the logger. Pagination only logs at debug level.
func (p *Pager[T]) WithLogger(logger *zap.Logger) *Pager[T] {
	if p == nil {
		p = new(Pager[T])
	}

	p.logger = logger

	return p
}

// KeyColumn returns the primary key column.
func (p *Pager[T]) KeyColumn() string {
	if p == nil {
		return ""
	}

	return p.keyColumn
}

// Paginate returns the page described by req among the records matching base.
//
// A cursor token that cannot be decoded is treated as absent, while the
// requested traversal mode still decides the fetch direction. Errors returned
// by the store are passed through as is.
func (p *Pager[T]) Paginate(ctx context.Context, req Request, base Where) (*Page[T], error) {
	if p == nil || p.store == nil {
		return nil, fmt.Errorf("cannot paginate: pager has no store")
	}

	req = req.withDefaults(p.keyColumn)
	if err := p.validate(req, base); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	mode := req.Mode()
	dirs, err := ResolveDirections(req.Order, mode)
	if err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	spec := p.filterSpec(req.SortBy)
	query := p.buildQuery(req, mode, dirs, spec, base)

	items, err := p.store.Find(ctx, query.Where, query.Sort, query.Limit)
	if err != nil {
		return nil, err
	}
	if query.Reverse {
		slices.Reverse(items)
	}

	var nextCandidate, prevCandidate *Cursor

	// A short page can never have a next page.
	if len(items) == req.Limit {
		nextCandidate, err = p.cursorFor(lo.LastOrEmpty(items), spec)
		if err != nil {
			return nil, fmt.Errorf("cannot build next page cursor: %w", err)
		}
	}
	if len(items) > 0 {
		prevCandidate, err = p.cursorFor(items[0], spec)
		if err != nil {
			return nil, fmt.Errorf("cannot build previous page cursor: %w", err)
		}
	}

	var nextCount, prevCount int64

	g, gctx := errgroup.WithContext(ctx)
	if nextCandidate != nil {
		g.Go(func() error {
			var err error
			nextCount, err = p.probe(gctx, nextCandidate, dirs.Next, spec, base)
			return err
		})
	}
	if prevCandidate != nil {
		g.Go(func() error {
			var err error
			prevCount, err = p.probe(gctx, prevCandidate, dirs.Prev, spec, base)
			return err
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	page := &Page[T]{
		Items:      lo.Ternary(items == nil, []T{}, items),
		TotalCount: int64(len(items)) + nextCount + prevCount,
	}
	if nextCount > 0 {
		page.NextCursor = nextCandidate
	}
	if prevCount > 0 {
		page.PrevCursor = prevCandidate
	}

	p.log().Debug("page assembled",
		zap.Stringer("mode", mode),
		zap.String("sortBy", req.SortBy),
		zap.String("order", string(req.Order)),
		zap.Int("fetched", len(items)),
		zap.Int64("total", page.TotalCount),
		zap.Bool("hasNext", page.NextCursor != nil),
		zap.Bool("hasPrev", page.PrevCursor != nil),
	)

	return page, nil
}

// buildQuery resolves the fetch of the requested page. An undecodable cursor
// drops the keyset filter but keeps the direction of the requested mode.
func (p *Pager[T]) buildQuery(req Request, mode Mode, dirs Directions, spec FilterSpec, base Where) Query {
	cursor, err := ParseCursor(req.token(), p.keys)
	if err != nil {
		p.log().Debug("cursor ignored", zap.Stringer("mode", mode), zap.Error(err))
		cursor = nil
	}

	where, sort, err := BuildFilter(cursor, dirs.Current, spec, base)
	if err != nil {
		p.log().Debug("cursor ignored", zap.Stringer("mode", mode), zap.Error(err))
	}

	return Query{
		Where:   where,
		Sort:    sort,
		Limit:   req.Limit,
		Reverse: dirs.Reverse,
	}
}

// probe counts the records beyond a boundary cursor in the step direction.
func (p *Pager[T]) probe(ctx context.Context, c *Cursor, step Step, spec FilterSpec, base Where) (int64, error) {
	where, _, err := BuildFilter(c, step, spec, base)
	if err != nil {
		return 0, fmt.Errorf("cannot build boundary filter: %w", err)
	}

	return p.store.Count(ctx, where)
}

// cursorFor builds the cursor pointing at item.
func (p *Pager[T]) cursorFor(item T, spec FilterSpec) (*Cursor, error) {
	id, err := p.keys.Format(p.getters[spec.KeyColumn](item))
	if err != nil {
		return nil, err
	}

	c := newCursor(id)
	if spec.secondary() {
		v, err := stringifyValue(p.getters[spec.SortBy](item))
		if err != nil {
			return nil, fmt.Errorf("column '%s': %w", spec.SortBy, err)
		}
		c.withValue(v)
	}

	return c, nil
}

func (p *Pager[T]) log() *zap.Logger {
	if p.logger == nil {
		return zap.NewNop()
	}

	return p.logger
}

func (p *Pager[T]) filterSpec(sortBy string) FilterSpec {
	return FilterSpec{
		KeyColumn: p.keyColumn,
		SortBy:    sortBy,
		Keys:      p.keys,
		Parser:    p.parserFor(sortBy),
	}
}

// parserFor returns the registered parser of a sort column. Without one the
// parser is picked from the type the column getter returns.
func (p *Pager[T]) parserFor(column string) ValueParser {
	if parser := p.parsers[column]; parser != nil {
		return parser
	}

	getter := p.getters[column]
	if getter == nil {
		return nil
	}

	return defaultParser(sampleValue(getter))
}

// sampleValue calls getter on the zero T. Getters dereferencing a nil pointer
// yield nil.
func sampleValue[T any](getter func(T) any) (v any) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()

	var zero T

	return getter(zero)
}

func (p *Pager[T]) validate(req Request, base Where) error {
	if p.keys == nil {
		return fmt.Errorf("%w: key format is not set", ErrInvalidKey)
	}
	if err := req.validate(); err != nil {
		return err
	}
	if err := p.filterSpec(req.SortBy).Sort(req.Order).validate(); err != nil {
		return err
	}
	if err := base.validate(); err != nil {
		return err
	}

	for _, column := range lo.Uniq([]string{p.keyColumn, req.SortBy}) {
		if p.getters[column] == nil {
			return fmt.Errorf("%w: cannot find getter for column '%s'", ErrMissingGetter, column)
		}
	}

	return nil
}

// Package keypager provides bidirectional keyset (cursor-based) pagination
// over document and relational stores.
//
// Overview
//
// A page request carries a limit, an order, an optional sort column and at
// most one opaque cursor token (NextCursor or PrevCursor). The Pager fetches
// the page, then probes the store with two COUNT queries to decide whether
// records exist after the last and before the first fetched record. The
// probes double as the total count:
//
//	TotalCount = len(page) + count(after last) + count(before first)
//
// Key concepts
//   - Cursor: {id, v} position of a boundary record, encoded as unpadded
//     base64url JSON. Tokens that fail to decode are treated as absent.
//   - KeyFormat: the store-native primary key (ObjectID, UUID).
//   - Directions: the fetch and probe steps for an order and traversal
//     mode, resolved from a single table.
//   - Where: store-neutral filter in disjunctive normal form, rendered to
//     GORM clauses, SQL or BSON.
//   - Store: injected Find/Count collaborator; GORMStore and MongoStore are
//     provided.
//
// Usage:
//
//	pager := keypager.New(keypager.NewMongoStore[User](coll, nil), keypager.Getters[User]{
//		"_id":        func(u User) any { return u.ID },
//		"created_at": func(u User) any { return u.CreatedAt },
//	}).WithParser("created_at", keypager.ParseTime)
//
//	page, err := pager.Paginate(ctx, keypager.Request{Limit: 20, SortBy: "created_at"}, nil)
package keypager

package keypager

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const _placeholder = `(?:\$\d|\?)`

func Test_GORMStore_Find(t *testing.T) {
	sqlMockFnList := []func() (string, *gorm.DB, sqlmock.Sqlmock, error){
		newGORMMySQLMock,
		newGORMPostgresMock,
	}

	type tUser struct {
		ID   uint
		Name string
	}

	tests := []struct {
		name          string
		where         Where
		sort          Orderings
		limit         int
		expectedQuery string
		expectedArgs  []driver.Value
	}{
		{
			name:          "no filter",
			sort:          Orderings{{Column: "id", Direction: DirectionDESC}},
			limit:         10,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = [`'\"]lol[`'\"] ORDER BY id DESC LIMIT 10$",
		},
		{
			name:          "sorted by key",
			where:         Where{{Lt("id", 5)}},
			sort:          Orderings{{Column: "id", Direction: DirectionDESC}},
			limit:         3,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = [`'\"]lol[`'\"] AND id < " + _placeholder + " ORDER BY id DESC LIMIT 3$",
			expectedArgs:  []driver.Value{5},
		},
		{
			name: "secondary sort",
			where: Where{
				{Gt("created_at", "2023-01-01")},
				{Eq("created_at", "2023-01-01"), Gt("id", 10)},
			},
			sort: Orderings{
				{Column: "created_at", Direction: DirectionASC},
				{Column: "id", Direction: DirectionASC},
			},
			limit: 5,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name = [`'\"]lol[`'\"] AND " +
				"\\(created_at > " + _placeholder + " OR \\(created_at = " + _placeholder + " AND id > " + _placeholder + "\\)\\) " +
				"ORDER BY created_at ASC, id ASC LIMIT 5$",
			expectedArgs: []driver.Value{"2023-01-01", "2023-01-01", 10},
		},
	}

	for _, sqlMockFn := range sqlMockFnList {
		for _, tt := range tests {
			dialect, db, dbMock, err := sqlMockFn()
			t.Run(fmt.Sprintf("%s %s", dialect, tt.name), func(t *testing.T) {
				if err != nil {
					t.Fatalf("gorm open: %v", err)
				}

				expectation := dbMock.ExpectQuery(tt.expectedQuery)
				if len(tt.expectedArgs) > 0 {
					expectation = expectation.WithArgs(tt.expectedArgs...)
				}
				expectation.WillReturnRows(
					sqlmock.NewRows([]string{"id", "name"}).AddRow(4, "John Doe").AddRow(3, "Jane Doe"),
				)

				store := NewGORMStore[tUser](db.Table("users").Where("name = 'lol'"))

				users, err := store.Find(context.Background(), tt.where, tt.sort, tt.limit)
				require.NoError(t, err)
				assert.Equal(t, []tUser{{ID: 4, Name: "John Doe"}, {ID: 3, Name: "Jane Doe"}}, users)

				assert.NoError(t, dbMock.ExpectationsWereMet())
			})
		}
	}
}

func Test_GORMStore_Count(t *testing.T) {
	sqlMockFnList := []func() (string, *gorm.DB, sqlmock.Sqlmock, error){
		newGORMMySQLMock,
		newGORMPostgresMock,
	}

	for _, sqlMockFn := range sqlMockFnList {
		dialect, db, dbMock, err := sqlMockFn()
		t.Run(dialect, func(t *testing.T) {
			if err != nil {
				t.Fatalf("gorm open: %v", err)
			}

			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`'\"]t_records[`'\"] WHERE id > " + _placeholder + "$").
				WithArgs(hexKey(3)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`'\"]t_records[`'\"]$").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

			store := NewGORMStore[tRecord](db)

			count, err := store.Count(context.Background(), Where{{Gt("id", hexKey(3))}})
			require.NoError(t, err)
			assert.Equal(t, int64(7), count)

			// The first query must not leak into the next one.
			count, err = store.Count(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, int64(25), count)

			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func Test_GORMStore_Errors(t *testing.T) {
	errBoom := errors.New("boom")

	_, db, dbMock, err := newGORMPostgresMock()
	require.NoError(t, err)

	dbMock.ExpectQuery("^SELECT \\*").WillReturnError(errBoom)
	dbMock.ExpectQuery("^SELECT count").WillReturnError(errBoom)

	store := NewGORMStore[tRecord](db)

	_, err = store.Find(context.Background(), nil, Orderings{{Column: "id", Direction: DirectionASC}}, 10)
	require.ErrorIs(t, err, errBoom)

	_, err = store.Count(context.Background(), nil)
	require.ErrorIs(t, err, errBoom)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func Test_GORMStore_Paginate(t *testing.T) {
	sqlMockFnList := []func() (string, *gorm.DB, sqlmock.Sqlmock, error){
		newGORMMySQLMock,
		newGORMPostgresMock,
	}

	for _, sqlMockFn := range sqlMockFnList {
		dialect, db, dbMock, err := sqlMockFn()
		t.Run(dialect, func(t *testing.T) {
			if err != nil {
				t.Fatalf("gorm open: %v", err)
			}

			// Probes run concurrently.
			dbMock.MatchExpectationsInOrder(false)

			dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]t_records[`'\"] WHERE id < " + _placeholder + " ORDER BY id DESC LIMIT 2$").
				WithArgs(hexKey(10)).
				WillReturnRows(
					sqlmock.NewRows([]string{"id", "score", "created_at"}).
						AddRow(hexKey(9), 0, _baseTime).
						AddRow(hexKey(8), 0, _baseTime),
				)
			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`'\"]t_records[`'\"] WHERE id < " + _placeholder + "$").
				WithArgs(hexKey(8)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`'\"]t_records[`'\"] WHERE id > " + _placeholder + "$").
				WithArgs(hexKey(9)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(16))

			p := newRecordPager(NewGORMStore[tRecord](db))

			page, err := p.Paginate(context.Background(), Request{
				Limit:      2,
				Order:      DirectionDESC,
				NextCursor: newCursor(hexKey(10)).String(),
			}, nil)
			require.NoError(t, err)

			assert.Equal(t, []string{hexKey(9), hexKey(8)}, recordIDs(page.Items))
			assert.Equal(t, int64(25), page.TotalCount)
			assert.Equal(t, hexKey(8), page.NextCursor.ID())
			assert.Equal(t, hexKey(9), page.PrevCursor.ID())

			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

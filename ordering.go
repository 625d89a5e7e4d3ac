package keypager

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// ForOperator returns the operator selecting the records that follow a
// boundary value in direction o.
func (o Direction) ForOperator() Operator {
	switch o {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", o))
	}
}

// ParseDirection accepts "asc" or "desc" in any letter case.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidOrder, s)
	}

	return d, nil
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\"$"), lo.AlphanumericCharset...)

func validateColumn(column string) error {
	if column == "" {
		return fmt.Errorf("%w: empty column name", ErrInvalidColumn)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(column)) {
		return fmt.Errorf("%w: column name contains forbidden symbols '%s'", ErrInvalidColumn, column)
	}

	return nil
}

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("%w: invalid ordering direction '%s'", ErrInvalidOrder, o.Direction)
	}

	return validateColumn(o.Column)
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.Column, ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>"
// suitable for embedding into an SQL query.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", orderings.ToSQL())
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// ToBSON converts Orderings to a MongoDB sort document, e.g.
// [{"created_at", "DESC"}, {"_id", "DESC"}] becomes {created_at: -1, _id: -1}.
func (o Orderings) ToBSON() bson.D {
	ret := make(bson.D, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, bson.E{
			Key:   ordering.Column,
			Value: lo.Ternary(ordering.Direction == DirectionDESC, -1, 1),
		})
	}

	return ret
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	if len(o) == 0 {
		return db
	}

	return db.Order(o.ToSQL())
}

// validate checks every column name and direction of the ordering.
func (o Orderings) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("empty ordering list")
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// ResolveColumn maps an external alias to the internal column name.
// On failure the error carries the closest known alias as a hint.
func ResolveColumn(alias ColumnAlias, columnMapping ColumnMapping) (string, error) {
	columnName := columnMapping[alias]
	if columnName == "" {
		return "", fmt.Errorf(
			"%w: unknown column alias '%s'. closest: '%s'",
			ErrInvalidColumn, alias, closestAlias(alias, lo.Keys(columnMapping)),
		)
	}

	return columnName, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}

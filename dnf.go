package keypager

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm/clause"
)

type (
	// Condition is Operator(Column, Value). Value holds the native value
	// compared against the column.
	Condition struct {
		Column   string
		Operator Operator
		Value    any
	}

	// Conjunction joins its conditions with AND. An empty conjunction is
	// always true.
	Conjunction []Condition

	// Where represents the disjunctive normal form (DNF) of a filter.
	// Each conjunction is joined by OR, and each conjunction consists of a
	// list of conditions which are joined by AND.
	//
	// Thus:
	//
	//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
	//	DNF = (A11 AND A12 AND A13) OR (A21 AND A22 AND A23), for n=2, m=3.
	//
	// An empty Where matches every record.
	Where []Conjunction
)

// Eq builds "column = value". Eq and its siblings are shorthands for base
// filters:
//
//	base := keypager.Where{{keypager.Eq("status", "active"), keypager.Gte("age", 18)}}
func Eq(column string, value any) Condition { return Condition{column, OperatorEq, value} }

// Ne builds "column != value".
func Ne(column string, value any) Condition { return Condition{column, OperatorNE, value} }

// Lt builds "column < value".
func Lt(column string, value any) Condition { return Condition{column, OperatorLT, value} }

// Gt builds "column > value".
func Gt(column string, value any) Condition { return Condition{column, OperatorGT, value} }

// Lte builds "column <= value".
func Lte(column string, value any) Condition { return Condition{column, OperatorLTE, value} }

// Gte builds "column >= value".
func Gte(column string, value any) Condition { return Condition{column, OperatorGTE, value} }

// And returns a DNF equivalent to (w AND other), distributing the
// conjunctions of both sides:
//
//	(A OR B) AND (C OR D) = (A AND C) OR (A AND D) OR (B AND C) OR (B AND D)
func (w Where) And(other Where) Where {
	if len(w) == 0 {
		return other
	}
	if len(other) == 0 {
		return w
	}

	ret := make(Where, 0, len(w)*len(other))
	for _, left := range w {
		for _, right := range other {
			conj := make(Conjunction, 0, len(left)+len(right))
			conj = append(conj, left...)
			conj = append(conj, right...)
			ret = append(ret, conj)
		}
	}

	return ret
}

// isTrue reports whether w matches everything.
func (w Where) isTrue() bool {
	if len(w) == 0 {
		return true
	}

	for _, conj := range w {
		if len(conj) == 0 {
			return true
		}
	}

	return false
}

func (w Where) validate() error {
	for _, conj := range w {
		for _, cond := range conj {
			if err := validateColumn(cond.Column); err != nil {
				return err
			}
			if !cond.Operator.Known() {
				return fmt.Errorf("unknown operator '%s' for column '%s'", cond.Operator, cond.Column)
			}
		}
	}

	return nil
}

// toGORMExpression converts a condition of the form Operator(Column, Value)
// into an SQL condition "Column Operator Value" represented as a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	Condition = { Column: "id", Operator: ">", Value: "123"}
//
// Result:
//
//	"id > 123"
func (c Condition) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a condition of the form Operator(Column, Value) to
// an SQL condition of the form "Column Operator ?" with a corresponding value.
//
// Example:
//
//	Condition = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c Condition) toSQLClause() (string, any) {
	op := c.Operator
	if op == OperatorNE {
		op = "<>"
	}

	return fmt.Sprintf("%s %s ?", c.Column, op), c.Value
}

func (c Condition) toBSON() bson.E {
	return bson.E{
		Key:   c.Column,
		Value: bson.D{{Key: c.Operator.mongoOperator(), Value: c.Value}},
	}
}

// toGORMExpression converts a conjunction (K1, K2, K3) into a gorm expression
// "K1 AND K2 AND K3" where each Ki is expanded via Condition.toGORMExpression.
func (d Conjunction) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(d))
	for _, cond := range d {
		andExpressions = append(andExpressions, cond.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a conjunction (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding values.
//
// Example:
//
//	Conjunction = {
//		{Column: "id", Operator: ">", Value: 5},
//		{Column: "name", Operator: "<", Value: "abc"}
//	}
//
// Result:
//
//	("(id > ? AND name < ?)", [5, "abc"])
func (d Conjunction) toSQLClause() (string, []any) {
	andClauses := make([]string, 0, len(d))
	andValues := make([]any, 0, len(d))

	for _, cond := range d {
		andClause, andValue := cond.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// ToBSON converts a conjunction to a MongoDB filter. Conditions are wrapped in
// $and so that several bounds on one field do not collide.
func (d Conjunction) ToBSON() bson.D {
	switch len(d) {
	case 0:
		return bson.D{}
	case 1:
		return bson.D{d[0].toBSON()}
	}

	and := make(bson.A, 0, len(d))
	for _, cond := range d {
		and = append(and, bson.D{cond.toBSON()})
	}

	return bson.D{{Key: "$and", Value: and}}
}

// toGORMExpression converts a DNF into a clause.Expression. Conjunctions are
// joined with OR. Returns nil when the filter matches everything.
func (w Where) toGORMExpression() clause.Expression {
	if w.isTrue() {
		return nil
	}

	orExpressions := make([]clause.Expression, 0, len(w))
	for _, conj := range w {
		orExpressions = append(orExpressions, conj.toGORMExpression())
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	}

	return clause.Or(orExpressions...)
}

// ToSQL converts the DNF into an SQL condition. For each conjunction it
// calls Conjunction.toSQLClause and joins them with OR. Returns the SQL
// string and the list of values for "?" placeholders.
//
// Example:
//
//	Where = {
//		{{Column: "id", Operator: "<", Value: 10}},
//		{{Column: "id", Operator: "=", Value: 10}, {Column: "name", Operator: "<", Value: "abc"}},
//	}
//
// Result:
//
//	("((id < ?) OR (id = ? AND name < ?))", [10, 10, "abc"])
//
// Usage:
//
//	cond, args := where.ToSQL()
//	rows, err := db.QueryContext(ctx, "SELECT * FROM table WHERE "+cond, args...)
func (w Where) ToSQL() (string, []any) {
	if w.isTrue() {
		return "TRUE", nil
	}

	orClauses := make([]string, 0, len(w))
	values := make([]any, 0, len(w))

	for _, conj := range w {
		orClause, orValues := conj.toSQLClause()
		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
}

// ToBSON converts the DNF into a MongoDB filter document.
func (w Where) ToBSON() bson.D {
	if w.isTrue() {
		return bson.D{}
	}

	if len(w) == 1 {
		return w[0].ToBSON()
	}

	or := make(bson.A, 0, len(w))
	for _, conj := range w {
		or = append(or, conj.ToBSON())
	}

	return bson.D{{Key: "$or", Value: or}}
}

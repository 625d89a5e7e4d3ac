package keypager

// Operator defines a comparison operator for filtering by column.
// OperatorLT and OperatorGT drive keyset filters, the rest are available for
// caller-supplied base filters.
type Operator string

const (
	OperatorGT  Operator = ">"
	OperatorLT  Operator = "<"
	OperatorEq  Operator = "="
	OperatorGTE Operator = ">="
	OperatorLTE Operator = "<="
	OperatorNE  Operator = "!="
)

// Valid reports whether o can bound a keyset page.
func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT
}

// Known reports whether o is any supported comparison operator.
func (o Operator) Known() bool {
	switch o {
	case OperatorGT, OperatorLT, OperatorEq, OperatorGTE, OperatorLTE, OperatorNE:
		return true
	default:
		return false
	}
}

// mongoOperator maps o to its MongoDB query operator.
func (o Operator) mongoOperator() string {
	switch o {
	case OperatorGT:
		return "$gt"
	case OperatorLT:
		return "$lt"
	case OperatorGTE:
		return "$gte"
	case OperatorLTE:
		return "$lte"
	case OperatorNE:
		return "$ne"
	default:
		return "$eq"
	}
}

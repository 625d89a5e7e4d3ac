package keypager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Operator_Valid(t *testing.T) {
	tests := map[Operator]bool{
		OperatorGT:  true,
		OperatorLT:  true,
		OperatorEq:  false,
		OperatorGTE: false,
		OperatorLTE: false,
		OperatorNE:  false,
	}
	for op, want := range tests {
		assert.Equal(t, want, op.Valid(), op)
	}
}

func Test_Operator_Known(t *testing.T) {
	for _, op := range []Operator{OperatorGT, OperatorLT, OperatorEq, OperatorGTE, OperatorLTE, OperatorNE} {
		assert.True(t, op.Known(), op)
	}
	assert.False(t, Operator("LIKE").Known())
	assert.False(t, Operator("").Known())
}

func Test_Operator_mongoOperator(t *testing.T) {
	tests := map[Operator]string{
		OperatorGT:  "$gt",
		OperatorLT:  "$lt",
		OperatorGTE: "$gte",
		OperatorLTE: "$lte",
		OperatorNE:  "$ne",
		OperatorEq:  "$eq",
	}
	for op, want := range tests {
		assert.Equal(t, want, op.mongoOperator(), op)
	}
}

package keypager

import "fmt"

// Mode is the traversal mode of a pagination call.
type Mode int

const (
	// ModeInitial - no cursor was supplied, the first page is requested.
	ModeInitial Mode = iota
	// ModeForward - continue after the last record of a page (NextCursor).
	ModeForward
	// ModeBackward - continue before the first record of a page (PrevCursor).
	ModeBackward
)

func (m Mode) String() string {
	switch m {
	case ModeInitial:
		return "initial"
	case ModeForward:
		return "forward"
	case ModeBackward:
		return "backward"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Step is a sort direction paired with the comparison operator selecting the
// records beyond a boundary value in that direction.
type Step struct {
	Direction Direction
	Operator  Operator
}

// Directions holds the steps used by a single pagination call:
//   - Current governs the fetch of the requested page;
//   - Next probes for records after the last fetched record;
//   - Prev probes for records before the first fetched record.
//
// Next and Prev are expressed in the requested order and do not depend on the
// traversal mode. Reverse is set when the fetch runs against the requested
// order and the fetched records must be reversed in memory.
type Directions struct {
	Current Step
	Next    Step
	Prev    Step
	Reverse bool
}

func stepFor(d Direction) Step {
	return Step{Direction: d, Operator: d.ForOperator()}
}

var (
	_stepDESC = stepFor(DirectionDESC)
	_stepASC  = stepFor(DirectionASC)
)

type directionKey struct {
	order Direction
	mode  Mode
}

// _directions lists every supported (order, mode) combination.
var _directions = map[directionKey]Directions{
	{DirectionDESC, ModeInitial}:  {Current: _stepDESC, Next: _stepDESC, Prev: _stepASC, Reverse: false},
	{DirectionDESC, ModeForward}:  {Current: _stepDESC, Next: _stepDESC, Prev: _stepASC, Reverse: false},
	{DirectionDESC, ModeBackward}: {Current: _stepASC, Next: _stepDESC, Prev: _stepASC, Reverse: true},
	{DirectionASC, ModeInitial}:   {Current: _stepASC, Next: _stepASC, Prev: _stepDESC, Reverse: false},
	{DirectionASC, ModeForward}:   {Current: _stepASC, Next: _stepASC, Prev: _stepDESC, Reverse: false},
	{DirectionASC, ModeBackward}:  {Current: _stepDESC, Next: _stepASC, Prev: _stepDESC, Reverse: true},
}

// ResolveDirections returns the steps for the given order and traversal mode.
func ResolveDirections(order Direction, mode Mode) (Directions, error) {
	d, ok := _directions[directionKey{order: order, mode: mode}]
	if !ok {
		if !order.Valid() {
			return Directions{}, fmt.Errorf("%w: '%s'", ErrInvalidOrder, order)
		}

		return Directions{}, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	return d, nil
}

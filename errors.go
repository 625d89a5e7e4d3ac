package keypager

import "errors"

var (
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidOrder  = errors.New("invalid order")
	ErrInvalidColumn = errors.New("invalid column")
	ErrInvalidMode   = errors.New("invalid traversal mode")
	ErrMissingGetter = errors.New("missing getter")
	ErrInvalidKey    = errors.New("invalid key")
)

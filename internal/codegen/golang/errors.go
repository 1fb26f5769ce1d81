package golang

import "errors"

var (
	// ErrUnwrapCycle is returned when a response wrapper chain never reaches
	// a non-wrapper type.
	ErrUnwrapCycle = errors.New("response wrapper chain does not terminate")
	ErrNilDeclSet  = errors.New("declaration set cannot be nil")
)

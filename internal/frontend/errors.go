package frontend

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrUnknownFormat     = errors.New("cannot detect input format")
	// ErrInvalidSchema is returned when an input parses but cannot be turned
	// into a type graph.
	ErrInvalidSchema = errors.New("invalid schema")
)

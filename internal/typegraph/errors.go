package typegraph

import "errors"

var (
	ErrNilDocument          = errors.New("type graph document cannot be nil")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrUnknownRoot          = errors.New("root does not name a declaration")
)

package config

import "errors"

var (
	ErrNotFound          = errors.New("no typespec-go config file found")
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrInvalidConfig     = errors.New("invalid config file")
)

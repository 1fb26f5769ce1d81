package commands

import "errors"

var (
	ErrMissingInput  = errors.New("an input schema file is required")
	ErrConfigExists  = errors.New("config file already exists")
	ErrInvalidAnswer = errors.New("invalid answer")

	ErrInvalidPackageName = errors.New("invalid package name")
)

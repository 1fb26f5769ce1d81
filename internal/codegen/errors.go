package codegen

import "errors"

var (
	// ErrOutputDir is returned when the output directory cannot be created.
	// No artifact is rendered or written after it.
	ErrOutputDir = errors.New("failed to create output directory")

	// ErrArtifactWrite wraps a failure to render or write one artifact.
	ErrArtifactWrite = errors.New("failed to write artifact")

	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNilGraph            = errors.New("type graph cannot be nil")
)

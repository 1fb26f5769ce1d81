package frontend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/okra-platform/typespec-go/internal/typegraph"
)

// graphFileLoader reads a serialized typegraph.Document. JSON input is read
// by the YAML decoder.
type graphFileLoader struct {
	logger zerolog.Logger
}

func newGraphFileLoader(logger zerolog.Logger) Loader {
	return &graphFileLoader{logger: logger}
}

func (l *graphFileLoader) Load(_ context.Context, path string) (*typegraph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return decodeGraph(data)
}

func decodeGraph(data []byte) (*typegraph.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc typegraph.Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("%w: failed to decode graph file: %w", ErrInvalidSchema, err)
	}
	return &doc, nil
}

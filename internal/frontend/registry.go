// Package frontend turns schema files into resolved type graphs.
package frontend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/okra-platform/typespec-go/internal/typegraph"
)

// Loader reads one schema file and produces the document of its type graph.
type Loader interface {
	Load(ctx context.Context, path string) (*typegraph.Document, error)
}

// Factory builds a loader for one run.
type Factory func(logger zerolog.Logger) Loader

// Registry manages the available input formats
type Registry struct {
	loaders    map[string]Factory
	extensions map[string]string
}

// NewRegistry creates an empty frontend registry
func NewRegistry() *Registry {
	return &Registry{
		loaders:    make(map[string]Factory),
		extensions: make(map[string]string),
	}
}

// Register adds a format and the file extensions that select it.
func (r *Registry) Register(format string, factory Factory, extensions ...string) {
	r.loaders[format] = factory
	for _, ext := range extensions {
		r.extensions[strings.ToLower(ext)] = format
	}
}

// Formats returns the registered formats in sorted order
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.loaders))
	for f := range r.loaders {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Detect picks a format for path from its extension. JSON and YAML files are
// read to tell OpenAPI documents apart from serialized type graphs.
func (r *Registry) Detect(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		if isOpenAPI(data) {
			return FormatOpenAPI, nil
		}
		return FormatGraph, nil
	}
	if format, ok := r.extensions[ext]; ok {
		return format, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads path with the named format, detecting it when format is empty,
// and indexes the result.
func (r *Registry) Load(ctx context.Context, format, path string, logger zerolog.Logger) (*typegraph.Graph, error) {
	if format == "" {
		detected, err := r.Detect(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	factory, ok := r.loaders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	logger = logger.With().Str("component", "frontend").Str("format", format).Logger()
	doc, err := factory(logger).Load(ctx, path)
	if err != nil {
		return nil, err
	}
	g, err := typegraph.New(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, path, err)
	}

	models, enums, interfaces, operations := g.Stats()
	logger.Debug().
		Str("path", path).
		Int("models", models).
		Int("enums", enums).
		Int("interfaces", interfaces).
		Int("operations", operations).
		Msg("loaded schema")
	return g, nil
}

// isOpenAPI reports whether data has a top-level openapi or swagger key.
func isOpenAPI(data []byte) bool {
	var head struct {
		OpenAPI string `yaml:"openapi"`
		Swagger string `yaml:"swagger"`
	}
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&head); err != nil {
		return false
	}
	return head.OpenAPI != "" || head.Swagger != ""
}

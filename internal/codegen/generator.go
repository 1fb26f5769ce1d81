package codegen

import (
	"github.com/rs/zerolog"

	"github.com/okra-platform/typespec-go/internal/codegen/emit"
	"github.com/okra-platform/typespec-go/internal/codegen/golang"
	"github.com/okra-platform/typespec-go/internal/codegen/walker"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

const (
	// DefaultOutputDir is used when no output directory is configured.
	DefaultOutputDir = "generated"
	// DefaultLanguage is the generator used when none is named.
	DefaultLanguage = "go"
)

// Generator is the interface that all language-specific code generators must implement
type Generator interface {
	// Generate renders every artifact for the walked declarations. Per-artifact
	// failures are reported on each Output.
	Generate(graph *typegraph.Graph, set *walker.DeclSet, diags *emit.Diagnostics) ([]emit.Output, error)

	// Language returns the name of the target language (e.g., "go")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".go")
	FileExtension() string
}

// Options is the configuration of a single generation run. It is built once
// per invocation and passed to every component that needs it.
type Options struct {
	// PackageName is the package name of the generated code
	PackageName string

	// OutputDir is the directory the artifacts are written to
	OutputDir string

	// Language selects the registered generator
	Language string

	// DryRun renders the artifacts without touching the file system
	DryRun bool

	// QueryPointers decides when query parameters are pointers
	QueryPointers golang.QueryPointerPolicy

	Logger zerolog.Logger
}

// WithDefaults returns a copy of o with empty values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.PackageName == "" {
		o.PackageName = golang.DefaultPackageName
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	return o
}

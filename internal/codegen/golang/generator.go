// Package golang renders a walked type graph as Go source: one file of model
// and enum declarations and one file of service interfaces.
package golang

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typespec-go/internal/codegen/emit"
	"github.com/okra-platform/typespec-go/internal/codegen/naming"
	"github.com/okra-platform/typespec-go/internal/codegen/walker"
	"github.com/okra-platform/typespec-go/internal/codegen/writer"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

const (
	// ModelsFile holds enum and model declarations.
	ModelsFile = "models.go"
	// APIFile holds the service interfaces.
	APIFile = "api.go"

	// DefaultPackageName is used when no package name is configured.
	DefaultPackageName = "api"

	generatedHeader     = "// Code generated by typespec-go. DO NOT EDIT."
	serverInterfaceName = "ServerInterface"
)

// QueryPointerPolicy decides when a query parameter is passed by pointer.
type QueryPointerPolicy int

const (
	// QueryPointerIfOptional applies the regular optionality rule.
	QueryPointerIfOptional QueryPointerPolicy = iota
	// QueryPointerAlways passes every non-collection query parameter by pointer.
	QueryPointerAlways
)

// Generator generates Go declarations from a walked type graph
type Generator struct {
	packageName string
	logger      zerolog.Logger
	queryPolicy QueryPointerPolicy
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithQueryPointerPolicy overrides the query parameter pointer policy.
func WithQueryPointerPolicy(p QueryPointerPolicy) Option {
	return func(g *Generator) {
		g.queryPolicy = p
	}
}

// NewGenerator creates a new Go code generator
func NewGenerator(packageName string, opts ...Option) *Generator {
	if packageName == "" {
		packageName = DefaultPackageName
	}
	g := &Generator{
		packageName: packageName,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("component", "golang").Logger()
	return g
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "go"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".go"
}

// Generate renders both artifacts. A failure in one artifact is reported on
// its Output and does not affect the other.
func (g *Generator) Generate(graph *typegraph.Graph, set *walker.DeclSet, diags *emit.Diagnostics) ([]emit.Output, error) {
	if set == nil {
		return nil, ErrNilDeclSet
	}
	if diags == nil {
		diags = &emit.Diagnostics{}
	}

	r := &renderer{
		Generator: g,
		set:       set,
		diags:     diags,
		names:     make(map[string]string),
		claimed:   make(map[string]bool),
	}
	r.bindTypeNames()
	r.mapper = newTypeMapper(graph, r.names, g.logger, diags)

	models, err := r.renderModels()
	modelsOut := emit.Output{Name: ModelsFile, Content: models, Err: err}
	api, err := r.renderInterfaces()
	apiOut := emit.Output{Name: APIFile, Content: api, Err: err}

	return []emit.Output{modelsOut, apiOut}, nil
}

// renderer holds the state of a single Generate call.
type renderer struct {
	*Generator
	set    *walker.DeclSet
	diags  *emit.Diagnostics
	mapper *TypeMapper
	// names maps raw declaration names to emitted identifiers.
	names map[string]string
	// claimed holds every package-level identifier in use.
	claimed map[string]bool
}

// bindTypeNames assigns a package-unique identifier to every model, enum and
// interface, in emission order.
func (r *renderer) bindTypeNames() {
	r.claimed[serverInterfaceName] = true
	for _, e := range r.set.Enums {
		r.names[e.Name] = r.claim(e.Name, naming.Identifier(e.Name))
	}
	for _, m := range r.set.Models {
		r.names[m.Name] = r.claim(m.Name, naming.Identifier(m.Name))
	}
	for _, i := range r.set.Interfaces {
		r.names[i.Name] = r.claim(i.Name, naming.Identifier(i.Name))
	}
}

// claim reserves a package-level identifier, suffixing it with a counter
// when it is already taken.
func (r *renderer) claim(raw, name string) string {
	return claimUnique(r.claimed, name, func(got string) {
		r.collision(raw, name, got)
	})
}

func (r *renderer) collision(raw, wanted, got string) {
	r.logger.Warn().Str("name", raw).Str("wanted", wanted).Str("assigned", got).Msg("naming collision")
	r.diags.Add(emit.NamingCollision, raw, fmt.Sprintf("%s renamed to %s", wanted, got))
}

func (r *renderer) header(w *writer.Writer, imports importSet) {
	w.WriteLine(generatedHeader)
	w.BlankLine()
	w.WriteLinef("package %s", r.packageName)
	w.BlankLine()
	imports.write(w)
}

// claimUnique returns name if it is free in taken, otherwise name followed by
// the first free counter starting at 2. onRename is called when a counter
// was needed.
func claimUnique(taken map[string]bool, name string, onRename func(string)) string {
	got := name
	for i := 2; taken[got]; i++ {
		got = name + strconv.Itoa(i)
	}
	taken[got] = true
	if got != name && onRename != nil {
		onRename(got)
	}
	return got
}

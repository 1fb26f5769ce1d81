package frontend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typespec-go/internal/typegraph"
)

func TestRegistry_Formats(t *testing.T) {
	// Test: Default registry exposes every frontend in sorted order
	assert.Equal(t, []string{FormatGraph, FormatGraphQL, FormatOpenAPI, FormatProtobuf}, DefaultRegistry.Formats())
}

func TestRegistry_Detect(t *testing.T) {
	// Test: Formats are picked by extension, JSON and YAML are sniffed
	tests := []struct {
		name     string
		file     string
		content  string
		expected string
	}{
		{"openapi yaml", "api.yaml", "openapi: 3.0.3\ninfo:\n  title: x\n", FormatOpenAPI},
		{"swagger json", "api.json", `{"swagger": "2.0"}`, FormatOpenAPI},
		{"graph yaml", "graph.yml", "models: []\n", FormatGraph},
		{"graph json", "graph.json", `{"models": []}`, FormatGraph},
		{"graphql", "schema.GraphQL", "type A { a: String }", FormatGraphQL},
		{"descriptor set", "api.binpb", "", FormatProtobuf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DefaultRegistry.Detect(writeSchema(t, tt.file, []byte(tt.content)))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestRegistry_DetectUnknownExtension(t *testing.T) {
	// Test: Unknown extensions are rejected
	_, err := DefaultRegistry.Detect(writeSchema(t, "schema.tsp", []byte("model A {}")))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistry_LoadUnsupportedFormat(t *testing.T) {
	// Test: An explicit format with no loader is rejected
	path := writeSchema(t, "graph.yaml", []byte("models: []\n"))
	_, err := DefaultRegistry.Load(context.Background(), "thrift", path, zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRegistry_CustomLoader(t *testing.T) {
	// Test: Registered factories are used for their extensions
	r := NewRegistry()
	r.Register("stub", func(zerolog.Logger) Loader { return stubLoader{} }, ".STUB")

	g, err := r.Load(context.Background(), "", writeSchema(t, "in.stub", nil), zerolog.Nop())
	require.NoError(t, err)
	_, ok := g.Model("Stub")
	assert.True(t, ok)
}

type stubLoader struct{}

func (stubLoader) Load(context.Context, string) (*typegraph.Document, error) {
	return &typegraph.Document{Models: []typegraph.ModelDecl{{Name: "Stub"}}}, nil
}

func TestGraphFile_Load(t *testing.T) {
	// Test: A serialized document round-trips into an indexed graph
	g := loadSchema(t, "graph.yaml", `
models:
  - name: Pet
    doc: A pet.
    fields:
      - name: name
        type: {kind: primitive, scalar: string}
      - name: tags
        optional: true
        type: {kind: array, elem: {kind: primitive, scalar: string}}
enums:
  - name: Status
    members:
      - {name: ACTIVE, value: active}
interfaces:
  - name: PetStore
    operations:
      - name: getPet
        verb: get
        path: /pets/{id}
        params:
          - {name: id, in: path, type: {kind: primitive, scalar: string}}
        returns: {kind: reference, ref: Pet}
`)

	pet := mustModel(t, g, "Pet")
	assert.Equal(t, "A pet.", pet.Doc)
	assert.Equal(t, typegraph.Array(typegraph.Primitive(typegraph.ScalarString)), mustField(t, pet, "tags").Type)
	assert.True(t, mustField(t, pet, "tags").Optional)

	_, ok := g.Enum("Status")
	assert.True(t, ok)

	store, ok := g.Interface("PetStore")
	require.True(t, ok)
	op := mustOperation(t, store.Operations, "getPet")
	require.NotNil(t, op.Returns)
	assert.Equal(t, typegraph.Reference("Pet"), *op.Returns)
	assert.Equal(t, typegraph.InPath, op.Params[0].In)
}

func TestGraphFile_JSON(t *testing.T) {
	// Test: JSON graph documents are read by the same decoder
	g := loadSchema(t, "graph.json", `{"models": [{"name": "A", "fields": [{"name": "n", "type": {"kind": "primitive", "scalar": "int64"}}]}]}`)
	assert.Equal(t, typegraph.Primitive(typegraph.ScalarInt64), mustField(t, mustModel(t, g, "A"), "n").Type)
}

func TestGraphFile_Errors(t *testing.T) {
	// Test: Unknown keys and duplicate declarations are invalid schemas
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "modles: []\n"},
		{"duplicate", "models:\n  - name: A\n  - name: A\n"},
		{"bad root", "roots: [Missing]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSchema(t, "graph.yaml", []byte(tt.content))
			_, err := DefaultRegistry.Load(context.Background(), FormatGraph, path, zerolog.Nop())
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func TestGraphFile_Empty(t *testing.T) {
	// Test: An empty file is an empty graph
	g := loadSchema(t, "graph.yaml", "")
	models, enums, interfaces, operations := g.Stats()
	assert.Zero(t, models+enums+interfaces+operations)
}

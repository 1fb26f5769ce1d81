package golang

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typespec-go/internal/codegen/emit"
	"github.com/okra-platform/typespec-go/internal/codegen/walker"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

// render runs the generator over doc and returns the raw outputs.
func render(t *testing.T, doc *typegraph.Document, opts ...Option) ([]emit.Output, []emit.Diagnostic) {
	t.Helper()
	g, err := typegraph.New(doc)
	require.NoError(t, err)

	diags := &emit.Diagnostics{}
	outs, err := NewGenerator("api", opts...).Generate(g, walker.Walk(g, zerolog.Nop()), diags)
	require.NoError(t, err)
	require.Len(t, outs, 2)
	return outs, diags.Items()
}

// generate is render for documents expected to succeed.
func generate(t *testing.T, doc *typegraph.Document, opts ...Option) (models, api string, diags []emit.Diagnostic) {
	t.Helper()
	outs, diags := render(t, doc, opts...)
	require.NoError(t, outs[0].Err)
	require.NoError(t, outs[1].Err)
	return string(outs[0].Content), string(outs[1].Content), diags
}

// block returns the declaration starting at opener, up to its closing brace.
func block(t *testing.T, src, opener string) string {
	t.Helper()
	start := strings.Index(src, opener)
	require.GreaterOrEqual(t, start, 0, "missing %q in:\n%s", opener, src)
	end := strings.Index(src[start:], "\n}\n")
	require.GreaterOrEqual(t, end, 0)
	return src[start : start+end+3]
}

func ptr[T any](v T) *T {
	return &v
}

func field(name string, typ typegraph.TypeRef) typegraph.FieldDecl {
	return typegraph.FieldDecl{Name: name, Type: typ}
}

func optionalField(name string, typ typegraph.TypeRef) typegraph.FieldDecl {
	return typegraph.FieldDecl{Name: name, Type: typ, Optional: true}
}

var (
	stringType   = typegraph.Primitive(typegraph.ScalarString)
	int32Type    = typegraph.Primitive(typegraph.ScalarInt32)
	numberType   = typegraph.Primitive(typegraph.ScalarNumber)
	dateTimeType = typegraph.Primitive(typegraph.ScalarDateTime)
)

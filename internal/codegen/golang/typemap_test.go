package golang

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typespec-go/internal/codegen/emit"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

func newTestMapper(t *testing.T, doc *typegraph.Document) (*TypeMapper, *emit.Diagnostics) {
	t.Helper()
	g, err := typegraph.New(doc)
	require.NoError(t, err)
	diags := &emit.Diagnostics{}
	return newTypeMapper(g, map[string]string{}, zerolog.Nop(), diags), diags
}

func TestTypeMapper_Scalars(t *testing.T) {
	// Test: every scalar kind maps to its Go type and imports
	m, diags := newTestMapper(t, &typegraph.Document{})

	testCases := []struct {
		scalar  typegraph.ScalarKind
		text    string
		imports []string
	}{
		{typegraph.ScalarString, "string", nil},
		{typegraph.ScalarInt32, "int32", nil},
		{typegraph.ScalarInt64, "int64", nil},
		{typegraph.ScalarFloat32, "float64", nil},
		{typegraph.ScalarFloat64, "float64", nil},
		{typegraph.ScalarNumber, "float64", nil},
		{typegraph.ScalarBoolean, "bool", nil},
		{typegraph.ScalarBytes, "[]byte", nil},
		{typegraph.ScalarDateTime, "time.Time", []string{"time"}},
		{typegraph.ScalarUUID, "uuid.UUID", []string{"github.com/google/uuid"}},
		{typegraph.ScalarURL, "string", nil},
		{typegraph.ScalarPlainTime, "string", nil},
	}

	for _, tc := range testCases {
		t.Run(string(tc.scalar), func(t *testing.T) {
			got, err := m.Map(typegraph.Primitive(tc.scalar))
			require.NoError(t, err)
			assert.Equal(t, tc.text, got.Text)
			assert.Equal(t, tc.imports, got.Imports)
			assert.False(t, got.Pointer)
		})
	}
	assert.Empty(t, diags.Items())
}

func TestTypeMapper_Unknown(t *testing.T) {
	// Test: unknown and malformed shapes degrade to interface{} with a diagnostic each
	m, diags := newTestMapper(t, &typegraph.Document{})

	for _, ref := range []typegraph.TypeRef{
		typegraph.Primitive(typegraph.ScalarUnknown),
		typegraph.Primitive("decimal128"),
		{Kind: typegraph.KindArray},
		{Kind: "tuple"},
		typegraph.Reference("TypeSpec.Record"),
	} {
		got, err := m.Map(ref)
		require.NoError(t, err)
		assert.Equal(t, "interface{}", got.Text)
	}
	assert.Len(t, diags.Items(), 5)
}

func TestTypeMapper_Collections(t *testing.T) {
	// Test: arrays and maps compose recursively and carry element imports
	m, _ := newTestMapper(t, &typegraph.Document{
		Models: []typegraph.ModelDecl{{Name: "Pet"}},
	})

	got, err := m.Map(typegraph.Array(typegraph.Array(typegraph.Reference("Pet"))))
	require.NoError(t, err)
	assert.Equal(t, "[][]*Pet", got.Text)
	assert.True(t, got.Nilable)

	got, err = m.Map(typegraph.Map(typegraph.Array(dateTimeType)))
	require.NoError(t, err)
	assert.Equal(t, "map[string][]time.Time", got.Text)
	assert.Equal(t, []string{"time"}, got.Imports)
}

func TestTypeMapper_MapOptional(t *testing.T) {
	// Test: optionality adds exactly one pointer where needed
	m, _ := newTestMapper(t, &typegraph.Document{
		Models: []typegraph.ModelDecl{{Name: "Pet"}},
		Enums:  []typegraph.EnumDecl{{Name: "Kind"}},
	})

	testCases := []struct {
		ref  typegraph.TypeRef
		want string
	}{
		{stringType, "*string"},
		{typegraph.Reference("Pet"), "*Pet"},
		{typegraph.Reference("Kind"), "*Kind"},
		{typegraph.Array(stringType), "[]string"},
		{typegraph.Map(stringType), "map[string]string"},
		{typegraph.Primitive(typegraph.ScalarUnknown), "interface{}"},
	}
	for _, tc := range testCases {
		got, err := m.MapOptional(tc.ref, true)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Text)

		required, err := m.MapOptional(tc.ref, false)
		require.NoError(t, err)
		plain, err := m.Map(tc.ref)
		require.NoError(t, err)
		assert.Equal(t, plain, required)
	}
}

func TestTypeMapper_WrapperDepthBound(t *testing.T) {
	// Test: an envelope chain longer than the bound is rejected instead of followed
	doc := &typegraph.Document{}
	for i := 0; i <= maxUnwrapDepth+1; i++ {
		doc.Models = append(doc.Models, typegraph.ModelDecl{
			Name:   "W" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Fields: []typegraph.FieldDecl{field("body", typegraph.Wrapper("W"+string(rune('a'+(i+1)%26))+string(rune('a'+(i+1)/26))))},
		})
	}
	m, _ := newTestMapper(t, doc)

	_, err := m.Map(typegraph.Wrapper("Waa"))
	assert.ErrorIs(t, err, ErrUnwrapCycle)
}

func TestTypeMapper_WrapperInsideCollection(t *testing.T) {
	// Test: a wrapper nested in an array of itself is detected as a cycle
	m, _ := newTestMapper(t, &typegraph.Document{
		Models: []typegraph.ModelDecl{{Name: "Tree", Fields: []typegraph.FieldDecl{field("body", typegraph.Array(typegraph.Wrapper("Tree")))}}},
	})

	_, err := m.Map(typegraph.Wrapper("Tree"))
	assert.ErrorIs(t, err, ErrUnwrapCycle)
}

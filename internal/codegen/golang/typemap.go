package golang

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typespec-go/internal/codegen/emit"
	"github.com/okra-platform/typespec-go/internal/codegen/naming"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

const (
	anyType = "interface{}"

	// maxUnwrapDepth bounds how many response envelopes may be nested.
	maxUnwrapDepth = 32
)

// GoType is the Go rendering of a schema type.
type GoType struct {
	Text string
	// Pointer is set when Text already starts with a pointer indirection.
	Pointer bool
	// Nilable is set for slices, maps and the opaque placeholder, which need
	// no pointer to express absence.
	Nilable bool
	Imports []string
}

func (t GoType) pointerTo() GoType {
	if t.Pointer {
		return t
	}
	t.Text = "*" + t.Text
	t.Pointer = true
	return t
}

// optional applies the optionality rule: scalars and enums become pointers,
// model references are already pointers, collections stay as they are.
func (t GoType) optional() GoType {
	if t.Pointer || t.Nilable {
		return t
	}
	return t.pointerTo()
}

var scalarTypes = map[typegraph.ScalarKind]GoType{
	typegraph.ScalarString:    {Text: "string"},
	typegraph.ScalarInt32:     {Text: "int32"},
	typegraph.ScalarInt64:     {Text: "int64"},
	typegraph.ScalarFloat32:   {Text: "float64"},
	typegraph.ScalarFloat64:   {Text: "float64"},
	typegraph.ScalarNumber:    {Text: "float64"},
	typegraph.ScalarBoolean:   {Text: "bool"},
	typegraph.ScalarBytes:     {Text: "[]byte", Nilable: true},
	typegraph.ScalarDateTime:  {Text: "time.Time", Imports: []string{"time"}},
	typegraph.ScalarUUID:      {Text: "uuid.UUID", Imports: []string{"github.com/google/uuid"}},
	typegraph.ScalarURL:       {Text: "string"},
	typegraph.ScalarPlainTime: {Text: "string"},
}

// TypeMapper translates schema types into Go type expressions.
type TypeMapper struct {
	graph  *typegraph.Graph
	names  map[string]string
	logger zerolog.Logger
	diags  *emit.Diagnostics
}

func newTypeMapper(g *typegraph.Graph, names map[string]string, logger zerolog.Logger, diags *emit.Diagnostics) *TypeMapper {
	return &TypeMapper{graph: g, names: names, logger: logger, diags: diags}
}

// Map returns the Go type for ref. Wrappers are replaced by their payload
// type; the only error is ErrUnwrapCycle.
func (m *TypeMapper) Map(ref typegraph.TypeRef) (GoType, error) {
	return m.mapType(ref, nil)
}

// MapOptional maps ref and applies the optionality rule when optional is set.
func (m *TypeMapper) MapOptional(ref typegraph.TypeRef, optional bool) (GoType, error) {
	t, err := m.Map(ref)
	if err != nil {
		return GoType{}, err
	}
	if optional {
		t = t.optional()
	}
	return t, nil
}

// typeName returns the emitted identifier of a model or enum.
func (m *TypeMapper) typeName(raw string) string {
	if name, ok := m.names[raw]; ok {
		return name
	}
	return naming.Identifier(raw)
}

func (m *TypeMapper) mapType(ref typegraph.TypeRef, unwrapping []string) (GoType, error) {
	switch ref.Kind {
	case typegraph.KindPrimitive:
		if t, ok := scalarTypes[ref.Scalar]; ok {
			return t, nil
		}
		return m.placeholder(fmt.Sprintf("scalar %q", ref.Scalar)), nil

	case typegraph.KindReference:
		return m.mapReference(ref.Ref), nil

	case typegraph.KindArray, typegraph.KindMap:
		if ref.Elem == nil {
			return m.placeholder(fmt.Sprintf("%s without element type", ref.Kind)), nil
		}
		elem, err := m.mapType(*ref.Elem, unwrapping)
		if err != nil {
			return GoType{}, err
		}
		prefix := "[]"
		if ref.Kind == typegraph.KindMap {
			prefix = "map[string]"
		}
		return GoType{Text: prefix + elem.Text, Nilable: true, Imports: elem.Imports}, nil

	case typegraph.KindWrapper:
		return m.unwrap(ref.Ref, unwrapping)
	}

	return m.placeholder(fmt.Sprintf("type kind %q", ref.Kind)), nil
}

func (m *TypeMapper) mapReference(name string) GoType {
	if naming.IsBuiltin(name) {
		return m.placeholder(fmt.Sprintf("built-in %q", name))
	}
	kind := m.graph.Kind(name)
	ident := m.typeName(name)
	switch {
	case ident == "":
	case kind == typegraph.DeclModel:
		return GoType{Text: "*" + ident, Pointer: true}
	case kind == typegraph.DeclEnum:
		return GoType{Text: ident}
	}
	return m.placeholder(fmt.Sprintf("reference to undeclared %q", name))
}

// unwrap follows a response envelope to its "body" payload. A body that is
// itself an envelope is followed too.
func (m *TypeMapper) unwrap(name string, chain []string) (GoType, error) {
	for _, seen := range chain {
		if seen == name {
			return GoType{}, fmt.Errorf("%w: %s", ErrUnwrapCycle, strings.Join(append(chain, name), " -> "))
		}
	}
	if len(chain) >= maxUnwrapDepth {
		return GoType{}, fmt.Errorf("%w: exceeded %d levels at %s", ErrUnwrapCycle, maxUnwrapDepth, name)
	}

	model, ok := m.graph.Model(name)
	if !ok {
		return m.mapReference(name), nil
	}
	body, ok := model.Field("body")
	if !ok {
		m.logger.Debug().Str("model", name).Msg("wrapper has no body field, using model as is")
		return m.mapReference(name), nil
	}

	chain = append(chain[:len(chain):len(chain)], name)
	if body.Type.Kind == typegraph.KindReference && m.isEnvelope(body.Type.Ref) {
		return m.unwrap(body.Type.Ref, chain)
	}
	return m.mapType(body.Type, chain)
}

func (m *TypeMapper) isEnvelope(name string) bool {
	model, ok := m.graph.Model(name)
	if !ok {
		return false
	}
	_, ok = model.Field("body")
	return ok
}

func (m *TypeMapper) placeholder(what string) GoType {
	m.logger.Warn().Str("type", what).Msg("unsupported type, using interface{}")
	m.diags.Add(emit.UnsupportedType, what, "mapped to "+anyType)
	return GoType{Text: anyType, Nilable: true}
}

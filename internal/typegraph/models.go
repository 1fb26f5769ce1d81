// Package typegraph defines the resolved type graph consumed by the code
// generator. A graph is produced once per run by a frontend and is never
// mutated afterwards.
package typegraph

// Kind identifies the shape of a TypeRef.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindReference Kind = "reference"
	KindArray     Kind = "array"
	KindMap       Kind = "map"
	KindWrapper   Kind = "wrapper"
)

// ScalarKind is the closed set of primitive schema types.
type ScalarKind string

const (
	ScalarString    ScalarKind = "string"
	ScalarInt32     ScalarKind = "int32"
	ScalarInt64     ScalarKind = "int64"
	ScalarFloat32   ScalarKind = "float32"
	ScalarFloat64   ScalarKind = "float64"
	ScalarNumber    ScalarKind = "number"
	ScalarBoolean   ScalarKind = "boolean"
	ScalarBytes     ScalarKind = "bytes"
	ScalarDateTime  ScalarKind = "date-time"
	ScalarUUID      ScalarKind = "uuid"
	ScalarURL       ScalarKind = "url"
	ScalarPlainTime ScalarKind = "plain-time"
	ScalarUnknown   ScalarKind = "unknown"
)

// TypeRef describes the shape of a schema type.
//
// Only the fields relevant to Kind are set: Scalar for primitives, Ref for
// references and wrappers (the declaration name of the target model or enum),
// Elem for arrays and maps (element and value type respectively).
type TypeRef struct {
	Kind   Kind       `json:"kind" yaml:"kind"`
	Scalar ScalarKind `json:"scalar,omitempty" yaml:"scalar,omitempty"`
	Ref    string     `json:"ref,omitempty" yaml:"ref,omitempty"`
	Elem   *TypeRef   `json:"elem,omitempty" yaml:"elem,omitempty"`
}

// Primitive returns a TypeRef for the given scalar.
func Primitive(s ScalarKind) TypeRef {
	return TypeRef{Kind: KindPrimitive, Scalar: s}
}

// Reference returns a TypeRef pointing at the named model or enum.
func Reference(name string) TypeRef {
	return TypeRef{Kind: KindReference, Ref: name}
}

// Array returns a TypeRef for a list of elem.
func Array(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindArray, Elem: &elem}
}

// Map returns a TypeRef for a string-keyed map of value.
func Map(value TypeRef) TypeRef {
	return TypeRef{Kind: KindMap, Elem: &value}
}

// Wrapper returns a TypeRef for a response envelope model whose payload is
// its "body" field.
func Wrapper(model string) TypeRef {
	return TypeRef{Kind: KindWrapper, Ref: model}
}

// IsCollection reports whether the type is an array or a map.
func (t TypeRef) IsCollection() bool {
	return t.Kind == KindArray || t.Kind == KindMap
}

// Document is the serialized form of a type graph.
type Document struct {
	// Roots lists declaration names in traversal order. When empty every
	// declaration is a root, in document order.
	Roots      []string        `json:"roots,omitempty" yaml:"roots,omitempty"`
	Models     []ModelDecl     `json:"models,omitempty" yaml:"models,omitempty"`
	Enums      []EnumDecl      `json:"enums,omitempty" yaml:"enums,omitempty"`
	Interfaces []InterfaceDecl `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	// Operations holds operations that have no enclosing interface.
	Operations []OperationDecl `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// ModelDecl represents a record type.
type ModelDecl struct {
	Name   string      `json:"name" yaml:"name"`
	Doc    string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Base   string      `json:"base,omitempty" yaml:"base,omitempty"`
	Fields []FieldDecl `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field returns the field with the given raw name.
func (m ModelDecl) Field(name string) (FieldDecl, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDecl{}, false
}

// FieldDecl represents a field inside a model.
type FieldDecl struct {
	Name     string  `json:"name" yaml:"name"`
	Doc      string  `json:"doc,omitempty" yaml:"doc,omitempty"`
	Type     TypeRef `json:"type" yaml:"type"`
	Optional bool    `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// EnumDecl represents an enumeration.
type EnumDecl struct {
	Name string `json:"name" yaml:"name"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
	// Base is the scalar the literals belong to; string when empty.
	Base    ScalarKind   `json:"base,omitempty" yaml:"base,omitempty"`
	Members []EnumMember `json:"members,omitempty" yaml:"members,omitempty"`
}

// EnumMember is a single named enum literal.
type EnumMember struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Doc   string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// ParamIn identifies where an operation parameter is bound.
type ParamIn string

const (
	InPath  ParamIn = "path"
	InQuery ParamIn = "query"
	InBody  ParamIn = "body"
)

// ParamDecl is a single HTTP parameter binding.
type ParamDecl struct {
	Name     string  `json:"name" yaml:"name"`
	In       ParamIn `json:"in" yaml:"in"`
	Type     TypeRef `json:"type" yaml:"type"`
	Optional bool    `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// OperationDecl represents an HTTP-bound operation.
type OperationDecl struct {
	Name      string      `json:"name" yaml:"name"`
	Interface string      `json:"interface,omitempty" yaml:"interface,omitempty"`
	Verb      string      `json:"verb" yaml:"verb"`
	Path      string      `json:"path" yaml:"path"`
	Params    []ParamDecl `json:"params,omitempty" yaml:"params,omitempty"`
	Returns   *TypeRef    `json:"returns,omitempty" yaml:"returns,omitempty"`
	Doc       string      `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// ParamsIn returns the parameters bound at the given location, in declaration order.
func (o OperationDecl) ParamsIn(in ParamIn) []ParamDecl {
	var out []ParamDecl
	for _, p := range o.Params {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// InterfaceDecl represents a group of operations.
type InterfaceDecl struct {
	Name       string          `json:"name" yaml:"name"`
	Doc        string          `json:"doc,omitempty" yaml:"doc,omitempty"`
	Operations []OperationDecl `json:"operations,omitempty" yaml:"operations,omitempty"`
}

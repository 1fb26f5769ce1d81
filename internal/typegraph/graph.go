package typegraph

import (
	"fmt"
	"slices"
)

// DeclKind identifies the kind of a top-level declaration.
type DeclKind int

const (
	DeclNone DeclKind = iota
	DeclModel
	DeclEnum
	DeclInterface
	DeclOperation
)

func (k DeclKind) String() string {
	switch k {
	case DeclModel:
		return "model"
	case DeclEnum:
		return "enum"
	case DeclInterface:
		return "interface"
	case DeclOperation:
		return "operation"
	default:
		return "none"
	}
}

// Graph is an immutable, indexed view over a Document. All lookups are
// reads; nothing in the generator mutates a Graph after New returns.
type Graph struct {
	doc        Document
	roots      []string
	models     map[string]int
	enums      map[string]int
	interfaces map[string]int
	operations map[string][]int
}

// New indexes a document. Declaration names must be unique across models,
// enums and interfaces. Free operations may share a name; exported method
// names are made unique later, at emission time.
//
// The document is deep-copied, so later changes to doc are not seen by the
// graph.
func New(doc *Document) (*Graph, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	g := &Graph{
		doc:        copyDocument(doc),
		models:     make(map[string]int, len(doc.Models)),
		enums:      make(map[string]int, len(doc.Enums)),
		interfaces: make(map[string]int, len(doc.Interfaces)),
		operations: make(map[string][]int, len(doc.Operations)),
	}
	doc = &g.doc

	seen := make(map[string]bool)
	claim := func(name string) error {
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, name)
		}
		seen[name] = true
		return nil
	}

	for i, m := range doc.Models {
		if err := claim(m.Name); err != nil {
			return nil, err
		}
		g.models[m.Name] = i
	}
	for i, e := range doc.Enums {
		if err := claim(e.Name); err != nil {
			return nil, err
		}
		g.enums[e.Name] = i
	}
	for i, iface := range doc.Interfaces {
		if err := claim(iface.Name); err != nil {
			return nil, err
		}
		g.interfaces[iface.Name] = i
	}
	for i, op := range doc.Operations {
		g.operations[op.Name] = append(g.operations[op.Name], i)
	}

	if len(doc.Roots) > 0 {
		for _, r := range doc.Roots {
			if g.Kind(r) == DeclNone {
				return nil, fmt.Errorf("%w: %s", ErrUnknownRoot, r)
			}
		}
		g.roots = append([]string(nil), doc.Roots...)
	} else {
		for _, m := range doc.Models {
			g.roots = append(g.roots, m.Name)
		}
		for _, e := range doc.Enums {
			g.roots = append(g.roots, e.Name)
		}
		for _, iface := range doc.Interfaces {
			g.roots = append(g.roots, iface.Name)
		}
		for i, op := range doc.Operations {
			if g.operations[op.Name][0] == i {
				g.roots = append(g.roots, op.Name)
			}
		}
	}

	return g, nil
}

// Roots returns the declaration names traversal starts from.
func (g *Graph) Roots() []string {
	return append([]string(nil), g.roots...)
}

// Kind reports what kind of declaration a name refers to. Models, enums and
// interfaces take precedence over free operations.
func (g *Graph) Kind(name string) DeclKind {
	if _, ok := g.models[name]; ok {
		return DeclModel
	}
	if _, ok := g.enums[name]; ok {
		return DeclEnum
	}
	if _, ok := g.interfaces[name]; ok {
		return DeclInterface
	}
	if _, ok := g.operations[name]; ok {
		return DeclOperation
	}
	return DeclNone
}

// Model looks up a model by declaration name.
func (g *Graph) Model(name string) (ModelDecl, bool) {
	i, ok := g.models[name]
	if !ok {
		return ModelDecl{}, false
	}
	return g.doc.Models[i], true
}

// Enum looks up an enum by declaration name.
func (g *Graph) Enum(name string) (EnumDecl, bool) {
	i, ok := g.enums[name]
	if !ok {
		return EnumDecl{}, false
	}
	return g.doc.Enums[i], true
}

// Interface looks up an interface by declaration name.
func (g *Graph) Interface(name string) (InterfaceDecl, bool) {
	i, ok := g.interfaces[name]
	if !ok {
		return InterfaceDecl{}, false
	}
	return g.doc.Interfaces[i], true
}

// Operation looks up the first free operation with the given name.
func (g *Graph) Operation(name string) (OperationDecl, bool) {
	idx, ok := g.operations[name]
	if !ok {
		return OperationDecl{}, false
	}
	return g.doc.Operations[idx[0]], true
}

// Operations returns every free operation with the given name, in document
// order.
func (g *Graph) Operations(name string) []OperationDecl {
	idx := g.operations[name]
	out := make([]OperationDecl, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.doc.Operations[i])
	}
	return out
}

// Stats returns declaration counts, used for logging.
func (g *Graph) Stats() (models, enums, interfaces, operations int) {
	return len(g.doc.Models), len(g.doc.Enums), len(g.doc.Interfaces), len(g.doc.Operations)
}

// copyDocument deep-copies every declaration so the graph shares no backing
// arrays or TypeRef pointers with the caller.
func copyDocument(doc *Document) Document {
	out := Document{
		Roots:      slices.Clone(doc.Roots),
		Models:     slices.Clone(doc.Models),
		Enums:      slices.Clone(doc.Enums),
		Interfaces: slices.Clone(doc.Interfaces),
		Operations: copyOperations(doc.Operations),
	}
	for i := range out.Models {
		out.Models[i].Fields = slices.Clone(out.Models[i].Fields)
		for j := range out.Models[i].Fields {
			out.Models[i].Fields[j].Type = copyTypeRef(out.Models[i].Fields[j].Type)
		}
	}
	for i := range out.Enums {
		out.Enums[i].Members = slices.Clone(out.Enums[i].Members)
	}
	for i := range out.Interfaces {
		out.Interfaces[i].Operations = copyOperations(out.Interfaces[i].Operations)
	}
	return out
}

func copyOperations(ops []OperationDecl) []OperationDecl {
	out := slices.Clone(ops)
	for i := range out {
		out[i].Params = slices.Clone(out[i].Params)
		for j := range out[i].Params {
			out[i].Params[j].Type = copyTypeRef(out[i].Params[j].Type)
		}
		if out[i].Returns != nil {
			r := copyTypeRef(*out[i].Returns)
			out[i].Returns = &r
		}
	}
	return out
}

func copyTypeRef(t TypeRef) TypeRef {
	if t.Elem != nil {
		elem := copyTypeRef(*t.Elem)
		t.Elem = &elem
	}
	return t
}

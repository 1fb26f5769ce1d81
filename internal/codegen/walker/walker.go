// Package walker collects the declarations reachable from a type graph's
// roots, in first-discovery order.
package walker

import (
	"github.com/rs/zerolog"

	"github.com/okra-platform/typespec-go/internal/codegen/naming"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

// DeclSet is the filtered, de-duplicated output of a walk.
type DeclSet struct {
	Models     []typegraph.ModelDecl
	Enums      []typegraph.EnumDecl
	Interfaces []typegraph.InterfaceDecl
	// Operations are reachable operations without an enclosing interface.
	Operations []typegraph.OperationDecl
}

// Empty reports whether nothing was collected.
func (s *DeclSet) Empty() bool {
	return len(s.Models) == 0 && len(s.Enums) == 0 && len(s.Interfaces) == 0 && len(s.Operations) == 0
}

type walker struct {
	graph   *typegraph.Graph
	logger  zerolog.Logger
	set     *DeclSet
	visited map[string]bool
	types   map[string]bool
	ifaces  map[string]bool
}

// Walk traverses the graph from its roots. Built-in declarations are
// traversed but not collected, so user types reachable only through them are
// still found.
func Walk(g *typegraph.Graph, logger zerolog.Logger) *DeclSet {
	w := &walker{
		graph:   g,
		logger:  logger.With().Str("component", "walker").Logger(),
		set:     &DeclSet{},
		visited: make(map[string]bool),
		types:   make(map[string]bool),
		ifaces:  make(map[string]bool),
	}

	for _, root := range g.Roots() {
		w.visitDecl(root)
	}

	w.logger.Debug().
		Int("models", len(w.set.Models)).
		Int("enums", len(w.set.Enums)).
		Int("interfaces", len(w.set.Interfaces)).
		Int("operations", len(w.set.Operations)).
		Msg("walked type graph")

	return w.set
}

func (w *walker) visitDecl(name string) {
	if w.visited[name] {
		return
	}
	w.visited[name] = true

	switch w.graph.Kind(name) {
	case typegraph.DeclModel:
		m, _ := w.graph.Model(name)
		w.visitModel(m)
	case typegraph.DeclEnum:
		e, _ := w.graph.Enum(name)
		if w.claimType(e.Name) {
			w.set.Enums = append(w.set.Enums, e)
		}
	case typegraph.DeclInterface:
		iface, _ := w.graph.Interface(name)
		w.visitInterface(iface)
	case typegraph.DeclOperation:
		for _, op := range w.graph.Operations(name) {
			w.set.Operations = append(w.set.Operations, op)
			w.visitOperation(op)
		}
	default:
		w.logger.Debug().Str("name", name).Msg("reference to undeclared type")
	}
}

func (w *walker) visitModel(m typegraph.ModelDecl) {
	if w.claimType(m.Name) {
		w.set.Models = append(w.set.Models, m)
	}
	if m.Base != "" {
		w.visitDecl(m.Base)
	}
	for _, f := range m.Fields {
		w.visitRef(f.Type)
	}
}

func (w *walker) visitInterface(iface typegraph.InterfaceDecl) {
	if !naming.IsBuiltin(iface.Name) {
		clean := naming.CleanName(iface.Name)
		if clean != "" && !w.ifaces[clean] {
			w.ifaces[clean] = true
			w.set.Interfaces = append(w.set.Interfaces, iface)
		}
	}
	for _, op := range iface.Operations {
		w.visitOperation(op)
	}
}

func (w *walker) visitOperation(op typegraph.OperationDecl) {
	for _, p := range op.Params {
		w.visitRef(p.Type)
	}
	if op.Returns != nil {
		w.visitRef(*op.Returns)
	}
}

func (w *walker) visitRef(t typegraph.TypeRef) {
	switch t.Kind {
	case typegraph.KindReference, typegraph.KindWrapper:
		w.visitDecl(t.Ref)
	case typegraph.KindArray, typegraph.KindMap:
		if t.Elem != nil {
			w.visitRef(*t.Elem)
		}
	}
}

// claimType reports whether a model or enum should be collected: it is not a
// built-in and no declaration with the same cleaned name was collected before.
func (w *walker) claimType(raw string) bool {
	if naming.IsBuiltin(raw) {
		return false
	}
	clean := naming.CleanName(raw)
	if clean == "" {
		w.logger.Warn().Str("name", raw).Msg("declaration name is empty after cleaning, skipping")
		return false
	}
	if w.types[clean] {
		return false
	}
	w.types[clean] = true
	return true
}

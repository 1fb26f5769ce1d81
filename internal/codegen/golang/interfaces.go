package golang

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/multierr"

	"github.com/okra-platform/typespec-go/internal/codegen/naming"
	"github.com/okra-platform/typespec-go/internal/codegen/writer"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

// method is a rendered interface method.
type method struct {
	name    string
	doc     string
	params  []string
	result  string
	imports []string
}

// renderInterfaces produces the interfaces artifact: one interface per schema
// interface, then ServerInterface embedding all of them and declaring the
// operations that have no enclosing interface.
//
// An operation that cannot be rendered is left out and reported in the
// returned error; the content still holds every other operation.
func (r *renderer) renderInterfaces() ([]byte, error) {
	namer := naming.NewOperationNamer()
	body := writer.NewWriter("\t")
	imports := importSet{}
	var errs error
	count := 0

	embeds := make([]string, 0, len(r.set.Interfaces))
	for _, iface := range r.set.Interfaces {
		name := r.names[iface.Name]
		methods, err := r.methods(namer, iface.Operations)
		errs = multierr.Append(errs, err)
		count += len(methods)
		embeds = append(embeds, name)

		body.BlankLine()
		if iface.Doc != "" {
			body.WriteDocComment(iface.Doc)
		} else {
			body.WriteLinef("// %s defines the %s operations", name, name)
		}
		body.WriteBlock(fmt.Sprintf("type %s interface {", name), "}", func() {
			writeMethods(body, methods, imports)
		})
	}

	free, err := r.methods(namer, r.set.Operations)
	errs = multierr.Append(errs, err)
	count += len(free)

	body.BlankLine()
	body.WriteLinef("// %s represents all server handlers.", serverInterfaceName)
	body.WriteBlock(fmt.Sprintf("type %s interface {", serverInterfaceName), "}", func() {
		for _, e := range embeds {
			body.WriteLine(e)
		}
		if len(embeds) > 0 && len(free) > 0 {
			body.BlankLine()
		}
		writeMethods(body, free, imports)
	})

	if count > 0 {
		imports.add("context")
	}
	w := writer.NewWriter("\t")
	r.header(w, imports)
	w.Write(body.String())
	return w.Bytes(), errs
}

func writeMethods(w *writer.Writer, methods []method, imports importSet) {
	for i, m := range methods {
		if i > 0 {
			w.BlankLine()
		}
		w.WriteDocComment(m.doc)
		w.WriteLinef("%s(%s) (%s, error)", m.name, strings.Join(m.params, ", "), m.result)
		imports.add(m.imports...)
	}
}

// methods renders ops in declaration order. Every failing operation is
// reported; the others are still rendered.
func (r *renderer) methods(namer *naming.OperationNamer, ops []typegraph.OperationDecl) ([]method, error) {
	out := make([]method, 0, len(ops))
	var errs error
	for _, op := range ops {
		name, renamed := namer.Claim(op.Name, op.Path)
		if renamed {
			wanted := naming.Identifier(op.Name)
			if wanted == "" {
				wanted = "Operation"
			}
			r.collision(op.Name, wanted, name)
		}
		m, err := r.method(name, op)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("operation %s (%s %s): %w", op.Name, op.Verb, op.Path, err))
			continue
		}
		out = append(out, m)
	}
	return out, errs
}

func (r *renderer) method(name string, op typegraph.OperationDecl) (method, error) {
	m := method{name: name, doc: operationDoc(name, op), params: []string{"ctx context.Context"}}
	taken := map[string]bool{"ctx": true}

	addParam := func(p typegraph.ParamDecl, t GoType) {
		wanted := naming.ParamName(p.Name)
		param := claimUnique(taken, wanted, func(got string) {
			r.collision(op.Name+"."+p.Name, wanted, got)
		})
		m.params = append(m.params, param+" "+t.Text)
		m.imports = append(m.imports, t.Imports...)
	}

	for _, p := range op.ParamsIn(typegraph.InPath) {
		t, err := r.mapper.Map(p.Type)
		if err != nil {
			return method{}, fmt.Errorf("path parameter %s: %w", p.Name, err)
		}
		addParam(p, t)
	}
	for _, p := range op.ParamsIn(typegraph.InQuery) {
		t, err := r.mapper.Map(p.Type)
		if err != nil {
			return method{}, fmt.Errorf("query parameter %s: %w", p.Name, err)
		}
		addParam(p, r.queryType(t, p.Optional))
	}
	for _, p := range op.ParamsIn(typegraph.InBody) {
		t, err := r.mapper.Map(p.Type)
		if err != nil {
			return method{}, fmt.Errorf("body parameter %s: %w", p.Name, err)
		}
		if t.Text != anyType {
			t = t.pointerTo()
		}
		addParam(p, t)
	}

	m.result = anyType
	if op.Returns != nil {
		t, err := r.mapper.Map(*op.Returns)
		if err != nil {
			return method{}, fmt.Errorf("return type: %w", err)
		}
		m.result = t.Text
		m.imports = append(m.imports, t.Imports...)
	}
	return m, nil
}

func (r *renderer) queryType(t GoType, optional bool) GoType {
	switch r.queryPolicy {
	case QueryPointerAlways:
		if t.Nilable {
			return t
		}
		return t.pointerTo()
	default:
		if optional {
			return t.optional()
		}
		return t
	}
}

// operationDoc prefixes the documentation with the method name, or describes
// the HTTP binding when there is none.
func operationDoc(name string, op typegraph.OperationDecl) string {
	doc := strings.TrimSpace(op.Doc)
	if doc == "" {
		route := strings.TrimSpace(strings.ToUpper(op.Verb) + " " + op.Path)
		if route == "" {
			return name + " is a generated operation"
		}
		return name + " handles " + route
	}
	if doc == name || strings.HasPrefix(doc, name+" ") {
		return doc
	}
	return name + " " + lowerDocStart(doc)
}

// lowerDocStart lowercases the first letter of doc unless the first word is
// an acronym such as URL or ID.
func lowerDocStart(doc string) string {
	first, size := utf8.DecodeRuneInString(doc)
	if !unicode.IsUpper(first) {
		return doc
	}
	if next, _ := utf8.DecodeRuneInString(doc[size:]); unicode.IsUpper(next) {
		return doc
	}
	return string(unicode.ToLower(first)) + doc[size:]
}

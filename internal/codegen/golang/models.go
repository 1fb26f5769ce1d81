package golang

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/multierr"

	"github.com/okra-platform/typespec-go/internal/codegen/emit"
	"github.com/okra-platform/typespec-go/internal/codegen/naming"
	"github.com/okra-platform/typespec-go/internal/codegen/writer"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

// renderModels produces the declarations artifact: enums first, then models,
// each in discovery order.
func (r *renderer) renderModels() ([]byte, error) {
	body := writer.NewWriter("\t")
	imports := importSet{}

	for _, e := range r.set.Enums {
		body.BlankLine()
		r.writeEnum(body, e)
	}

	var errs error
	for _, m := range r.set.Models {
		if err := r.writeModel(body, m, imports); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("model %s: %w", m.Name, err))
		}
	}
	if errs != nil {
		return nil, errs
	}

	w := writer.NewWriter("\t")
	r.header(w, imports)
	w.Write(body.String())
	return w.Bytes(), nil
}

// writeEnum emits a named type, one constant per member and a Valid method.
func (r *renderer) writeEnum(w *writer.Writer, e typegraph.EnumDecl) {
	name := r.names[e.Name]
	base, literal := r.enumBase(e)

	if e.Doc != "" {
		w.WriteDocComment(e.Doc)
	} else {
		w.WriteLinef("// %s represents a generated enum", name)
	}
	w.WriteLinef("type %s %s", name, base)

	// consts holds one constant per distinct value.
	consts := make([]string, 0, len(e.Members))
	values := make(map[string]bool, len(e.Members))
	if len(e.Members) > 0 {
		w.BlankLine()
		w.WriteBlock("const (", ")", func() {
			for _, m := range e.Members {
				suffix := naming.MemberName(m.Name)
				if suffix == "" {
					suffix = naming.MemberName(m.Value)
				}
				if suffix == "" {
					suffix = "Value"
				}
				constName := r.claim(e.Name+"."+m.Name, naming.SanitizeLeadingDigit(name+suffix))
				lit := literal(m.Value)
				w.WriteDocComment(m.Doc)
				w.WriteLinef("%s %s = %s", constName, name, lit)
				if !values[lit] {
					values[lit] = true
					consts = append(consts, constName)
				}
			}
		})
	}

	w.BlankLine()
	w.WriteLinef("// Valid returns true if the %s is a valid value", name)
	w.WriteBlock(fmt.Sprintf("func (e %s) Valid() bool {", name), "}", func() {
		if len(consts) == 0 {
			w.WriteLine("return false")
			return
		}
		w.WriteBlock("switch e {", "}", func() {
			w.WriteLinef("case %s:", strings.Join(consts, ", "))
			w.Indent()
			w.WriteLine("return true")
			w.Dedent()
			w.WriteLine("default:")
			w.Indent()
			w.WriteLine("return false")
			w.Dedent()
		})
	})
}

// enumBase returns the Go base type of an enum and the literal formatter for
// its values. Numeric bases are only honoured when every value parses to a
// finite number; otherwise the enum falls back to string. Numeric literals
// are written in canonical form, so "007" becomes 7 and "1.0" becomes 1.
func (r *renderer) enumBase(e typegraph.EnumDecl) (string, func(string) string) {
	quoted := func(v string) string { return strconv.Quote(v) }

	var base string
	var parse func(string) (string, bool)
	switch e.Base {
	case typegraph.ScalarInt32, typegraph.ScalarInt64:
		base = string(e.Base)
		bits := 64
		if e.Base == typegraph.ScalarInt32 {
			bits = 32
		}
		parse = func(v string) (string, bool) {
			n, err := strconv.ParseInt(v, 10, bits)
			if err != nil {
				return "", false
			}
			return strconv.FormatInt(n, 10), true
		}
	case typegraph.ScalarFloat32, typegraph.ScalarFloat64, typegraph.ScalarNumber:
		base = "float64"
		parse = func(v string) (string, bool) {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return "", false
			}
			return strconv.FormatFloat(f, 'g', -1, 64), true
		}
	default:
		return "string", quoted
	}

	for _, m := range e.Members {
		if _, ok := parse(m.Value); !ok {
			r.logger.Warn().Str("enum", e.Name).Str("value", m.Value).Msg("enum value does not match its base, emitting as string")
			r.diags.Add(emit.UnsupportedType, e.Name, fmt.Sprintf("value %q is not a valid %s", m.Value, e.Base))
			return "string", quoted
		}
	}
	return base, func(v string) string {
		lit, _ := parse(v)
		return lit
	}
}

// writeModel emits a struct. The direct base is embedded first and fields it
// already declares are skipped.
func (r *renderer) writeModel(w *writer.Writer, m typegraph.ModelDecl, imports importSet) error {
	name := r.names[m.Name]
	fieldNames := make(map[string]bool)

	var base typegraph.ModelDecl
	var embed string
	if m.Base != "" {
		if decl, ok := r.mapper.graph.Model(m.Base); ok && !naming.IsBuiltin(m.Base) {
			base = decl
			embed = r.mapper.typeName(m.Base)
			fieldNames[embed] = true
		} else {
			r.logger.Debug().Str("model", m.Name).Str("base", m.Base).Msg("base is not emitted, not embedding")
		}
	}

	type fieldLine struct {
		doc, name, typ, tag string
	}
	lines := make([]fieldLine, 0, len(m.Fields))
	fieldImports := importSet{}
	for _, f := range m.Fields {
		if embed != "" {
			if _, inherited := base.Field(f.Name); inherited {
				continue
			}
		}

		t, err := r.mapper.MapOptional(f.Type, f.Optional)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		fieldImports.add(t.Imports...)

		wanted := naming.Identifier(f.Name)
		if wanted == "" {
			wanted = "Field"
		}
		fieldName := claimUnique(fieldNames, wanted, func(got string) {
			r.collision(m.Name+"."+f.Name, wanted, got)
		})
		lines = append(lines, fieldLine{doc: f.Doc, name: fieldName, typ: t.Text, tag: r.jsonTag(m.Name, f)})
	}
	for p := range fieldImports {
		imports.add(p)
	}

	w.BlankLine()
	if m.Doc != "" {
		w.WriteDocComment(m.Doc)
	} else {
		w.WriteLinef("// %s represents a generated model", name)
	}
	w.WriteBlock(fmt.Sprintf("type %s struct {", name), "}", func() {
		if embed != "" {
			w.WriteLine(embed)
		}
		for _, l := range lines {
			w.WriteDocComment(l.doc)
			w.WriteLinef("%s %s %s", l.name, l.typ, l.tag)
		}
	})
	return nil
}

// jsonTag builds the struct tag carrying the raw field name. Characters that
// encoding/json cannot read back from a tag name are dropped and reported.
func (r *renderer) jsonTag(model string, f typegraph.FieldDecl) string {
	value := f.Name
	if !validTagName(value) {
		value = strings.Map(func(c rune) rune {
			if validTagRune(c) {
				return c
			}
			return -1
		}, value)
		r.logger.Warn().Str("model", model).Str("field", f.Name).Str("tag", value).Msg("field name cannot be carried in a json tag")
		r.diags.Add(emit.InvalidTagName, model+"."+f.Name, fmt.Sprintf("json name %q written as %q", f.Name, value))
	}
	if f.Optional {
		value += ",omitempty"
	}
	return fmt.Sprintf("`json:%s`", strconv.Quote(value))
}

// validTagName mirrors the name check encoding/json applies to struct tags.
func validTagName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !validTagRune(c) {
			return false
		}
	}
	return true
}

func validTagRune(c rune) bool {
	return strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c) || unicode.IsLetter(c) || unicode.IsDigit(c)
}

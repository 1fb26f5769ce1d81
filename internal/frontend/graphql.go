package frontend

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"

	"github.com/okra-platform/typespec-go/internal/typegraph"
)

// graphQLScalars maps GraphQL scalar names to schema scalars.
var graphQLScalars = map[string]typegraph.ScalarKind{
	"ID":       typegraph.ScalarString,
	"String":   typegraph.ScalarString,
	"Int":      typegraph.ScalarInt32,
	"Long":     typegraph.ScalarInt64,
	"Int64":    typegraph.ScalarInt64,
	"Float":    typegraph.ScalarFloat64,
	"Float32":  typegraph.ScalarFloat32,
	"Boolean":  typegraph.ScalarBoolean,
	"Bytes":    typegraph.ScalarBytes,
	"DateTime": typegraph.ScalarDateTime,
	"Time":     typegraph.ScalarDateTime,
	"Date":     typegraph.ScalarPlainTime,
	"UUID":     typegraph.ScalarUUID,
	"URL":      typegraph.ScalarURL,
	"JSON":     typegraph.ScalarUnknown,
	"Any":      typegraph.ScalarUnknown,
}

// graphQLLoader reads GraphQL IDL extended with service blocks: object and input types,
// enums, and `service` blocks whose fields are operations.
type graphQLLoader struct {
	logger zerolog.Logger
}

func newGraphQLLoader(logger zerolog.Logger) Loader {
	return &graphQLLoader{logger: logger}
}

func (l *graphQLLoader) Load(_ context.Context, path string) (*typegraph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graphql schema: %w", err)
	}
	return parseGraphQL(string(data), l.logger)
}

// parseGraphQL parses a GraphQL schema (after preprocessing) into a type
// graph document.
func parseGraphQL(input string, logger zerolog.Logger) (*typegraph.Document, error) {
	doc, report := astparser.ParseGraphqlDocumentString(preprocessGraphQL(input))
	if report.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse GraphQL: %v", ErrInvalidSchema, report)
	}

	p := &graphQLParser{
		doc:       &doc,
		logger:    logger,
		models:    make(map[string]bool),
		envelopes: make(map[string]bool),
		out:       &typegraph.Document{},
	}
	p.collect()

	for i := range doc.RootNodes {
		node := doc.RootNodes[i]
		switch node.Kind {
		case ast.NodeKindObjectTypeDefinition:
			def := doc.ObjectTypeDefinitions[node.Ref]
			name := doc.Input.ByteSliceString(def.Name)
			if service, ok := strings.CutPrefix(name, servicePrefix); ok {
				if err := p.parseService(def, service); err != nil {
					return nil, err
				}
				continue
			}
			p.parseModel(name, def.Description, def.Directives, p.fieldDefinitions(def.FieldsDefinition.Refs))
		case ast.NodeKindInputObjectTypeDefinition:
			def := doc.InputObjectTypeDefinitions[node.Ref]
			p.parseModel(doc.Input.ByteSliceString(def.Name), def.Description, def.Directives, p.inputValues(def.InputFieldsDefinition.Refs))
		case ast.NodeKindEnumTypeDefinition:
			p.parseEnum(doc.EnumTypeDefinitions[node.Ref])
		}
	}
	return p.out, nil
}

type graphQLParser struct {
	doc    *ast.Document
	logger zerolog.Logger
	// models holds every object and input type name, envelopes the subset
	// carrying a body field.
	models    map[string]bool
	envelopes map[string]bool
	out       *typegraph.Document
}

// graphQLField is the common view of object fields and input values.
type graphQLField struct {
	name       string
	doc        string
	typeRef    int
	directives ast.DirectiveList
}

func (p *graphQLParser) collect() {
	for _, node := range p.doc.RootNodes {
		switch node.Kind {
		case ast.NodeKindObjectTypeDefinition:
			def := p.doc.ObjectTypeDefinitions[node.Ref]
			name := p.doc.Input.ByteSliceString(def.Name)
			if strings.HasPrefix(name, servicePrefix) {
				continue
			}
			p.models[name] = true
			for _, f := range p.fieldDefinitions(def.FieldsDefinition.Refs) {
				if f.name == "body" {
					p.envelopes[name] = true
				}
			}
		case ast.NodeKindInputObjectTypeDefinition:
			p.models[p.doc.Input.ByteSliceString(p.doc.InputObjectTypeDefinitions[node.Ref].Name)] = true
		}
	}
}

func (p *graphQLParser) fieldDefinitions(refs []int) []graphQLField {
	out := make([]graphQLField, 0, len(refs))
	for _, ref := range refs {
		def := p.doc.FieldDefinitions[ref]
		out = append(out, graphQLField{
			name:       p.doc.Input.ByteSliceString(def.Name),
			doc:        p.description(def.Description),
			typeRef:    def.Type,
			directives: def.Directives,
		})
	}
	return out
}

func (p *graphQLParser) inputValues(refs []int) []graphQLField {
	out := make([]graphQLField, 0, len(refs))
	for _, ref := range refs {
		def := p.doc.InputValueDefinitions[ref]
		out = append(out, graphQLField{
			name:       p.doc.Input.ByteSliceString(def.Name),
			doc:        p.description(def.Description),
			typeRef:    def.Type,
			directives: def.Directives,
		})
	}
	return out
}

func (p *graphQLParser) parseModel(name string, desc ast.Description, directives ast.DirectiveList, fields []graphQLField) {
	model := typegraph.ModelDecl{
		Name: name,
		Doc:  p.description(desc),
	}
	if args, ok := p.directive(directives, "extends"); ok {
		model.Base = args["base"]
	}
	for _, f := range fields {
		ref, required := p.parseType(f.typeRef)
		model.Fields = append(model.Fields, typegraph.FieldDecl{
			Name:     f.name,
			Doc:      f.doc,
			Type:     ref,
			Optional: !required,
		})
	}
	p.out.Models = append(p.out.Models, model)
}

func (p *graphQLParser) parseEnum(def ast.EnumTypeDefinition) {
	enum := typegraph.EnumDecl{
		Name: p.doc.Input.ByteSliceString(def.Name),
		Doc:  p.description(def.Description),
	}
	for _, ref := range def.EnumValuesDefinition.Refs {
		value := p.doc.EnumValueDefinitions[ref]
		literal := p.doc.Input.ByteSliceString(value.EnumValue)
		enum.Members = append(enum.Members, typegraph.EnumMember{
			Name:  literal,
			Value: literal,
			Doc:   p.description(value.Description),
		})
	}
	p.out.Enums = append(p.out.Enums, enum)
}

func (p *graphQLParser) parseService(def ast.ObjectTypeDefinition, service string) error {
	iface := typegraph.InterfaceDecl{
		Name: service,
		Doc:  p.description(def.Description),
	}
	for _, ref := range def.FieldsDefinition.Refs {
		op, err := p.parseOperation(service, p.doc.FieldDefinitions[ref])
		if err != nil {
			return err
		}
		iface.Operations = append(iface.Operations, op)
	}
	p.out.Interfaces = append(p.out.Interfaces, iface)
	return nil
}

func (p *graphQLParser) parseOperation(service string, def ast.FieldDefinition) (typegraph.OperationDecl, error) {
	name := p.doc.Input.ByteSliceString(def.Name)
	op := typegraph.OperationDecl{
		Name:      name,
		Interface: service,
		Verb:      "post",
		Path:      "/" + service + "/" + name,
		Doc:       p.description(def.Description),
	}
	if args, ok := p.directive(def.Directives, "http"); ok {
		if m := args["method"]; m != "" {
			op.Verb = strings.ToLower(m)
		}
		if path := args["path"]; path != "" {
			op.Path = path
		}
	}

	bodyBound := false
	for _, arg := range p.inputValues(def.ArgumentsDefinition.Refs) {
		ref, required := p.parseType(arg.typeRef)
		param := typegraph.ParamDecl{
			Name:     arg.name,
			Type:     ref,
			Optional: !required,
		}
		switch {
		case p.hasDirective(arg.directives, "path"):
			param.In = typegraph.InPath
		case p.hasDirective(arg.directives, "query"):
			param.In = typegraph.InQuery
		case p.hasDirective(arg.directives, "body"):
			param.In = typegraph.InBody
		case strings.Contains(op.Path, "{"+arg.name+"}"):
			param.In = typegraph.InPath
		case !bodyBound && ref.Kind == typegraph.KindReference && p.models[ref.Ref]:
			param.In = typegraph.InBody
		default:
			param.In = typegraph.InQuery
		}
		if param.In == typegraph.InBody {
			if bodyBound {
				return op, fmt.Errorf("%w: operation %s.%s binds more than one body argument", ErrInvalidSchema, service, name)
			}
			bodyBound = true
		}
		if param.In == typegraph.InPath {
			param.Optional = false
		}
		op.Params = append(op.Params, param)
	}

	ret, _ := p.parseType(def.Type)
	if ret.Kind == typegraph.KindReference && p.envelopes[ret.Ref] {
		ret = typegraph.Wrapper(ret.Ref)
	}
	op.Returns = &ret
	return op, nil
}

// parseType maps a GraphQL type reference and reports whether it is non-null.
func (p *graphQLParser) parseType(typeRef int) (typegraph.TypeRef, bool) {
	required := false
	currentRef := typeRef

	if p.doc.Types[currentRef].TypeKind == ast.TypeKindNonNull {
		required = true
		currentRef = p.doc.Types[currentRef].OfType
	}

	switch p.doc.Types[currentRef].TypeKind {
	case ast.TypeKindList:
		elem, _ := p.parseType(p.doc.Types[currentRef].OfType)
		return typegraph.Array(elem), required
	case ast.TypeKindNamed:
		name := p.doc.Input.ByteSliceString(p.doc.Types[currentRef].Name)
		if scalar, ok := graphQLScalars[name]; ok {
			return typegraph.Primitive(scalar), required
		}
		return typegraph.Reference(name), required
	}

	p.logger.Warn().Int("ref", typeRef).Msg("unsupported graphql type")
	return typegraph.Primitive(typegraph.ScalarUnknown), required
}

func (p *graphQLParser) hasDirective(directives ast.DirectiveList, name string) bool {
	_, ok := p.directive(directives, name)
	return ok
}

// directive returns the arguments of the first directive with the given name.
func (p *graphQLParser) directive(directives ast.DirectiveList, name string) (map[string]string, bool) {
	for _, ref := range directives.Refs {
		d := p.doc.Directives[ref]
		if p.doc.Input.ByteSliceString(d.Name) != name {
			continue
		}
		args := make(map[string]string)
		for _, argRef := range d.Arguments.Refs {
			arg := p.doc.Arguments[argRef]
			args[p.doc.Input.ByteSliceString(arg.Name)] = p.value(p.doc.ArgumentValue(argRef))
		}
		return args, true
	}
	return nil, false
}

func (p *graphQLParser) value(value ast.Value) string {
	switch value.Kind {
	case ast.ValueKindString:
		return p.doc.StringValueContentString(value.Ref)
	case ast.ValueKindEnum:
		if value.Ref >= 0 && value.Ref < len(p.doc.EnumValues) {
			return p.doc.Input.ByteSliceString(p.doc.EnumValues[value.Ref].Name)
		}
	case ast.ValueKindBoolean:
		if value.Ref >= 0 && value.Ref < len(p.doc.BooleanValues) {
			return strconv.FormatBool(bool(p.doc.BooleanValues[value.Ref]))
		}
	case ast.ValueKindInteger:
		return fmt.Sprintf("%d", p.doc.IntValueAsInt(value.Ref))
	}
	return ""
}

func (p *graphQLParser) description(desc ast.Description) string {
	if !desc.IsDefined {
		return ""
	}
	return strings.TrimSpace(p.doc.Input.ByteSliceString(desc.Content))
}

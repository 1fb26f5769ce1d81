package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/okra-platform/typespec-go/internal/codegen/naming"
	"github.com/okra-platform/typespec-go/internal/typegraph"
)

const schemaRefPrefix = "#/components/schemas/"

// openAPILoader reads OpenAPI 3 documents and Swagger 2 documents, which are
// converted to OpenAPI 3 first.
type openAPILoader struct {
	logger zerolog.Logger
}

func newOpenAPILoader(logger zerolog.Logger) Loader {
	return &openAPILoader{logger: logger}
}

func (l *openAPILoader) Load(ctx context.Context, path string) (*typegraph.Document, error) {
	api, err := l.read(path)
	if err != nil {
		return nil, err
	}
	if err := api.Validate(ctx); err != nil {
		l.logger.Warn().Err(err).Str("path", path).Msg("openapi document failed validation, continuing")
	}
	return newOpenAPIBuilder(api, l.logger).build(), nil
}

func (l *openAPILoader) read(path string) (*openapi3.T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read openapi document: %w", err)
	}

	var head struct {
		Swagger string `yaml:"swagger"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if strings.HasPrefix(head.Swagger, "2.") {
		return convertSwagger(data)
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	api, err := loader.LoadFromFile(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return api, nil
}

// convertSwagger upgrades a Swagger 2 document. The YAML is re-encoded as
// JSON because the openapi2 types only carry JSON tags.
func convertSwagger(data []byte) (*openapi3.T, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	js, err := json.Marshal(stringKeys(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	var v2 openapi2.T
	if err := json.Unmarshal(js, &v2); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	api, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to convert swagger 2 document: %w", ErrInvalidSchema, err)
	}
	return api, nil
}

// stringKeys converts YAML maps with non-string keys, such as unquoted
// response codes, into JSON-compatible maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	}
	return v
}

// openAPIBuilder maps one OpenAPI document onto a typegraph.Document.
// Components and paths are visited in sorted order so output is stable.
type openAPIBuilder struct {
	api     *openapi3.T
	logger  zerolog.Logger
	doc     *typegraph.Document
	names   map[string]bool
	aliases map[string]*openapi3.SchemaRef
	ifaces  map[string]int
}

func newOpenAPIBuilder(api *openapi3.T, logger zerolog.Logger) *openAPIBuilder {
	return &openAPIBuilder{
		api:     api,
		logger:  logger,
		doc:     &typegraph.Document{},
		names:   make(map[string]bool),
		aliases: make(map[string]*openapi3.SchemaRef),
		ifaces:  make(map[string]int),
	}
}

func (b *openAPIBuilder) build() *typegraph.Document {
	var schemas openapi3.Schemas
	if b.api.Components != nil {
		schemas = b.api.Components.Schemas
	}
	names := sortedKeys(schemas)

	// Aliases are resolved inline, so they are collected before any schema
	// is converted.
	for _, name := range names {
		ref := schemas[name]
		if ref != nil && (ref.Ref != "" || (ref.Value != nil && !isNamedDecl(ref.Value))) {
			b.aliases[name] = ref
		}
		b.names[name] = true
	}
	for _, name := range names {
		if ref := schemas[name]; ref != nil && b.aliases[name] == nil {
			b.addSchema(name, ref)
		}
	}

	for _, path := range sortedKeys(b.api.Paths) {
		item := b.api.Paths[path]
		if item == nil {
			continue
		}
		for _, m := range []struct {
			verb string
			op   *openapi3.Operation
		}{
			{"get", item.Get}, {"post", item.Post}, {"put", item.Put}, {"patch", item.Patch},
			{"delete", item.Delete}, {"head", item.Head}, {"options", item.Options}, {"trace", item.Trace},
		} {
			if m.op != nil {
				b.addOperation(path, m.verb, item, m.op)
			}
		}
	}
	return b.doc
}

// isNamedDecl reports whether a component schema becomes a model or enum.
func isNamedDecl(s *openapi3.Schema) bool {
	return len(s.Enum) > 0 || s.Type == "object" || len(s.Properties) > 0 || len(s.AllOf) > 0
}

func (b *openAPIBuilder) addSchema(name string, ref *openapi3.SchemaRef) {
	s := ref.Value
	if s == nil {
		return
	}
	if len(s.Enum) > 0 {
		b.doc.Enums = append(b.doc.Enums, enumFromSchema(name, s))
		return
	}

	model := typegraph.ModelDecl{Name: name, Doc: schemaDoc(s)}
	parts := []*openapi3.SchemaRef{ref}
	if len(s.AllOf) > 0 {
		parts = nil
		for _, part := range s.AllOf {
			if part == nil {
				continue
			}
			if base := refName(part.Ref); base != "" && model.Base == "" && b.aliases[base] == nil {
				model.Base = base
				continue
			}
			parts = append(parts, part)
		}
		if len(s.Properties) > 0 {
			parts = append(parts, &openapi3.SchemaRef{Value: &openapi3.Schema{Properties: s.Properties, Required: s.Required}})
		}
	}
	for _, part := range parts {
		if part.Value == nil {
			continue
		}
		model.Fields = append(model.Fields, b.fields(name, part.Value)...)
	}
	b.doc.Models = append(b.doc.Models, model)
}

func (b *openAPIBuilder) fields(owner string, s *openapi3.Schema) []typegraph.FieldDecl {
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	out := make([]typegraph.FieldDecl, 0, len(s.Properties))
	for _, prop := range sortedKeys(s.Properties) {
		ref := s.Properties[prop]
		f := typegraph.FieldDecl{
			Name:     prop,
			Type:     b.typeRef(ref, owner+naming.ExportedName(naming.CleanName(prop)), nil),
			Optional: !required[prop],
		}
		if ref != nil && ref.Value != nil {
			f.Doc = ref.Value.Description
			if ref.Value.Nullable {
				f.Optional = true
			}
		}
		out = append(out, f)
	}
	return out
}

func enumFromSchema(name string, s *openapi3.Schema) typegraph.EnumDecl {
	e := typegraph.EnumDecl{Name: name, Doc: schemaDoc(s)}
	switch s.Type {
	case "integer":
		e.Base = typegraph.ScalarInt64
		if s.Format == "int32" {
			e.Base = typegraph.ScalarInt32
		}
	case "number":
		e.Base = typegraph.ScalarNumber
	}
	for _, v := range s.Enum {
		value := enumLiteral(v)
		e.Members = append(e.Members, typegraph.EnumMember{Name: value, Value: value})
	}
	return e
}

func enumLiteral(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// typeRef maps a schema to a type. Inline objects with properties become
// synthesized models named after hint; seen guards alias chains.
func (b *openAPIBuilder) typeRef(ref *openapi3.SchemaRef, hint string, seen map[string]bool) typegraph.TypeRef {
	if ref == nil {
		return typegraph.Primitive(typegraph.ScalarUnknown)
	}
	if name := refName(ref.Ref); name != "" {
		alias, ok := b.aliases[name]
		if !ok {
			return typegraph.Reference(name)
		}
		if seen[name] {
			b.logger.Warn().Str("schema", name).Msg("recursive schema alias")
			return typegraph.Primitive(typegraph.ScalarUnknown)
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[name] = true
		return b.typeRef(alias, name, seen)
	}
	if ref.Ref != "" {
		b.logger.Warn().Str("ref", ref.Ref).Msg("unsupported reference")
		return typegraph.Primitive(typegraph.ScalarUnknown)
	}

	s := ref.Value
	if s == nil {
		return typegraph.Primitive(typegraph.ScalarUnknown)
	}
	switch s.Type {
	case "string":
		return typegraph.Primitive(stringFormat(s.Format))
	case "integer":
		if s.Format == "int32" {
			return typegraph.Primitive(typegraph.ScalarInt32)
		}
		return typegraph.Primitive(typegraph.ScalarInt64)
	case "number":
		switch s.Format {
		case "float":
			return typegraph.Primitive(typegraph.ScalarFloat32)
		case "double":
			return typegraph.Primitive(typegraph.ScalarFloat64)
		}
		return typegraph.Primitive(typegraph.ScalarNumber)
	case "boolean":
		return typegraph.Primitive(typegraph.ScalarBoolean)
	case "array":
		return typegraph.Array(b.typeRef(s.Items, hint+"Item", seen))
	}

	if len(s.Properties) > 0 || len(s.AllOf) > 0 {
		name := b.synthesize(hint)
		b.addSchema(name, &openapi3.SchemaRef{Value: s})
		return typegraph.Reference(name)
	}
	if s.AdditionalProperties.Schema != nil {
		return typegraph.Map(b.typeRef(s.AdditionalProperties.Schema, hint+"Value", seen))
	}
	if s.AdditionalProperties.Has != nil && *s.AdditionalProperties.Has {
		return typegraph.Map(typegraph.Primitive(typegraph.ScalarUnknown))
	}
	return typegraph.Primitive(typegraph.ScalarUnknown)
}

func stringFormat(format string) typegraph.ScalarKind {
	switch format {
	case "date-time":
		return typegraph.ScalarDateTime
	case "date", "time":
		return typegraph.ScalarPlainTime
	case "uuid":
		return typegraph.ScalarUUID
	case "uri", "url":
		return typegraph.ScalarURL
	case "byte", "binary":
		return typegraph.ScalarBytes
	}
	return typegraph.ScalarString
}

// synthesize returns an unused declaration name for an inline schema.
func (b *openAPIBuilder) synthesize(hint string) string {
	name := naming.Identifier(hint)
	if name == "" {
		name = "Inline"
	}
	candidate := name
	for i := 2; b.names[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	b.names[candidate] = true
	return candidate
}

func (b *openAPIBuilder) addOperation(path, verb string, item *openapi3.PathItem, op *openapi3.Operation) {
	name := op.OperationID
	if name == "" {
		name = verb + naming.PathSuffix(path)
	}
	decl := typegraph.OperationDecl{
		Name: name,
		Verb: verb,
		Path: path,
		Doc:  strings.TrimSpace(op.Summary),
	}
	if decl.Doc == "" {
		decl.Doc = strings.TrimSpace(op.Description)
	}
	hint := naming.ExportedName(naming.CleanName(name))

	for _, p := range mergeParameters(item.Parameters, op.Parameters) {
		var in typegraph.ParamIn
		switch p.In {
		case openapi3.ParameterInPath:
			in = typegraph.InPath
		case openapi3.ParameterInQuery:
			in = typegraph.InQuery
		default:
			b.logger.Debug().Str("operation", name).Str("param", p.Name).Str("in", p.In).Msg("skipping parameter")
			continue
		}
		decl.Params = append(decl.Params, typegraph.ParamDecl{
			Name:     p.Name,
			In:       in,
			Type:     b.typeRef(p.Schema, hint+naming.ExportedName(naming.CleanName(p.Name)), nil),
			Optional: in != typegraph.InPath && !p.Required,
		})
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := op.RequestBody.Value
		if media := jsonMedia(body.Content); media != nil {
			bodyName := "body"
			if v := extensionString(op.Extensions, "x-codegen-request-body-name"); v != "" {
				bodyName = v
			}
			decl.Params = append(decl.Params, typegraph.ParamDecl{
				Name:     bodyName,
				In:       typegraph.InBody,
				Type:     b.typeRef(media.Schema, hint+"Request", nil),
				Optional: !body.Required,
			})
		}
	}

	for _, code := range sortedKeys(op.Responses) {
		resp := op.Responses[code]
		if !strings.HasPrefix(code, "2") || resp == nil || resp.Value == nil {
			continue
		}
		if media := jsonMedia(resp.Value.Content); media != nil {
			ret := b.typeRef(media.Schema, hint+"Response", nil)
			decl.Returns = &ret
			break
		}
	}

	if len(op.Tags) == 0 {
		b.doc.Operations = append(b.doc.Operations, decl)
		return
	}
	decl.Interface = op.Tags[0]
	b.iface(op.Tags[0]).Operations = append(b.iface(op.Tags[0]).Operations, decl)
}

func (b *openAPIBuilder) iface(tag string) *typegraph.InterfaceDecl {
	idx, ok := b.ifaces[tag]
	if !ok {
		decl := typegraph.InterfaceDecl{Name: tag}
		if t := b.api.Tags.Get(tag); t != nil {
			decl.Doc = t.Description
		}
		idx = len(b.doc.Interfaces)
		b.doc.Interfaces = append(b.doc.Interfaces, decl)
		b.ifaces[tag] = idx
	}
	return &b.doc.Interfaces[idx]
}

// mergeParameters returns path-level parameters overridden by operation
// level ones, in declaration order.
func mergeParameters(pathLevel, opLevel openapi3.Parameters) []*openapi3.Parameter {
	var out []*openapi3.Parameter
	index := make(map[string]int)
	for _, list := range []openapi3.Parameters{pathLevel, opLevel} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			key := ref.Value.In + ":" + ref.Value.Name
			if i, ok := index[key]; ok {
				out[i] = ref.Value
				continue
			}
			index[key] = len(out)
			out = append(out, ref.Value)
		}
	}
	return out
}

// jsonMedia picks application/json, then any +json type, then the first
// content type in sorted order.
func jsonMedia(content openapi3.Content) *openapi3.MediaType {
	if len(content) == 0 {
		return nil
	}
	if mt := content.Get("application/json"); mt != nil {
		return mt
	}
	keys := sortedKeys(content)
	for _, k := range keys {
		if strings.HasSuffix(k, "+json") {
			return content[k]
		}
	}
	return content[keys[0]]
}

func extensionString(ext map[string]any, key string) string {
	switch v := ext[key].(type) {
	case string:
		return v
	case json.RawMessage:
		var out string
		if err := json.Unmarshal(v, &out); err == nil {
			return out
		}
	}
	return ""
}

func refName(ref string) string {
	if !strings.HasPrefix(ref, schemaRefPrefix) {
		return ""
	}
	return strings.TrimPrefix(ref, schemaRefPrefix)
}

func schemaDoc(s *openapi3.Schema) string {
	if s.Description != "" {
		return s.Description
	}
	return s.Title
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

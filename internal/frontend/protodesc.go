package frontend

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/okra-platform/typespec-go/internal/typegraph"
)

const wellKnownPackage = "google.protobuf"

// wellKnownTypes maps google.protobuf messages to scalars. Wrapper types are
// optional by construction.
var wellKnownTypes = map[protoreflect.FullName]struct {
	scalar   typegraph.ScalarKind
	optional bool
}{
	"google.protobuf.Timestamp":   {typegraph.ScalarDateTime, false},
	"google.protobuf.Duration":    {typegraph.ScalarString, false},
	"google.protobuf.Struct":      {typegraph.ScalarUnknown, false},
	"google.protobuf.Value":       {typegraph.ScalarUnknown, false},
	"google.protobuf.ListValue":   {typegraph.ScalarUnknown, false},
	"google.protobuf.Any":         {typegraph.ScalarUnknown, false},
	"google.protobuf.Empty":       {typegraph.ScalarUnknown, false},
	"google.protobuf.StringValue": {typegraph.ScalarString, true},
	"google.protobuf.BytesValue":  {typegraph.ScalarBytes, true},
	"google.protobuf.BoolValue":   {typegraph.ScalarBoolean, true},
	"google.protobuf.Int32Value":  {typegraph.ScalarInt32, true},
	"google.protobuf.Int64Value":  {typegraph.ScalarInt64, true},
	"google.protobuf.UInt32Value": {typegraph.ScalarInt64, true},
	"google.protobuf.UInt64Value": {typegraph.ScalarInt64, true},
	"google.protobuf.FloatValue":  {typegraph.ScalarFloat32, true},
	"google.protobuf.DoubleValue": {typegraph.ScalarFloat64, true},
}

// protoLoader reads a serialized FileDescriptorSet, as produced by
// `protoc --descriptor_set_out` or `buf build -o`. Services bind every method
// as a Connect unary call: POST /<package>.<Service>/<Method>.
type protoLoader struct {
	logger zerolog.Logger
}

func newProtoLoader(logger zerolog.Logger) Loader {
	return &protoLoader{logger: logger}
}

func (l *protoLoader) Load(_ context.Context, path string) (*typegraph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor set: %w", err)
	}
	fds := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(data, fds); err != nil {
		return nil, fmt.Errorf("%w: failed to decode descriptor set: %w", ErrInvalidSchema, err)
	}
	return buildProtoDocument(fds, l.logger)
}

func buildProtoDocument(fds *descriptorpb.FileDescriptorSet, logger zerolog.Logger) (*typegraph.Document, error) {
	files := new(protoregistry.Files)
	resolved := make([]protoreflect.FileDescriptor, 0, len(fds.File))
	for _, fdProto := range fds.File {
		file, err := protodesc.FileOptions{AllowUnresolvable: true}.New(fdProto, files)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create file descriptor %s: %w", ErrInvalidSchema, fdProto.GetName(), err)
		}
		if err := files.RegisterFile(file); err != nil {
			return nil, fmt.Errorf("%w: failed to register file %s: %w", ErrInvalidSchema, fdProto.GetName(), err)
		}
		resolved = append(resolved, file)
	}

	b := &protoBuilder{logger: logger, out: &typegraph.Document{}}
	for _, file := range resolved {
		if file.Package() == wellKnownPackage {
			continue
		}
		b.file(file)
	}
	return b.out, nil
}

type protoBuilder struct {
	logger zerolog.Logger
	out    *typegraph.Document
}

func (b *protoBuilder) file(file protoreflect.FileDescriptor) {
	enums := file.Enums()
	for i := 0; i < enums.Len(); i++ {
		b.enum(enums.Get(i))
	}
	messages := file.Messages()
	for i := 0; i < messages.Len(); i++ {
		b.message(messages.Get(i))
	}
	services := file.Services()
	for i := 0; i < services.Len(); i++ {
		b.service(services.Get(i))
	}
}

func (b *protoBuilder) message(md protoreflect.MessageDescriptor) {
	if md.IsMapEntry() {
		return
	}
	model := typegraph.ModelDecl{
		Name: declName(md),
		Doc:  comments(md),
	}
	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		ref, optional := b.fieldType(fd)
		model.Fields = append(model.Fields, typegraph.FieldDecl{
			Name:     fd.JSONName(),
			Doc:      comments(fd),
			Type:     ref,
			Optional: optional,
		})
	}
	b.out.Models = append(b.out.Models, model)

	enums := md.Enums()
	for i := 0; i < enums.Len(); i++ {
		b.enum(enums.Get(i))
	}
	nested := md.Messages()
	for i := 0; i < nested.Len(); i++ {
		b.message(nested.Get(i))
	}
}

// fieldType maps a field and reports whether it is optional. Repeated and
// map fields are never optional.
func (b *protoBuilder) fieldType(fd protoreflect.FieldDescriptor) (typegraph.TypeRef, bool) {
	switch {
	case fd.IsMap():
		value, _ := b.singularType(fd.MapValue())
		return typegraph.Map(value), false
	case fd.IsList():
		elem, _ := b.singularType(fd)
		return typegraph.Array(elem), false
	}
	ref, wrapper := b.singularType(fd)
	return ref, wrapper || fd.HasPresence()
}

// singularType maps the element type of a field. The flag reports a
// well-known wrapper message.
func (b *protoBuilder) singularType(fd protoreflect.FieldDescriptor) (typegraph.TypeRef, bool) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return typegraph.Primitive(typegraph.ScalarBoolean), false
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return typegraph.Primitive(typegraph.ScalarInt32), false
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return typegraph.Primitive(typegraph.ScalarInt64), false
	case protoreflect.FloatKind:
		return typegraph.Primitive(typegraph.ScalarFloat32), false
	case protoreflect.DoubleKind:
		return typegraph.Primitive(typegraph.ScalarFloat64), false
	case protoreflect.StringKind:
		return typegraph.Primitive(typegraph.ScalarString), false
	case protoreflect.BytesKind:
		return typegraph.Primitive(typegraph.ScalarBytes), false
	case protoreflect.EnumKind:
		return typegraph.Reference(declName(fd.Enum())), false
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return b.messageType(fd.Message())
	}
	b.logger.Warn().Str("field", string(fd.FullName())).Str("kind", fd.Kind().String()).Msg("unsupported protobuf field kind")
	return typegraph.Primitive(typegraph.ScalarUnknown), false
}

func (b *protoBuilder) messageType(md protoreflect.MessageDescriptor) (typegraph.TypeRef, bool) {
	if wkt, ok := wellKnownTypes[md.FullName()]; ok {
		return typegraph.Primitive(wkt.scalar), wkt.optional
	}
	if md.ParentFile() != nil && md.ParentFile().Package() == wellKnownPackage {
		b.logger.Warn().Str("message", string(md.FullName())).Msg("unsupported well-known type")
		return typegraph.Primitive(typegraph.ScalarUnknown), false
	}
	return typegraph.Reference(declName(md)), false
}

func (b *protoBuilder) enum(ed protoreflect.EnumDescriptor) {
	enum := typegraph.EnumDecl{
		Name: declName(ed),
		Doc:  comments(ed),
	}
	prefix := upperSnake(string(ed.Name())) + "_"
	values := ed.Values()
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		raw := string(v.Name())
		name := strings.TrimPrefix(raw, prefix)
		if name == "" {
			name = raw
		}
		enum.Members = append(enum.Members, typegraph.EnumMember{
			Name:  name,
			Value: raw,
			Doc:   comments(v),
		})
	}
	b.out.Enums = append(b.out.Enums, enum)
}

func (b *protoBuilder) service(sd protoreflect.ServiceDescriptor) {
	iface := typegraph.InterfaceDecl{
		Name: string(sd.Name()),
		Doc:  comments(sd),
	}
	methods := sd.Methods()
	for i := 0; i < methods.Len(); i++ {
		m := methods.Get(i)
		if m.IsStreamingClient() || m.IsStreamingServer() {
			b.logger.Warn().Str("method", string(m.FullName())).Msg("skipping streaming method")
			continue
		}
		op := typegraph.OperationDecl{
			Name:      string(m.Name()),
			Interface: iface.Name,
			Verb:      "post",
			Path:      fmt.Sprintf("/%s/%s", sd.FullName(), m.Name()),
			Doc:       comments(m),
		}
		if m.Input().FullName() != "google.protobuf.Empty" {
			in, _ := b.messageType(m.Input())
			op.Params = append(op.Params, typegraph.ParamDecl{Name: "request", In: typegraph.InBody, Type: in})
		}
		if m.Output().FullName() != "google.protobuf.Empty" {
			out, _ := b.messageType(m.Output())
			op.Returns = &out
		}
		iface.Operations = append(iface.Operations, op)
	}
	b.out.Interfaces = append(b.out.Interfaces, iface)
}

// declName returns the descriptor name relative to its package, with nested
// scopes joined by underscores.
func declName(d protoreflect.Descriptor) string {
	name := string(d.FullName())
	if file := d.ParentFile(); file != nil && file.Package() != "" {
		name = strings.TrimPrefix(name, string(file.Package())+".")
	}
	return strings.ReplaceAll(name, ".", "_")
}

func comments(d protoreflect.Descriptor) string {
	file := d.ParentFile()
	if file == nil {
		return ""
	}
	return strings.TrimSpace(file.SourceLocations().ByDescriptor(d).LeadingComments)
}

// upperSnake converts an enum name such as PetStatus to PET_STATUS.
func upperSnake(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}

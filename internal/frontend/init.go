package frontend

const (
	FormatGraph    = "graph"
	FormatOpenAPI  = "openapi"
	FormatGraphQL  = "graphql"
	FormatProtobuf = "protobuf"
)

// DefaultRegistry is the global registry instance with pre-registered frontends
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(FormatGraph, newGraphFileLoader)
	DefaultRegistry.Register(FormatOpenAPI, newOpenAPILoader)
	DefaultRegistry.Register(FormatGraphQL, newGraphQLLoader, ".gql", ".graphql", ".graphqls")
	DefaultRegistry.Register(FormatProtobuf, newProtoLoader, ".pb", ".desc", ".binpb", ".protoset")
}

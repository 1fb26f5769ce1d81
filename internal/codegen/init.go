package codegen

import (
	"github.com/okra-platform/typespec-go/internal/codegen/golang"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("go", newGoGenerator)
	DefaultRegistry.Register("golang", newGoGenerator)
}

func newGoGenerator(opts Options) Generator {
	return golang.NewGenerator(opts.PackageName,
		golang.WithLogger(opts.Logger),
		golang.WithQueryPointerPolicy(opts.QueryPointers),
	)
}

package codegen

import (
	"golang.org/x/tools/imports"
)

var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// formatSource gofmts generated code and groups its imports. It never adds
// or removes imports.
func formatSource(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, formatOptions)
}

package naming

import "strings"

// reservedPrefixes mark declarations owned by the schema language itself.
var reservedPrefixes = []string{"TypeSpec."}

// placeholderNames are bare primitive or placeholder keywords that frontends
// sometimes surface as declarations.
var placeholderNames = map[string]bool{
	"object":      true,
	"string":      true,
	"unknown":     true,
	"Record":      true,
	"boolean":     true,
	"bytes":       true,
	"int32":       true,
	"int64":       true,
	"float32":     true,
	"float64":     true,
	"numeric":     true,
	"integer":     true,
	"utcDateTime": true,
	"void":        true,
	"never":       true,
	"null":        true,
}

// IsBuiltin reports whether a raw declaration name belongs to the schema
// language's built-ins rather than to user-authored types.
func IsBuiltin(raw string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	if strings.Contains(raw, "@typespec") {
		return true
	}
	return placeholderNames[raw]
}

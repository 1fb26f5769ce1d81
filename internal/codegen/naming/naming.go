// Package naming derives Go identifiers from raw schema names.
package naming

import (
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// namespaceSeparator separates qualifier segments in raw schema names.
const namespaceSeparator = "."

// CleanName strips any namespace qualifier and removes every character that
// is not an ASCII letter or digit. CleanName(CleanName(x)) == CleanName(x).
func CleanName(raw string) string {
	raw = stripQualifier(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ExportedName capitalizes the first character only.
func ExportedName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Identifier turns a raw declaration or field name into an exported Go
// identifier.
func Identifier(raw string) string {
	return SanitizeLeadingDigit(ExportedName(CleanName(raw)))
}

// SanitizeLeadingDigit prefixes names that start with a digit with "Num".
func SanitizeLeadingDigit(name string) string {
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "Num" + name
	}
	return name
}

// MemberName converts an enum member name into the suffix used for its
// constant. Words are split on non-alphanumerics; all-caps words are
// title-cased so that ACTIVE and IN_PROGRESS become Active and InProgress.
func MemberName(raw string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, word := range splitWords(raw) {
		if isUpperWord(word) {
			b.WriteString(title.String(word))
			continue
		}
		b.WriteString(ExportedName(word))
	}
	return b.String()
}

// ParamName returns an unexported parameter identifier that is not a Go
// keyword and does not shadow the implicit context parameter.
func ParamName(raw string) string {
	name := CleanName(raw)
	if name == "" {
		return "param"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "p" + name
	}
	name = lowerFirst(name)
	if token.IsKeyword(name) || name == "ctx" || isPredeclared(name) {
		name += "Param"
	}
	return name
}

// PathSuffix builds the collision suffix for an operation: every literal
// segment of the path template, title-cased and cleaned, concatenated.
// Placeholder segments ({id} or :id) are dropped.
func PathSuffix(path string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || isPlaceholder(seg) {
			continue
		}
		b.WriteString(CleanName(title.String(seg)))
	}
	return b.String()
}

func isPlaceholder(seg string) bool {
	return strings.HasPrefix(seg, "{") || strings.HasPrefix(seg, ":")
}

func splitWords(raw string) []string {
	return strings.FieldsFunc(stripQualifier(raw), func(r rune) bool {
		return !isASCIIAlnum(r)
	})
}

// stripQualifier drops the namespace qualifier but keeps word separators.
func stripQualifier(raw string) string {
	if i := strings.LastIndex(raw, namespaceSeparator); i >= 0 {
		return raw[i+len(namespaceSeparator):]
	}
	return raw
}

func isUpperWord(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	// Keep leading acronyms readable: ID -> id, URLPath -> urlPath.
	runes := []rune(s)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		i++
	}
	switch {
	case i == 0:
		return s
	case i == 1 || i == len(runes):
		return strings.ToLower(string(runes[:i])) + string(runes[i:])
	default:
		return strings.ToLower(string(runes[:i-1])) + string(runes[i-1:])
	}
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isPredeclared(name string) bool {
	switch name {
	case "string", "bool", "byte", "error", "int", "int32", "int64", "float32", "float64",
		"any", "nil", "true", "false", "len", "cap", "new", "make", "append", "copy", "rune":
		return true
	}
	return false
}

package golang

import (
	"sort"
	"strings"

	"github.com/okra-platform/typespec-go/internal/codegen/writer"
)

// importSet tracks the import paths a generated file needs.
type importSet map[string]bool

func (s importSet) add(paths ...string) {
	for _, p := range paths {
		s[p] = true
	}
}

// sorted returns standard library paths first, then everything else, each
// group sorted.
func (s importSet) sorted() (std, other []string) {
	for p := range s {
		if isStdlib(p) {
			std = append(std, p)
		} else {
			other = append(other, p)
		}
	}
	sort.Strings(std)
	sort.Strings(other)
	return std, other
}

func (s importSet) write(w *writer.Writer) {
	if len(s) == 0 {
		return
	}
	std, other := s.sorted()
	w.WriteBlock("import (", ")", func() {
		for _, p := range std {
			w.WriteLinef("%q", p)
		}
		if len(std) > 0 && len(other) > 0 {
			w.Newline()
		}
		for _, p := range other {
			w.WriteLinef("%q", p)
		}
	})
	w.BlankLine()
}

func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

// Package writer buffers generated source text with indentation tracking.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated code line by line, prefixing each line with
// the current indentation.
type Writer struct {
	sb         strings.Builder
	indentUnit string
	depth      int
	atLineHead bool
	// trailing counts the newlines at the end of the buffer (capped at 2).
	trailing int
}

// NewWriter creates a writer that indents with indentUnit per level.
func NewWriter(indentUnit string) *Writer {
	return &Writer{indentUnit: indentUnit, atLineHead: true}
}

// Indent increases the indentation level.
func (w *Writer) Indent() {
	w.depth++
}

// Dedent decreases the indentation level. It never goes below zero.
func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Write writes s without a trailing newline.
func (w *Writer) Write(s string) {
	if s == "" {
		return
	}
	if w.atLineHead {
		w.sb.WriteString(strings.Repeat(w.indentUnit, w.depth))
		w.atLineHead = false
	}
	w.sb.WriteString(s)
	w.trailing = 0
}

// Writef writes a formatted string without a trailing newline.
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted line.
func (w *Writer) WriteLinef(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.sb.WriteByte('\n')
	w.atLineHead = true
	if w.trailing < 2 {
		w.trailing++
	}
}

// BlankLine separates sections with exactly one empty line. It is a no-op at
// the start of the buffer or after an existing blank line.
func (w *Writer) BlankLine() {
	if w.sb.Len() == 0 || w.trailing >= 2 {
		return
	}
	if !w.atLineHead {
		w.Newline()
	}
	w.Newline()
}

// WriteBlock writes opener, the indented content, then closer.
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteComment writes a single line comment. An empty comment is written as
// a bare "//" so paragraph breaks survive gofmt.
func (w *Writer) WriteComment(text string) {
	if text == "" {
		w.WriteLine("//")
		return
	}
	w.WriteLine("// " + text)
}

// WriteDocComment writes doc as a comment block, one comment line per line
// of text. Leading and trailing blank lines are dropped.
func (w *Writer) WriteDocComment(doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		w.WriteComment(strings.TrimSpace(line))
	}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.sb.Len()
}

// String returns the generated code.
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the generated code as a byte slice.
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

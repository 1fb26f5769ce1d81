// Package emit holds the values language generators hand back to the
// generation pipeline.
package emit

import "sync"

// Output is one rendered artifact. Err is set when rendering failed; other
// artifacts of the same run are unaffected. Content is nil when nothing could
// be rendered, and holds the remaining declarations when only some of them
// failed.
type Output struct {
	Name    string
	Content []byte
	Err     error
}

// DiagnosticKind classifies a non-fatal generation issue.
type DiagnosticKind string

const (
	// UnsupportedType means a schema type fell back to the opaque placeholder.
	UnsupportedType DiagnosticKind = "unsupported-type"
	// NamingCollision means an identifier was suffixed to stay unique.
	NamingCollision DiagnosticKind = "naming-collision"
	// InvalidTagName means a field name lost characters in its json tag.
	InvalidTagName DiagnosticKind = "invalid-tag-name"
	// FormatFailed means an artifact was written unformatted.
	FormatFailed DiagnosticKind = "format-failed"
)

// Diagnostic is a non-fatal issue raised during generation.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
}

// Diagnostics collects issues in the order they were raised. It is safe for
// concurrent use.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Add records a diagnostic.
func (d *Diagnostics) Add(kind DiagnosticKind, subject, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, Diagnostic{Kind: kind, Subject: subject, Message: message})
}

// Items returns a copy of the recorded diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

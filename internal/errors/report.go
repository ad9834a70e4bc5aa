package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Diagnostic is one reported error, always tied to a source location.
type Diagnostic struct {
	Code    string
	File    string
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// Report accumulates diagnostics across a phase instead of stopping at the
// first failure, so a single run surfaces every problem it can find.
type Report struct {
	diagnostics []Diagnostic
}

// Add records one diagnostic.
func (r *Report) Add(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// HasErrors reports whether anything was recorded.
func (r *Report) HasErrors() bool {
	return len(r.diagnostics) > 0
}

// Len returns the number of recorded diagnostics.
func (r *Report) Len() int {
	return len(r.diagnostics)
}

// Diagnostics returns the recorded diagnostics sorted by (File, Line, Column).
func (r *Report) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// Render writes one line per diagnostic, sorted, for stderr output.
func (r *Report) Render() string {
	var b strings.Builder
	for _, d := range r.Diagnostics() {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

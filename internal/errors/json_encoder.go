package errors

import "encoding/json"

// jsonDiagnostic is the wire shape for one diagnostic, including the
// registry metadata so downstream tooling never has to look the code up.
type jsonDiagnostic struct {
	Code     string `json:"code"`
	Phase    string `json:"phase"`
	Category string `json:"category"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
}

// EncodeJSON renders the report's diagnostics, in sorted order, as a JSON
// array. Unknown codes fall back to empty phase/category rather than
// failing encoding.
func (r *Report) EncodeJSON() ([]byte, error) {
	sorted := r.Diagnostics()
	out := make([]jsonDiagnostic, len(sorted))
	for i, d := range sorted {
		info, _ := GetErrorInfo(d.Code)
		out[i] = jsonDiagnostic{
			Code:     d.Code,
			Phase:    info.Phase,
			Category: info.Category,
			File:     d.File,
			Line:     d.Line,
			Column:   d.Column,
			Message:  d.Message,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

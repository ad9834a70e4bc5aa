package errors

import (
	"encoding/json"
	"testing"
)

func TestReportSortsByFileLineColumn(t *testing.T) {
	var r Report
	r.Add(Diagnostic{Code: PAR001, File: "b.ax", Line: 2, Column: 1, Message: "x"})
	r.Add(Diagnostic{Code: PAR001, File: "a.ax", Line: 10, Column: 1, Message: "y"})
	r.Add(Diagnostic{Code: PAR001, File: "a.ax", Line: 1, Column: 5, Message: "z"})

	got := r.Diagnostics()
	want := []string{"a.ax", "a.ax", "b.ax"}
	for i, d := range got {
		if d.File != want[i] {
			t.Fatalf("index %d: expected file %s, got %s", i, want[i], d.File)
		}
	}
	if got[0].Line != 1 || got[1].Line != 10 {
		t.Fatalf("unexpected line ordering: %+v", got)
	}
}

func TestReportHasErrors(t *testing.T) {
	var r Report
	if r.HasErrors() {
		t.Fatal("empty report should not have errors")
	}
	r.Add(Diagnostic{Code: LOW001, File: "f.ax", Line: 1, Column: 1, Message: "unbound"})
	if !r.HasErrors() {
		t.Fatal("report with one diagnostic should have errors")
	}
}

func TestEncodeJSONIncludesPhaseMetadata(t *testing.T) {
	var r Report
	r.Add(Diagnostic{Code: LOW005, File: "f.ax", Line: 3, Column: 2, Message: "non-exhaustive"})

	data, err := r.EncodeJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(decoded))
	}
	if decoded[0]["phase"] != "lowering" {
		t.Fatalf("expected phase lowering, got %v", decoded[0]["phase"])
	}
}

func TestIsXErrorPredicates(t *testing.T) {
	if !IsRegistryError(REG001) {
		t.Fatal("REG001 should be a registry error")
	}
	if !IsBundleError(BND002) {
		t.Fatal("BND002 should be a bundle error")
	}
	if IsRegistryError(BND002) {
		t.Fatal("BND002 should not be a registry error")
	}
}

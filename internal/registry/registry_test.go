package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadSingleEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.axreg", "fn add\n  arity 2\n  deterministic true\n  profile default\nend\n")

	reg, errs := Load([]string{path}, "default")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	entry, ok := reg.Lookup("add")
	if !ok {
		t.Fatal("expected add to be registered")
	}
	if entry.Arity != 2 || !entry.Deterministic {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.Admitted("default") {
		t.Fatal("expected default profile to be admitted")
	}
	if entry.Admitted("other") {
		t.Fatal("expected other profile to be denied")
	}
}

func TestLoadMultipleProfiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.axreg", "fn f\n  arity 0\n  deterministic false\n  profile default\n  profile extended\nend\n")

	reg, errs := Load([]string{path}, "extended")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	entry, _ := reg.Lookup("f")
	if !entry.Admitted("extended") || !entry.Admitted("default") {
		t.Fatalf("expected both profiles admitted: %+v", entry)
	}
}

func TestLoadDuplicateNameAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTemp(t, dir, "a.axreg", "fn foo\n  arity 0\n  deterministic true\n  profile default\nend\n")
	b := writeTemp(t, dir, "b.axreg", "fn foo\n  arity 0\n  deterministic true\n  profile default\nend\n")

	_, errs := Load([]string{a, b}, "default")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	if errs[0].Code != "REG002" {
		t.Fatalf("expected REG002, got %s", errs[0].Code)
	}
}

func TestLoadUnsupportedCommentSyntax(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.axreg", "/* block */\nfn foo\n  arity 0\n  deterministic true\n  profile default\nend\n")

	_, errs := Load([]string{path}, "default")
	if len(errs) == 0 {
		t.Fatal("expected an error for block comment syntax")
	}
	if errs[0].Code != "REG003" {
		t.Fatalf("expected REG003, got %s", errs[0].Code)
	}
}

func TestLoadMalformedOrderIsRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.axreg", "fn foo\n  deterministic true\n  arity 0\n  profile default\nend\n")

	_, errs := Load([]string{path}, "default")
	if len(errs) == 0 {
		t.Fatal("expected a structural error for out-of-order directives")
	}
}

func TestLoadCollectsAllErrorsNotJustFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.axreg",
		"fn foo\n  arity -1\n  deterministic true\n  profile default\nend\n"+
			"fn bar\n  arity 0\n  deterministic maybe\n  profile default\nend\n")

	_, errs := Load([]string{path}, "default")
	if len(errs) < 2 {
		t.Fatalf("expected at least 2 accumulated errors, got %d: %v", len(errs), errs)
	}
}

func TestLoadLineComments(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.axreg",
		"// a comment\nfn foo // trailing comment\n  arity 0\n  deterministic true\n  profile default // also trailing\nend\n")

	reg, errs := Load([]string{path}, "default")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := reg.Lookup("foo"); !ok {
		t.Fatal("expected foo to be registered despite trailing comments")
	}
}

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.DefaultRegistries) != 0 || cfg.Profile != "" {
		t.Fatalf("expected zero-value config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axis.yaml")
	content := "registries:\n  - common.axreg\n  - extra.axreg\nprofile: extended\nout_dir: build\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, loadErr := Load(path)
	if loadErr != nil {
		t.Fatalf("unexpected error: %v", loadErr)
	}
	want := []string{"common.axreg", "extra.axreg"}
	if !reflect.DeepEqual(cfg.DefaultRegistries, want) {
		t.Fatalf("expected %v, got %v", want, cfg.DefaultRegistries)
	}
	if cfg.Profile != "extended" || cfg.OutDir != "build" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadMalformedYAMLIsIOError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "axis.yaml")
	if err := os.WriteFile(path, []byte("registries: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, loadErr := Load(path)
	if loadErr == nil {
		t.Fatal("expected an error for malformed YAML")
	}
	if loadErr.Code != "IO003" {
		t.Fatalf("expected IO003, got %s", loadErr.Code)
	}
}

func TestMergeCLITakesPrecedence(t *testing.T) {
	cfg := &Config{DefaultRegistries: []string{"a.axreg"}, Profile: "default", OutDir: "dist"}

	regs, profile, outDir := Merge(cfg, []string{"b.axreg"}, "extended", "out")
	if len(regs) != 1 || regs[0] != "b.axreg" {
		t.Fatalf("expected CLI registries to win, got %v", regs)
	}
	if profile != "extended" || outDir != "out" {
		t.Fatalf("expected CLI values to win, got profile=%s outDir=%s", profile, outDir)
	}
}

func TestMergeFallsBackToConfig(t *testing.T) {
	cfg := &Config{DefaultRegistries: []string{"a.axreg"}, Profile: "default", OutDir: "dist"}

	regs, profile, outDir := Merge(cfg, nil, "", "")
	if len(regs) != 1 || regs[0] != "a.axreg" {
		t.Fatalf("expected config registries, got %v", regs)
	}
	if profile != "default" || outDir != "dist" {
		t.Fatalf("expected config fallback values, got profile=%s outDir=%s", profile, outDir)
	}
}

func TestMergeDefaultsProfileWhenUnset(t *testing.T) {
	regs, profile, _ := Merge(&Config{}, nil, "", "")
	if profile != "default" {
		t.Fatalf("expected built-in default profile, got %s", profile)
	}
	if len(regs) != 0 {
		t.Fatalf("expected no registries, got %v", regs)
	}
}

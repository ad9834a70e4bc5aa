// Package pipeline drives the compiler's single-threaded, deterministic
// phase sequence: registry load, lex+parse per source file, lower to
// Core IR, serialize to a CoreBundle. Every phase is gated on the
// previous one producing zero diagnostics.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/sunholo/axiscore/internal/ast"
	"github.com/sunholo/axiscore/internal/bundle"
	"github.com/sunholo/axiscore/internal/core"
	axerrors "github.com/sunholo/axiscore/internal/errors"
	"github.com/sunholo/axiscore/internal/lowering"
	"github.com/sunholo/axiscore/internal/parser"
	"github.com/sunholo/axiscore/internal/registry"
)

// Config holds everything the pipeline needs to compile a set of source
// files against a set of registries.
type Config struct {
	Sources    []string // source file paths
	Registries []string // .axreg file paths
	Profile    string
	OutPath    string
}

// Result is what a completed (or partially-completed, on failure) run
// produced, for both the CLI and tests to inspect.
type Result struct {
	Bundle       *core.CoreBundle
	Report       *axerrors.Report
	PhaseTimings map[string]int64 // milliseconds, keyed by phase name
	OutPath      string
}

// Run executes the full pipeline. It stops at the first phase that
// reports any diagnostic and never writes a partial bundle.
func Run(cfg Config) (Result, error) {
	result := Result{
		Report:       &axerrors.Report{},
		PhaseTimings: make(map[string]int64),
	}

	start := time.Now()
	reg, regErrs := registry.Load(cfg.Registries, cfg.Profile)
	result.PhaseTimings["registry"] = time.Since(start).Milliseconds()
	for _, e := range regErrs {
		result.Report.Add(e.Diagnostic)
	}
	if result.Report.HasErrors() {
		return result, fmt.Errorf("registry phase failed with %d error(s)", result.Report.Len())
	}

	start = time.Now()
	files := make([]*ast.File, 0, len(cfg.Sources))
	for _, srcPath := range cfg.Sources {
		file, perrs := parseSource(srcPath)
		for _, pe := range perrs {
			result.Report.Add(axerrors.Diagnostic{
				Code:    pe.Code,
				File:    pe.Pos.File,
				Line:    pe.Pos.Line,
				Column:  pe.Pos.Column,
				Message: pe.Message,
			})
		}
		if file != nil {
			files = append(files, file)
		}
	}
	result.PhaseTimings["parse"] = time.Since(start).Milliseconds()
	if result.Report.HasErrors() {
		return result, fmt.Errorf("parse phase failed with %d error(s)", result.Report.Len())
	}

	merged := mergeFiles(files)

	start = time.Now()
	coreBundle, lowerErrs := lowering.LowerFile(merged, reg)
	for _, le := range lowerErrs {
		result.Report.Add(axerrors.Diagnostic{
			Code:    le.Code,
			File:    le.Pos.File,
			Line:    le.Pos.Line,
			Column:  le.Pos.Column,
			Message: le.Message,
		})
	}
	result.PhaseTimings["lower"] = time.Since(start).Milliseconds()
	if result.Report.HasErrors() {
		return result, fmt.Errorf("lowering phase failed with %d error(s)", result.Report.Len())
	}
	result.Bundle = coreBundle

	start = time.Now()
	if err := bundle.Write(cfg.OutPath, coreBundle); err != nil {
		result.Report.Add(axerrors.Diagnostic{
			Code:    axerrors.IO002,
			File:    cfg.OutPath,
			Message: err.Error(),
		})
		return result, err
	}
	result.PhaseTimings["serialize"] = time.Since(start).Milliseconds()
	result.OutPath = cfg.OutPath

	return result, nil
}

func parseSource(path string) (*ast.File, []*parser.ParseError) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, []*parser.ParseError{{
			Code:    axerrors.IO001,
			Message: err.Error(),
			Pos:     ast.Pos{File: path},
		}}
	}
	return parser.ParseFile(src, path)
}

// mergeFiles concatenates every parsed file's declarations into a single
// ast.File, in source-file order, so multi-file compilations lower the
// same way a single-file one does.
func mergeFiles(files []*ast.File) *ast.File {
	if len(files) == 1 {
		return files[0]
	}
	merged := &ast.File{}
	for _, f := range files {
		if merged.Path == "" {
			merged.Path = f.Path
			merged.Pos = f.Pos
		}
		merged.Decls = append(merged.Decls, f.Decls...)
	}
	return merged
}

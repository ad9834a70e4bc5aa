// Package registry loads .axreg registry files into an ActiveRegistry: a
// conflict-checked, profile-gated catalog of callable names consulted by
// the lowering pass.
package registry

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	axerrors "github.com/sunholo/axiscore/internal/errors"
)

// RegistryEntry is one declared callable.
type RegistryEntry struct {
	Name          string
	Arity         int
	Deterministic bool
	Profiles      map[string]bool
	File          string
	Line          int
}

// Admitted reports whether activeProfile is one of the entry's profiles.
func (e RegistryEntry) Admitted(activeProfile string) bool {
	return e.Profiles[activeProfile]
}

// ActiveRegistry is the union of every loaded file's entries, filtered by
// active profile at lookup time via RegistryEntry.Admitted.
type ActiveRegistry struct {
	Entries       map[string]RegistryEntry
	ActiveProfile string
}

// Lookup returns the entry for name, if any.
func (r *ActiveRegistry) Lookup(name string) (RegistryEntry, bool) {
	e, ok := r.Entries[name]
	return e, ok
}

// Error is a structured registry failure.
type Error struct {
	Code string
	axerrors.Diagnostic
}

func (e *Error) Error() string { return e.Diagnostic.String() }

// Load parses and composes every file in paths into one ActiveRegistry.
// It returns every structural error found across all files rather than
// stopping at the first one.
func Load(paths []string, activeProfile string) (*ActiveRegistry, []*Error) {
	reg := &ActiveRegistry{Entries: make(map[string]RegistryEntry), ActiveProfile: activeProfile}
	var errs []*Error

	firstSeenAt := make(map[string]RegistryEntry)

	for _, path := range paths {
		entries, fileErrs := loadFile(path)
		errs = append(errs, fileErrs...)
		for _, e := range entries {
			if prev, dup := firstSeenAt[e.Name]; dup {
				errs = append(errs, &Error{
					Code: axerrors.REG002,
					Diagnostic: axerrors.Diagnostic{
						Code: axerrors.REG002, File: e.File, Line: e.Line, Column: 1,
						Message: fmt.Sprintf("duplicate name %q (first declared at %s:%d)", e.Name, prev.File, prev.Line),
					},
				})
				continue
			}
			firstSeenAt[e.Name] = e
			reg.Entries[e.Name] = e
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return reg, nil
}

// loadFile parses one .axreg file into its declared entries.
func loadFile(path string) ([]RegistryEntry, []*Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []*Error{{
			Code: axerrors.REG005,
			Diagnostic: axerrors.Diagnostic{
				Code: axerrors.REG005, File: path, Line: 0, Column: 0,
				Message: fmt.Sprintf("cannot read registry file: %v", err),
			},
		}}
	}
	defer f.Close()

	var entries []RegistryEntry
	var errs []*Error

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.Contains(raw, "/*") {
			errs = append(errs, malformedf(path, lineNo, axerrors.REG003, "block comments are not supported"))
			continue
		}
		line := stripLineComment(raw)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "fn" {
			errs = append(errs, malformedf(path, lineNo, axerrors.REG001, fmt.Sprintf("expected %q, found %q", "fn", fields[0])))
			continue
		}
		entry, consumed, fieldErrs := parseBlock(path, lineNo, scanner)
		errs = append(errs, fieldErrs...)
		if len(fieldErrs) == 0 {
			entries = append(entries, entry)
		}
		lineNo += consumed
		_ = fields
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, malformedf(path, lineNo, axerrors.REG005, err.Error()))
	}

	return entries, errs
}

// parseBlock consumes the directive lines of one `fn ... end` block,
// starting just after the already-read "fn <ident>" line.
func parseBlock(path string, fnLine int, scanner *bufio.Scanner) (RegistryEntry, int, []*Error) {
	var errs []*Error
	fnText := stripLineComment(scanner.Text())
	fields := strings.Fields(fnText)
	if len(fields) != 2 {
		return RegistryEntry{}, 0, []*Error{malformedf(path, fnLine, axerrors.REG001, "expected `fn <ident>`")}
	}
	entry := RegistryEntry{Name: fields[1], File: path, Line: fnLine, Profiles: make(map[string]bool)}

	type stage int
	const (
		stageArity stage = iota
		stageDeterministic
		stageProfile
		stageDone
	)
	cur := stageArity
	consumed := 0

	for scanner.Scan() {
		consumed++
		lineNo := fnLine + consumed
		raw := scanner.Text()
		if strings.Contains(raw, "/*") {
			errs = append(errs, malformedf(path, lineNo, axerrors.REG003, "block comments are not supported"))
			continue
		}
		line := stripLineComment(raw)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "arity":
			if cur != stageArity || len(fields) != 2 {
				errs = append(errs, malformedf(path, lineNo, axerrors.REG001, "unexpected `arity` directive"))
				break
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				errs = append(errs, malformedf(path, lineNo, axerrors.REG001, fmt.Sprintf("invalid arity %q", fields[1])))
				break
			}
			entry.Arity = n
			cur = stageDeterministic
		case "deterministic":
			if cur != stageDeterministic || len(fields) != 2 {
				errs = append(errs, malformedf(path, lineNo, axerrors.REG001, "unexpected `deterministic` directive"))
				break
			}
			switch fields[1] {
			case "true":
				entry.Deterministic = true
			case "false":
				entry.Deterministic = false
			default:
				errs = append(errs, malformedf(path, lineNo, axerrors.REG001, fmt.Sprintf("invalid deterministic value %q", fields[1])))
			}
			cur = stageProfile
		case "profile":
			if cur != stageProfile && cur != stageDone {
				errs = append(errs, malformedf(path, lineNo, axerrors.REG001, "unexpected `profile` directive"))
				break
			}
			if len(fields) != 2 {
				errs = append(errs, malformedf(path, lineNo, axerrors.REG001, "expected `profile <ident>`"))
				break
			}
			entry.Profiles[fields[1]] = true
			cur = stageDone
		case "end":
			if cur != stageDone {
				errs = append(errs, malformedf(path, lineNo, axerrors.REG001, "block ended before all directives were given"))
			}
			return entry, consumed, errs
		default:
			errs = append(errs, malformedf(path, lineNo, axerrors.REG001, fmt.Sprintf("unexpected directive %q", fields[0])))
		}
	}

	errs = append(errs, malformedf(path, fnLine, axerrors.REG001, "unterminated block (missing `end`)"))
	return entry, consumed, errs
}

func stripLineComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}

func malformedf(path string, line int, code, msg string) *Error {
	return &Error{
		Code: code,
		Diagnostic: axerrors.Diagnostic{
			Code: code, File: path, Line: line, Column: 1, Message: msg,
		},
	}
}

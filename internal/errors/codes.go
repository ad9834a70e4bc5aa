// Package errors provides the centralized error code taxonomy used across
// every compiler phase, plus the Report accumulator and its JSON encoding.
package errors

const (
	// Registry errors (REG###)
	REG001 = "REG001" // malformed .axreg record
	REG002 = "REG002" // duplicate function name across registry files
	REG003 = "REG003" // unsupported comment syntax
	REG004 = "REG004" // unknown profile referenced by a record
	REG005 = "REG005" // registry file unreadable

	// Lexer errors (LEX###)
	LEX001 = "LEX001" // invalid literal (e.g. leading-zero integer)
	LEX002 = "LEX002" // unexpected byte
	LEX003 = "LEX003" // unexpected end of file mid-token

	// Parser errors (PAR###)
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing delimiter
	PAR003 = "PAR003" // invalid function declaration syntax
	PAR004 = "PAR004" // invalid enum declaration syntax
	PAR005 = "PAR005" // invalid pattern syntax
	PAR006 = "PAR006" // invalid record literal syntax

	// Lowering errors (LOW###)
	LOW001 = "LOW001" // unbound name
	LOW002 = "LOW002" // arity mismatch
	LOW003 = "LOW003" // call to a name outside the admitted profile
	LOW004 = "LOW004" // projection index out of bounds
	LOW005 = "LOW005" // non-exhaustive match
	LOW006 = "LOW006" // unknown enum variant

	// I/O errors (IO###)
	IO001 = "IO001" // source file unreadable
	IO002 = "IO002" // output path unwritable
	IO003 = "IO003" // config file malformed

	// Bundle errors (BND###)
	BND001 = "BND001" // unsupported bundle version on read-back
	BND002 = "BND002" // truncated or corrupt bundle
	BND003 = "BND003" // bundle write failed
)

// ErrorInfo is structured metadata about one error code.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// ErrorRegistry maps every defined code to its metadata.
var ErrorRegistry = map[string]ErrorInfo{
	REG001: {REG001, "registry", "syntax", "Malformed registry record"},
	REG002: {REG002, "registry", "namespace", "Duplicate function name"},
	REG003: {REG003, "registry", "syntax", "Unsupported comment syntax"},
	REG004: {REG004, "registry", "profile", "Unknown profile"},
	REG005: {REG005, "registry", "io", "Registry file unreadable"},

	LEX001: {LEX001, "lexer", "literal", "Invalid literal"},
	LEX002: {LEX002, "lexer", "syntax", "Unexpected byte"},
	LEX003: {LEX003, "lexer", "syntax", "Unexpected end of file"},

	PAR001: {PAR001, "parser", "syntax", "Unexpected token"},
	PAR002: {PAR002, "parser", "syntax", "Missing closing delimiter"},
	PAR003: {PAR003, "parser", "syntax", "Invalid function declaration"},
	PAR004: {PAR004, "parser", "syntax", "Invalid enum declaration"},
	PAR005: {PAR005, "parser", "syntax", "Invalid pattern"},
	PAR006: {PAR006, "parser", "syntax", "Invalid record literal"},

	LOW001: {LOW001, "lowering", "scope", "Unbound name"},
	LOW002: {LOW002, "lowering", "arity", "Arity mismatch"},
	LOW003: {LOW003, "lowering", "profile", "Call outside admitted profile"},
	LOW004: {LOW004, "lowering", "bounds", "Projection index out of bounds"},
	LOW005: {LOW005, "lowering", "pattern", "Non-exhaustive match"},
	LOW006: {LOW006, "lowering", "pattern", "Unknown enum variant"},

	IO001: {IO001, "io", "source", "Source file unreadable"},
	IO002: {IO002, "io", "output", "Output path unwritable"},
	IO003: {IO003, "io", "config", "Config file malformed"},

	BND001: {BND001, "bundle", "version", "Unsupported bundle version"},
	BND002: {BND002, "bundle", "integrity", "Truncated or corrupt bundle"},
	BND003: {BND003, "bundle", "io", "Bundle write failed"},
}

// GetErrorInfo looks up metadata for a code.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := ErrorRegistry[code]
	return info, ok
}

func phaseIs(code, phase string) bool {
	info, ok := GetErrorInfo(code)
	return ok && info.Phase == phase
}

func IsRegistryError(code string) bool { return phaseIs(code, "registry") }
func IsLexError(code string) bool      { return phaseIs(code, "lexer") }
func IsParseError(code string) bool    { return phaseIs(code, "parser") }
func IsLoweringError(code string) bool { return phaseIs(code, "lowering") }
func IsIOError(code string) bool       { return phaseIs(code, "io") }
func IsBundleError(code string) bool   { return phaseIs(code, "bundle") }

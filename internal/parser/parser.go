// Package parser defines the per-file extraction contract shared by every
// language front end (Python, JavaScript/TypeScript, shell) and the JSON
// Schema reader. A LanguageParser turns one file's bytes into a ParsedFile;
// it must never raise on malformed input — unrecoverable subregions yield
// degraded records rather than aborting the parse.
package parser

import "github.com/shieldscan/shieldscan/api/schemas"

// ParsedFile is the per-file fact record every parser produces. It is
// transient: the cross-file sanitizer mutates it, an adapter merges it
// into a ScanTarget, and it is then dropped.
type ParsedFile struct {
	Path          string
	Language      schemas.Language
	Commands      []schemas.Operation
	FileOps       []schemas.Operation
	NetworkOps    []schemas.Operation
	DynamicExecs  []schemas.Operation
	EnvAccesses   []schemas.EnvAccess
	Functions     []schemas.FunctionDef
	CallSites     []schemas.CallSite
	// SanitizedVars maps a variable name to the sanitizer callee it was
	// bound from, e.g. `p = validatePath(x)` records SanitizedVars["p"] =
	// "validatePath". Populated only by language parsers, which classify a
	// later use of such a variable as ArgSanitized in the operation's
	// argument list.
	SanitizedVars map[string]string
	// Diagnostics holds non-fatal parse warnings (e.g. a subregion that
	// could not be classified and was recorded as Unknown).
	Diagnostics []string
}

// NewParsedFile returns a ParsedFile with its maps initialized, so callers
// never nil-panic writing into SanitizedVars.
func NewParsedFile(path string, lang schemas.Language) *ParsedFile {
	return &ParsedFile{
		Path:          path,
		Language:      lang,
		SanitizedVars: make(map[string]string),
	}
}

// LanguageParser is the contract every front end implements.
type LanguageParser interface {
	// Language returns the language tag this parser produces ParsedFile
	// records for.
	Language() schemas.Language
	// CanParse reports whether this parser should be used for the given
	// file path, based on its extension.
	CanParse(path string) bool
	// Parse extracts a ParsedFile from the given file's bytes. The only
	// fatal condition is unreadable input; a caller that successfully read
	// the bytes is guaranteed a non-nil ParsedFile and a nil error, even
	// if the syntax could not be fully understood.
	Parse(path string, contents []byte) (*ParsedFile, error)
}

// Registry holds the language parsers available to an adapter, selected
// by file extension via CanParse.
type Registry struct {
	parsers []LanguageParser
}

// NewRegistry builds a Registry over the given parsers, tried in order.
func NewRegistry(parsers ...LanguageParser) *Registry {
	return &Registry{parsers: parsers}
}

// For returns the first registered parser willing to handle path, or nil
// if no parser claims it.
func (r *Registry) For(path string) LanguageParser {
	for _, p := range r.parsers {
		if p.CanParse(path) {
			return p
		}
	}
	return nil
}

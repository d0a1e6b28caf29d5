// Package sanitizer implements the cross-file sanitization analysis: a
// one-hop, conservative, in-place taint downgrade over the per-file
// ParsedFile records an adapter collected in its parse phase. It never
// fails; ambiguity always resolves to "no downgrade."
package sanitizer

import (
	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser"
)

// FileRecord pairs a parsed file with the path it came from, matching the
// (path, ParsedFile) pairs an adapter's parse phase produces.
type FileRecord struct {
	Path string
	File *parser.ParsedFile
}

type functionEntry struct {
	fileIndex  int
	def        schemas.FunctionDef
	isExported bool
}

// Apply runs the cross-file sanitization analysis over files in place,
// rewriting Parameter{p} argument sources into Sanitized{s} wherever
// every discovered call site of the owning function supplies a Literal or
// Sanitized value at that parameter's position. files is mutated;
// there is no return value because the analysis can never fail.
func Apply(files []FileRecord) {
	functionMap := buildFunctionMap(files)
	callMap := buildCallMap(files)

	for name, entries := range functionMap {
		callSites := callMap[name]
		for _, entry := range entries {
			if entry.isExported && len(callSites) == 0 {
				continue // exported-no-callers rule: safety is unproven, taint stays
			}
			for i, paramName := range entry.def.Params {
				downgrade, sanitizerLabel := paramDowngradable(callSites, i)
				if !downgrade {
					continue
				}
				rewriteFunction(files[entry.fileIndex].File, entry.def, paramName, sanitizerLabel)
			}
		}
	}
}

func buildFunctionMap(files []FileRecord) map[string][]functionEntry {
	m := make(map[string][]functionEntry)
	for fi, rec := range files {
		for _, fn := range rec.File.Functions {
			m[fn.Name] = append(m[fn.Name], functionEntry{fileIndex: fi, def: fn, isExported: fn.IsExported})
		}
	}
	return m
}

// buildCallMap maps callee (rightmost identifier segment, matching
// CallSite.Callee) to every argument-source sequence observed calling it,
// across all files.
func buildCallMap(files []FileRecord) map[string][][]schemas.ArgumentSource {
	m := make(map[string][][]schemas.ArgumentSource)
	for _, rec := range files {
		for _, cs := range rec.File.CallSites {
			m[cs.Callee] = append(m[cs.Callee], cs.Args)
		}
	}
	return m
}

// paramDowngradable reports whether every call site supplies Literal or
// Sanitized at argument position i. A call site that supplies fewer than
// i+1 arguments is conservatively treated as not supplying a safe value
// (the caller has no way to know it was validated). With zero call sites
// this is vacuously true, matching the algorithm exactly: the
// exported-no-callers special case is handled separately by the caller
// before this function is ever consulted for an exported function.
func paramDowngradable(callSites [][]schemas.ArgumentSource, i int) (bool, string) {
	sanitizerLabel := "literal"
	for _, args := range callSites {
		if i >= len(args) {
			return false, ""
		}
		arg := args[i]
		switch arg.Kind {
		case schemas.ArgLiteral:
			continue
		case schemas.ArgSanitized:
			sanitizerLabel = arg.Sanitizer
			continue
		default:
			return false, ""
		}
	}
	return true, sanitizerLabel
}

// rewriteFunction replaces Parameter{paramName} with Sanitized{sanitizer}
// in every operation record whose location falls within def's textual
// span, scoped to def's own file. Call sites are never touched —
// locality is part of the algorithm's contract.
func rewriteFunction(pf *parser.ParsedFile, def schemas.FunctionDef, paramName, sanitizer string) {
	rewriteOps(pf.Commands, def, paramName, sanitizer)
	rewriteOps(pf.FileOps, def, paramName, sanitizer)
	rewriteOps(pf.NetworkOps, def, paramName, sanitizer)
	rewriteOps(pf.DynamicExecs, def, paramName, sanitizer)
}

func rewriteOps(ops []schemas.Operation, def schemas.FunctionDef, paramName, sanitizer string) {
	for oi := range ops {
		if !def.Contains(ops[oi].Location.Line) {
			continue
		}
		for ai := range ops[oi].Args {
			arg := ops[oi].Args[ai]
			if arg.Kind == schemas.ArgParameter && arg.Name == paramName {
				ops[oi].Args[ai] = schemas.Sanitized(sanitizer)
			}
		}
	}
}

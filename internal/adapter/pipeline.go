package adapter

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/observability"
	"github.com/shieldscan/shieldscan/internal/parser"
	"github.com/shieldscan/shieldscan/internal/parser/javascript"
	"github.com/shieldscan/shieldscan/internal/parser/python"
	"github.com/shieldscan/shieldscan/internal/parser/shell"
	"github.com/shieldscan/shieldscan/internal/sanitizer"
)

// languageRegistry is shared by every adapter's phase 1. It is built once
// per call rather than at package init since LanguageParser values here
// are stateless and cheap to construct.
func languageRegistry() *parser.Registry {
	return parser.NewRegistry(python.New(), javascript.New(), shell.New())
}

// ParseSourceTree runs phase 1 (parse) of the adapter pipeline: it walks
// every source file under root, routes each to the language-appropriate
// parser, and returns the per-file records alongside the SourceFile list
// an adapter merges into its ScanTarget. A single file's parse failure is
// non-fatal — it is logged as a warning and skipped — matching the
// propagation policy that ParseError never aborts a scan.
func ParseSourceTree(fsys afero.Fs, root string, ignoreTests bool) ([]sanitizer.FileRecord, []schemas.SourceFile, error) {
	registry := languageRegistry()
	paths, err := WalkSourceFiles(fsys, root, ignoreTests, func(path string) bool {
		return registry.For(path) != nil
	})
	if err != nil {
		return nil, nil, err
	}

	var records []sanitizer.FileRecord
	var sourceFiles []schemas.SourceFile
	for _, path := range paths {
		lp := registry.For(path)
		data, readErr := afero.ReadFile(fsys, path)
		if readErr != nil {
			continue
		}
		pf, parseErr := lp.Parse(path, data)
		if parseErr != nil || pf == nil {
			observability.GetLogger().Warn("parse failed; file skipped", zap.String("path", path), zap.Error(parseErr))
			continue
		}
		records = append(records, sanitizer.FileRecord{Path: path, File: pf})
		sourceFiles = append(sourceFiles, schemas.SourceFile{Path: path, Language: lp.Language()})
	}
	return records, sourceFiles, nil
}

// ApplySanitization runs phase 2 of the adapter pipeline over the records
// collected by ParseSourceTree.
func ApplySanitization(records []sanitizer.FileRecord) {
	sanitizer.Apply(records)
}

// MergeExecutionAndData runs the execution/data half of phase 3: it folds
// every record's operations into target's ExecutionSurface, and derives a
// DataSurface from the same operations so detector 007 has a
// source/sink shaped view independent of the sink-specific operation
// lists.
func MergeExecutionAndData(target *schemas.ScanTarget, records []sanitizer.FileRecord) {
	for _, rec := range records {
		pf := rec.File
		target.Execution.Commands = append(target.Execution.Commands, pf.Commands...)
		target.Execution.FileOps = append(target.Execution.FileOps, pf.FileOps...)
		target.Execution.NetworkOps = append(target.Execution.NetworkOps, pf.NetworkOps...)
		target.Execution.DynamicExecs = append(target.Execution.DynamicExecs, pf.DynamicExecs...)
		target.Execution.EnvAccesses = append(target.Execution.EnvAccesses, pf.EnvAccesses...)

		for _, env := range pf.EnvAccesses {
			target.Data.Sources = append(target.Data.Sources, schemas.DataSource{
				Type: schemas.TaintSourceEnvVariable, Location: env.Location, Detail: env.Name,
			})
		}
		for _, op := range pf.NetworkOps {
			target.Data.Sources = append(target.Data.Sources, schemas.DataSource{
				Type: schemas.TaintSourceHTTPResponse, Location: op.Location, Detail: op.Callee,
			})
			target.Data.Sinks = append(target.Data.Sinks, schemas.DataSink{
				Type: schemas.TaintSinkHTTPRequest, Location: op.Location, Detail: op.Callee,
			})
		}
		for _, op := range pf.Commands {
			target.Data.Sinks = append(target.Data.Sinks, schemas.DataSink{
				Type: schemas.TaintSinkProcessExec, Location: op.Location, Detail: op.Callee,
			})
		}
		for _, op := range pf.DynamicExecs {
			target.Data.Sinks = append(target.Data.Sinks, schemas.DataSink{
				Type: schemas.TaintSinkDynamicEval, Location: op.Location, Detail: op.Callee,
			})
		}
		for _, op := range pf.FileOps {
			target.Data.Sinks = append(target.Data.Sinks, schemas.DataSink{
				Type: schemas.TaintSinkFileWrite, Location: op.Location, Detail: op.Callee,
			})
		}
	}
}

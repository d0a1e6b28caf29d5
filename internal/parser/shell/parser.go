// Package shell implements the regex-level shell-script parser: no
// grammar, just line-oriented pattern matching, joined across the
// partial-call continuation rule and guarded against degenerate
// single-character quote nodes.
package shell

import (
	"regexp"
	"strings"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser"
	"github.com/shieldscan/shieldscan/internal/parser/sinks"
)

// Parser is the shell LanguageParser implementation.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Language() schemas.Language { return schemas.LanguageShell }

func (p *Parser) CanParse(path string) bool {
	return strings.HasSuffix(path, ".sh") || strings.HasSuffix(path, ".bash") || strings.HasSuffix(path, ".zsh")
}

var (
	networkCmdPattern = regexp.MustCompile(`^\s*(curl|wget)\b`)
	fileCmdPattern     = regexp.MustCompile(`^\s*(rm|mv|cp|cat|tee)\b`)
	evalPattern        = regexp.MustCompile(`\beval\b`)
	envVarPattern      = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)
	positionalParam    = regexp.MustCompile(`\$[0-9]+`)
)

// joinContinuations implements the partial-call continuation rule: a line
// ending in "(" is joined with the next non-blank line, and again while
// the joined text still ends in "(" (joining stops at a line containing
// ")"), so a sink invocation split across lines is not silently missed.
func joinContinuations(lines []string) []string {
	var out []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimRight(line, " \t")
		for strings.HasSuffix(trimmed, "(") && i+1 < len(lines) {
			i++
			next := strings.TrimSpace(lines[i])
			if next == "" {
				continue
			}
			trimmed = trimmed + " " + next
			if strings.Contains(next, ")") {
				break
			}
		}
		out = append(out, trimmed)
	}
	return out
}

func (p *Parser) Parse(path string, contents []byte) (*parser.ParsedFile, error) {
	pf := parser.NewParsedFile(path, schemas.LanguageShell)

	rawLines := strings.Split(string(contents), "\n")
	lines := joinContinuations(rawLines)

	for i, line := range lines {
		lineNo := i + 1
		loc := schemas.SourceLocation{File: path, Line: lineNo, Column: 1, Valid: true}

		if sinks.IsInstallCommand(line) {
			pf.Commands = append(pf.Commands, schemas.Operation{
				Location: loc, Callee: "shell.install", Args: []schemas.ArgumentSource{classifyShellArg(line)},
			})
		} else if sinks.ContainsShellBacktick(line) {
			pf.Commands = append(pf.Commands, schemas.Operation{
				Location: loc, Callee: "shell.subshell", Args: []schemas.ArgumentSource{schemas.Interpolated()},
			})
		}

		if m := networkCmdPattern.FindString(line); m != "" {
			pf.NetworkOps = append(pf.NetworkOps, schemas.Operation{
				Location: loc, Callee: strings.TrimSpace(m), Args: []schemas.ArgumentSource{classifyShellArg(line)},
			})
		}

		if m := fileCmdPattern.FindString(line); m != "" {
			pf.FileOps = append(pf.FileOps, schemas.Operation{
				Location: loc, Callee: strings.TrimSpace(m), Args: []schemas.ArgumentSource{classifyShellArg(line)},
			})
		}

		if evalPattern.MatchString(line) {
			pf.DynamicExecs = append(pf.DynamicExecs, schemas.Operation{
				Location: loc, Callee: "eval", Args: []schemas.ArgumentSource{classifyShellArg(line)},
			})
		}

		for _, match := range envVarPattern.FindAllStringSubmatch(line, -1) {
			name := match[1]
			pf.EnvAccesses = append(pf.EnvAccesses, schemas.EnvAccess{Location: loc, Name: name})
		}
	}

	return pf, nil
}

// classifyShellArg gives a best-effort ArgumentSource for a whole shell
// line: a line containing a positional parameter reference ($1, $2, ...)
// is Parameter, any other variable expansion is Interpolated, an empty
// line is Unknown, and any other line is Literal (its text, with one layer
// of surrounding quotes stripped). Shell has no function-scoped parameter table the way
// Python/JS do, so this is deliberately coarser than those front ends.
func classifyShellArg(line string) schemas.ArgumentSource {
	trimmed := strings.TrimSpace(line)
	if ref := positionalParam.FindString(trimmed); ref != "" {
		return schemas.Parameter(ref)
	}
	if envVarPattern.MatchString(line) {
		return schemas.Interpolated()
	}
	if trimmed == "" {
		return schemas.UnknownArg()
	}
	return schemas.Literal(unquote(trimmed))
}

// unquote strips one layer of surrounding quotes, guarded against
// degenerate single-character input.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}

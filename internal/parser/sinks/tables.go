// Package sinks holds the static pattern tables every language parser
// consults to classify a call site: command execution, network calls,
// file I/O, dynamic evaluation, and the sanitizer registry. These are data
// tables compiled once at package init; new sinks are added here without
// touching any parser or detector, per the "pattern tables are data"
// design rule.
package sinks

import (
	"regexp"
	"strings"
)

// compiled as anchored, case-sensitive regexes against the full dotted
// callee text a parser reconstructs for a call site (e.g. "subprocess.run",
// "child_process.execSync"). The library-level command idiom
// (`<var>.git.<method>(...)`) is handled separately since its prefix is an
// arbitrary variable name, not a fixed module path.
var commandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^subprocess\.(run|call|Popen|check_output|check_call)$`),
	regexp.MustCompile(`^os\.(system|popen)$`),
	regexp.MustCompile(`^child_process\.(exec|execSync|spawn|spawnSync|execFile|execFileSync)$`),
}

// gitDispatcherPattern recognizes the dynamic dispatcher idiom of
// GitPython-style libraries: `repo.git.log(...)`, `self.git.push(...)`.
// Semantically this is a shell invocation even though no command-exec
// function name appears literally in the callee.
var gitDispatcherPattern = regexp.MustCompile(`^\w+\.git\.\w+$`)

// shellBacktickPattern flags shell source that invokes a command
// substitution, a command-execution idiom distinct from a named callee.
var shellBacktickPattern = regexp.MustCompile("`[^`]+`")

var networkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^requests\.(get|post|put|delete|patch|head|request)$`),
	regexp.MustCompile(`^httpx\.(get|post|put|delete|patch|head|request)$`),
	regexp.MustCompile(`^urllib\.request\.urlopen$`),
	regexp.MustCompile(`^fetch$`),
	regexp.MustCompile(`^axios\.(get|post|put|delete|patch|head|request)$`),
}

// asyncClientConstructors names the constructors recognized by the
// async-context-manager binding rule: `async with AsyncClient() as
// client:` followed by `client.get(url, ...)` is a network sink taking
// url, even though "AsyncClient" itself never appears in the call site.
var asyncClientConstructors = map[string]bool{
	"AsyncClient":   true,
	"ClientSession": true,
}

// asyncClientMethods are the HTTP verbs recognized once a variable has
// been bound to one of asyncClientConstructors.
var asyncClientMethods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true, "patch": true,
}

var filePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^open$`),
	regexp.MustCompile(`^fs\.(readFile|writeFile|readFileSync|writeFileSync|appendFile|appendFileSync|unlink|unlinkSync)$`),
	regexp.MustCompile(`^(\w+\.)?Path\.(read_text|read_bytes|write_text|write_bytes)$`),
}

var dynamicExecPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eval$`),
	regexp.MustCompile(`^exec$`),
	regexp.MustCompile(`^Function$`),
}

// sanitizerExactNames matches against the rightmost dotted segment of a
// callee, case-sensitively.
var sanitizerExactNames = map[string]bool{
	"validatePath":     true,
	"sanitizePath":     true,
	"normalizePath":    true,
	"resolvePath":      true,
	"canonicalizePath": true,
	"realpath":         true,
	"resolve":          true,
	"normalize":        true,
	"abspath":          true,
	"normpath":         true,
	"parseUrl":         true,
	"urlparse":         true,
	"parseInt":         true,
	"parseFloat":       true,
	"Number":           true,
	"int":              true,
	"float":            true,
	"str":              true,
}

// sanitizerGlobs are case-insensitive glob patterns evaluated against the
// rightmost dotted segment.
var sanitizerGlobs = []string{
	"*validate*path*",
	"*validate*url*",
	"sanitize*",
}

// installCommandPattern flags package-manager install invocations for the
// runtime-package-install detector.
var installCommandPattern = regexp.MustCompile(`\b(pip install|npm install|apt install|apt-get install)\b`)

// secretEnvVarPattern flags environment variable names that are
// conventionally secrets, for the credential-exfiltration detector.
var secretEnvVarPattern = regexp.MustCompile(`(?i)(_KEY$|_SECRET$|_TOKEN$|_PASSWORD$|^PASSWORD|^AWS_|^OPENAI_API_KEY$)`)

// RightmostSegment returns the last dot-delimited component of a dotted
// callee expression, e.g. "httpx.AsyncClient.get" -> "get". A callee with
// no dot is returned unchanged.
func RightmostSegment(callee string) string {
	idx := strings.LastIndex(callee, ".")
	if idx < 0 {
		return callee
	}
	return callee[idx+1:]
}

// IsCommandSink reports whether callee matches a known command-execution
// sink, including the git dispatcher idiom.
func IsCommandSink(callee string) bool {
	for _, p := range commandPatterns {
		if p.MatchString(callee) {
			return true
		}
	}
	return gitDispatcherPattern.MatchString(callee)
}

// ContainsShellBacktick reports whether a line of shell-adjacent source
// contains a command-substitution backtick pair.
func ContainsShellBacktick(line string) bool {
	return shellBacktickPattern.MatchString(line)
}

// IsNetworkSink reports whether callee matches a known network sink.
func IsNetworkSink(callee string) bool {
	for _, p := range networkPatterns {
		if p.MatchString(callee) {
			return true
		}
	}
	return false
}

// IsAsyncClientConstructor reports whether name is a recognized
// async HTTP client constructor for the binding rule.
func IsAsyncClientConstructor(name string) bool {
	return asyncClientConstructors[name]
}

// IsAsyncClientMethod reports whether method is an HTTP verb recognized
// once bound to an async client.
func IsAsyncClientMethod(method string) bool {
	return asyncClientMethods[method]
}

// IsFileSink reports whether callee matches a known file I/O sink.
func IsFileSink(callee string) bool {
	for _, p := range filePatterns {
		if p.MatchString(callee) {
			return true
		}
	}
	return false
}

// IsDynamicExecSink reports whether callee matches a known dynamic
// evaluation sink.
func IsDynamicExecSink(callee string) bool {
	for _, p := range dynamicExecPatterns {
		if p.MatchString(callee) {
			return true
		}
	}
	return false
}

// IsSanitizer reports whether name (or its rightmost dotted segment)
// matches the sanitizer catalog, either by exact name or by one of the
// case-insensitive globs.
func IsSanitizer(name string) bool {
	seg := RightmostSegment(name)
	if sanitizerExactNames[seg] {
		return true
	}
	lower := strings.ToLower(seg)
	for _, g := range sanitizerGlobs {
		if matchGlob(strings.ToLower(g), lower) {
			return true
		}
	}
	return false
}

// IsInstallCommand reports whether a shell command line invokes a
// package-manager install subcommand.
func IsInstallCommand(command string) bool {
	return installCommandPattern.MatchString(command)
}

// IsSecretEnvVar reports whether a variable name matches the
// credential-exfiltration heuristic.
func IsSecretEnvVar(name string) bool {
	return secretEnvVarPattern.MatchString(name)
}

// matchGlob implements '*'-only glob matching (no '?', no character
// classes); sufficient for the sanitizer registry's patterns.
func matchGlob(pattern, s string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == s
	}
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	if !strings.HasSuffix(s, parts[len(parts)-1]) {
		return false
	}
	if last := len(parts) - 1; last > 0 {
		s = s[:len(s)-len(parts[last])]
	}
	for _, mid := range parts[1 : len(parts)-1] {
		if mid == "" {
			continue
		}
		idx := strings.Index(s, mid)
		if idx < 0 {
			return false
		}
		s = s[idx+len(mid):]
	}
	return true
}

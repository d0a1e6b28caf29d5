// Package python implements the Python-family structural parser: a
// github.com/smacker/go-tree-sitter walk over the tree-sitter-python
// grammar, complemented by the compiled pattern tables in
// internal/parser/sinks for sink-catalog matches. Positions come straight
// from tree-sitter's StartPoint, which is 0-based; every location recorded
// here adds one to both row and column to satisfy the 1-based convention.
package python

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser"
	"github.com/shieldscan/shieldscan/internal/parser/sinks"
)

// Parser is the Python LanguageParser implementation.
type Parser struct{}

// New returns a ready-to-use Python parser.
func New() *Parser { return &Parser{} }

func (p *Parser) Language() schemas.Language { return schemas.LanguagePython }

func (p *Parser) CanParse(path string) bool {
	return strings.HasSuffix(path, ".py")
}

// walker carries per-file state across the tree-sitter traversal. Scope
// tracking is deliberately shallow: parameter sets are scoped to the
// innermost enclosing function only, and async-client bindings are kept
// per file (a binding is not removed when its with-statement or function
// ends), which matches the one-hop, non-recursive posture the whole
// analysis takes.
type walker struct {
	source     []byte
	path       string
	pf         *parser.ParsedFile
	funcStack  []funcFrame
	asyncVars  map[string]bool // vars bound to an AsyncClient/ClientSession constructor
}

type funcFrame struct {
	name   string
	params map[string]bool
}

func (w *walker) currentCaller() string {
	if len(w.funcStack) == 0 {
		return "module-top"
	}
	return w.funcStack[len(w.funcStack)-1].name
}

func (w *walker) currentParams() map[string]bool {
	if len(w.funcStack) == 0 {
		return nil
	}
	return w.funcStack[len(w.funcStack)-1].params
}

func (p *Parser) Parse(path string, contents []byte) (*parser.ParsedFile, error) {
	pf := parser.NewParsedFile(path, schemas.LanguagePython)

	sp := sitter.NewParser()
	sp.SetLanguage(python.GetLanguage())
	tree, err := sp.ParseCtx(context.Background(), nil, contents)
	if err != nil || tree == nil {
		pf.Diagnostics = append(pf.Diagnostics, fmt.Sprintf("tree-sitter parse failed: %v", err))
		return pf, nil
	}
	root := tree.RootNode()
	if root == nil {
		return pf, nil
	}

	w := &walker{source: contents, path: path, pf: pf, asyncVars: make(map[string]bool)}
	w.walk(root)
	return pf, nil
}

func (w *walker) loc(n *sitter.Node) schemas.SourceLocation {
	pt := n.StartPoint()
	return schemas.SourceLocation{File: w.path, Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Valid: true}
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil || n.IsNull() {
		return ""
	}
	return n.Content(w.source)
}

func (w *walker) walk(n *sitter.Node) {
	if n == nil || n.IsNull() {
		return
	}

	switch n.Type() {
	case "function_definition":
		w.handleFunctionDef(n)
		return // children handled inside handleFunctionDef

	case "assignment":
		w.handleAssignment(n)

	case "call":
		w.handleCall(n)

	case "with_statement":
		w.handleWith(n)

	case "subscript":
		if name := w.matchEnvironSubscript(n); name != "" {
			w.pf.EnvAccesses = append(w.pf.EnvAccesses, schemas.EnvAccess{Location: w.loc(n), Name: name})
		}
	}

	cursor := sitter.NewTreeCursor(n)
	defer cursor.Close()
	if ok := cursor.GoToFirstChild(); ok {
		for {
			w.walk(cursor.CurrentNode())
			if ok := cursor.GoToNextSibling(); !ok {
				break
			}
		}
	}
}

func (w *walker) handleFunctionDef(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	name := w.text(nameNode)
	paramsNode := n.ChildByFieldName("parameters")

	var params []string
	paramSet := make(map[string]bool)
	if paramsNode != nil && !paramsNode.IsNull() {
		for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
			child := paramsNode.NamedChild(i)
			pname := paramNodeName(w, child)
			if pname == "" || pname == "self" || pname == "cls" {
				continue
			}
			params = append(params, pname)
			paramSet[pname] = true
		}
	}

	isExported := !strings.HasPrefix(name, "_")

	startLine := int(n.StartPoint().Row) + 1
	endLine := int(n.EndPoint().Row) + 1
	w.pf.Functions = append(w.pf.Functions, schemas.FunctionDef{
		Name:       name,
		Params:     params,
		IsExported: isExported,
		File:       w.path,
		Location:   w.loc(n),
		EndLine:    endLine,
	})
	_ = startLine

	w.funcStack = append(w.funcStack, funcFrame{name: name, params: paramSet})
	body := n.ChildByFieldName("body")
	w.walk(body)
	w.funcStack = w.funcStack[:len(w.funcStack)-1]
}

func paramNodeName(w *walker, n *sitter.Node) string {
	switch n.Type() {
	case "identifier":
		return w.text(n)
	case "typed_parameter", "default_parameter", "typed_default_parameter":
		if id := n.ChildByFieldName("name"); id != nil && !id.IsNull() {
			return w.text(id)
		}
		if n.NamedChildCount() > 0 {
			return w.text(n.NamedChild(0))
		}
	}
	return ""
}

// handleAssignment records a sanitizer binding when the right-hand side is
// a recognized sanitizer call, per the sanitized_vars population rule.
func (w *walker) handleAssignment(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || left.IsNull() || right.IsNull() {
		return
	}
	if left.Type() != "identifier" {
		return
	}
	if right.Type() != "call" {
		return
	}
	callee := w.calleeName(right.ChildByFieldName("function"))
	if sinks.IsSanitizer(callee) {
		w.pf.SanitizedVars[w.text(left)] = callee
	}
}

// handleWith implements the async-context-manager binding rule: `async
// with AsyncClient() as client:` adds client to the file's async-client
// set; the binding stays for the rest of the file.
func (w *walker) handleWith(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "with_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			item := clause.NamedChild(j)
			if item.Type() != "with_item" {
				continue
			}
			value := item.ChildByFieldName("value")
			alias := item.ChildByFieldName("alias")
			// `ctor() as name` parses as an as_pattern inside the with_item.
			if value != nil && !value.IsNull() && value.Type() == "as_pattern" {
				alias = value.ChildByFieldName("alias")
				value = value.NamedChild(0)
			}
			if value == nil || alias == nil || value.IsNull() || alias.IsNull() {
				continue
			}
			if value.Type() != "call" {
				continue
			}
			ctor := w.calleeName(value.ChildByFieldName("function"))
			if sinks.IsAsyncClientConstructor(ctor) {
				w.asyncVars[w.text(alias)] = true
			}
		}
	}
}

// calleeName reconstructs the dotted callee text from a call's function
// node: a bare identifier, or an attribute chain flattened with dots.
func (w *walker) calleeName(n *sitter.Node) string {
	if n == nil || n.IsNull() {
		return ""
	}
	switch n.Type() {
	case "identifier":
		return w.text(n)
	case "attribute":
		obj := w.calleeName(n.ChildByFieldName("object"))
		attr := w.text(n.ChildByFieldName("attribute"))
		if obj == "" {
			return attr
		}
		return obj + "." + attr
	default:
		return w.text(n)
	}
}

func (w *walker) handleCall(n *sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	callee := w.calleeName(fnNode)
	if callee == "" {
		return
	}
	argsNode := n.ChildByFieldName("arguments")
	args := w.classifyArgs(argsNode)

	loc := w.loc(n)
	op := schemas.Operation{Location: loc, Callee: callee, Args: args}

	w.pf.CallSites = append(w.pf.CallSites, schemas.CallSite{
		Callee: sinks.RightmostSegment(callee), Args: args, Caller: w.currentCaller(),
		File: w.path, Location: loc,
	})

	switch {
	case sinks.IsCommandSink(callee):
		w.pf.Commands = append(w.pf.Commands, op)
	case sinks.IsDynamicExecSink(callee):
		w.pf.DynamicExecs = append(w.pf.DynamicExecs, op)
	case sinks.IsFileSink(callee):
		w.pf.FileOps = append(w.pf.FileOps, op)
	case sinks.IsNetworkSink(callee):
		w.pf.NetworkOps = append(w.pf.NetworkOps, op)
	default:
		// async-client binding rule: <var>.<verb>(url, ...) where var was
		// bound to AsyncClient()/ClientSession().
		if fnNode != nil && !fnNode.IsNull() && fnNode.Type() == "attribute" {
			objName := w.text(fnNode.ChildByFieldName("object"))
			verb := w.text(fnNode.ChildByFieldName("attribute"))
			if w.asyncVars[objName] && sinks.IsAsyncClientMethod(verb) {
				w.pf.NetworkOps = append(w.pf.NetworkOps, op)
			}
		}
	}

	// os.environ.get("X") is parsed as a call; the subscript form
	// os.environ["X"] is recorded by walk's "subscript" case.
	if callee == "os.environ.get" && len(args) > 0 {
		if lit := w.firstStringLiteral(argsNode); lit != "" {
			w.pf.EnvAccesses = append(w.pf.EnvAccesses, schemas.EnvAccess{Location: loc, Name: lit})
		}
	}
}

func (w *walker) firstStringLiteral(argsNode *sitter.Node) string {
	if argsNode == nil || argsNode.IsNull() || argsNode.NamedChildCount() == 0 {
		return ""
	}
	n := argsNode.NamedChild(0)
	if n.Type() != "string" {
		return ""
	}
	return unquote(w.text(n))
}

func (w *walker) classifyArgs(argsNode *sitter.Node) []schemas.ArgumentSource {
	if argsNode == nil || argsNode.IsNull() {
		return nil
	}
	var out []schemas.ArgumentSource
	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		out = append(out, w.classifyArgumentNode(argsNode.NamedChild(i)))
	}
	return out
}

func (w *walker) classifyArgumentNode(n *sitter.Node) schemas.ArgumentSource {
	if n == nil || n.IsNull() {
		return schemas.UnknownArg()
	}
	switch n.Type() {
	case "string":
		return schemas.Literal(unquote(w.text(n)))
	case "identifier":
		name := w.text(n)
		if sanitizer, ok := w.pf.SanitizedVars[name]; ok {
			return schemas.Sanitized(sanitizer)
		}
		if params := w.currentParams(); params != nil && params[name] {
			return schemas.Parameter(name)
		}
		return schemas.UnknownArg()
	case "subscript":
		if envName := w.matchEnvironSubscript(n); envName != "" {
			return schemas.EnvVar(envName)
		}
		return schemas.UnknownArg()
	case "binary_operator", "concatenated_string":
		return schemas.Interpolated()
	case "call":
		callee := w.calleeName(n.ChildByFieldName("function"))
		if callee == "os.environ.get" {
			if lit := w.firstStringLiteral(n.ChildByFieldName("arguments")); lit != "" {
				return schemas.EnvVar(lit)
			}
		}
		return schemas.UnknownArg()
	default:
		return schemas.UnknownArg()
	}
}

// matchEnvironSubscript recognizes os.environ["X"].
func (w *walker) matchEnvironSubscript(n *sitter.Node) string {
	value := n.ChildByFieldName("value")
	sub := n.ChildByFieldName("subscript")
	if value == nil || sub == nil || value.IsNull() || sub.IsNull() {
		return ""
	}
	if w.calleeName(value) != "os.environ" {
		return ""
	}
	if sub.Type() != "string" {
		return ""
	}
	return unquote(w.text(sub))
}

// unquote strips a single layer of surrounding quotes. Per the degenerate
// node guard, a node of length less than 2 is returned unchanged rather
// than sliced, since a lone quote character is valid grammar output and
// must never underflow a slice expression.
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

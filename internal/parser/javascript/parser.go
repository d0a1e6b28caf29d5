// Package javascript implements the JavaScript/TypeScript/JSX/TSX
// structural parser using the javascript and typescript/tsx tree-sitter
// grammars, following the same walk strategy as the Python front end.
package javascript

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/shieldscan/shieldscan/api/schemas"
	"github.com/shieldscan/shieldscan/internal/parser"
	"github.com/shieldscan/shieldscan/internal/parser/sinks"
)

// Parser is the JS/TS/JSX/TSX LanguageParser implementation.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Language() schemas.Language { return schemas.LanguageJavaScript }

func (p *Parser) CanParse(path string) bool {
	for _, ext := range []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func grammarFor(path string) *sitter.Language {
	if strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx") {
		return tsx.GetLanguage()
	}
	return javascript.GetLanguage()
}

type walker struct {
	source    []byte
	path      string
	pf        *parser.ParsedFile
	funcStack []funcFrame
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
	lang := schemas.LanguageJavaScript
	if strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx") {
		lang = schemas.LanguageTypeScript
	}
	pf := parser.NewParsedFile(path, lang)

	sp := sitter.NewParser()
	sp.SetLanguage(grammarFor(path))
	tree, err := sp.ParseCtx(context.Background(), nil, contents)
	if err != nil || tree == nil {
		pf.Diagnostics = append(pf.Diagnostics, fmt.Sprintf("tree-sitter parse failed: %v", err))
		return pf, nil
	}
	root := tree.RootNode()
	if root == nil {
		return pf, nil
	}

	w := &walker{source: contents, path: path, pf: pf}
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
	case "function_declaration", "function", "arrow_function", "method_definition", "generator_function_declaration":
		w.handleFunctionDef(n)
		return

	case "variable_declarator":
		w.handleVariableDeclarator(n)

	case "call_expression":
		w.handleCall(n)
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
	named := name != ""
	if !named {
		name = "anonymous"
	}

	paramsNode := n.ChildByFieldName("parameters")
	var params []string
	paramSet := make(map[string]bool)
	if paramsNode != nil && !paramsNode.IsNull() {
		for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
			pname := paramName(w, paramsNode.NamedChild(i))
			if pname == "" {
				continue
			}
			params = append(params, pname)
			paramSet[pname] = true
		}
	}

	isExported := isExportedDecl(n)

	endLine := int(n.EndPoint().Row) + 1
	// Unnamed functions (arrow callbacks, anonymous function expressions)
	// still get a scope frame but are not recorded as FunctionDefs.
	if named {
		w.pf.Functions = append(w.pf.Functions, schemas.FunctionDef{
			Name:       name,
			Params:     params,
			IsExported: isExported,
			File:       w.path,
			Location:   w.loc(n),
			EndLine:    endLine,
		})
	}

	w.funcStack = append(w.funcStack, funcFrame{name: name, params: paramSet})
	w.walk(n.ChildByFieldName("body"))
	w.funcStack = w.funcStack[:len(w.funcStack)-1]
}

func paramName(w *walker, n *sitter.Node) string {
	switch n.Type() {
	case "identifier":
		return w.text(n)
	case "assignment_pattern", "required_parameter", "optional_parameter":
		if left := n.ChildByFieldName("left"); left != nil && !left.IsNull() {
			return w.text(left)
		}
		if left := n.ChildByFieldName("pattern"); left != nil && !left.IsNull() {
			return w.text(left)
		}
	}
	return ""
}

// isExportedDecl walks up every ancestor of a function node to see whether
// any of them is an export_statement — the TypeScript/JavaScript
// convention for IsExported. A function nested anywhere inside an
// exported declaration therefore also counts as exported.
func isExportedDecl(n *sitter.Node) bool {
	cur := n.Parent()
	for cur != nil && !cur.IsNull() {
		if cur.Type() == "export_statement" {
			return true
		}
		cur = cur.Parent()
	}
	return false
}

func (w *walker) handleVariableDeclarator(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	valueNode := n.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil || nameNode.IsNull() || valueNode.IsNull() {
		return
	}
	if nameNode.Type() != "identifier" || valueNode.Type() != "call_expression" {
		return
	}
	callee := w.calleeName(valueNode.ChildByFieldName("function"))
	if sinks.IsSanitizer(callee) {
		w.pf.SanitizedVars[w.text(nameNode)] = callee
	}
}

func (w *walker) calleeName(n *sitter.Node) string {
	if n == nil || n.IsNull() {
		return ""
	}
	switch n.Type() {
	case "identifier":
		return w.text(n)
	case "member_expression":
		obj := w.calleeName(n.ChildByFieldName("object"))
		prop := w.text(n.ChildByFieldName("property"))
		if obj == "" {
			return prop
		}
		return obj + "." + prop
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
	}
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
	case "string", "template_string":
		if n.Type() == "template_string" && hasSubstitution(n) {
			return schemas.Interpolated()
		}
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
	case "member_expression":
		if envName := w.matchProcessEnv(n); envName != "" {
			return schemas.EnvVar(envName)
		}
		return schemas.UnknownArg()
	case "binary_expression":
		return schemas.Interpolated()
	default:
		return schemas.UnknownArg()
	}
}

func hasSubstitution(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "template_substitution" {
			return true
		}
	}
	return false
}

// matchProcessEnv recognizes process.env.X.
func (w *walker) matchProcessEnv(n *sitter.Node) string {
	full := w.calleeName(n)
	const prefix = "process.env."
	if strings.HasPrefix(full, prefix) {
		return strings.TrimPrefix(full, prefix)
	}
	return ""
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'' || first == '`') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}

// Package jsonschema reads MCP-style tool manifests (tools.json, mcp.json,
// or an inline "tools" array in a server manifest) into ToolSurface
// records, inferring DeclaredPermissions from each tool's free-text
// description when the manifest does not declare them explicitly.
//
// Manifest shape is plain JSON, so this reader uses encoding/json rather
// than a third-party decoder: there is no schema validation or lenient
// parsing need here, just a generic decode into typed Go structs, which
// the standard library already does without ceremony.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shieldscan/shieldscan/api/schemas"
)

type toolManifest struct {
	Tools []toolEntry `json:"tools"`
}

type toolEntry struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Read decodes a tool manifest (an object with a top-level "tools" array,
// or a bare array of tool entries) into ToolSurface records. Malformed
// JSON is a parse failure, non-fatal to the caller's adapter: Read
// returns a nil slice and an error, and the caller is expected to log and
// continue rather than abort the scan.
func Read(path string, contents []byte) ([]schemas.ToolSurface, error) {
	var manifest toolManifest
	if err := json.Unmarshal(contents, &manifest); err != nil {
		var bare []toolEntry
		if err2 := json.Unmarshal(contents, &bare); err2 != nil {
			return nil, fmt.Errorf("decode tool manifest %s: %w", path, err)
		}
		manifest.Tools = bare
	}

	out := make([]schemas.ToolSurface, 0, len(manifest.Tools))
	for _, t := range manifest.Tools {
		out = append(out, schemas.ToolSurface{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
			Permissions: inferPermissions(t.Description),
			Location:    schemas.SourceLocation{File: path, Valid: false},
		})
	}
	return out, nil
}

var permissionKeywords = map[schemas.PermissionType][]string{
	schemas.PermissionFilesystem: {"file", "directory", "path", "read", "write"},
	schemas.PermissionNetwork:    {"network", "http", "url", "request", "fetch", "download", "upload"},
	schemas.PermissionProcess:    {"execute", "command", "shell", "subprocess", "process", "run"},
	schemas.PermissionEnv:        {"environment variable", "env var", "secret", "credential"},
}

// inferPermissions is a best-effort keyword scan over a tool's free-text
// description. It is intentionally coarse: the excessive-permissions
// detector (SHIELD-008) compares this inferred set against observed
// execution-surface usage, so over-inference here only ever makes that
// detector more conservative, never less.
func inferPermissions(description string) []schemas.DeclaredPermission {
	lower := strings.ToLower(description)
	var perms []schemas.DeclaredPermission
	seen := make(map[schemas.PermissionType]bool)
	for ptype, keywords := range permissionKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				if !seen[ptype] {
					perms = append(perms, schemas.DeclaredPermission{Type: ptype, Detail: kw})
					seen[ptype] = true
				}
				break
			}
		}
	}
	return perms
}

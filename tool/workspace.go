package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Workspace confines all file-touching tools to one directory tree.
type Workspace struct {
	root string
}

// NewWorkspace creates (if necessary) and wraps the workspace root.
func NewWorkspace(root string) (*Workspace, error) {
	if root == "" {
		return nil, fmt.Errorf("workspace root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Workspace{root: abs}, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string { return w.root }

// Resolve validates a requested path against the workspace, rejecting any
// path that escapes the root after cleaning. Relative paths resolve against
// the root.
func (w *Workspace) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	var resolved string
	if filepath.IsAbs(path) {
		resolved = filepath.Clean(path)
	} else {
		resolved = filepath.Clean(filepath.Join(w.root, path))
	}
	if resolved != w.root && !strings.HasPrefix(resolved, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q resolves outside the workspace; all file operations must stay within %s", path, w.root)
	}
	return resolved, nil
}

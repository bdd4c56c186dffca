package tool

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

var errMissingContent = errors.New(`argument "content" must be a string`)

const maxReadBytes = 100_000

// ReadFile reads a file from the workspace.
type ReadFile struct {
	workspace *Workspace
}

// NewReadFile constructs the read tool.
func NewReadFile(workspace *Workspace) *ReadFile {
	return &ReadFile{workspace: workspace}
}

// Name implements Tool.
func (t *ReadFile) Name() string { return "read_file" }

// Description implements Tool.
func (t *ReadFile) Description() string {
	return "Read a file from the workspace (up to 100KB)."
}

// Call implements Tool.
func (t *ReadFile) Call(ctx context.Context, args map[string]any) (Result, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	resolved, err := t.workspace.Resolve(path)
	if err != nil {
		return Result{"path": path, "error": err.Error()}, nil
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return Result{"path": path, "error": "File not found"}, nil
	}

	f, err := os.Open(resolved)
	if err != nil {
		return Result{"path": path, "error": err.Error()}, nil
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxReadBytes))
	if err != nil {
		return Result{"path": path, "error": err.Error()}, nil
	}

	return Result{"path": path, "content": string(content), "size": info.Size()}, nil
}

// WriteFile writes a file into the workspace, creating parent directories.
type WriteFile struct {
	workspace *Workspace
}

// NewWriteFile constructs the write tool.
func NewWriteFile(workspace *Workspace) *WriteFile {
	return &WriteFile{workspace: workspace}
}

// Name implements Tool.
func (t *WriteFile) Name() string { return "write_file" }

// Description implements Tool.
func (t *WriteFile) Description() string {
	return "Write content to a file in the workspace."
}

// Call implements Tool.
func (t *WriteFile) Call(ctx context.Context, args map[string]any) (Result, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	content, ok := args["content"].(string)
	if !ok {
		return nil, errMissingContent
	}

	resolved, err := t.workspace.Resolve(path)
	if err != nil {
		return Result{"path": path, "error": err.Error(), "success": false}, nil
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return Result{"path": path, "error": err.Error(), "success": false}, nil
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return Result{"path": path, "error": err.Error(), "success": false}, nil
	}

	return Result{"path": path, "success": true, "size": len(content)}, nil
}

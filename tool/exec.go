package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	codeTimeout   = 30 * time.Second
	searchTimeout = 15 * time.Second

	maxStdout = 10000
	maxStderr = 5000
)

// ExecuteCode runs Python snippets in a subprocess confined to the workspace.
type ExecuteCode struct {
	workspace *Workspace
}

// NewExecuteCode constructs the code execution tool.
func NewExecuteCode(workspace *Workspace) *ExecuteCode {
	return &ExecuteCode{workspace: workspace}
}

// Name implements Tool.
func (t *ExecuteCode) Name() string { return "execute_code" }

// Description implements Tool.
func (t *ExecuteCode) Description() string {
	return "Execute a Python snippet in the workspace and return stdout, stderr, and the exit code."
}

// Call implements Tool.
func (t *ExecuteCode) Call(ctx context.Context, args map[string]any) (Result, error) {
	code, err := stringArg(args, "code")
	if err != nil {
		return nil, err
	}
	if lang := optionalStringArg(args, "language"); lang != "" && lang != "python" {
		return Result{
			"error":       "Only Python execution is supported. Got: " + lang,
			"stdout":      "",
			"stderr":      "",
			"return_code": -1,
		}, nil
	}

	runCtx, cancel := context.WithTimeout(ctx, codeTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "python3", "-c", code)
	cmd.Dir = t.workspace.Root()
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + t.workspace.Root(),
		"PYTHONDONTWRITEBYTECODE=1",
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return Result{
			"error":       "Code execution timed out (30s limit)",
			"stdout":      "",
			"stderr":      "",
			"return_code": -1,
		}, nil
	}

	returnCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			returnCode = exitErr.ExitCode()
		} else {
			return Result{
				"error":       runErr.Error(),
				"stdout":      "",
				"stderr":      "",
				"return_code": -1,
			}, nil
		}
	}

	return Result{
		"stdout":      truncate(stdout.String(), maxStdout),
		"stderr":      truncate(stderr.String(), maxStderr),
		"return_code": returnCode,
	}, nil
}

// SearchCodebase searches workspace files with ripgrep, falling back to grep
// when ripgrep is not installed.
type SearchCodebase struct {
	workspace *Workspace
}

// NewSearchCodebase constructs the search tool.
func NewSearchCodebase(workspace *Workspace) *SearchCodebase {
	return &SearchCodebase{workspace: workspace}
}

// Name implements Tool.
func (t *SearchCodebase) Name() string { return "search_codebase" }

// Description implements Tool.
func (t *SearchCodebase) Description() string {
	return "Search workspace files for a regex pattern and return matching lines."
}

// Call implements Tool.
func (t *SearchCodebase) Call(ctx context.Context, args map[string]any) (Result, error) {
	pattern, err := stringArg(args, "pattern")
	if err != nil {
		return nil, err
	}

	searchPath := t.workspace.Root()
	if p := optionalStringArg(args, "path"); p != "" {
		resolved, err := t.workspace.Resolve(p)
		if err != nil {
			return Result{"pattern": pattern, "matches": []Result{}, "error": err.Error()}, nil
		}
		searchPath = resolved
	}
	fileType := optionalStringArg(args, "file_type")

	runCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	matches, err := ripgrep(runCtx, pattern, searchPath, fileType)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			matches, err = grepFallback(runCtx, pattern, searchPath, fileType)
		}
		if err != nil {
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return Result{"pattern": pattern, "matches": []Result{}, "error": "Search timed out"}, nil
			}
			return Result{"pattern": pattern, "matches": []Result{}, "error": err.Error()}, nil
		}
	}

	return Result{"pattern": pattern, "matches": matches, "count": len(matches)}, nil
}

func ripgrep(ctx context.Context, pattern, path, fileType string) ([]Result, error) {
	cmdArgs := []string{"--json", "--max-count", "50", "--max-filesize", "1M"}
	if fileType != "" {
		cmdArgs = append(cmdArgs, "--type", fileType)
	}
	cmdArgs = append(cmdArgs, pattern, path)

	out, err := runSearch(ctx, "rg", cmdArgs)
	if err != nil {
		return nil, err
	}
	return parseRipgrepJSON(out), nil
}

// parseRipgrepJSON extracts match entries from rg --json line output.
// Malformed lines are skipped.
func parseRipgrepJSON(out string) []Result {
	var matches []Result
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var entry struct {
			Type string `json:"type"`
			Data struct {
				Path struct {
					Text string `json:"text"`
				} `json:"path"`
				LineNumber int `json:"line_number"`
				Lines      struct {
					Text string `json:"text"`
				} `json:"lines"`
			} `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.Type != "match" {
			continue
		}
		matches = append(matches, Result{
			"file": entry.Data.Path.Text,
			"line": entry.Data.LineNumber,
			"text": strings.TrimSpace(entry.Data.Lines.Text),
		})
	}
	return matches
}

func grepFallback(ctx context.Context, pattern, path, fileType string) ([]Result, error) {
	cmdArgs := []string{"-rn", "--max-count=50"}
	if fileType != "" {
		cmdArgs = append(cmdArgs, "--include", "*."+fileType)
	}
	cmdArgs = append(cmdArgs, pattern, path)

	out, err := runSearch(ctx, "grep", cmdArgs)
	if err != nil {
		return nil, err
	}

	var matches []Result
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) > 50 {
		lines = lines[:50]
	}
	for _, line := range lines {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		lineNo, _ := strconv.Atoi(parts[1])
		matches = append(matches, Result{
			"file": parts[0],
			"line": lineNo,
			"text": strings.TrimSpace(parts[2]),
		})
	}
	return matches, nil
}

// runSearch executes a search command, treating exit code 1 (no matches) as
// an empty result.
func runSearch(ctx context.Context, name string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return stdout.String(), nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

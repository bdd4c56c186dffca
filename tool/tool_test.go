package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)
	return w
}

func TestWorkspaceResolve(t *testing.T) {
	w := newTestWorkspace(t)

	resolved, err := w.Resolve("notes/todo.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Root(), "notes", "todo.txt"), resolved)

	resolved, err = w.Resolve(w.Root())
	require.NoError(t, err)
	assert.Equal(t, w.Root(), resolved)

	_, err = w.Resolve("../outside.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside the workspace")

	_, err = w.Resolve("/etc/passwd")
	require.Error(t, err)

	_, err = w.Resolve("a/../../escape")
	require.Error(t, err)

	_, err = w.Resolve("")
	require.Error(t, err)
}

func TestReadWriteFile(t *testing.T) {
	w := newTestWorkspace(t)
	ctx := context.Background()

	write := NewWriteFile(w)
	res, err := write.Call(ctx, map[string]any{"path": "docs/plan.md", "content": "# Plan\n"})
	require.NoError(t, err)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, 7, res["size"])

	read := NewReadFile(w)
	res, err = read.Call(ctx, map[string]any{"path": "docs/plan.md"})
	require.NoError(t, err)
	assert.Equal(t, "# Plan\n", res["content"])

	res, err = read.Call(ctx, map[string]any{"path": "missing.txt"})
	require.NoError(t, err)
	assert.Equal(t, "File not found", res["error"])
}

func TestWriteFile_RejectsEscape(t *testing.T) {
	w := newTestWorkspace(t)

	res, err := NewWriteFile(w).Call(context.Background(), map[string]any{
		"path":    "../evil.txt",
		"content": "nope",
	})
	require.NoError(t, err)
	assert.Equal(t, false, res["success"])
	assert.Contains(t, res["error"], "outside the workspace")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(w.Root()), "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreateChart(t *testing.T) {
	ctx := context.Background()
	chart := NewCreateChart()

	res, err := chart.Call(ctx, map[string]any{
		"chart_type": "bar",
		"title":      "Revenue by quarter",
		"data": map[string]any{
			"labels": []any{"Q1", "Q2"},
			"values": []any{1.5, 2.25},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "bar", res["type"])
	assert.Equal(t, "Revenue by quarter", res["title"])
	assert.Equal(t, true, res["generated"])

	res, err = chart.Call(ctx, map[string]any{"chart_type": "donut"})
	require.NoError(t, err)
	assert.Contains(t, res["error"], "Unsupported chart type")
}

func TestWebSearch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "go concurrency", r.URL.Query().Get("q"))
		wr.Write([]byte(`
			<a rel="nofollow" class="result__a" href="https://go.dev/doc">Go <b>Docs</b></a>
			<a class="result__snippet">Learn <b>Go</b> concurrency patterns</a>
		`))
	}))
	defer srv.Close()

	ws := NewWebSearch(WithSearchEndpoint(srv.URL + "/"))
	res, err := ws.Call(context.Background(), map[string]any{"query": "go concurrency"})
	require.NoError(t, err)
	assert.Equal(t, 1, res["count"])
	results := res["results"].([]Result)
	assert.Equal(t, "Go Docs", results[0]["title"])
	assert.Equal(t, "https://go.dev/doc", results[0]["url"])
	assert.Equal(t, "Learn Go concurrency patterns", results[0]["snippet"])
}

func TestWebScrape_ExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		wr.Write([]byte(`<html><head><title>Example Page</title>
			<style>body { color: red; }</style></head>
			<body><script>alert("hi")</script><p>Hello   world</p></body></html>`))
	}))
	defer srv.Close()

	res, err := NewWebScrape().Call(context.Background(), map[string]any{"url": srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "Example Page", res["title"])
	assert.Equal(t, "Example Page Hello world", res["content"])
}

func TestParseRipgrepJSON(t *testing.T) {
	out := `{"type":"begin","data":{"path":{"text":"main.go"}}}
{"type":"match","data":{"path":{"text":"main.go"},"lines":{"text":"func main() {\n"},"line_number":3}}
not json at all
{"type":"end","data":{}}`

	matches := parseRipgrepJSON(out)
	require.Len(t, matches, 1)
	assert.Equal(t, "main.go", matches[0]["file"])
	assert.Equal(t, 3, matches[0]["line"])
	assert.Equal(t, "func main() {", matches[0]["text"])
}

func TestRegistry_AllowList(t *testing.T) {
	w := newTestWorkspace(t)
	reg, err := DefaultRegistry(w)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(w.Root(), "hello.txt"), []byte("hi"), 0o644))

	res, err := reg.Call(context.Background(), "read_file", []string{"read_file"}, map[string]any{"path": "hello.txt"})
	require.NoError(t, err)
	assert.Equal(t, "hi", res["content"])

	_, err = reg.Call(context.Background(), "read_file", []string{"web_search"}, map[string]any{"path": "hello.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")

	_, err = reg.Call(context.Background(), "no_such_tool", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestRegistry_Names(t *testing.T) {
	w := newTestWorkspace(t)
	reg, err := DefaultRegistry(w)
	require.NoError(t, err)

	names := reg.Names()
	assert.Equal(t, []string{
		"web_search", "web_scrape", "summarize_url", "execute_code",
		"read_file", "write_file", "search_codebase", "create_chart",
	}, names)
}

func TestStringArg(t *testing.T) {
	_, err := stringArg(map[string]any{}, "query")
	require.Error(t, err)

	_, err = stringArg(map[string]any{"query": 42}, "query")
	require.Error(t, err)

	v, err := stringArg(map[string]any{"query": "ok"}, "query")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

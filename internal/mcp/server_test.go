package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codeshape/internal/config"
	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
	"github.com/mvp-joe/codeshape/internal/query"
)

// Test Plan for the MCP tools:
// - analyze returns a project id, languages and summaries
// - query answers from the cached project
// - search returns hits filtered by kind
// - unknown project ids and missing arguments are tool errors
// - analysis failures are tool errors
// - a watched project is dropped after a source change
// - closing the server closes cached projects

type fakeCompleter struct{}

func (fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return "a small service", nil
}

type testTools struct {
	projects *projectCache
	analyze  toolHandler
	query    toolHandler
	search   toolHandler
}

func newTestTools(t *testing.T, watch bool) *testTools {
	t.Helper()

	cfg := config.Default()
	cfg.MCP.Watch = watch

	projects, err := newProjectCache(cfg.MCP.CacheSize, cfg.MCP.CacheTTL)
	require.NoError(t, err)
	t.Cleanup(projects.close)

	return &testTools{
		projects: projects,
		analyze:  createAnalyzeHandler(cfg, projects),
		query:    createQueryHandler(query.NewRouter(fakeCompleter{}), projects),
		search:   createSearchHandler(projects),
	}
}

func pythonProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	src := "import os\n\nclass Service:\n    def start(self):\n        pass\n\ndef helper():\n    pass\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "service.py"), []byte(src), 0644))
	return dir
}

func call(t *testing.T, handler toolHandler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return textContent.Text
}

func analyzeProject(t *testing.T, tools *testTools, dir string) AnalyzeResponse {
	t.Helper()

	result := call(t, tools.analyze, map[string]interface{}{"path": dir})
	require.False(t, result.IsError, resultText(t, result))

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	return resp
}

func TestAnalyzeTool(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, false)
	resp := analyzeProject(t, tools, pythonProject(t))

	assert.NotEmpty(t, resp.ProjectID)
	assert.Equal(t, []extraction.Language{extraction.LanguagePython}, resp.Languages)
	assert.Equal(t, 1, resp.FilesScanned)
	assert.Contains(t, resp.Summaries, "Python project with 1 classes")

	_, ok := tools.projects.get(resp.ProjectID)
	assert.True(t, ok)
}

func TestAnalyzeTool_Errors(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, false)

	t.Run("missing path", func(t *testing.T) {
		result := call(t, tools.analyze, map[string]interface{}{})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "path parameter is required")
	})

	t.Run("no source files", func(t *testing.T) {
		result := call(t, tools.analyze, map[string]interface{}{"path": t.TempDir()})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "analysis failed")
	})
}

func TestQueryTool(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, false)
	resp := analyzeProject(t, tools, pythonProject(t))

	result := call(t, tools.query, map[string]interface{}{
		"project_id": resp.ProjectID,
		"query":      "how many classes",
	})
	require.False(t, result.IsError)

	var answer query.Answer
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &answer))
	assert.Equal(t, query.IntentClasses, answer.Intent)
	assert.Equal(t, "Total classes/structs: 1", answer.Text)
}

func TestQueryTool_Explain(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, false)
	resp := analyzeProject(t, tools, pythonProject(t))

	result := call(t, tools.query, map[string]interface{}{
		"project_id": resp.ProjectID,
		"query":      "explain",
	})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "a small service")
}

func TestQueryTool_UnknownProject(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, false)

	result := call(t, tools.query, map[string]interface{}{
		"project_id": "missing",
		"query":      "how many classes",
	})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "project missing not found")
}

func TestSearchTool(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, false)
	resp := analyzeProject(t, tools, pythonProject(t))

	result := call(t, tools.search, map[string]interface{}{
		"project_id": resp.ProjectID,
		"terms":      "start",
		"kind":       "method",
		"limit":      float64(5),
	})
	require.False(t, result.IsError, resultText(t, result))

	var found SearchResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &found))
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "start", found.Hits[0].Name)
	assert.Equal(t, "method", found.Hits[0].Kind)
}

func TestSearchTool_MissingTerms(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, false)
	resp := analyzeProject(t, tools, pythonProject(t))

	result := call(t, tools.search, map[string]interface{}{"project_id": resp.ProjectID})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "terms parameter is required")
}

func TestWatchedProject_DroppedOnChange(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t, true)
	dir := pythonProject(t)
	resp := analyzeProject(t, tools, dir)

	entry, ok := tools.projects.get(resp.ProjectID)
	require.True(t, ok)
	require.NotNil(t, entry.watcher)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.py"), []byte("x = 1\n"), 0644))

	require.Eventually(t, func() bool {
		_, ok := tools.projects.get(resp.ProjectID)
		return !ok
	}, 5*time.Second, 20*time.Millisecond)
}

func TestServer_Close(t *testing.T) {
	t.Parallel()

	srv, err := NewServer(config.Default(), fakeCompleter{})
	require.NoError(t, err)

	handler := createAnalyzeHandler(srv.cfg, srv.projects)
	resp := analyzeProject(t, &testTools{analyze: handler}, pythonProject(t))

	entry, ok := srv.projects.get(resp.ProjectID)
	require.True(t, ok)
	_, err = entry.searchIndex(context.Background())
	require.NoError(t, err)

	require.NoError(t, srv.Close())

	entry.mu.Lock()
	defer entry.mu.Unlock()
	assert.Nil(t, entry.index)
}

func TestNewServer_RequiresCompleter(t *testing.T) {
	t.Parallel()

	_, err := NewServer(config.Default(), nil)
	assert.Error(t, err)
}

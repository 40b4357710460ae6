package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codeshape/internal/config"
	"github.com/mvp-joe/codeshape/internal/indexer"
	"github.com/mvp-joe/codeshape/internal/indexer/extraction"
	"github.com/mvp-joe/codeshape/internal/project"
	"github.com/mvp-joe/codeshape/internal/query"
	"github.com/mvp-joe/codeshape/internal/search"
	"github.com/mvp-joe/codeshape/internal/watcher"
)

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// AnalyzeResponse is returned by codeshape_analyze.
type AnalyzeResponse struct {
	ProjectID    string                `json:"project_id"`
	Root         string                `json:"root"`
	Languages    []extraction.Language `json:"languages"`
	FilesScanned int                   `json:"files_scanned"`
	FailedFiles  int                   `json:"failed_files"`
	Summaries    string                `json:"summaries"`
}

// SearchResponse is returned by codeshape_search.
type SearchResponse struct {
	Hits  []search.Hit `json:"hits"`
	Total int          `json:"total"`
}

// AddAnalyzeTool registers codeshape_analyze, which scans a directory or
// .zip archive and keeps the result for later queries.
func AddAnalyzeTool(s *server.MCPServer, cfg *config.Config, projects *projectCache) {
	tool := mcp.NewTool(
		"codeshape_analyze",
		mcp.WithDescription("Extract the structure of a C, Java, JavaScript, TypeScript, PHP or Python project (directory or .zip archive). Returns a project_id for codeshape_query and codeshape_search plus per-language summaries."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Project directory or .zip archive path")),
	)

	s.AddTool(tool, createAnalyzeHandler(cfg, projects))
}

func createAnalyzeHandler(cfg *config.Config, projects *projectCache) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := argsOf(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path, err := parseStringArg(argsMap, "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		a, err := project.Analyze(ctx, path, cfg, &indexer.NoOpProgressReporter{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
		}

		entry := &projectEntry{analysis: a}
		if cfg.MCP.Watch && !a.IsArchive() {
			entry.watcher = watchProject(a, cfg.Extensions(), projects)
		}
		if !projects.put(entry) {
			return mcp.NewToolResultError("project cache rejected the analysis; try again"), nil
		}

		return jsonResult(AnalyzeResponse{
			ProjectID:    a.ID,
			Root:         a.Root,
			Languages:    a.View.Languages(),
			FilesScanned: a.Stats.FilesScanned,
			FailedFiles:  a.Stats.FailedFiles,
			Summaries:    a.View.Summaries(),
		})
	}
}

// watchProject drops the project from the cache once its sources change.
// A watcher that cannot start is logged and skipped.
func watchProject(a *project.Analysis, extensions []string, projects *projectCache) *watcher.Watcher {
	w, err := watcher.New(a.Root, extensions, 0)
	if err != nil {
		log.Printf("Warning: not watching %s: %v", a.Root, err)
		return nil
	}

	id := a.ID
	w.Start(context.Background(), func(files []string) {
		log.Printf("%d source file(s) changed under %s, dropping project %s", len(files), a.Root, id)
		// Invalidation stops this watcher, which waits for the callback to return.
		go projects.invalidate(id)
	})
	return w
}

// AddQueryTool registers codeshape_query, which answers a free-text
// question about an analyzed project.
func AddQueryTool(s *server.MCPServer, router *query.Router, projects *projectCache) {
	tool := mcp.NewTool(
		"codeshape_query",
		mcp.WithDescription("Ask a question about an analyzed project: classes, superclasses, interfaces, traits, imports, functions and methods, global variables, 'explain', or 'extracted elements'. Prefix with 'how many' to count or 'list' to enumerate."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("ID returned by codeshape_analyze")),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Question, e.g. 'how many classes', 'list all interfaces', 'explain'")),
	)

	s.AddTool(tool, createQueryHandler(router, projects))
}

func createQueryHandler(router *query.Router, projects *projectCache) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := argsOf(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entry, errResult := lookupProject(argsMap, projects)
		if errResult != nil {
			return errResult, nil
		}
		q, err := parseStringArg(argsMap, "query", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(router.Answer(ctx, q, entry.analysis.View))
	}
}

// AddSearchTool registers codeshape_search, a keyword search over the
// extracted element names of an analyzed project.
func AddSearchTool(s *server.MCPServer, projects *projectCache) {
	tool := mcp.NewTool(
		"codeshape_search",
		mcp.WithDescription("Search extracted types, functions, methods, imports and module bindings of an analyzed project by name. Supports bleve query string syntax (e.g. 'user*', 'name:start')."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("ID returned by codeshape_analyze")),
		mcp.WithString("terms",
			mcp.Required(),
			mcp.Description("Search terms")),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of hits (1-%d, default: %d)", search.MaxLimit, search.DefaultLimit))),
		mcp.WithString("language",
			mcp.Description("Only return elements of this language (c, java, javascript, typescript, php, python)")),
		mcp.WithString("kind",
			mcp.Description("Only return elements of this kind (type, function, method, import, binding)")),
	)

	s.AddTool(tool, createSearchHandler(projects))
}

func createSearchHandler(projects *projectCache) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := argsOf(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entry, errResult := lookupProject(argsMap, projects)
		if errResult != nil {
			return errResult, nil
		}
		terms, err := parseStringArg(argsMap, "terms", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		language, err := parseStringArg(argsMap, "language", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kind, err := parseStringArg(argsMap, "kind", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		idx, err := entry.searchIndex(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build search index: %v", err)), nil
		}

		hits, err := idx.Search(ctx, terms, search.Options{
			Limit:    parseLimitArg(argsMap, "limit", search.DefaultLimit, search.MaxLimit),
			Language: language,
			Kind:     kind,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		return jsonResult(SearchResponse{Hits: hits, Total: len(hits)})
	}
}

func lookupProject(argsMap map[string]interface{}, projects *projectCache) (*projectEntry, *mcp.CallToolResult) {
	id, err := parseStringArg(argsMap, "project_id", true)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	entry, ok := projects.get(id)
	if !ok {
		return nil, mcp.NewToolResultError(fmt.Sprintf("project %s not found (expired or changed on disk); run codeshape_analyze again", id))
	}
	return entry, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

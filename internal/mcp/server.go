// Package mcp exposes project analysis, questions and element search as
// Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codeshape/internal/config"
	"github.com/mvp-joe/codeshape/internal/llm"
	"github.com/mvp-joe/codeshape/internal/query"
)

// Server manages the MCP server lifecycle and the analyzed projects it holds.
type Server struct {
	cfg      *config.Config
	projects *projectCache
	mcp      *server.MCPServer
}

// NewServer creates a server that analyzes projects with cfg and answers
// open-ended questions with completer.
func NewServer(cfg *config.Config, completer llm.Completer) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}

	projects, err := newProjectCache(cfg.MCP.CacheSize, cfg.MCP.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create project cache: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"codeshape",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddAnalyzeTool(mcpServer, cfg, projects)
	AddQueryTool(mcpServer, query.NewRouter(completer), projects)
	AddSearchTool(mcpServer, projects)

	return &Server{
		cfg:      cfg,
		projects: projects,
		mcp:      mcpServer,
	}, nil
}

// Serve runs the server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases every cached project.
func (s *Server) Close() error {
	s.projects.close()
	return nil
}

// Package mcp implements the MCP server exposing the codebase tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvanek/mcp-codebase-browser/internal/backup"
	"github.com/mvanek/mcp-codebase-browser/internal/chunk"
	"github.com/mvanek/mcp-codebase-browser/internal/codebase"
	"github.com/mvanek/mcp-codebase-browser/internal/config"
	"github.com/mvanek/mcp-codebase-browser/internal/search"
)

// Server implements the MCP server.
type Server struct {
	mcpServer *server.MCPServer
	config    *config.Config
	store     *codebase.Store
	searcher  *search.Searcher
	backups   *backup.Manager
	chunks    *chunk.Store
}

// Config contains server configuration.
type Config struct {
	Config  *config.Config
	Store   *codebase.Store
	Backups *backup.Manager
}

// New creates a new MCP server.
func New(cfg Config) (*Server, error) {
	s := &Server{
		config:  cfg.Config,
		store:   cfg.Store,
		backups: cfg.Backups,
		chunks:  chunk.NewStore(),
	}

	s.searcher = search.New(cfg.Store, cfg.Config)

	mcpServer := server.NewMCPServer(
		"mcp-codebase-browser",
		"0.1.0",
		server.WithLogging(),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s, nil
}

// registerTools registers all MCP tools.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	// File tools

	mcpServer.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List files and directories in the codebase"),
		mcp.WithString("directory", mcp.Description("Directory to list, relative to the codebase root (default: root)")),
		mcp.WithString("pattern", mcp.Description("Glob pattern for files, supports ** (default: **/*)")),
	), s.handleListFiles)

	mcpServer.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read the contents of a file in the codebase"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("File path relative to the codebase root")),
	), s.handleReadFile)

	mcpServer.AddTool(mcp.NewTool("write_file",
		mcp.WithDescription("Write content to a file, creating parent directories as needed"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("File path relative to the codebase root")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to write")),
		mcp.WithString("mode", mcp.Description("Write mode: overwrite (default) or append")),
	), s.handleWriteFile)

	mcpServer.AddTool(mcp.NewTool("edit_lines",
		mcp.WithDescription("Edit a file by line numbers: replace, insert_before, insert_after or delete"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("File path relative to the codebase root")),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Operation: replace, insert_before, insert_after, delete")),
		mcp.WithNumber("start_line", mcp.Required(), mcp.Description("First line of the edit (1-based)")),
		mcp.WithNumber("end_line", mcp.Description("Last line of the edit, inclusive (default: start_line)")),
		mcp.WithString("content", mcp.Description("Replacement or inserted content, may span multiple lines")),
	), s.handleEditLines)

	mcpServer.AddTool(mcp.NewTool("delete_file",
		mcp.WithDescription("Delete a file from the codebase"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("File path relative to the codebase root")),
	), s.handleDeleteFile)

	mcpServer.AddTool(mcp.NewTool("create_directory",
		mcp.WithDescription("Create a directory in the codebase"),
		mcp.WithString("dir_path", mcp.Required(), mcp.Description("Directory path relative to the codebase root")),
	), s.handleCreateDirectory)

	mcpServer.AddTool(mcp.NewTool("delete_directory",
		mcp.WithDescription("Delete a directory; non-empty directories require recursive=true"),
		mcp.WithString("dir_path", mcp.Required(), mcp.Description("Directory path relative to the codebase root")),
		mcp.WithBoolean("recursive", mcp.Description("Delete contents too (default false)")),
	), s.handleDeleteDirectory)

	mcpServer.AddTool(mcp.NewTool("move_file",
		mcp.WithDescription("Move or rename a file within the codebase"),
		mcp.WithString("source_path", mcp.Required(), mcp.Description("Source file path")),
		mcp.WithString("destination_path", mcp.Required(), mcp.Description("Destination file path")),
		mcp.WithBoolean("overwrite", mcp.Description("Overwrite an existing destination (default false)")),
	), s.handleMoveFile)

	mcpServer.AddTool(mcp.NewTool("copy_file",
		mcp.WithDescription("Copy a file within the codebase"),
		mcp.WithString("source_path", mcp.Required(), mcp.Description("Source file path")),
		mcp.WithString("destination_path", mcp.Required(), mcp.Description("Destination file path")),
		mcp.WithBoolean("overwrite", mcp.Description("Overwrite an existing destination (default false)")),
	), s.handleCopyFile)

	mcpServer.AddTool(mcp.NewTool("get_overview",
		mcp.WithDescription("Get a project overview: readme, package info, file type counts, top-level layout"),
	), s.handleGetOverview)

	// Search

	mcpServer.AddTool(mcp.NewTool("search_code",
		mcp.WithDescription("Search for text in the codebase; each match includes its enclosing code block"),
		mcp.WithString("search_term", mcp.Required(), mcp.Description("Text to search for")),
		mcp.WithString("file_pattern", mcp.Description("Comma-separated glob patterns to search (default: common source extensions)")),
		mcp.WithNumber("max_results", mcp.Description("Maximum matches to return (default 20)")),
		mcp.WithBoolean("case_sensitive", mcp.Description("Case-sensitive matching (default from config)")),
	), s.handleSearchCode)

	// Backup tools

	mcpServer.AddTool(mcp.NewTool("backup_create",
		mcp.WithDescription("Create a named snapshot of the entire codebase"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snapshot name, must be unique")),
		mcp.WithString("note", mcp.Description("Optional note stored with the snapshot")),
	), s.handleBackupCreate)

	mcpServer.AddTool(mcp.NewTool("backup_list",
		mcp.WithDescription("List all snapshots, newest first"),
	), s.handleBackupList)

	mcpServer.AddTool(mcp.NewTool("backup_restore",
		mcp.WithDescription("Restore a snapshot, overwriting files that exist in it"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snapshot name")),
	), s.handleBackupRestore)

	mcpServer.AddTool(mcp.NewTool("backup_delete",
		mcp.WithDescription("Delete a snapshot and its catalog entry"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snapshot name")),
	), s.handleBackupDelete)

	// Chunk tools - staging large contents across calls

	mcpServer.AddTool(mcp.NewTool("chunk_create",
		mcp.WithDescription("Start a named buffer for staging file content across multiple calls"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buffer name")),
		mcp.WithString("content", mcp.Description("Initial content")),
	), s.handleChunkCreate)

	mcpServer.AddTool(mcp.NewTool("chunk_append",
		mcp.WithDescription("Append content to an existing buffer"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buffer name")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content to append")),
	), s.handleChunkAppend)

	mcpServer.AddTool(mcp.NewTool("chunk_list",
		mcp.WithDescription("List all buffers with their sizes"),
	), s.handleChunkList)

	mcpServer.AddTool(mcp.NewTool("chunk_merge",
		mcp.WithDescription("Write a buffer's content to a file and discard the buffer"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Buffer name")),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Destination file path relative to the codebase root")),
	), s.handleChunkMerge)

	mcpServer.AddTool(mcp.NewTool("chunk_clear",
		mcp.WithDescription("Discard one buffer, or all buffers when no name is given"),
		mcp.WithString("name", mcp.Description("Buffer name (omit to clear everything)")),
	), s.handleChunkClear)
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

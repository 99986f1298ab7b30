package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvanek/mcp-codebase-browser/internal/codebase"
)

func (s *Server) handleListFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory := req.GetString("directory", ".")
	pattern := req.GetString("pattern", "")

	result, err := s.store.List(directory, pattern)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list files: %v", err)), nil
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := req.GetString("file_path", "")
	if filePath == "" {
		return mcp.NewToolResultError("file_path is required"), nil
	}

	content, err := s.store.ReadFile(filePath, s.config.Limits.MaxFileSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read file: %v", err)), nil
	}

	jsonResult, _ := json.MarshalIndent(content, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleWriteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := req.GetString("file_path", "")
	if filePath == "" {
		return mcp.NewToolResultError("file_path is required"), nil
	}

	content := req.GetString("content", "")
	mode := req.GetString("mode", "overwrite")
	if mode != "overwrite" && mode != "append" {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode: %s", mode)), nil
	}

	if err := s.store.WriteFile(filePath, content, mode == "append"); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write file: %v", err)), nil
	}

	verb := "wrote to"
	if mode == "append" {
		verb = "appended to"
	}
	result := map[string]any{
		"success":  true,
		"message":  fmt.Sprintf("Successfully %s %s", verb, filePath),
		"filePath": filePath,
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleEditLines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := req.GetString("file_path", "")
	if filePath == "" {
		return mcp.NewToolResultError("file_path is required"), nil
	}

	operation := req.GetString("operation", "")
	startLine := req.GetInt("start_line", 0)
	endLine := req.GetInt("end_line", 0)
	content := req.GetString("content", "")

	result, err := s.store.EditLines(filePath, codebase.LineEditOp(operation), startLine, endLine, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to edit file: %v", err)), nil
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleDeleteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := req.GetString("file_path", "")
	if filePath == "" {
		return mcp.NewToolResultError("file_path is required"), nil
	}

	if err := s.store.DeleteFile(filePath); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete file: %v", err)), nil
	}

	result := map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted %s", filePath),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleCreateDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dirPath := req.GetString("dir_path", "")
	if dirPath == "" {
		return mcp.NewToolResultError("dir_path is required"), nil
	}

	if err := s.store.CreateDirectory(dirPath); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create directory: %v", err)), nil
	}

	result := map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully created directory %s", dirPath),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleDeleteDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dirPath := req.GetString("dir_path", "")
	if dirPath == "" {
		return mcp.NewToolResultError("dir_path is required"), nil
	}
	recursive := req.GetBool("recursive", false)

	if err := s.store.DeleteDirectory(dirPath, recursive); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete directory: %v", err)), nil
	}

	result := map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted directory %s", dirPath),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleMoveFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := req.GetString("source_path", "")
	destination := req.GetString("destination_path", "")
	if source == "" || destination == "" {
		return mcp.NewToolResultError("source_path and destination_path are required"), nil
	}
	overwrite := req.GetBool("overwrite", false)

	if err := s.store.MoveFile(source, destination, overwrite); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to move file: %v", err)), nil
	}

	result := map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully moved %s to %s", source, destination),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleCopyFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := req.GetString("source_path", "")
	destination := req.GetString("destination_path", "")
	if source == "" || destination == "" {
		return mcp.NewToolResultError("source_path and destination_path are required"), nil
	}
	overwrite := req.GetBool("overwrite", false)

	if err := s.store.CopyFile(source, destination, overwrite); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to copy file: %v", err)), nil
	}

	result := map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully copied %s to %s", source, destination),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleGetOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overview, err := s.store.Overview()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build overview: %v", err)), nil
	}

	jsonResult, _ := json.MarshalIndent(overview, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

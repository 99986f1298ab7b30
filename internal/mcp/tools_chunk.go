package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleChunkCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	content := req.GetString("content", "")

	info := s.chunks.Create(name, content)

	jsonResult, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleChunkAppend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	content := req.GetString("content", "")

	info, err := s.chunks.Append(name, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to append chunk: %v", err)), nil
	}

	jsonResult, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleChunkList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos := s.chunks.List()

	result := map[string]any{
		"chunks": infos,
		"count":  len(infos),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleChunkMerge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	filePath := req.GetString("file_path", "")
	if name == "" || filePath == "" {
		return mcp.NewToolResultError("name and file_path are required"), nil
	}

	info, err := s.chunks.Merge(name, filePath, s.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to merge chunk: %v", err)), nil
	}

	result := map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Successfully wrote chunk %s to %s", name, filePath),
		"filePath":  filePath,
		"sizeBytes": info.SizeBytes,
		"parts":     info.Parts,
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleChunkClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")

	if name == "" {
		n := s.chunks.ClearAll()
		result := map[string]any{
			"success": true,
			"message": fmt.Sprintf("Cleared %d chunks", n),
		}
		jsonResult, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(jsonResult)), nil
	}

	if err := s.chunks.Clear(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear chunk: %v", err)), nil
	}

	result := map[string]any{
		"success": true,
		"message": fmt.Sprintf("Cleared chunk %s", name),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

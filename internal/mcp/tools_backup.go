package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleBackupCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	note := req.GetString("note", "")

	snap, err := s.backups.Create(name, note)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create backup: %v", err)), nil
	}

	jsonResult, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleBackupList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshots, err := s.backups.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list backups: %v", err)), nil
	}

	result := map[string]any{
		"backups": snapshots,
		"count":   len(snapshots),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleBackupRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	snap, err := s.backups.Restore(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to restore backup: %v", err)), nil
	}

	result := map[string]any{
		"success":  true,
		"message":  fmt.Sprintf("Successfully restored backup %s", name),
		"snapshot": snap,
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

func (s *Server) handleBackupDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	if err := s.backups.Delete(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete backup: %v", err)), nil
	}

	result := map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted backup %s", name),
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

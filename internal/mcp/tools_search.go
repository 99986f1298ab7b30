package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvanek/mcp-codebase-browser/internal/search"
)

func (s *Server) handleSearchCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := req.GetString("search_term", "")
	if term == "" {
		return mcp.NewToolResultError("search_term is required"), nil
	}

	opts := search.Options{
		Pattern:    req.GetString("file_pattern", ""),
		MaxResults: req.GetInt("max_results", 0),
	}
	if req.GetArguments()["case_sensitive"] != nil {
		cs := req.GetBool("case_sensitive", s.config.Search.CaseSensitive)
		opts.CaseSensitive = &cs
	}

	result, err := s.searcher.Search(ctx, term, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	jsonResult, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonResult)), nil
}

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

const (
	serverName    = "Mock Draft Assistant"
	serverVersion = "1.0.0"
)

// NewServer creates an MCP server serving the draft tools.
func NewServer(drafts *draft.App, players *player.App) *server.DefaultServer {
	handler := NewDraftHandler(drafts, players)

	s := server.NewDefaultServer(serverName, serverVersion)

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		tools := handler.Tools()
		log.Info().Int("tools_count", len(tools)).Msg("listing available tools")
		return &mcp.ListToolsResult{Tools: tools}, nil
	})

	s.HandleCallTool(handler.Call)

	return s
}

package server

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/hublink/hublink/internal/tools"
)

const serverName = "hublink"

// NewMCP builds the stdio MCP server from the catalog. Every tool handler
// answers with a serialized envelope; protocol-level errors are reserved for
// failures of the transport itself.
func NewMCP(registry *tools.Registry, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		serverName,
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	for _, t := range registry.List() {
		schema, err := json.Marshal(t.InputSchema())
		if err != nil {
			// Schemas are static maps of strings; this cannot fail at runtime.
			log.Error().Err(err).Str("tool", t.Name).Msg("schema marshal failed")
			continue
		}

		name := t.Name
		s.AddTool(
			mcp.NewToolWithRawSchema(t.Name, t.Description, json.RawMessage(schema)),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				env := registry.Dispatch(ctx, name, req.GetArguments())
				out, err := json.MarshalIndent(env, "", "  ")
				if err != nil {
					return nil, err
				}
				return mcp.NewToolResultText(string(out)), nil
			},
		)
	}

	log.Info().Int("tools", len(registry.List())).Msg("stdio transport ready")
	return s
}

// ServeStdio blocks serving the MCP protocol over stdin/stdout until the
// stream closes.
func ServeStdio(s *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(s)
}

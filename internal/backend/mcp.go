package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/ctxmux/internal/orchestrator"
)

// Default tool names the MCP adapter looks for on the server.
const (
	DefaultFetchTool  = "fetch_context"
	DefaultUpdateTool = "apply_update"
)

// MCP adapts a connected MCP client session to the orchestrator's backend
// contract. FetchContext calls the server's fetch tool with the query as
// the "query" argument. The adapter does not own the session or its
// transport; callers connect and close it.
type MCP struct {
	session   *mcp.ClientSession
	fetchTool string
}

// UpdatableMCP is an MCP adapter whose server also exposes the update
// tool. It additionally implements the update capability.
type UpdatableMCP struct {
	MCP
	updateTool string
}

// NewMCP inspects the session's tool list and builds an adapter for it.
// The server must expose fetchTool; the returned value implements the
// update capability only when updateTool is also present, so the
// orchestrator's type assertion reflects the server's actual surface.
// Empty tool names select DefaultFetchTool and DefaultUpdateTool.
func NewMCP(ctx context.Context, session *mcp.ClientSession, fetchTool, updateTool string) (orchestrator.ContextFetcher, error) {
	if fetchTool == "" {
		fetchTool = DefaultFetchTool
	}
	if updateTool == "" {
		updateTool = DefaultUpdateTool
	}

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp backend: listing tools: %w", err)
	}

	available := make(map[string]bool, len(tools.Tools))
	for _, t := range tools.Tools {
		available[t.Name] = true
	}

	if !available[fetchTool] {
		return nil, fmt.Errorf("mcp backend: server does not expose tool %q", fetchTool)
	}

	base := MCP{session: session, fetchTool: fetchTool}
	if available[updateTool] {
		return &UpdatableMCP{MCP: base, updateTool: updateTool}, nil
	}
	return &base, nil
}

// FetchContext calls the fetch tool and returns the structured content
// when the server provides it, falling back to the concatenated text
// parts.
func (b *MCP) FetchContext(ctx context.Context, query any) (any, error) {
	result, err := b.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      b.fetchTool,
		Arguments: map[string]any{"query": query},
	})
	if err != nil {
		return nil, fmt.Errorf("calling tool %q: %w", b.fetchTool, err)
	}
	if result.IsError {
		return nil, fmt.Errorf("tool %q failed: %s", b.fetchTool, textContent(result))
	}
	if result.StructuredContent != nil {
		return result.StructuredContent, nil
	}
	return textContent(result), nil
}

// ApplyUpdate calls the update tool with the payload as the "payload"
// argument.
func (b *UpdatableMCP) ApplyUpdate(ctx context.Context, payload any) error {
	result, err := b.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      b.updateTool,
		Arguments: map[string]any{"payload": payload},
	})
	if err != nil {
		return fmt.Errorf("calling tool %q: %w", b.updateTool, err)
	}
	if result.IsError {
		return fmt.Errorf("tool %q failed: %s", b.updateTool, textContent(result))
	}
	return nil
}

// textContent concatenates the text parts of a tool result.
func textContent(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

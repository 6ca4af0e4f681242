package vidserver

import (
	"context"

	"github.com/anatolykoptev/go_invidious/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers the video_search tool on the given MCP server.
func RegisterTools(server *mcp.Server, s VideoSearcher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_search",
		Description: "Search videos through an Invidious instance. Returns JSON {\"videos\": [...]} with thumbnail, title, url, channel_name, views and upload_date for each result, in page order.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.VideoSearchInput) (*mcp.CallToolResult, engine.SearchResult, error) {
		out, err := s.Search(ctx, input.Query)
		if err != nil {
			return nil, engine.SearchResult{}, err
		}
		return nil, out, nil
	})
}

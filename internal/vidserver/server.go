// Package vidserver exposes the video search engine over HTTP: a small JSON API
// next to the MCP endpoint served by go-mcpserver.
package vidserver

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer creates the MCP server with the video_search tool registered.
func NewMCPServer(name, version string, s VideoSearcher) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, nil)
	RegisterTools(server, s)
	return server
}

// Routes returns the JSON API routes, mounted beside /mcp, /health and /metrics.
func Routes(s VideoSearcher) func(*http.ServeMux) {
	return func(mux *http.ServeMux) {
		mux.HandleFunc("GET /{$}", handleHome)
		mux.HandleFunc("GET /search", searchHandler(s))
	}
}

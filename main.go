// go_invidious serves video search over an Invidious front end.
//
// Scrapes the instance's HTML search page and returns structured JSON.
// Serves GET /search?q=... plus the video_search MCP tool at /mcp.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go_invidious/internal/engine"
	"github.com/anatolykoptev/go_invidious/internal/vidserver"
)

var (
	version = "dev"
	port    = env.Str("PORT", "5000")
)

func main() {
	cfg := engine.Config{
		BaseURL:      env.Str("INVIDIOUS_URL", engine.DefaultBaseURL),
		FetchTimeout: env.Duration("FETCH_TIMEOUT", 15*time.Second),
		MaxBodyBytes: int64(env.Int("MAX_BODY_BYTES", engine.DefaultMaxBodyBytes)),
		UpstreamRPS:  env.Float("UPSTREAM_RPS", 0),
	}

	// Browser TLS fingerprint is opt-in; the default path is plain net/http.
	if env.Str("STEALTH_TLS", "") != "" {
		bc, err := stealth.NewClient(stealth.WithTimeout(15))
		if err != nil {
			slog.Warn("stealth client init failed, using net/http", slog.Any("error", err))
		} else {
			cfg.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	searcher := engine.NewSearcher(cfg)

	slog.Info("starting go_invidious",
		slog.String("port", port),
		slog.String("upstream", searcher.BaseURL()),
	)

	server := vidserver.NewMCPServer("go_invidious", version, searcher)

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_invidious",
		Version:      version,
		Port:         port,
		WriteTimeout: 60 * time.Second,
		Metrics:      engine.FormatMetrics,
		Routes:       vidserver.Routes(searcher),
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

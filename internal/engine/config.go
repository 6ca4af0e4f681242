package engine

import (
	"net/http"
	"strings"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// DefaultBaseURL is the Invidious instance queried when none is configured.
const DefaultBaseURL = "https://invidious.nerdvpn.de"

// DefaultMaxBodyBytes caps how much of an upstream response is read.
const DefaultMaxBodyBytes = 10 << 20

// Config holds all engine configuration, injected from main.
type Config struct {
	BaseURL      string        // upstream Invidious origin, no trailing slash
	FetchTimeout time.Duration // 0 = no client timeout
	MaxBodyBytes int64         // 0 = DefaultMaxBodyBytes
	UpstreamRPS  float64       // 0 = outbound rate limit disabled
	HTTPClient   *http.Client  // nil = built from FetchTimeout

	// BrowserClient sends upstream requests with a browser TLS fingerprint.
	// nil = plain net/http through HTTPClient.
	BrowserClient *stealth.BrowserClient
}

// withDefaults fills zero values and normalises the base URL.
func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.HTTPClient == nil {
		c.HTTPClient = newFetchClient(c.FetchTimeout)
	}
	return c
}

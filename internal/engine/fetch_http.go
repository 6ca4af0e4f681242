package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// newFetchClient creates an HTTP client with proper settings for web scraping.
func newFetchClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// Fetcher issues the upstream search request. It never retries.
type Fetcher struct {
	baseURL string
	client  *http.Client
	browser *stealth.BrowserClient // nil = net/http
	maxBody int64
	limiter *rate.Limiter // nil = unlimited
}

// NewFetcher builds a Fetcher from c. Zero fields take their defaults.
func NewFetcher(c Config) *Fetcher {
	c = c.withDefaults()
	f := &Fetcher{
		baseURL: c.BaseURL,
		client:  c.HTTPClient,
		browser: c.BrowserClient,
		maxBody: c.MaxBodyBytes,
	}
	if c.UpstreamRPS > 0 {
		burst := int(c.UpstreamRPS)
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(c.UpstreamRPS), burst)
	}
	return f
}

// BaseURL returns the upstream origin used for requests and URL resolution.
func (f *Fetcher) BaseURL() string { return f.baseURL }

// SearchURL builds the upstream search URL for query.
func (f *Fetcher) SearchURL(query string) string {
	return f.baseURL + "/search?" + url.Values{"q": {query}}.Encode()
}

// Fetch GETs the search page for query and returns its HTML as UTF-8 text.
// Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, query string) (string, error) {
	searchURL := f.SearchURL(query)
	metrics.FetchRequests.Add(1)

	body, status, err := f.get(ctx, searchURL)
	if err != nil {
		metrics.FetchErrors.Add(1)
		return "", &FetchError{URL: searchURL, Status: status, Err: err}
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, searchURL string) (string, int, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", 0, fmt.Errorf("rate limit: %w", err)
		}
	}

	if f.browser != nil {
		return f.getBrowser(ctx, searchURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	for k, v := range BrowserHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", resp.StatusCode, fmt.Errorf("%d %s for url: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), searchURL)
	}

	data, err := readResponseBody(resp, f.maxBody)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return data, resp.StatusCode, nil
}

// getBrowser sends the request through the stealth client, which decodes
// Content-Encoding itself.
func (f *Fetcher) getBrowser(ctx context.Context, searchURL string) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	data, _, status, err := f.browser.Do(http.MethodGet, searchURL, BrowserHeaders(), nil)
	if err != nil {
		return "", status, err
	}
	if status < 200 || status > 299 {
		return "", status, fmt.Errorf("%d %s for url: %s", status, http.StatusText(status), searchURL)
	}
	if int64(len(data)) > f.maxBody {
		return "", status, fmt.Errorf("read body: %w", errBodyTooLarge(f.maxBody))
	}
	return string(data), status, nil
}

// readResponseBody decodes Content-Encoding and transcodes to UTF-8 when the
// Content-Type declares another charset. A decoded body over limit bytes is an
// error rather than a silently truncated page.
func readResponseBody(resp *http.Response, limit int64) (string, error) {
	raw, err := decodeContent(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return "", err
	}
	defer raw.Close()

	data, err := io.ReadAll(io.LimitReader(raw, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", errBodyTooLarge(limit)
	}

	if ct := resp.Header.Get("Content-Type"); declaresCharset(ct) {
		r, err := charset.NewReader(bytes.NewReader(data), ct)
		if err != nil {
			return "", fmt.Errorf("charset: %w", err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return "", err
		}
	}
	return string(data), nil
}

func errBodyTooLarge(limit int64) error {
	return fmt.Errorf("response exceeds %d bytes", limit)
}

// decodeContent wraps body with the decompressor named by encoding.
func decodeContent(body io.Reader, encoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(body), nil
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, nil
	case "deflate":
		return newDeflateReader(body)
	case "br":
		return io.NopCloser(brotli.NewReader(body)), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// newDeflateReader handles both zlib-wrapped and raw deflate streams;
// servers disagree on what "deflate" means.
func newDeflateReader(body io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(body)
	hdr, err := br.Peek(2)
	if err == nil && isZlibHeader(hdr[0], hdr[1]) {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		return zr, nil
	}
	return flate.NewReader(br), nil
}

// isZlibHeader reports whether cmf, flg form a valid RFC 1950 header.
func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

func declaresCharset(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "charset=") && !strings.Contains(ct, "charset=utf-8")
}

package engine

import (
	"context"
	"log/slog"
	"strings"
)

// Searcher runs a video search against one Invidious instance.
// It holds no per-request state and is safe for concurrent use.
type Searcher struct {
	fetcher *Fetcher
}

// NewSearcher builds a Searcher from c.
func NewSearcher(c Config) *Searcher {
	return &Searcher{fetcher: NewFetcher(c)}
}

// BaseURL returns the configured upstream origin.
func (s *Searcher) BaseURL() string { return s.fetcher.BaseURL() }

// Search validates query, fetches the upstream results page and extracts its videos.
// Errors are *ValidationError, *FetchError or *ExtractionError.
func (s *Searcher) Search(ctx context.Context, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		metrics.ValidationErrors.Add(1)
		return SearchResult{}, &ValidationError{Msg: MsgQueryRequired}
	}
	metrics.SearchRequests.Add(1)

	var videos []ResultRecord
	err := TrackOperation(ctx, "video_search", func(ctx context.Context) error {
		html, err := s.fetcher.Fetch(ctx, query)
		if err != nil {
			return err
		}
		videos, err = ExtractVideos(html, s.fetcher.BaseURL())
		if err != nil {
			metrics.ExtractErrors.Add(1)
		}
		return err
	})
	if err != nil {
		slog.Warn("video search failed",
			slog.String("query", Truncate(query, 100)),
			slog.Any("error", err))
		return SearchResult{}, err
	}

	metrics.VideosReturned.Add(int64(len(videos)))
	slog.Debug("video search results",
		slog.String("query", Truncate(query, 100)),
		slog.Int("count", len(videos)))
	return SearchResult{Videos: videos}, nil
}

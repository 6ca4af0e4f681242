package vidserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_invidious/internal/engine"
)

// VideoSearcher is the search capability the HTTP and MCP layers depend on.
type VideoSearcher interface {
	Search(ctx context.Context, query string) (engine.SearchResult, error)
}

type errorBody struct {
	Error string `json:"error"`
}

type usageBody struct {
	Message string `json:"message"`
	Usage   string `json:"usage"`
}

func handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, usageBody{
		Message: "Invidious Search API",
		Usage:   "/search?q=<your_query>",
	})
}

// searchHandler serves GET /search?q=<text>.
func searchHandler(s VideoSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := s.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", slog.Any("error", err))
	}
}

package engine

// --- Video search types ---

// VideoSearchInput is the MCP tool input.
type VideoSearchInput struct {
	Query string `json:"query" jsonschema:"Video search query"`
}

// ResultRecord is one scraped video card. Nil fields were absent in the source HTML.
type ResultRecord struct {
	Thumbnail   *string `json:"thumbnail"`
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	ChannelName *string `json:"channel_name"`
	Views       int64   `json:"views"`
	UploadDate  *string `json:"upload_date"`
}

// SearchResult is the response body of a successful search.
type SearchResult struct {
	Videos []ResultRecord `json:"videos"`
}

// strPtr returns nil for the empty string so JSON renders null.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package engine

import "fmt"

// MsgQueryRequired is returned to callers that omit the search query.
const MsgQueryRequired = "Query parameter 'q' is required."

// ValidationError reports a rejected search query. Nothing was sent upstream.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// FetchError reports a transport failure or a non-2xx upstream status.
type FetchError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Error fetching data: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a document that could not be parsed at all.
// Missing fields inside a card never produce one.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract videos: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

package spotify

import "fmt"

// URLError reports an input that does not parse to a recognized
// (entity type, entity ID) pair, or parses to the wrong type for the
// method called. Never worth retrying.
type URLError struct {
	Input  string
	Reason string
}

func (e *URLError) Error() string {
	return fmt.Sprintf("invalid spotify URL %q: %s", e.Input, e.Reason)
}

// NetworkError wraps a transport-layer failure from the page fetcher.
// Retry policy belongs to the caller.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError reports that the page was fetched successfully but
// matched the site's own "entity does not exist" state. Authoritative,
// never worth retrying.
type NotFoundError struct {
	Type EntityType
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Type, e.ID)
}

// ParsingError reports that one extraction strategy could not locate or
// decode its JSON payload. The extraction chain swallows these while
// fallback strategies remain.
type ParsingError struct {
	Strategy string
	Reason   string
	Err      error
}

func (e *ParsingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Strategy, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Strategy, e.Reason)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// ExtractionError reports that every strategy failed, or that
// normalization of the extracted document failed. This is the "page
// format changed" signal and usually calls for a code update rather
// than a retry. Diagnostic carries the last strategy's failure text.
type ExtractionError struct {
	Type       EntityType
	Diagnostic string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %s", e.Type, e.Diagnostic)
}

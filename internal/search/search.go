// Package search provides the web-search capability used by the profile
// resolver. A Tavily API client is used when a key is configured; the
// keyless fallback scrapes DuckDuckGo's HTML results page.
package search

import "context"

// Client searches the web and returns a plain-text digest of results
// suitable for feeding back into a reasoning loop as an observation.
type Client interface {
	Search(ctx context.Context, query string) (string, error)
}

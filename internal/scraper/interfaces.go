package scraper

import "context"

// Fetcher executes a single HTTP GET with the requested identity profile.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (FetchResponse, error)
}

// RobotsPolicy decides whether a URL may be fetched politely.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

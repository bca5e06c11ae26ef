// Package scraper implements the polite fetch pipeline: robots.txt policy
// caching, identity-tier escalation, content extraction and result caching.
package scraper

import (
	"net/http"
	"time"
)

// Identity is the declared user agent and header set used for a fetch attempt.
type Identity int

// Identity profiles, from most to least polite.
const (
	IdentityPolite Identity = iota
	IdentityStealth
)

func (i Identity) String() string {
	if i == IdentityStealth {
		return "stealth"
	}
	return "polite"
}

// Fetch modes reported to callers and used in cache keys.
const (
	ModeStandard = "Standard"
	ModeStealth  = "Stealth"
)

// Mode returns the caller-facing fetch mode for the identity.
func (i Identity) Mode() string {
	if i == IdentityStealth {
		return ModeStealth
	}
	return ModeStandard
}

// maxSnippetLen bounds how much of a fetched document is stored. A tighter
// analysis bound is applied separately where text is handed to verification.
const maxSnippetLen = 50000

// Request is a caller's fetch request, before tier resolution.
type Request struct {
	URL          string
	IgnoreRobots bool
	// NoEscalate disables the automatic robots-disallow retry; the denial
	// is then surfaced to the caller instead.
	NoEscalate bool
}

// FetchRequest captures everything a Fetcher needs for one attempt.
type FetchRequest struct {
	URL      string
	Identity Identity
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// PageResult is the extracted, cacheable outcome of a successful fetch.
type PageResult struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	MetaDescription string `json:"metaDescription"`
	Content         string `json:"content"`
	Mode            string `json:"mode"`
}

package scraper

import (
	"fmt"
	"net/http"
)

// RobotsDisallowedError reports that robots.txt denied a standard-mode fetch.
// It is terminal only when the caller disabled escalation; otherwise the
// pipeline retries with robots ignored.
type RobotsDisallowedError struct {
	URL string
}

func (e *RobotsDisallowedError) Error() string {
	return fmt.Sprintf("scraping denied by robots.txt (standard mode): %s", e.URL)
}

// HTTPStatus maps the denial to its caller-facing status code.
func (e *RobotsDisallowedError) HTTPStatus() int {
	return http.StatusForbidden
}

// UpstreamError reports a failed fetch from the target host. Status is the
// upstream HTTP status, or 500 for network and timeout failures. Persistent
// is set once the stealth tier has also failed. Cause carries the underlying
// transport or client error, when one exists.
type UpstreamError struct {
	Status     int
	Persistent bool
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.Persistent {
		return fmt.Sprintf("target host responded with status %d; host block persistent", e.Status)
	}
	return fmt.Sprintf("target host responded with status %d", e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

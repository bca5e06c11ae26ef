package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObserveBeforeInitIsSafe(t *testing.T) {
	// Must not panic when collectors are not yet registered.
	ObserveFetchAttempt("https://example.org", "polite", "success", time.Second)
	ObserveCacheRequest("page", true)
	ObserveRobotsFetchFailure()
	ObserveVerification("Verified", "heuristic")
	ObserveModelFallback("call_failed")
}

func TestInitIdempotent(t *testing.T) {
	Init()
	Init()

	ObserveFetchAttempt("https://example.org/path", "stealth", "error", 250*time.Millisecond)
	ObserveCacheRequest("robots", false)
	ObserveVerification("Suspicious", "model")

	require.NotNil(t, Handler())
}

func TestSanitizeSite(t *testing.T) {
	cases := map[string]string{
		"https://Example.ORG/path?q=1": "example.org",
		"http://sub.example.org":       "sub.example.org",
		"example.org/page":             "example.org",
		"":                             "unknown",
		"http://":                      "unknown",
	}
	for input, want := range cases {
		require.Equal(t, want, SanitizeSite(input), "input %q", input)
	}
}

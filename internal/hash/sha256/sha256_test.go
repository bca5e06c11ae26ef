package sha256

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	t.Parallel()

	// Known vector for the empty string.
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hex(""))

	require.Equal(t, Hex("scrape:https://example.org:polite"), Hex("scrape:https://example.org:polite"))
	require.NotEqual(t, Hex("scrape:https://example.org:polite"), Hex("scrape:https://example.org:stealth"))
}

func TestHexBoundsLongKeys(t *testing.T) {
	t.Parallel()

	// Memcached rejects keys over 250 bytes; hashed keys always fit.
	long := "scrape:https://example.org/" + strings.Repeat("a", 4096) + ":polite"
	got := Hex(long)
	require.Len(t, got, 64)
	require.NotContains(t, got, " ")
}

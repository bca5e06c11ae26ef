package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// placeholderTitle is used when a document carries neither a <title> nor an <h1>.
const placeholderTitle = "Untitled Analysis"

// extractContent parses a fetched document into its title, meta description
// and a bounded snippet of the raw body. Title resolution order is
// <title>, first <h1>, then a fixed placeholder.
func extractContent(body string) (title, metaDescription, snippet string) {
	snippet = truncateRunes(body, maxSnippetLen)
	title = placeholderTitle

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return title, "", snippet
	}

	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		title = t
	} else if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		title = h1
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		metaDescription = strings.TrimSpace(desc)
	}
	return title, metaDescription, snippet
}

// truncateRunes bounds s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

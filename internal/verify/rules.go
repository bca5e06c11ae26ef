// Package verify implements the deterministic heuristic credibility scorer.
package verify

import "regexp"

// InstitutionRule pairs a fabricated-institution pattern with its canonical
// correction. An empty replacement deletes the phrase during cleanup.
type InstitutionRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Rules is the immutable pattern table driving the engine. Tables are
// injected at construction so tests can score against custom rule sets.
type Rules struct {
	// ExtremeClaims match absolutist language; each matching family deducts
	// score and contributes one example issue.
	ExtremeClaims []*regexp.Regexp
	// FakeCitations match parenthetical and narrative citation shapes that
	// cannot be verified.
	FakeCitations []*regexp.Regexp
	// FakeInstitutions match known fabricated institution names.
	FakeInstitutions []InstitutionRule
	// SensationalTerms are matched as case-insensitive substrings.
	SensationalTerms []string
	// Hedging match cautious, evidence-aligned phrasing that raises the score.
	Hedging []*regexp.Regexp
	// RemoveSentences match whole sentences too problematic to fix; the
	// cleanup pass deletes them outright.
	RemoveSentences []*regexp.Regexp
}

// DefaultRules returns the production pattern table.
func DefaultRules() Rules {
	return Rules{
		ExtremeClaims: []*regexp.Regexp{
			regexp.MustCompile(`(?i)100\s*%`),
			regexp.MustCompile(`(?i)completely\s+(eliminated|solved|cured)`),
			regexp.MustCompile(`(?i)all\s+(?:cases|patients|doctors|hospitals)`),
			regexp.MustCompile(`(?i)every\s+(?:single|one|doctor|hospital)`),
			regexp.MustCompile(`(?i)has\s+replaced\s+(?:all|every|human)`),
			regexp.MustCompile(`(?i)made\s+.*\s+obsolete`),
			regexp.MustCompile(`(?i)proven\s+(?:beyond|conclusively|definitively)`),
			regexp.MustCompile(`(?i)guaranteed\s+(?:cure|success|results)`),
			regexp.MustCompile(`(?i)outperform.*\s+in\s+100%`),
		},
		FakeCitations: []*regexp.Regexp{
			regexp.MustCompile(`\([A-Z][a-z]+\s+et\s+al\.,?\s*\d{4}\)`),
			regexp.MustCompile(`\([A-Z]{2,}\s+Report,?\s*\d{4}\)`),
			regexp.MustCompile(`(?i)according\s+to\s+a\s+\d{4}\s+report\s+by\s+[^,.]+[,.]`),
			regexp.MustCompile(`(?i)\.\s*A\s+study\s+(?:conducted|published)\s+by[^.]+\.`),
		},
		FakeInstitutions: []InstitutionRule{
			{
				Pattern:     regexp.MustCompile(`(?i)harvard\s+medical\s+university`),
				Replacement: "Harvard Medical School",
			},
			{
				Pattern: regexp.MustCompile(`(?i)international\s+institute\s+of\s+[a-z\s]+`),
			},
			{
				Pattern: regexp.MustCompile(`(?i)global\s+(?:center|institute|foundation)\s+(?:for|of)\s+[a-z\s]+`),
			},
		},
		SensationalTerms: []string{
			"miracle cure", "secret", "they don't want you to know",
			"proven fact", "undeniable", "scientists confirm",
			"breaking:", "exposed", "cover-up", "conspiracy",
			"guaranteed", "revolutionary breakthrough",
		},
		Hedging: []*regexp.Regexp{
			regexp.MustCompile(`(?i)may\s+help`),
			regexp.MustCompile(`(?i)can\s+assist`),
			regexp.MustCompile(`(?i)suggests?\s+that`),
			regexp.MustCompile(`(?i)studies\s+(?:indicate|show|suggest)`),
			regexp.MustCompile(`(?i)further\s+research\s+(?:is\s+)?needed`),
			regexp.MustCompile(`(?i)in\s+controlled\s+(?:studies|trials)`),
			regexp.MustCompile(`(?i)depends\s+on`),
			regexp.MustCompile(`(?i)when\s+used\s+alongside`),
			regexp.MustCompile(`(?i)complementary`),
			regexp.MustCompile(`(?i)augment.*not\s+replace`),
			regexp.MustCompile(`(?i)human\s+oversight`),
			regexp.MustCompile(`(?i)ethical\s+deployment`),
		},
		RemoveSentences: []*regexp.Regexp{
			regexp.MustCompile(`(?i)[^.]*has\s+completely\s+eliminated[^.]*\.`),
			regexp.MustCompile(`(?i)[^.]*outperform\s+doctors\s+in\s+100%[^.]*\.`),
			regexp.MustCompile(`(?i)[^.]*has\s+replaced\s+human\s+doctors[^.]*\.`),
			regexp.MustCompile(`(?i)[^.]*made\s+.*\s+obsolete[^.]*\.`),
			regexp.MustCompile(`(?i)[^.]*legally\s+approved\s+as\s+independent[^.]*\.`),
		},
	}
}

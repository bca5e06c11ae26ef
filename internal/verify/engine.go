package verify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Verdict is the qualitative credibility verdict.
type Verdict string

// Verdict values, most to least credible.
const (
	VerdictVerified         Verdict = "Verified"
	VerdictSuspicious       Verdict = "Suspicious"
	VerdictHighlyUnreliable Verdict = "Highly Unreliable"
)

// Risk is the qualitative hallucination-risk estimate.
type Risk string

// Risk levels paired one-to-one with verdicts.
const (
	RiskLow    Risk = "Low"
	RiskMedium Risk = "Medium"
	RiskHigh   Risk = "High"
)

// Result is a completed credibility verdict. It is never mutated after
// construction.
type Result struct {
	CredibilityScore    int      `json:"credibilityScore"`
	Verdict             Verdict  `json:"verdict"`
	Reasoning           string   `json:"reasoning"`
	HallucinationRisk   Risk     `json:"hallucinationRisk"`
	DetectedIssues      []string `json:"detectedIssues,omitempty"`
	SuggestedCorrection string   `json:"suggestedCorrection,omitempty"`
}

// Score boundaries for the verdict mapping.
const (
	baseScore           = 70
	verifiedThreshold   = 75
	suspiciousThreshold = 45
	maxIssues           = 5
	shortContentLen     = 200
)

const rewriteFromScratch = "Text contains too many hallucinations. Consider rewriting from scratch using verified sources."

// Engine scores text against an immutable rule table. Analyze is pure and
// deterministic: the same input always yields the same Result.
type Engine struct {
	rules  Rules
	logger *zap.Logger
}

// NewEngine builds an Engine over the given rules. logger may be nil.
func NewEngine(rules Rules, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{rules: rules, logger: logger}
}

// Analyze scores content and returns a complete verdict.
//
// Starting from a neutral score, deductions accumulate for extreme claims,
// unverifiable citations, fabricated institution names and sensational
// terms; cautious hedging language adds score back. The final score is
// clamped to [0,100] and mapped to a verdict and risk level.
func (e *Engine) Analyze(url, title, content string) Result {
	e.logger.Debug("heuristic engine: deep analysis",
		zap.String("url", url),
		zap.String("title", title),
		zap.Int("content_len", utf8.RuneCountInString(content)))

	score := baseScore
	var reasoning strings.Builder
	var issues []string
	lowerContent := strings.ToLower(content)

	// 1. Extreme/absolutist claims.
	extremeClaims := 0
	for _, pattern := range e.rules.ExtremeClaims {
		matches := pattern.FindAllString(content, -1)
		if len(matches) > 0 {
			extremeClaims += len(matches)
			issues = append(issues, fmt.Sprintf("Extreme claim: %q", matches[0]))
		}
	}
	if extremeClaims > 0 {
		score -= 15 * min(extremeClaims, 3)
		fmt.Fprintf(&reasoning, "Found %d extreme/absolute claims. ", extremeClaims)
	}

	// 2. Unverifiable citations.
	fakeCitations := 0
	for _, pattern := range e.rules.FakeCitations {
		matches := pattern.FindAllString(content, -1)
		fakeCitations += len(matches)
		for _, m := range matches {
			issues = append(issues, "Unverified citation: "+truncateRunes(m, 50)+"...")
		}
	}
	if fakeCitations > 0 {
		score -= 10 * min(fakeCitations, 4)
		fmt.Fprintf(&reasoning, "Contains %d unverifiable citations. ", fakeCitations)
	}

	// 3. Fabricated institution names. Flat deduction, at most once.
	for _, rule := range e.rules.FakeInstitutions {
		if rule.Pattern.MatchString(content) {
			score -= 20
			issues = append(issues, "Suspicious institution name detected")
			reasoning.WriteString("Contains potentially fabricated institution names. ")
			break
		}
	}

	// 4. Sensational indicator terms, one deduction per distinct term.
	sensational := 0
	for _, term := range e.rules.SensationalTerms {
		if strings.Contains(lowerContent, term) {
			sensational++
			issues = append(issues, fmt.Sprintf("Sensationalist term: %q", term))
		}
	}
	if sensational > 0 {
		score -= 10 * sensational
		reasoning.WriteString("Sensationalist language detected. ")
	}

	// 5. Trustworthy hedging language.
	hedging := 0
	for _, pattern := range e.rules.Hedging {
		if pattern.MatchString(content) {
			hedging++
		}
	}
	switch {
	case hedging >= 3:
		score += 15
		reasoning.WriteString("Uses cautious, evidence-aligned language. ")
	case hedging >= 1:
		score += 5
	}

	// 6. Insufficient signal.
	if utf8.RuneCountInString(content) < shortContentLen {
		score -= 10
		reasoning.WriteString("Insufficient content for thorough analysis. ")
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	verdict, risk := verdictForScore(score)
	reasonText := strings.TrimSpace(reasoning.String())
	if reasonText == "" {
		reasonText = defaultReasoning(verdict)
	}

	if len(issues) > maxIssues {
		issues = issues[:maxIssues]
	}
	if len(issues) == 0 {
		issues = nil
	}

	var correction string
	if score < verifiedThreshold && len(issues) > 0 {
		correction = e.cleanText(content)
		if utf8.RuneCountInString(correction)*10 < utf8.RuneCountInString(content)*3 {
			// Cleanup removed too much to be a useful rewrite.
			correction = rewriteFromScratch
		}
	}

	return Result{
		CredibilityScore:    score,
		Verdict:             verdict,
		Reasoning:           reasonText,
		HallucinationRisk:   risk,
		DetectedIssues:      issues,
		SuggestedCorrection: correction,
	}
}

// AnalyzeText scores free-standing text with placeholder provenance.
func (e *Engine) AnalyzeText(text string) Result {
	return e.Analyze("N/A (Direct Text)", "User Input", text)
}

// cleanText builds the suggested correction: problematic sentences removed,
// fabricated institutions replaced with their canonical names, unverifiable
// citations stripped, whitespace and duplicate punctuation collapsed.
func (e *Engine) cleanText(content string) string {
	cleaned := content

	for _, pattern := range e.rules.RemoveSentences {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	for _, rule := range e.rules.FakeInstitutions {
		cleaned = rule.Pattern.ReplaceAllString(cleaned, rule.Replacement)
	}
	for _, pattern := range e.rules.FakeCitations {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	cleaned = doubledPeriod.ReplaceAllString(cleaned, ".")
	return strings.TrimSpace(cleaned)
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	doubledPeriod = regexp.MustCompile(`\.\s*\.`)
)

func verdictForScore(score int) (Verdict, Risk) {
	switch {
	case score >= verifiedThreshold:
		return VerdictVerified, RiskLow
	case score >= suspiciousThreshold:
		return VerdictSuspicious, RiskMedium
	default:
		return VerdictHighlyUnreliable, RiskHigh
	}
}

func defaultReasoning(verdict Verdict) string {
	switch verdict {
	case VerdictVerified:
		return "Content appears factual and uses responsible language."
	case VerdictSuspicious:
		return "Some concerning patterns detected. Manual verification recommended."
	default:
		return "Multiple hallucination indicators detected."
	}
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

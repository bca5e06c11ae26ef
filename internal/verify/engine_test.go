package verify

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const hedgedText = "Studies suggest that moderate exercise may help improve cardiovascular " +
	"outcomes. Further research is needed to confirm the effect size. Success depends on " +
	"adherence, and such programs work best when used alongside professional medical " +
	"guidance with human oversight."

const singleHedgeText = "This medication may help certain patients when taken as prescribed " +
	"by a physician. The treatment plan was reviewed in the clinic over several months, and " +
	"the care team documented each visit in detail for later audit."

const mixedSignalText = "The committee stated the approach was proven beyond expectations in " +
	"internal reviews, though critics called the report a cover-up of earlier missteps. " +
	"Officials promised additional documentation would follow in the coming weeks after the " +
	"archive review concludes."

const extremeClaimText = "AI has completely eliminated the need for doctors. This treatment " +
	"is proven beyond doubt and is a guaranteed cure for all patients."

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(DefaultRules(), zap.NewNop())
}

func TestAnalyzeTrustworthyContent(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	result := engine.Analyze("https://example.org/health", "Exercise study", hedgedText)

	require.Equal(t, 85, result.CredibilityScore)
	require.Equal(t, VerdictVerified, result.Verdict)
	require.Equal(t, RiskLow, result.HallucinationRisk)
	require.Empty(t, result.DetectedIssues)
	require.Empty(t, result.SuggestedCorrection)
	require.Contains(t, result.Reasoning, "cautious, evidence-aligned language")
}

func TestAnalyzeVerifiedBoundary(t *testing.T) {
	t.Parallel()

	// A single hedging phrase adds exactly 5, landing on the 75 boundary.
	engine := newTestEngine(t)
	result := engine.Analyze("https://example.org", "Medication", singleHedgeText)

	require.Equal(t, 75, result.CredibilityScore)
	require.Equal(t, VerdictVerified, result.Verdict)
	require.Equal(t, RiskLow, result.HallucinationRisk)
	require.Empty(t, result.SuggestedCorrection, "no correction at or above the verified threshold")
}

func TestAnalyzeSuspiciousBoundary(t *testing.T) {
	t.Parallel()

	// One extreme claim and one sensational term deduct exactly 25,
	// landing on the 45 boundary.
	engine := newTestEngine(t)
	result := engine.Analyze("https://example.org", "Committee report", mixedSignalText)

	require.Equal(t, 45, result.CredibilityScore)
	require.Equal(t, VerdictSuspicious, result.Verdict)
	require.Equal(t, RiskMedium, result.HallucinationRisk)
	require.NotEmpty(t, result.DetectedIssues)
	require.NotEmpty(t, result.SuggestedCorrection)
}

func TestVerdictBoundariesExact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score   int
		verdict Verdict
		risk    Risk
	}{
		{75, VerdictVerified, RiskLow},
		{74, VerdictSuspicious, RiskMedium},
		{45, VerdictSuspicious, RiskMedium},
		{44, VerdictHighlyUnreliable, RiskHigh},
		{100, VerdictVerified, RiskLow},
		{0, VerdictHighlyUnreliable, RiskHigh},
	}
	for _, tc := range cases {
		verdict, risk := verdictForScore(tc.score)
		if verdict != tc.verdict || risk != tc.risk {
			t.Fatalf("score %d: got %s/%s, want %s/%s", tc.score, verdict, risk, tc.verdict, tc.risk)
		}
	}
}

func TestAnalyzeExtremeClaimsForceUnreliable(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	result := engine.Analyze("https://example.org", "Breakthrough", extremeClaimText)

	require.LessOrEqual(t, result.CredibilityScore, 44)
	require.Equal(t, VerdictHighlyUnreliable, result.Verdict)
	require.Equal(t, RiskHigh, result.HallucinationRisk)
	require.Contains(t, result.DetectedIssues[0], "Extreme claim:")
	require.Contains(t, result.Reasoning, "extreme/absolute claims")
}

func TestAnalyzeScoreAlwaysClamped(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	inputs := []string{
		"",
		"x",
		strings.Repeat("miracle cure secret proven fact undeniable scientists confirm "+
			"breaking: exposed cover-up conspiracy guaranteed revolutionary breakthrough ", 3),
		strings.Repeat("100% guaranteed cure for all patients, proven beyond doubt. ", 20),
		hedgedText,
	}
	for _, input := range inputs {
		result := engine.AnalyzeText(input)
		if result.CredibilityScore < 0 || result.CredibilityScore > 100 {
			t.Fatalf("score %d out of bounds for input %q", result.CredibilityScore, input)
		}
	}
}

func TestAnalyzeIssueCapAndOrder(t *testing.T) {
	t.Parallel()

	// Three citation families plus repeated parenthetical citations push
	// the raw issue count well past the cap.
	text := "The drug completely cured participants (Smith et al., 2020) (Jones et al., 2021) " +
		"(Brown et al., 2019) (WHO Report, 2020) (CDC Report, 2021) in the trial."
	engine := newTestEngine(t)
	result := engine.AnalyzeText(text)

	require.Len(t, result.DetectedIssues, 5)
	require.Contains(t, result.DetectedIssues[0], "Extreme claim:", "extreme claims are evaluated first")
	require.Contains(t, result.DetectedIssues[1], "Unverified citation:")
}

func TestAnalyzeShortContentPenalty(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	result := engine.AnalyzeText("short but valid")

	// Only the insufficient-signal deduction applies.
	require.Equal(t, 60, result.CredibilityScore)
	require.Equal(t, VerdictSuspicious, result.Verdict)
	require.Contains(t, result.Reasoning, "Insufficient content")
}

func TestSuggestedCorrectionReplacesInstitution(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	result := engine.AnalyzeText("Researchers at Harvard Medical University published results of the trial.")

	require.Less(t, result.CredibilityScore, 75)
	require.Contains(t, result.SuggestedCorrection, "Harvard Medical School")
	require.NotContains(t, result.SuggestedCorrection, "Harvard Medical University")
}

func TestSuggestedCorrectionTooDestructive(t *testing.T) {
	t.Parallel()

	// The whole input is one removable sentence, so cleanup leaves almost
	// nothing and the generic rewrite message is substituted.
	engine := newTestEngine(t)
	result := engine.AnalyzeText("AI has completely eliminated radiologists everywhere today.")

	require.Equal(t, rewriteFromScratch, result.SuggestedCorrection)
}

func TestSuggestedCorrectionStripsProblems(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	result := engine.AnalyzeText(extremeClaimText)

	require.NotEmpty(t, result.SuggestedCorrection)
	require.NotContains(t, result.SuggestedCorrection, "completely eliminated")
}

func TestAnalyzeDeterministic(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	first := engine.Analyze("https://example.org", "Title", extremeClaimText)
	second := engine.Analyze("https://example.org", "Title", extremeClaimText)
	require.Equal(t, first, second)
}

func TestAnalyzeTextUsesPlaceholders(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	direct := engine.AnalyzeText(hedgedText)
	explicit := engine.Analyze("N/A (Direct Text)", "User Input", hedgedText)
	require.Equal(t, explicit, direct)
}

func TestEngineWithCustomRules(t *testing.T) {
	t.Parallel()

	rules := Rules{
		SensationalTerms: []string{"zorblat"},
		Hedging:          []*regexp.Regexp{regexp.MustCompile(`(?i)perhaps`)},
	}
	engine := NewEngine(rules, nil)

	flagged := engine.AnalyzeText(fmt.Sprintf("The zorblat device %s", strings.Repeat("works well. ", 20)))
	require.Equal(t, 60, flagged.CredibilityScore)
	require.Equal(t, []string{`Sensationalist term: "zorblat"`}, flagged.DetectedIssues)

	hedged := engine.AnalyzeText(fmt.Sprintf("Perhaps it helps. %s", strings.Repeat("More context here. ", 15)))
	require.Equal(t, 75, hedged.CredibilityScore)
	require.Empty(t, hedged.DetectedIssues)
}

func TestDefaultReasoningPerVerdict(t *testing.T) {
	t.Parallel()

	// Long neutral text with no pattern hits keeps the base score and gets
	// the fixed suspicious-tier sentence.
	neutral := strings.Repeat("The archive was moved to the new building last spring. ", 5)
	engine := newTestEngine(t)
	result := engine.AnalyzeText(neutral)

	require.Equal(t, 70, result.CredibilityScore)
	require.Equal(t, VerdictSuspicious, result.Verdict)
	require.Equal(t, "Some concerning patterns detected. Manual verification recommended.", result.Reasoning)
}

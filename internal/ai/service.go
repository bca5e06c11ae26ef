// Package ai wraps an external generative model behind the verification
// contract. Every failure path degrades to the heuristic engine; callers
// always receive a usable result and never an error.
package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/truthlens/truthlens/internal/config"
	"github.com/truthlens/truthlens/internal/metrics"
	"github.com/truthlens/truthlens/internal/verify"
)

// promptTextLimit bounds how much raw text is embedded in a model prompt.
const promptTextLimit = 10000

// modelOutcome tags how a model call resolved. Every outcome except
// outcomeOK reduces to a heuristic-engine call.
type modelOutcome int

const (
	outcomeOK modelOutcome = iota
	outcomeSafetyBlocked
	outcomeParseFailed
	outcomeCallFailed
)

func (o modelOutcome) String() string {
	switch o {
	case outcomeOK:
		return "ok"
	case outcomeSafetyBlocked:
		return "safety_blocked"
	case outcomeParseFailed:
		return "parse_failed"
	default:
		return "call_failed"
	}
}

// modelResponse is the tagged result of one model invocation.
type modelResponse struct {
	outcome modelOutcome
	result  verify.Result
	reason  string
}

// Service verifies content through an external model when one is
// configured, and through the heuristic engine otherwise.
type Service struct {
	client  *openai.Client // nil when no credential is configured
	model   string
	timeout time.Duration
	engine  *verify.Engine
	logger  *zap.Logger
}

// New builds a Service. With an empty API key the external model is
// disabled and every verification runs on the engine directly.
func New(cfg config.AI, engine *verify.Engine, logger *zap.Logger) *Service {
	s := &Service{
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		engine:  engine,
		logger:  logger,
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}
	return s
}

// VerifyContent produces a verdict for a fetched page snippet. It never
// returns an error.
func (s *Service) VerifyContent(ctx context.Context, url, title, snippet string) verify.Result {
	if s.client == nil {
		return s.heuristic(func() verify.Result { return s.engine.Analyze(url, title, snippet) })
	}
	prompt := contentPrompt(url, title, snippet)
	resp := s.invoke(ctx, prompt)
	if resp.outcome != outcomeOK {
		s.fallback(resp, url)
		return s.heuristic(func() verify.Result { return s.engine.Analyze(url, title, snippet) })
	}
	metrics.ObserveVerification(string(resp.result.Verdict), "model")
	return resp.result
}

// VerifyText produces a verdict for free-standing text. It never returns
// an error.
func (s *Service) VerifyText(ctx context.Context, text string) verify.Result {
	if s.client == nil {
		return s.heuristic(func() verify.Result { return s.engine.AnalyzeText(text) })
	}
	prompt := textPrompt(text)
	resp := s.invoke(ctx, prompt)
	if resp.outcome != outcomeOK {
		s.fallback(resp, "direct-text")
		return s.heuristic(func() verify.Result { return s.engine.AnalyzeText(text) })
	}
	metrics.ObserveVerification(string(resp.result.Verdict), "model")
	return resp.result
}

func (s *Service) heuristic(analyze func() verify.Result) verify.Result {
	result := analyze()
	metrics.ObserveVerification(string(result.Verdict), "heuristic")
	return result
}

func (s *Service) fallback(resp modelResponse, subject string) {
	metrics.ObserveModelFallback(resp.outcome.String())
	s.logger.Warn("external model unusable; falling back to heuristic engine",
		zap.String("subject", subject),
		zap.String("outcome", resp.outcome.String()),
		zap.String("reason", resp.reason))
}

// invoke calls the model once and reduces the raw response to a tagged
// modelResponse. It never panics or errors.
func (s *Service) invoke(ctx context.Context, prompt string) modelResponse {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return modelResponse{outcome: outcomeCallFailed, reason: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return modelResponse{outcome: outcomeCallFailed, reason: "no choices returned"}
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return modelResponse{outcome: outcomeSafetyBlocked, reason: "content filter"}
	}
	return parseModelOutput(choice.Message.Content)
}

// parseModelOutput extracts the strict JSON verdict shape, tolerating code
// fences around the payload.
func parseModelOutput(raw string) modelResponse {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var result verify.Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return modelResponse{outcome: outcomeParseFailed, reason: err.Error()}
	}
	if result.Verdict == "" || result.HallucinationRisk == "" {
		return modelResponse{outcome: outcomeParseFailed, reason: "missing verdict or risk field"}
	}
	if result.CredibilityScore < 0 {
		result.CredibilityScore = 0
	} else if result.CredibilityScore > 100 {
		result.CredibilityScore = 100
	}
	return modelResponse{outcome: outcomeOK, result: result}
}

func contentPrompt(url, title, snippet string) string {
	var b strings.Builder
	b.WriteString("You are TruthLens AI, a professional fact-checking system.\n")
	b.WriteString("Analyze the following web content snippet and provide a verification report.\n\n")
	b.WriteString("URL: " + url + "\n")
	b.WriteString("Title: " + title + "\n")
	b.WriteString("Snippet: " + snippet + "\n\n")
	b.WriteString(jsonShapeInstruction("Short explanation"))
	return b.String()
}

func textPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Analyze the following text for hallucinations, factual inaccuracies, or logical inconsistencies.\n")
	b.WriteString("Provide a credibility report.\n\n")
	b.WriteString("Text: " + truncateRunes(text, promptTextLimit) + "\n\n")
	b.WriteString(jsonShapeInstruction("Reasoning based on general knowledge"))
	return b.String()
}

func jsonShapeInstruction(reasoningHint string) string {
	return "Return response in EXACTLY this JSON format:\n" +
		"{\n" +
		"    \"credibilityScore\": number (0-100),\n" +
		"    \"verdict\": \"Verified\" | \"Suspicious\" | \"Highly Unreliable\",\n" +
		"    \"reasoning\": \"" + reasoningHint + "\",\n" +
		"    \"hallucinationRisk\": \"Low\" | \"Medium\" | \"High\"\n" +
		"}"
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

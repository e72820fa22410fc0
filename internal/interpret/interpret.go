package interpret

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// Categories assigned by keyword matching, in priority order.
const (
	CategoryPolitical    = "political content"
	CategorySpam         = "spam"
	CategoryQuality      = "quality issue"
	CategoryAuthenticity = "authenticity"
	CategoryGeneral      = "general"
)

// Severity levels. "high" is matched before "low", so text containing both wins high.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Recommended actions, in keyword priority order.
const (
	ActionFlagForReview   = "flag for review"
	ActionReject          = "reject"
	ActionApprove         = "approve"
	ActionOverrideRating  = "override rating"
	ActionProvideFeedback = "provide feedback"
	ActionReviewRequired  = "review required"
)

// FallbackReasoning is returned when no line of the completion qualifies as reasoning.
const FallbackReasoning = "Analysis completed based on available guidelines and content evaluation."

// SentinelSource is the single attributed source when no heuristic matches.
const SentinelSource = "AI Analysis"

// Result is the structured interpretation derived from a raw model completion.
type Result struct {
	Suggestion string   `json:"suggestion"`
	Confidence int      `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Sources    []string `json:"sources"`
	Category   string   `json:"category"`
	Severity   string   `json:"severity"`
	Action     string   `json:"action"`
}

// A number immediately followed by an optional percent sign and the word
// confidence/confident, e.g. "93% confidence" or "88 confident".
var confidenceRe = regexp.MustCompile(`(?i)(\d+)%?\s*(?:confidence|confident)`)

// Interpreter derives a Result from completion text. It is stateless apart
// from its random source, which is injectable so tests can pin it.
type Interpreter struct {
	intn func(n int) int
}

func New() *Interpreter {
	return &Interpreter{intn: rand.IntN}
}

// NewWithRand builds an Interpreter whose random draws come from intn.
// intn must behave like rand.IntN: return a value in [0, n).
func NewWithRand(intn func(n int) int) *Interpreter {
	return &Interpreter{intn: intn}
}

// Interpret derives a Result using the default confidence range [85,100).
// This is the path used for chat responses and basic rating analysis; the
// completion text has no influence on the confidence score here.
func (ip *Interpreter) Interpret(raw, guidelines string) Result {
	return ip.build(raw, guidelines, ip.DefaultConfidence())
}

// InterpretDetailed derives a Result using the full confidence cascade:
// explicit numeric scores in the text win, then confidence phrasing, then
// the random default. Used by the detailed analysis path only.
func (ip *Interpreter) InterpretDetailed(raw, guidelines string) Result {
	return ip.build(raw, guidelines, ip.ExtractConfidence(raw))
}

func (ip *Interpreter) build(raw, guidelines string, confidence int) Result {
	return Result{
		Suggestion: raw,
		Confidence: confidence,
		Reasoning:  extractReasoning(raw),
		Sources:    extractSources(raw, guidelines),
		Category:   extractCategory(raw),
		Severity:   extractSeverity(raw),
		Action:     extractAction(raw),
	}
}

// DefaultConfidence returns a uniform random score in [85,100).
func (ip *Interpreter) DefaultConfidence() int {
	return 85 + ip.intn(15)
}

// ExtractConfidence scans text for a confidence score. An explicit
// "N% confidence" style value is used directly (clamped to [0,100]);
// otherwise confidence phrasing selects a random bucket, and text with no
// signal at all falls back to the default range.
func (ip *Interpreter) ExtractConfidence(text string) int {
	if m := confidenceRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return clamp(n)
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "high confidence") || strings.Contains(lower, "very confident"):
		return 90 + ip.intn(10)
	case strings.Contains(lower, "medium confidence") || strings.Contains(lower, "moderately confident"):
		return 70 + ip.intn(20)
	case strings.Contains(lower, "low confidence") || strings.Contains(lower, "uncertain"):
		return 50 + ip.intn(20)
	}

	return ip.DefaultConfidence()
}

var reasoningIndicators = []string{"reasoning:", "analysis:", "because", "based on", "considering", "evaluation:"}

// extractReasoning returns the first line carrying a reasoning indicator,
// falling back to the first substantial line, then to a fixed sentence.
func extractReasoning(text string) string {
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, indicator := range reasoningIndicators {
			if strings.Contains(lower, indicator) {
				return strings.TrimSpace(line)
			}
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if len(trimmed) > 20 && !strings.Contains(lower, "rating") && !strings.Contains(lower, "confidence") {
			return trimmed
		}
	}

	return FallbackReasoning
}

// extractSources attributes guideline and knowledge sources to the completion.
// Order is fixed, duplicates are dropped, and an empty result degrades to the
// sentinel single-element list.
func extractSources(text, guidelines string) []string {
	var sources []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			sources = append(sources, s)
		}
	}

	if strings.Contains(guidelines, "Product Review Guidelines") {
		add("Product Review Guidelines v2.1")
	}
	if strings.Contains(guidelines, "Authenticity") {
		add("Authenticity Checklist")
	}
	if strings.Contains(guidelines, "QC") {
		add("QC Flagging Rules v3.0")
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "section") || strings.Contains(lower, "guideline") {
		add("Referenced Guidelines")
	}
	if strings.Contains(lower, "pattern") || strings.Contains(lower, "historical") {
		add("Historical Analysis")
	}
	if strings.Contains(lower, "policy") || strings.Contains(lower, "compliance") {
		add("Policy Framework")
	}

	if len(sources) == 0 {
		return []string{SentinelSource}
	}
	return sources
}

func extractCategory(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "political"):
		return CategoryPolitical
	case strings.Contains(lower, "spam"):
		return CategorySpam
	case strings.Contains(lower, "quality"):
		return CategoryQuality
	case strings.Contains(lower, "authentic"):
		return CategoryAuthenticity
	}
	return CategoryGeneral
}

func extractSeverity(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "high") || strings.Contains(lower, "severe"):
		return SeverityHigh
	case strings.Contains(lower, "low") || strings.Contains(lower, "minor"):
		return SeverityLow
	}
	return SeverityMedium
}

func extractAction(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "flag"):
		return ActionFlagForReview
	case strings.Contains(lower, "reject"):
		return ActionReject
	case strings.Contains(lower, "approve"):
		return ActionApprove
	case strings.Contains(lower, "override"):
		return ActionOverrideRating
	case strings.Contains(lower, "feedback"):
		return ActionProvideFeedback
	}
	return ActionReviewRequired
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

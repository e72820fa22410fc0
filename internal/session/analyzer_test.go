package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/qcpilot/qcpilot/internal/interpret"
)

func newTestAnalyzer(p Provider) *Analyzer {
	return NewAnalyzer(p, interpret.NewWithRand(fixedRand), discardLogger(), 5*time.Second)
}

func TestAnalyzeRating_Success(t *testing.T) {
	p := &stubProvider{reply: "Suggested rating: Good\nReasoning: the review includes specific product details."}
	a := newTestAnalyzer(p)

	res := a.AnalyzeRating(context.Background(), "Great phone, works well.", RaterSystemPrompt, "Product Review Guidelines apply")

	// Basic rating analysis always uses the default confidence range.
	if res.Confidence != 85 {
		t.Errorf("expected confidence 85 with pinned rand, got %d", res.Confidence)
	}
	if res.Reasoning != "Reasoning: the review includes specific product details." {
		t.Errorf("unexpected reasoning %q", res.Reasoning)
	}
	if res.Sources[0] != "Product Review Guidelines v2.1" {
		t.Errorf("expected guideline source, got %v", res.Sources)
	}

	prompt := p.prompts[0]
	if !strings.Contains(prompt, "Task Content to Analyze:\nGreat phone, works well.") {
		t.Errorf("prompt missing task content:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Guidelines:\nProduct Review Guidelines apply") {
		t.Errorf("prompt missing guidelines block:\n%s", prompt)
	}
}

func TestAnalyzeRating_IgnoresNumericConfidence(t *testing.T) {
	p := &stubProvider{reply: "I am 42% confident in this assessment of the content here."}
	a := newTestAnalyzer(p)

	res := a.AnalyzeRating(context.Background(), "content", RaterSystemPrompt, "")
	if res.Confidence != 85 {
		t.Errorf("basic path must ignore text confidence, got %d", res.Confidence)
	}
}

func TestAnalyzeRating_ProviderFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("timeout")}
	a := newTestAnalyzer(p)

	res := a.AnalyzeRating(context.Background(), "content", RaterSystemPrompt, "")

	if res.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", res.Confidence)
	}
	if res.Reasoning != "An error occurred while processing the request." {
		t.Errorf("unexpected reasoning %q", res.Reasoning)
	}
	if len(res.Sources) != 0 {
		t.Errorf("expected empty sources, got %v", res.Sources)
	}
	if res.Category != "unknown" {
		t.Errorf("expected category unknown, got %q", res.Category)
	}
	if res.Severity != interpret.SeverityLow {
		t.Errorf("expected low severity, got %q", res.Severity)
	}
	if res.Action != "manual review required" {
		t.Errorf("expected manual review required, got %q", res.Action)
	}
}

func TestAnalyzeDetailed_FullCascade(t *testing.T) {
	p := &stubProvider{reply: "This case shows a clear policy violation and should flag for review, with 88% confidence."}
	a := newTestAnalyzer(p)

	res := a.AnalyzeDetailed(context.Background(), "Rater gave Excellent to negative review.", AnalysisTypeQC,
		"You are a QC assistant.", "QC Flagging Rules require authenticity checks.")

	if res.Confidence != 88 {
		t.Errorf("expected extracted confidence 88, got %d", res.Confidence)
	}
	if res.Action != interpret.ActionFlagForReview {
		t.Errorf("expected flag for review, got %q", res.Action)
	}
	if res.Category != interpret.CategoryGeneral {
		t.Errorf("expected general category, got %q", res.Category)
	}
	if res.Severity != interpret.SeverityMedium {
		t.Errorf("expected medium severity, got %q", res.Severity)
	}

	want := []string{"QC Flagging Rules v3.0", "Policy Framework"}
	if len(res.Sources) != len(want) {
		t.Fatalf("expected sources %v, got %v", want, res.Sources)
	}
	for i, s := range want {
		if res.Sources[i] != s {
			t.Errorf("sources[%d] = %q, want %q", i, res.Sources[i], s)
		}
	}

	if !strings.Contains(p.prompts[0], "Focus on quality control and discrepancy identification.") {
		t.Errorf("expected QC focus line in prompt:\n%s", p.prompts[0])
	}
}

func TestAnalyzeDetailed_RaterFocusLine(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	a := newTestAnalyzer(p)

	a.AnalyzeDetailed(context.Background(), "content", AnalysisTypeRater, RaterSystemPrompt, "")

	if !strings.Contains(p.prompts[0], "Focus on rating guidance and authenticity assessment.") {
		t.Errorf("expected rater focus line in prompt:\n%s", p.prompts[0])
	}
}

func TestAnalyzeDetailed_ProviderFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("safety block")}
	a := newTestAnalyzer(p)

	res := a.AnalyzeDetailed(context.Background(), "content", AnalysisTypeQC, QCSystemPrompt, "")

	if res.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", res.Confidence)
	}
	if res.Category != "error" {
		t.Errorf("expected category error, got %q", res.Category)
	}
	if res.Action != "manual review required" {
		t.Errorf("expected manual review required, got %q", res.Action)
	}
}

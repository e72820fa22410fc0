package interpret

import (
	"testing"
)

// fixedRand pins every random draw to the low end of its range.
func fixedRand(n int) int { return 0 }

func TestInterpret_Total(t *testing.T) {
	ip := New()

	for _, input := range []string{"", "   ", "no keywords here at all", "x"} {
		res := ip.Interpret(input, "")
		if res.Confidence < 0 || res.Confidence > 100 {
			t.Errorf("Interpret(%q) confidence %d out of range", input, res.Confidence)
		}
		if res.Severity != SeverityLow && res.Severity != SeverityMedium && res.Severity != SeverityHigh {
			t.Errorf("Interpret(%q) severity %q not in enum", input, res.Severity)
		}
		if res.Category == "" {
			t.Errorf("Interpret(%q) empty category", input)
		}
		if res.Action == "" {
			t.Errorf("Interpret(%q) empty action", input)
		}
		if len(res.Sources) == 0 {
			t.Errorf("Interpret(%q) empty sources", input)
		}
		if res.Reasoning == "" {
			t.Errorf("Interpret(%q) empty reasoning", input)
		}
	}
}

func TestInterpret_EmptyInputDefaults(t *testing.T) {
	ip := NewWithRand(fixedRand)

	res := ip.InterpretDetailed("", "")

	if res.Confidence != 85 {
		t.Errorf("expected default confidence 85 with pinned rand, got %d", res.Confidence)
	}
	if res.Reasoning != FallbackReasoning {
		t.Errorf("expected fallback reasoning, got %q", res.Reasoning)
	}
	if len(res.Sources) != 1 || res.Sources[0] != SentinelSource {
		t.Errorf("expected sentinel sources, got %v", res.Sources)
	}
	if res.Category != CategoryGeneral {
		t.Errorf("expected general category, got %q", res.Category)
	}
	if res.Severity != SeverityMedium {
		t.Errorf("expected medium severity, got %q", res.Severity)
	}
	if res.Action != ActionReviewRequired {
		t.Errorf("expected review required action, got %q", res.Action)
	}
}

func TestExtractConfidence_Numeric(t *testing.T) {
	ip := New()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"percent before keyword", "I am 93% confident in this assessment", 93},
		{"no percent sign", "88 confidence in the result", 88},
		{"clamped above 100", "150% confidence here", 100},
		{"zero", "0% confidence", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ip.ExtractConfidence(tt.text)
			if got != tt.want {
				t.Errorf("ExtractConfidence(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractConfidence_PhraseBuckets(t *testing.T) {
	ip := NewWithRand(fixedRand)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"high confidence", "there is high confidence in this", 90},
		{"very confident", "I am very confident", 90},
		{"medium confidence", "only medium confidence here", 70},
		{"moderately confident", "moderately confident overall", 70},
		{"low confidence", "low confidence in the outcome", 50},
		{"uncertain", "the outcome is uncertain", 50},
		{"no signal falls to default", "nothing relevant here", 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ip.ExtractConfidence(tt.text)
			if got != tt.want {
				t.Errorf("ExtractConfidence(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractConfidence_BucketRanges(t *testing.T) {
	ip := New()

	tests := []struct {
		name     string
		text     string
		min, max int
	}{
		{"high bucket", "high confidence", 90, 99},
		{"medium bucket", "medium confidence", 70, 89},
		{"low bucket", "low confidence", 50, 69},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				got := ip.ExtractConfidence(tt.text)
				if got < tt.min || got > tt.max {
					t.Fatalf("ExtractConfidence(%q) = %d, want in [%d,%d]", tt.text, got, tt.min, tt.max)
				}
			}
		})
	}
}

func TestDefaultConfidence_Range(t *testing.T) {
	ip := New()

	min, max := 100, 0
	for i := 0; i < 1000; i++ {
		got := ip.DefaultConfidence()
		if got < 85 || got > 99 {
			t.Fatalf("DefaultConfidence() = %d, want in [85,99]", got)
		}
		if got < min {
			min = got
		}
		if got > max {
			max = got
		}
	}

	// With 1000 draws over 15 values, both bounds should be observed.
	if min != 85 {
		t.Errorf("observed min %d, expected 85", min)
	}
	if max != 99 {
		t.Errorf("observed max %d, expected 99", max)
	}
}

func TestInterpret_DefaultPathIgnoresText(t *testing.T) {
	ip := NewWithRand(fixedRand)

	// The chat/basic paths always use the default range, even when the
	// text carries an explicit score.
	res := ip.Interpret("I am 42% confident in this assessment", "")
	if res.Confidence != 85 {
		t.Errorf("expected default-path confidence 85, got %d", res.Confidence)
	}

	res = ip.InterpretDetailed("I am 42% confident in this assessment", "")
	if res.Confidence != 42 {
		t.Errorf("expected detailed-path confidence 42, got %d", res.Confidence)
	}
}

func TestExtractReasoning_IndicatorLine(t *testing.T) {
	ip := New()

	text := "Rating: Excellent\nReasoning: the review cites specific product details\nMore text follows"
	res := ip.Interpret(text, "")
	if res.Reasoning != "Reasoning: the review cites specific product details" {
		t.Errorf("unexpected reasoning %q", res.Reasoning)
	}
}

func TestExtractReasoning_FallbackChain(t *testing.T) {
	ip := New()

	text := "Rating: Good\nConfidence: 90\nThis assessment considers balanced perspective and detail."
	res := ip.Interpret(text, "")
	if res.Reasoning != "This assessment considers balanced perspective and detail." {
		t.Errorf("unexpected reasoning %q", res.Reasoning)
	}
}

func TestExtractReasoning_FixedFallback(t *testing.T) {
	ip := New()

	res := ip.Interpret("Rating: ok\nshort line", "")
	if res.Reasoning != FallbackReasoning {
		t.Errorf("expected fixed fallback, got %q", res.Reasoning)
	}
}

func TestExtractSources_OrderAndDedupe(t *testing.T) {
	ip := New()

	guidelines := "QC rules apply. QC again."
	text := "This violates policy and fails compliance checks."
	res := ip.Interpret(text, guidelines)

	want := []string{"QC Flagging Rules v3.0", "Policy Framework"}
	if len(res.Sources) != len(want) {
		t.Fatalf("expected %d sources, got %v", len(want), res.Sources)
	}
	for i, s := range want {
		if res.Sources[i] != s {
			t.Errorf("sources[%d] = %q, want %q", i, res.Sources[i], s)
		}
	}
}

func TestExtractSources_AllGuidelineHits(t *testing.T) {
	ip := New()

	guidelines := "Product Review Guidelines with an Authenticity section and QC rules"
	text := "see section 2 for historical patterns and policy notes"
	res := ip.Interpret(text, guidelines)

	want := []string{
		"Product Review Guidelines v2.1",
		"Authenticity Checklist",
		"QC Flagging Rules v3.0",
		"Referenced Guidelines",
		"Historical Analysis",
		"Policy Framework",
	}
	if len(res.Sources) != len(want) {
		t.Fatalf("expected %d sources, got %v", len(want), res.Sources)
	}
	for i, s := range want {
		if res.Sources[i] != s {
			t.Errorf("sources[%d] = %q, want %q", i, res.Sources[i], s)
		}
	}
}

func TestExtractSources_Sentinel(t *testing.T) {
	ip := New()

	res := ip.Interpret("nothing matches here", "")
	if len(res.Sources) != 1 || res.Sources[0] != SentinelSource {
		t.Errorf("expected [%q], got %v", SentinelSource, res.Sources)
	}
}

func TestExtractCategory_Priority(t *testing.T) {
	ip := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"political beats spam", "political spam content", CategoryPolitical},
		{"spam", "this is spam", CategorySpam},
		{"quality", "a quality problem", CategoryQuality},
		{"authentic", "not authentic", CategoryAuthenticity},
		{"default", "plain text", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ip.Interpret(tt.text, "").Category
			if got != tt.want {
				t.Errorf("category for %q = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractSeverity_TieBreak(t *testing.T) {
	ip := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"high beats low", "high impact but low effort", SeverityHigh},
		{"severe", "a severe issue", SeverityHigh},
		{"minor", "a minor issue", SeverityLow},
		{"default", "some issue", SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ip.Interpret(tt.text, "").Severity
			if got != tt.want {
				t.Errorf("severity for %q = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractAction_Priority(t *testing.T) {
	ip := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"flag beats reject", "flag and reject this", ActionFlagForReview},
		{"reject", "reject the rating", ActionReject},
		{"approve", "approve as submitted", ActionApprove},
		{"override", "override the score", ActionOverrideRating},
		{"feedback", "send feedback to the rater", ActionProvideFeedback},
		{"default", "nothing actionable", ActionReviewRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ip.Interpret(tt.text, "").Action
			if got != tt.want {
				t.Errorf("action for %q = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestInterpretDetailed_FullScenario(t *testing.T) {
	ip := New()

	guidelines := "QC Flagging Rules require authenticity checks."
	text := "This case shows a clear policy violation and should flag for review, with 88% confidence."
	res := ip.InterpretDetailed(text, guidelines)

	if res.Confidence != 88 {
		t.Errorf("expected confidence 88, got %d", res.Confidence)
	}
	if res.Category != CategoryGeneral {
		t.Errorf("expected general category, got %q", res.Category)
	}
	if res.Severity != SeverityMedium {
		t.Errorf("expected medium severity, got %q", res.Severity)
	}
	if res.Action != ActionFlagForReview {
		t.Errorf("expected flag for review, got %q", res.Action)
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
	if res.Suggestion != text {
		t.Errorf("expected suggestion to carry the raw text")
	}
}

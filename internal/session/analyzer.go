package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/qcpilot/qcpilot/internal/interpret"
)

// Analysis types accepted by AnalyzeDetailed.
const (
	AnalysisTypeRater = "rater"
	AnalysisTypeQC    = "qc"
)

// Analyzer runs one-shot analysis flows that do not belong to a chat
// transcript: basic rating analysis and the detailed rater/QC variant.
type Analyzer struct {
	provider Provider
	interp   *interpret.Interpreter
	logger   *slog.Logger
	timeout  time.Duration
}

func NewAnalyzer(provider Provider, interp *interpret.Interpreter, logger *slog.Logger, timeout time.Duration) *Analyzer {
	return &Analyzer{
		provider: provider,
		interp:   interp,
		logger:   logger,
		timeout:  timeout,
	}
}

// AnalyzeRating produces a rating analysis for a task's content. Confidence
// comes from the default random range regardless of the completion text.
// Provider failures degrade to a fixed zero-confidence result.
func (a *Analyzer) AnalyzeRating(ctx context.Context, taskContent, systemPrompt, guidelines string) interpret.Result {
	prompt := buildRatingPrompt(systemPrompt, guidelines, taskContent)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("rating analysis failed", "error", err)
		return interpret.Result{
			Suggestion: "Unable to generate analysis at this time.",
			Confidence: 0,
			Reasoning:  "An error occurred while processing the request.",
			Sources:    []string{},
			Category:   "unknown",
			Severity:   interpret.SeverityLow,
			Action:     "manual review required",
		}
	}

	return a.interp.Interpret(raw, guidelines)
}

// AnalyzeDetailed produces the richer rater/QC analysis. This is the only
// path that runs the full confidence cascade over the completion text.
func (a *Analyzer) AnalyzeDetailed(ctx context.Context, content, analysisType, systemPrompt, guidelines string) interpret.Result {
	prompt := buildDetailedPrompt(systemPrompt, guidelines, content, analysisType)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("detailed analysis failed", "analysis_type", analysisType, "error", err)
		return interpret.Result{
			Suggestion: "Unable to generate detailed analysis at this time.",
			Confidence: 0,
			Reasoning:  "An error occurred while processing the request.",
			Sources:    []string{},
			Category:   "error",
			Severity:   interpret.SeverityLow,
			Action:     "manual review required",
		}
	}

	return a.interp.InterpretDetailed(raw, guidelines)
}

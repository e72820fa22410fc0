// Package risk maps analysis outcomes onto QC queue priorities and risk
// scores, following the thresholds in the QC review guidelines.
package risk

import "github.com/qcpilot/qcpilot/internal/interpret"

// SeverityBase returns the base risk contribution for a severity level.
func SeverityBase(severity string) float64 {
	switch severity {
	case interpret.SeverityHigh:
		return 0.8
	case interpret.SeverityMedium:
		return 0.5
	case interpret.SeverityLow:
		return 0.2
	default:
		return 0.5
	}
}

// Score computes a [0,1] risk score from an analysis severity and its
// confidence. Low-confidence findings are discounted proportionally.
func Score(severity string, confidence int) float64 {
	return clamp(SeverityBase(severity) * float64(clampConfidence(confidence)) / 100.0)
}

// ReviewPriority maps a finding onto a QC queue priority.
// High-severity findings with very confident analysis jump the queue.
func ReviewPriority(severity string, confidence int) string {
	switch severity {
	case interpret.SeverityHigh:
		if confidence >= 90 {
			return "urgent"
		}
		return "high"
	case interpret.SeverityLow:
		return "low"
	default:
		return "medium"
	}
}

// AccuracyBand classifies a rater's accuracy percentage per the QC
// guidelines quality thresholds.
func AccuracyBand(accuracy float64) string {
	switch {
	case accuracy >= 95:
		return "excellent"
	case accuracy >= 90:
		return "good"
	case accuracy >= 85:
		return "needs_improvement"
	default:
		return "critical"
	}
}

func clamp(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

func clampConfidence(confidence int) int {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

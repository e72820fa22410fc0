package risk

import (
	"math"
	"testing"
)

func TestSeverityBase(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		want     float64
	}{
		{"high", "high", 0.8},
		{"medium", "medium", 0.5},
		{"low", "low", 0.2},
		{"unknown defaults to medium", "banana", 0.5},
		{"empty defaults to medium", "", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SeverityBase(tt.severity)
			if got != tt.want {
				t.Errorf("SeverityBase(%q) = %f, want %f", tt.severity, got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		severity   string
		confidence int
		want       float64
	}{
		{"high full confidence", "high", 100, 0.8},
		{"high partial confidence", "high", 50, 0.4},
		{"medium", "medium", 80, 0.4},
		{"low", "low", 100, 0.2},
		{"zero confidence", "high", 0, 0.0},
		{"confidence clamped", "high", 150, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.severity, tt.confidence)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Score(%q, %d) = %f, want %f", tt.severity, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestReviewPriority(t *testing.T) {
	tests := []struct {
		name       string
		severity   string
		confidence int
		want       string
	}{
		{"high severity very confident", "high", 95, "urgent"},
		{"high severity boundary", "high", 90, "urgent"},
		{"high severity less confident", "high", 89, "high"},
		{"medium severity", "medium", 99, "medium"},
		{"low severity", "low", 99, "low"},
		{"unknown severity", "", 50, "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReviewPriority(tt.severity, tt.confidence)
			if got != tt.want {
				t.Errorf("ReviewPriority(%q, %d) = %q, want %q", tt.severity, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestAccuracyBand(t *testing.T) {
	tests := []struct {
		name     string
		accuracy float64
		want     string
	}{
		{"excellent", 97.5, "excellent"},
		{"excellent boundary", 95, "excellent"},
		{"good", 92, "good"},
		{"needs improvement", 86, "needs_improvement"},
		{"critical", 84.9, "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccuracyBand(tt.accuracy)
			if got != tt.want {
				t.Errorf("AccuracyBand(%f) = %q, want %q", tt.accuracy, got, tt.want)
			}
		})
	}
}

package screening

import (
	"testing"

	"brand-suitability/backend/internal/analysis"
)

func TestNeedsDeepAnalysis(t *testing.T) {
	flagged := analysis.ScreeningResult{Flagged: true, TotalFlags: 2}
	clean := analysis.ScreeningResult{}

	tests := []struct {
		name     string
		result   analysis.ScreeningResult
		tier     analysis.Tier
		expected bool
	}{
		{"free clean", clean, analysis.TierFree, false},
		{"free flagged", flagged, analysis.TierFree, true},
		{"pro clean", clean, analysis.TierPro, true},
		{"pro flagged", flagged, analysis.TierPro, true},
		{"enterprise clean", clean, analysis.TierEnterprise, true},
		{"enterprise flagged", flagged, analysis.TierEnterprise, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsDeepAnalysis(tc.result, tc.tier); got != tc.expected {
				t.Fatalf("expected %v got %v", tc.expected, got)
			}
		})
	}
}

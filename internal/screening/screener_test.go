package screening

import (
	"strings"
	"testing"

	"brand-suitability/backend/internal/analysis"
)

func TestScreenCleanContent(t *testing.T) {
	result := Screen("Great recipe Bake at 350F for 20 minutes ")
	if result.Flagged {
		t.Fatalf("expected clean content, got flags: %+v", result)
	}
	if result.TotalFlags != 0 {
		t.Fatalf("expected 0 flags got %d", result.TotalFlags)
	}
	if result.RiskLevel != analysis.RiskFloor {
		t.Fatalf("expected floor got %s", result.RiskLevel)
	}
	if len(result.Categories) != 12 {
		t.Fatalf("expected all 12 categories reported, got %d", len(result.Categories))
	}
	for key, finding := range result.Categories {
		if finding.Detected || finding.Confidence != 0 {
			t.Fatalf("category %s should be undetected: %+v", key, finding)
		}
	}
}

func TestScreenFlaggedContent(t *testing.T) {
	result := Screen("The suspect faced a murder charge after a gun was found.")
	if !result.Flagged {
		t.Fatal("expected flagged content")
	}
	if result.TotalFlags != 2 {
		t.Fatalf("expected 2 flags got %d", result.TotalFlags)
	}
	if result.RiskLevel != analysis.RiskLow {
		t.Fatalf("expected low got %s", result.RiskLevel)
	}
	crime := result.Categories[analysis.CategoryCrimeHarmfulActs]
	if !crime.Detected || crime.FlagCount != 1 {
		t.Fatalf("expected one crime match, got %+v", crime)
	}
	arms := result.Categories[analysis.CategoryArmsAmmunition]
	if !arms.Detected || arms.FlagCount != 1 {
		t.Fatalf("expected one arms match, got %+v", arms)
	}
}

func TestScreenWholeWordMatching(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		flagged bool
	}{
		{"substring inside word", "the ambassador passed the assessment", false},
		{"warranty is not war", "the warranty covers hardware", false},
		{"case insensitive", "MURDER in the headline", true},
		{"phrase pattern", "this was flagged as adult content by editors", true},
		{"punctuation boundary", "no weapons, just a gun.", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Screen(tc.text)
			if result.Flagged != tc.flagged {
				t.Fatalf("text %q: expected flagged=%v got %v (%+v)", tc.text, tc.flagged, result.Flagged, result)
			}
		})
	}
}

func TestScreenRiskLevelThresholds(t *testing.T) {
	tests := []struct {
		flags    int
		expected analysis.RiskLevel
	}{
		{0, analysis.RiskFloor},
		{1, analysis.RiskLow},
		{2, analysis.RiskLow},
		{3, analysis.RiskMedium},
		{5, analysis.RiskMedium},
		{6, analysis.RiskHigh},
		{12, analysis.RiskHigh},
	}
	for _, tc := range tests {
		text := strings.TrimSpace(strings.Repeat("murder ", tc.flags))
		result := Screen(text)
		if result.TotalFlags != tc.flags {
			t.Fatalf("expected %d flags got %d", tc.flags, result.TotalFlags)
		}
		if result.RiskLevel != tc.expected {
			t.Fatalf("%d flags: expected %s got %s", tc.flags, tc.expected, result.RiskLevel)
		}
	}
}

func TestScreenConfidenceMonotonicCapped(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 12; i++ {
		text := strings.TrimSpace(strings.Repeat("murder ", i))
		finding := Screen(text).Categories[analysis.CategoryCrimeHarmfulActs]
		if finding.Confidence < prev {
			t.Fatalf("confidence decreased at %d flags: %f < %f", i, finding.Confidence, prev)
		}
		if finding.Confidence > 0.95 {
			t.Fatalf("confidence exceeds cap at %d flags: %f", i, finding.Confidence)
		}
		prev = finding.Confidence
	}
	if prev != 0.95 {
		t.Fatalf("expected confidence to saturate at 0.95, got %f", prev)
	}
}

func TestScreenFlaggedInvariant(t *testing.T) {
	texts := []string{
		"",
		"harmless gardening tips",
		"a gun and a murder",
		"spam spam spam spam spam spam spam",
	}
	for _, text := range texts {
		result := Screen(text)
		anyDetected := false
		sum := 0
		for _, finding := range result.Categories {
			if finding.Detected {
				anyDetected = true
			}
			sum += finding.FlagCount
		}
		if result.Flagged != (result.TotalFlags > 0) || result.Flagged != anyDetected {
			t.Fatalf("invariant broken for %q: %+v", text, result)
		}
		if sum != result.TotalFlags {
			t.Fatalf("total flags %d != category sum %d for %q", result.TotalFlags, sum, text)
		}
	}
}

func TestToxicityMapping(t *testing.T) {
	result := Screen("a racist slur, some porn, and a transgender rights debate")
	flags := ToxicityFor(result)
	if !flags.HateSpeech || !flags.AdultContent {
		t.Fatalf("expected hate speech and adult content toxicity, got %+v", flags)
	}
	if !flags.Controversial {
		t.Fatalf("expected controversial toxicity, got %+v", flags)
	}
	if flags.Profanity || flags.Violence {
		t.Fatalf("unexpected toxicity flags: %+v", flags)
	}
}

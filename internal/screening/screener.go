package screening

import (
	"math"

	"brand-suitability/backend/internal/analysis"
)

// Keyword confidence never saturates to 1.0; category detection by literal
// matching stays below full certainty.
const maxKeywordConfidence = 0.95

// Screen scans text against every taxonomy category and returns the full
// screening result. Pure function of the input and the fixed taxonomy;
// safe to call concurrently without limits.
func Screen(text string) analysis.ScreeningResult {
	result := analysis.ScreeningResult{
		RiskLevel:  analysis.RiskFloor,
		Categories: make(map[analysis.CategoryKey]analysis.CategoryFinding, len(Taxonomy)),
	}

	for _, cat := range Taxonomy {
		finding := analysis.CategoryFinding{Name: cat.Name}
		flagCount := 0
		for _, m := range matchers[cat.Key] {
			count := len(m.re.FindAllStringIndex(text, -1))
			if count == 0 {
				continue
			}
			finding.Matches = append(finding.Matches, analysis.PatternMatch{
				Pattern: m.pattern,
				Count:   count,
			})
			flagCount += count
		}
		if flagCount > 0 {
			finding.Detected = true
			finding.FlagCount = flagCount
			finding.Confidence = confidenceForFlags(flagCount)
			result.TotalFlags += flagCount
			result.Flagged = true
		}
		result.Categories[cat.Key] = finding
	}

	result.RiskLevel = riskLevelForFlags(result.TotalFlags)
	return result
}

func confidenceForFlags(flagCount int) float64 {
	return math.Min(float64(flagCount)*0.1, maxKeywordConfidence)
}

func riskLevelForFlags(totalFlags int) analysis.RiskLevel {
	switch {
	case totalFlags == 0:
		return analysis.RiskFloor
	case totalFlags <= 2:
		return analysis.RiskLow
	case totalFlags <= 5:
		return analysis.RiskMedium
	default:
		return analysis.RiskHigh
	}
}

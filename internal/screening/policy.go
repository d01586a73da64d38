package screening

import "brand-suitability/backend/internal/analysis"

// NeedsDeepAnalysis encodes the tier escalation table. Enterprise and pro
// always receive full analysis; free-tier content escalates only when the
// screener flagged it, so flagged content is analyzed regardless of quota
// economics.
func NeedsDeepAnalysis(result analysis.ScreeningResult, tier analysis.Tier) bool {
	switch tier {
	case analysis.TierEnterprise:
		return true
	case analysis.TierFree:
		return result.Flagged
	default:
		return true
	}
}

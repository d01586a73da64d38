package screening

import "brand-suitability/backend/internal/analysis"

const (
	// Clean content scores below 100 on purpose: the preliminary score is
	// a heuristic proxy and must never outrank the deep analyzer.
	cleanContentScore = 95
	maxDeduction      = 60
	minScore          = 20
)

// PreliminaryScore maps a screening result onto the 0-100 suitability
// scale without invoking the deep analyzer.
func PreliminaryScore(result analysis.ScreeningResult) int {
	if !result.Flagged {
		return cleanContentScore
	}
	deduction := result.TotalFlags * 10
	if deduction > maxDeduction {
		deduction = maxDeduction
	}
	score := 100 - deduction
	if score < minScore {
		score = minScore
	}
	return score
}

// Summary is the human-readable band for an overall score.
type Summary struct {
	Grade string `json:"grade"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// ScoreSummary buckets an overall score into a letter grade.
func ScoreSummary(score int) Summary {
	switch {
	case score >= 90:
		return Summary{Grade: "A", Label: "Excellent", Color: "green"}
	case score >= 75:
		return Summary{Grade: "B", Label: "Good", Color: "blue"}
	case score >= 60:
		return Summary{Grade: "C", Label: "Moderate", Color: "yellow"}
	case score >= 40:
		return Summary{Grade: "D", Label: "Risky", Color: "orange"}
	default:
		return Summary{Grade: "F", Label: "High Risk", Color: "red"}
	}
}

package analysis

import "encoding/json"

// Tier identifies the caller's service level, which gates whether deep
// semantic analysis runs.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Valid reports whether the tier is one of the known service levels.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise:
		return true
	}
	return false
}

// RiskLevel is the discretized GARM risk bucket.
type RiskLevel string

const (
	RiskFloor  RiskLevel = "floor"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether the level is a known bucket.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskFloor, RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Method names the pipeline variant that produced a record.
type Method string

const (
	MethodKeywordOnly Method = "keyword_only"
	MethodAIOnly      Method = "ai_only"
	MethodHybrid      Method = "hybrid"
)

// CategoryKey identifies one of the 12 GARM risk categories.
type CategoryKey string

const (
	CategoryAdultContent        CategoryKey = "adultContent"
	CategoryArmsAmmunition      CategoryKey = "armsAmmunition"
	CategoryCrimeHarmfulActs    CategoryKey = "crimeHarmfulActs"
	CategoryDeathInjuryConflict CategoryKey = "deathInjuryConflict"
	CategoryOnlinePiracy        CategoryKey = "onlinePiracy"
	CategoryHateSpeech          CategoryKey = "hateSpeech"
	CategoryObscenityProfanity  CategoryKey = "obscenityProfanity"
	CategoryDrugsAlcoholTobacco CategoryKey = "drugsAlcoholTobacco"
	CategorySpamHarmful         CategoryKey = "spamHarmful"
	CategoryTerrorism           CategoryKey = "terrorism"
	CategoryDebatedSocialIssues CategoryKey = "debatedSocialIssues"
	CategoryMilitaryConflict    CategoryKey = "militaryConflict"
)

// PatternMatch records how often a single keyword pattern occurred.
type PatternMatch struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// CategoryFinding is the per-category screening or analysis outcome.
type CategoryFinding struct {
	Name       string         `json:"name"`
	Detected   bool           `json:"detected"`
	Confidence float64        `json:"confidence"`
	FlagCount  int            `json:"flag_count,omitempty"`
	Details    string         `json:"details,omitempty"`
	Matches    []PatternMatch `json:"matches,omitempty"`
}

// ScreeningResult is the raw output of the keyword screener, retained on
// hybrid records for audit.
type ScreeningResult struct {
	Flagged    bool                            `json:"flagged"`
	TotalFlags int                             `json:"total_flags"`
	RiskLevel  RiskLevel                       `json:"risk_level"`
	Categories map[CategoryKey]CategoryFinding `json:"categories"`
}

// IABCategory is a topic tag in the style of the IAB Content Taxonomy,
// attached by the deep analyzer only.
type IABCategory struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ToxicityFlags are five fixed booleans derived from category detections.
type ToxicityFlags struct {
	HateSpeech    bool `json:"hate_speech"`
	Violence      bool `json:"violence"`
	AdultContent  bool `json:"adult_content"`
	Profanity     bool `json:"profanity"`
	Controversial bool `json:"controversial"`
}

// RiskFlag is a severity-tagged risk annotation.
type RiskFlag struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// FlaggedEntity names an entity the analyzer considered problematic.
type FlaggedEntity struct {
	Text   string `json:"text"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Recommendation is a remediation suggestion naming an exact text span.
type Recommendation struct {
	Issue     string `json:"issue"`
	Location  string `json:"location"`
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Priority  string `json:"priority"`
	Reasoning string `json:"reasoning"`
}

// Record is the unified classification output. It is constructed once per
// request by the engine and immutable afterwards; persistence and caching
// treat it as an opaque value keyed by Fingerprint.
type Record struct {
	Fingerprint      string                          `json:"fingerprint"`
	OverallScore     int                             `json:"overall_score"`
	RiskLevel        RiskLevel                       `json:"risk_level"`
	Categories       map[CategoryKey]CategoryFinding `json:"categories"`
	IABCategories    []IABCategory                   `json:"iab_categories"`
	SentimentScore   float64                         `json:"sentiment_score"`
	ToxicityFlags    ToxicityFlags                   `json:"toxicity_flags"`
	RiskFlags        []RiskFlag                      `json:"risk_flags"`
	FlaggedEntities  []FlaggedEntity                 `json:"flagged_entities"`
	Recommendations  []Recommendation                `json:"recommendations"`
	KeywordFlags     *ScreeningResult                `json:"keyword_flags,omitempty"`
	Method           Method                          `json:"analysis_method"`
	ModelVersion     string                          `json:"model_version"`
	ProcessingTimeMs int64                           `json:"processing_time_ms"`
	Reasoning        string                          `json:"reasoning,omitempty"`
	RawResponse      json.RawMessage                 `json:"raw_response,omitempty"`
}

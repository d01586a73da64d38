package store

import (
	"encoding/json"
	"strings"
	"time"

	"brand-suitability/backend/internal/analysis"
)

// User holds caller bookkeeping: tier, API key and usage counters.
type User struct {
	ID                   string `gorm:"primaryKey;size:36"`
	Email                string `gorm:"size:255;uniqueIndex"`
	APIKey               string `gorm:"size:64;uniqueIndex"`
	Tier                 string `gorm:"size:16;index"`
	MonthlyAnalysisCount int
	LastResetAt          time.Time
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TierValue returns the user's tier as the typed enum, defaulting to free.
func (u *User) TierValue() analysis.Tier {
	tier := analysis.Tier(strings.TrimSpace(u.Tier))
	if !tier.Valid() {
		return analysis.TierFree
	}
	return tier
}

// Analysis persists one classification record for history, stats and
// recommendation tracking. Structured fields are stored as JSON text
// columns with typed accessors.
type Analysis struct {
	ID                  string `gorm:"primaryKey;size:36"`
	UserID              string `gorm:"size:36;index"`
	PostID              string `gorm:"size:64;index"`
	PostURL             string `gorm:"type:text"`
	ContentHash         string `gorm:"size:64;index"`
	OverallScore        int    `gorm:"index"`
	RiskLevel           string `gorm:"size:16;index"`
	CategoriesJSON      string `gorm:"type:text"`
	IABCategoriesJSON   string `gorm:"type:text"`
	SentimentScore      float64
	ToxicityFlagsJSON   string `gorm:"type:text"`
	RiskFlagsJSON       string `gorm:"type:text"`
	FlaggedEntitiesJSON string `gorm:"type:text"`
	RecommendationsJSON string `gorm:"type:text"`
	KeywordFlagsJSON    string `gorm:"type:text"`
	AnalysisMethod      string `gorm:"size:16"`
	ModelVersion        string `gorm:"size:64"`
	ProcessingTimeMs    int64
	Reasoning           string    `gorm:"type:text"`
	RawResponse         string    `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// NewAnalysis flattens a record into its persisted row.
func NewAnalysis(userID, postID, postURL string, record analysis.Record) *Analysis {
	row := &Analysis{
		UserID:           userID,
		PostID:           postID,
		PostURL:          postURL,
		ContentHash:      record.Fingerprint,
		OverallScore:     record.OverallScore,
		RiskLevel:        string(record.RiskLevel),
		SentimentScore:   record.SentimentScore,
		AnalysisMethod:   string(record.Method),
		ModelVersion:     record.ModelVersion,
		ProcessingTimeMs: record.ProcessingTimeMs,
		Reasoning:        record.Reasoning,
		RawResponse:      string(record.RawResponse),
	}
	row.CategoriesJSON = marshalJSON(record.Categories)
	row.IABCategoriesJSON = marshalJSON(record.IABCategories)
	row.ToxicityFlagsJSON = marshalJSON(record.ToxicityFlags)
	row.RiskFlagsJSON = marshalJSON(record.RiskFlags)
	row.FlaggedEntitiesJSON = marshalJSON(record.FlaggedEntities)
	row.RecommendationsJSON = marshalJSON(record.Recommendations)
	if record.KeywordFlags != nil {
		row.KeywordFlagsJSON = marshalJSON(record.KeywordFlags)
	}
	return row
}

// Record reconstructs the unified record from the persisted row.
func (a *Analysis) Record() analysis.Record {
	record := analysis.Record{
		Fingerprint:      a.ContentHash,
		OverallScore:     a.OverallScore,
		RiskLevel:        analysis.RiskLevel(a.RiskLevel),
		SentimentScore:   a.SentimentScore,
		Method:           analysis.Method(a.AnalysisMethod),
		ModelVersion:     a.ModelVersion,
		ProcessingTimeMs: a.ProcessingTimeMs,
		Reasoning:        a.Reasoning,
	}
	unmarshalJSON(a.CategoriesJSON, &record.Categories)
	unmarshalJSON(a.IABCategoriesJSON, &record.IABCategories)
	unmarshalJSON(a.ToxicityFlagsJSON, &record.ToxicityFlags)
	unmarshalJSON(a.RiskFlagsJSON, &record.RiskFlags)
	unmarshalJSON(a.FlaggedEntitiesJSON, &record.FlaggedEntities)
	unmarshalJSON(a.RecommendationsJSON, &record.Recommendations)
	if strings.TrimSpace(a.KeywordFlagsJSON) != "" {
		var flags analysis.ScreeningResult
		unmarshalJSON(a.KeywordFlagsJSON, &flags)
		record.KeywordFlags = &flags
	}
	if strings.TrimSpace(a.RawResponse) != "" {
		record.RawResponse = json.RawMessage(a.RawResponse)
	}
	return record
}

// RecommendationTracking records whether a suggested text replacement was
// applied and how it was rated.
type RecommendationTracking struct {
	ID                  string `gorm:"primaryKey;size:36"`
	AnalysisID          string `gorm:"size:36;index"`
	UserID              string `gorm:"size:36;index"`
	PostID              string `gorm:"size:64"`
	RecommendationIndex int
	OriginalText        string `gorm:"type:text"`
	SuggestedText       string `gorm:"type:text"`
	Implemented         bool   `gorm:"index"`
	ImplementedAt       *time.Time
	FeedbackRating      *int
	FeedbackComment     string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func marshalJSON(value any) string {
	if value == nil {
		return ""
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(payload)
}

func unmarshalJSON(payload string, target any) {
	if strings.TrimSpace(payload) == "" {
		return
	}
	_ = json.Unmarshal([]byte(payload), target)
}

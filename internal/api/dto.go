package api

import (
	"encoding/json"
	"time"

	"brand-suitability/backend/internal/analysis"
	"brand-suitability/backend/internal/screening"
	"brand-suitability/backend/internal/store"
)

// AnalyzeRequest is the content submission payload. Title and content are
// required; everything else is optional caller context.
type AnalyzeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
	PostID  string `json:"post_id"`
	PostURL string `json:"post_url"`
}

// AnalysisDTO is the API representation of a classification record.
type AnalysisDTO struct {
	ID               string                                            `json:"id,omitempty"`
	Fingerprint      string                                            `json:"fingerprint"`
	OverallScore     int                                               `json:"overall_score"`
	RiskLevel        analysis.RiskLevel                                `json:"risk_level"`
	Categories       map[analysis.CategoryKey]analysis.CategoryFinding `json:"categories"`
	IABCategories    []analysis.IABCategory                            `json:"iab_categories"`
	SentimentScore   float64                                           `json:"sentiment_score"`
	ToxicityFlags    analysis.ToxicityFlags                            `json:"toxicity_flags"`
	RiskFlags        []analysis.RiskFlag                               `json:"risk_flags"`
	FlaggedEntities  []analysis.FlaggedEntity                          `json:"flagged_entities"`
	Recommendations  []analysis.Recommendation                         `json:"recommendations"`
	KeywordFlags     *analysis.ScreeningResult                         `json:"keyword_flags,omitempty"`
	AnalysisMethod   analysis.Method                                   `json:"analysis_method"`
	ModelVersion     string                                            `json:"model_version"`
	ProcessingTimeMs int64                                             `json:"processing_time_ms"`
	Reasoning        string                                            `json:"reasoning,omitempty"`
	RawResponse      json.RawMessage                                   `json:"raw_response,omitempty"`
	ScoreSummary     screening.Summary                                 `json:"score_summary"`
	CreatedAt        *time.Time                                        `json:"created_at,omitempty"`
}

// FromRecord converts an in-flight record into the DTO representation.
func FromRecord(id string, record analysis.Record) AnalysisDTO {
	return AnalysisDTO{
		ID:               id,
		Fingerprint:      record.Fingerprint,
		OverallScore:     record.OverallScore,
		RiskLevel:        record.RiskLevel,
		Categories:       record.Categories,
		IABCategories:    record.IABCategories,
		SentimentScore:   record.SentimentScore,
		ToxicityFlags:    record.ToxicityFlags,
		RiskFlags:        record.RiskFlags,
		FlaggedEntities:  record.FlaggedEntities,
		Recommendations:  record.Recommendations,
		KeywordFlags:     record.KeywordFlags,
		AnalysisMethod:   record.Method,
		ModelVersion:     record.ModelVersion,
		ProcessingTimeMs: record.ProcessingTimeMs,
		Reasoning:        record.Reasoning,
		RawResponse:      record.RawResponse,
		ScoreSummary:     screening.ScoreSummary(record.OverallScore),
	}
}

// FromModel converts a persisted row into the DTO representation.
func FromModel(row store.Analysis) AnalysisDTO {
	dto := FromRecord(row.ID, row.Record())
	created := row.CreatedAt
	dto.CreatedAt = &created
	return dto
}

// AnalysesResponse is the paginated history payload.
type AnalysesResponse struct {
	Items  []AnalysisDTO `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// TrackRecommendationRequest records a recommendation the user acts on.
type TrackRecommendationRequest struct {
	AnalysisID          string `json:"analysis_id"`
	PostID              string `json:"post_id"`
	RecommendationIndex int    `json:"recommendation_index"`
	OriginalText        string `json:"original_text"`
	SuggestedText       string `json:"suggested_text"`
}

// FeedbackRequest rates a tracked recommendation.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RecommendationDTO is the API view of a tracked recommendation.
type RecommendationDTO struct {
	ID                  string     `json:"id"`
	AnalysisID          string     `json:"analysis_id"`
	PostID              string     `json:"post_id,omitempty"`
	RecommendationIndex int        `json:"recommendation_index"`
	OriginalText        string     `json:"original_text"`
	SuggestedText       string     `json:"suggested_text"`
	Implemented         bool       `json:"implemented"`
	ImplementedAt       *time.Time `json:"implemented_at,omitempty"`
	FeedbackRating      *int       `json:"feedback_rating,omitempty"`
	FeedbackComment     string     `json:"feedback_comment,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// FromTrackingModel converts a tracking row into its DTO.
func FromTrackingModel(row store.RecommendationTracking) RecommendationDTO {
	return RecommendationDTO{
		ID:                  row.ID,
		AnalysisID:          row.AnalysisID,
		PostID:              row.PostID,
		RecommendationIndex: row.RecommendationIndex,
		OriginalText:        row.OriginalText,
		SuggestedText:       row.SuggestedText,
		Implemented:         row.Implemented,
		ImplementedAt:       row.ImplementedAt,
		FeedbackRating:      row.FeedbackRating,
		FeedbackComment:     row.FeedbackComment,
		CreatedAt:           row.CreatedAt,
	}
}

// UserDTO is the API view of the authenticated caller.
type UserDTO struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	Tier                 string    `json:"tier"`
	MonthlyAnalysisCount int       `json:"monthly_analysis_count"`
	LastResetAt          time.Time `json:"last_reset_at"`
	CreatedAt            time.Time `json:"created_at"`
}

// FromUserModel converts a user row into its DTO.
func FromUserModel(user store.User) UserDTO {
	return UserDTO{
		ID:                   user.ID,
		Email:                user.Email,
		Tier:                 string(user.TierValue()),
		MonthlyAnalysisCount: user.MonthlyAnalysisCount,
		LastResetAt:          user.LastResetAt,
		CreatedAt:            user.CreatedAt,
	}
}

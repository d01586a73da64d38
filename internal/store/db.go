package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &Analysis{}, &RecommendationTracking{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveAnalysis persists a classification row, assigning an id when absent.
func (d *Database) SaveAnalysis(row *Analysis) error {
	if row == nil {
		return errors.New("analysis is nil")
	}
	if strings.TrimSpace(row.ID) == "" {
		row.ID = uuid.NewString()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(row).Error
}

// FindAnalysis returns one analysis scoped to its owner.
func (d *Database) FindAnalysis(id, userID string) (*Analysis, error) {
	var row Analysis
	err := d.gorm.Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAnalyses returns a page of the user's history, newest first, with an
// optional risk-level filter, plus the unpaged total.
func (d *Database) ListAnalyses(userID, riskLevel string, limit, offset int) ([]Analysis, int64, error) {
	query := d.gorm.Model(&Analysis{}).Where("user_id = ?", userID)
	if strings.TrimSpace(riskLevel) != "" {
		query = query.Where("risk_level = ?", riskLevel)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []Analysis
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Stats aggregates a user's analysis history.
type Stats struct {
	TotalAnalyses    int64            `json:"total_analyses"`
	AverageScore     float64          `json:"average_score"`
	RiskDistribution map[string]int64 `json:"risk_distribution"`
}

// AnalysisStats computes count, average score and risk-level distribution.
func (d *Database) AnalysisStats(userID string) (Stats, error) {
	stats := Stats{RiskDistribution: map[string]int64{}}

	if err := d.gorm.Model(&Analysis{}).Where("user_id = ?", userID).Count(&stats.TotalAnalyses).Error; err != nil {
		return stats, err
	}
	if stats.TotalAnalyses == 0 {
		return stats, nil
	}

	if err := d.gorm.Model(&Analysis{}).
		Where("user_id = ?", userID).
		Select("COALESCE(AVG(overall_score), 0)").
		Scan(&stats.AverageScore).Error; err != nil {
		return stats, err
	}

	var buckets []struct {
		RiskLevel string
		Count     int64
	}
	if err := d.gorm.Model(&Analysis{}).
		Where("user_id = ?", userID).
		Select("risk_level, COUNT(*) AS count").
		Group("risk_level").
		Scan(&buckets).Error; err != nil {
		return stats, err
	}
	for _, bucket := range buckets {
		stats.RiskDistribution[bucket.RiskLevel] = bucket.Count
	}
	return stats, nil
}

// FindUserByAPIKey resolves an active user from its API key.
func (d *Database) FindUserByAPIKey(apiKey string) (*User, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("api key required")
	}
	var user User
	err := d.gorm.Where("api_key = ? AND is_active = ?", apiKey, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureUser returns the user with the given email, creating it with the
// supplied tier and a fresh API key when missing.
func (d *Database) EnsureUser(email, tier string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var user User
	err := d.gorm.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	user = User{
		ID:          uuid.NewString(),
		Email:       email,
		APIKey:      uuid.NewString(),
		Tier:        tier,
		LastResetAt: time.Now().UTC(),
		IsActive:    true,
	}
	if err := d.gorm.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RegenerateAPIKey replaces the user's API key with a fresh one. The old
// key stops resolving immediately.
func (d *Database) RegenerateAPIKey(userID string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var user User
	if err := d.gorm.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	user.APIKey = uuid.NewString()
	if err := d.gorm.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IncrementAnalysisCount bumps the monthly usage counter, rolling it over
// when the calendar month has changed since the last reset.
func (d *Database) IncrementAnalysisCount(userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var user User
	if err := d.gorm.Where("id = ?", userID).First(&user).Error; err != nil {
		return err
	}
	now := time.Now().UTC()
	updates := map[string]any{
		"monthly_analysis_count": user.MonthlyAnalysisCount + 1,
	}
	if user.LastResetAt.Year() != now.Year() || user.LastResetAt.Month() != now.Month() {
		updates["monthly_analysis_count"] = 1
		updates["last_reset_at"] = now
	}
	return d.gorm.Model(&User{}).Where("id = ?", userID).Updates(updates).Error
}

// TrackRecommendation records a recommendation the user is acting on.
func (d *Database) TrackRecommendation(row *RecommendationTracking) error {
	if row == nil {
		return errors.New("recommendation tracking is nil")
	}
	if strings.TrimSpace(row.ID) == "" {
		row.ID = uuid.NewString()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(row).Error
}

// ListRecommendations returns the user's tracked recommendations, optionally
// filtered by analysis and implementation status.
func (d *Database) ListRecommendations(userID, analysisID string, implemented *bool) ([]RecommendationTracking, error) {
	query := d.gorm.Where("user_id = ?", userID)
	if strings.TrimSpace(analysisID) != "" {
		query = query.Where("analysis_id = ?", analysisID)
	}
	if implemented != nil {
		query = query.Where("implemented = ?", *implemented)
	}
	var rows []RecommendationTracking
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRecommendationImplemented flips the implemented flag and stamps it.
func (d *Database) MarkRecommendationImplemented(id, userID string) (*RecommendationTracking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var row RecommendationTracking
	if err := d.gorm.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	row.Implemented = true
	row.ImplementedAt = &now
	if err := d.gorm.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveRecommendationFeedback attaches a 1-5 rating and optional comment.
func (d *Database) SaveRecommendationFeedback(id, userID string, rating int, comment string) (*RecommendationTracking, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var row RecommendationTracking
	if err := d.gorm.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	row.FeedbackRating = &rating
	row.FeedbackComment = strings.TrimSpace(comment)
	if err := d.gorm.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Package engine sequences the classification pipeline: fingerprint,
// cache lookup, keyword screening, tier escalation, optional deep
// analysis, and the merged record with its write-through cache entry.
package engine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"brand-suitability/backend/internal/ai"
	"brand-suitability/backend/internal/analysis"
	"brand-suitability/backend/internal/cache"
	"brand-suitability/backend/internal/screening"
)

const (
	// DefaultCacheTTL is the fixed expiry for cached analysis records.
	DefaultCacheTTL = 24 * time.Hour

	cacheKeyPrefix = "analysis:"

	keywordModelVersion = "keyword-screener-v1"
	keywordReasoning    = "Keyword-based analysis (upgrade for AI-powered insights)"
)

// Input is the raw content a caller submits for classification.
type Input struct {
	Title   string
	Content string
	Excerpt string
}

// Outcome pairs the record with its cache provenance.
type Outcome struct {
	Record analysis.Record
	Cached bool
}

// Engine owns record construction. The analyzer and cache are injected
// collaborators; the taxonomy is process-wide immutable data, so Classify
// is safe for arbitrary concurrent use.
type Engine struct {
	analyzer ai.Analyzer
	cache    cache.Cache
	cacheTTL time.Duration
}

// Option tunes engine construction.
type Option func(*Engine)

// WithCacheTTL overrides the fixed cache expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

// New builds an engine. A nil analyzer disables the hybrid path; a nil
// cache disables caching. Both are valid deployments.
func New(analyzer ai.Analyzer, store cache.Cache, opts ...Option) *Engine {
	e := &Engine{
		analyzer: analyzer,
		cache:    store,
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify runs the two-stage pipeline and returns the unified record.
// The keyword-only path never fails except on invalid input; the hybrid
// path fails the whole request when the deep analyzer fails, and retry
// policy belongs to the caller.
func (e *Engine) Classify(ctx context.Context, in Input, tier analysis.Tier) (Outcome, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return Outcome{}, &ClassificationError{
			Kind:    KindInvalidInput,
			Message: "title and content are required",
		}
	}

	fingerprint := analysis.Fingerprint(in.Title, in.Content, in.Excerpt)

	if record, ok := e.cacheLookup(ctx, fingerprint); ok {
		return Outcome{Record: record, Cached: true}, nil
	}

	screened := screening.Screen(in.Title + " " + in.Content + " " + in.Excerpt)

	var record analysis.Record
	if screening.NeedsDeepAnalysis(screened, tier) {
		deep, err := e.deepAnalyze(ctx, in)
		if err != nil {
			return Outcome{}, err
		}
		record = merge(deep, fingerprint, screened)
	} else {
		record = keywordRecord(fingerprint, screened)
	}

	e.cacheStore(ctx, fingerprint, record)
	return Outcome{Record: record, Cached: false}, nil
}

// keywordRecord builds the keyword_only variant purely from the screening
// result; every analyzer-owned field stays empty or neutral.
func keywordRecord(fingerprint string, screened analysis.ScreeningResult) analysis.Record {
	return analysis.Record{
		Fingerprint:      fingerprint,
		OverallScore:     screening.PreliminaryScore(screened),
		RiskLevel:        screened.RiskLevel,
		Categories:       screened.Categories,
		IABCategories:    []analysis.IABCategory{},
		SentimentScore:   0,
		ToxicityFlags:    screening.ToxicityFor(screened),
		RiskFlags:        []analysis.RiskFlag{},
		FlaggedEntities:  []analysis.FlaggedEntity{},
		Recommendations:  []analysis.Recommendation{},
		Method:           analysis.MethodKeywordOnly,
		ModelVersion:     keywordModelVersion,
		ProcessingTimeMs: 0,
		Reasoning:        keywordReasoning,
	}
}

// merge attaches the identity and audit trail to a deep analysis record,
// producing the hybrid variant.
func merge(deep analysis.Record, fingerprint string, screened analysis.ScreeningResult) analysis.Record {
	deep.Fingerprint = fingerprint
	deep.KeywordFlags = &screened
	deep.Method = analysis.MethodHybrid
	return deep
}

func (e *Engine) deepAnalyze(ctx context.Context, in Input) (analysis.Record, error) {
	if e.analyzer == nil || !e.analyzer.Enabled() {
		return analysis.Record{}, &ClassificationError{
			Kind:    KindAnalyzerDisabled,
			Message: "deep analysis required but no analyzer is configured",
		}
	}
	record, err := e.analyzer.Analyze(ctx, in.Title, in.Content, in.Excerpt)
	if err != nil {
		return analysis.Record{}, wrapAnalyzerError(err)
	}
	return record, nil
}

func wrapAnalyzerError(err error) *ClassificationError {
	kind := KindAnalyzerTransport
	switch k, _ := ai.KindOf(err); k {
	case ai.FailureTimeout:
		kind = KindAnalyzerTimeout
	case ai.FailureUnparsable:
		kind = KindAnalyzerUnparsable
	}
	return &ClassificationError{Kind: kind, Message: "deep analysis failed", Err: err}
}

// cacheLookup treats every cache failure as a miss.
func (e *Engine) cacheLookup(ctx context.Context, fingerprint string) (analysis.Record, bool) {
	if e.cache == nil {
		return analysis.Record{}, false
	}
	found, value, err := e.cache.Get(ctx, cacheKeyPrefix+fingerprint)
	if err != nil {
		logrus.WithError(err).WithField("fingerprint", fingerprint).Warn("cache read failed, treating as miss")
		return analysis.Record{}, false
	}
	if !found {
		return analysis.Record{}, false
	}
	var record analysis.Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		logrus.WithError(err).WithField("fingerprint", fingerprint).Warn("cached record corrupt, treating as miss")
		return analysis.Record{}, false
	}
	return record, true
}

// cacheStore is write-through best effort; a failed write never fails the
// classification.
func (e *Engine) cacheStore(ctx context.Context, fingerprint string, record analysis.Record) {
	if e.cache == nil {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		logrus.WithError(err).WithField("fingerprint", fingerprint).Warn("marshal record for cache")
		return
	}
	if err := e.cache.SetWithTTL(ctx, cacheKeyPrefix+fingerprint, string(payload), e.cacheTTL); err != nil {
		logrus.WithError(err).WithField("fingerprint", fingerprint).Warn("cache write failed")
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"brand-suitability/backend/internal/ai"
	"brand-suitability/backend/internal/analysis"
	"brand-suitability/backend/internal/cache"
)

type stubAnalyzer struct {
	record analysis.Record
	err    error
	calls  int
}

func (s *stubAnalyzer) Enabled() bool { return true }

func (s *stubAnalyzer) Analyze(ctx context.Context, title, content, excerpt string) (analysis.Record, error) {
	s.calls++
	if s.err != nil {
		return analysis.Record{}, s.err
	}
	return s.record, nil
}

func deepRecord() analysis.Record {
	return analysis.Record{
		OverallScore:    42,
		RiskLevel:       analysis.RiskMedium,
		Categories:      map[analysis.CategoryKey]analysis.CategoryFinding{},
		IABCategories:   []analysis.IABCategory{{ID: "IAB12", Name: "News", Confidence: 0.8}},
		RiskFlags:       []analysis.RiskFlag{},
		FlaggedEntities: []analysis.FlaggedEntity{},
		Recommendations: []analysis.Recommendation{{Issue: "violent phrasing", Original: "murder", Suggested: "incident", Priority: "high"}},
		Method:          analysis.MethodAIOnly,
		ModelVersion:    "stub-model",
		Reasoning:       "stubbed deep analysis",
	}
}

func newTestServer(t *testing.T, stub *stubAnalyzer, tier string) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := Config{
		DBPath:      filepath.Join(t.TempDir(), "api.db"),
		SilentDB:    true,
		DevUserTier: tier,
		Cache:       cache.NewMemory(),
		DisableAI:   true,
	}
	if stub != nil {
		cfg.Analyzer = stub
		cfg.DisableAI = false
	}
	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { server.Close() })

	router, err := server.Router()
	if err != nil {
		t.Fatalf("Router: %v", err)
	}
	return server, router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type analyzeEnvelope struct {
	Success bool        `json:"success"`
	Cached  bool        `json:"cached"`
	Error   string      `json:"error"`
	Data    AnalysisDTO `json:"data"`
}

func decodeAnalyze(t *testing.T, w *httptest.ResponseRecorder) analyzeEnvelope {
	t.Helper()
	var env analyzeEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestAnalyzeRejectsMissingFields(t *testing.T) {
	_, router := newTestServer(t, nil, "free")

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{Title: "only a title"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeKeywordOnlyForCleanFreeTier(t *testing.T) {
	stub := &stubAnalyzer{record: deepRecord()}
	_, router := newTestServer(t, stub, "free")

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		Title:   "Weeknight pasta",
		Content: "A simple recipe with tomatoes, garlic and basil.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeAnalyze(t, w)
	if !env.Success || env.Cached {
		t.Fatalf("success = %v, cached = %v", env.Success, env.Cached)
	}
	if env.Data.AnalysisMethod != analysis.MethodKeywordOnly {
		t.Fatalf("method = %q, want keyword_only", env.Data.AnalysisMethod)
	}
	if env.Data.OverallScore != 95 {
		t.Fatalf("overall score = %d, want 95", env.Data.OverallScore)
	}
	if stub.calls != 0 {
		t.Fatalf("analyzer called %d times for clean free-tier content", stub.calls)
	}
}

func TestAnalyzeHybridForFlaggedContent(t *testing.T) {
	stub := &stubAnalyzer{record: deepRecord()}
	_, router := newTestServer(t, stub, "free")

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		Title:   "Crime report",
		Content: "The article describes a murder committed with a gun.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeAnalyze(t, w)
	if env.Data.AnalysisMethod != analysis.MethodHybrid {
		t.Fatalf("method = %q, want hybrid", env.Data.AnalysisMethod)
	}
	if env.Data.KeywordFlags == nil || !env.Data.KeywordFlags.Flagged {
		t.Fatal("expected keyword flags on hybrid record")
	}
	if stub.calls != 1 {
		t.Fatalf("analyzer calls = %d, want 1", stub.calls)
	}
}

func TestAnalyzeSecondCallHitsCache(t *testing.T) {
	stub := &stubAnalyzer{record: deepRecord()}
	server, router := newTestServer(t, stub, "free")

	req := AnalyzeRequest{Title: "Crime report", Content: "A murder with a gun."}

	first := decodeAnalyze(t, doJSON(t, router, http.MethodPost, "/api/v1/analyze", req))
	if first.Cached {
		t.Fatal("first call should not be cached")
	}
	second := decodeAnalyze(t, doJSON(t, router, http.MethodPost, "/api/v1/analyze", req))
	if !second.Cached {
		t.Fatal("second call should be cached")
	}
	if stub.calls != 1 {
		t.Fatalf("analyzer calls = %d, want 1", stub.calls)
	}
	if second.Data.Fingerprint != first.Data.Fingerprint {
		t.Fatalf("fingerprint changed between calls")
	}
	if second.Data.ID == "" || second.Data.ID == first.Data.ID {
		t.Fatalf("cached response should still persist its own row, got ids %q and %q", first.Data.ID, second.Data.ID)
	}

	user, err := server.db.FindUserByAPIKey(server.devUser.APIKey)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if user.MonthlyAnalysisCount != 1 {
		t.Fatalf("usage counter = %d, want 1: cached hits must not be charged", user.MonthlyAnalysisCount)
	}
}

func TestAnalyzeAnalyzerFailureFailsRequest(t *testing.T) {
	stub := &stubAnalyzer{err: &ai.Error{Kind: ai.FailureUnparsable, Err: errors.New("not json")}}
	_, router := newTestServer(t, stub, "enterprise")

	w := doJSON(t, router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		Title:   "Clean text",
		Content: "Enterprise tier always escalates, even for clean content.",
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	env := decodeAnalyze(t, w)
	if env.Success {
		t.Fatal("expected failure envelope")
	}
}

func TestAnalysisRetrievalAndStats(t *testing.T) {
	_, router := newTestServer(t, nil, "free")

	created := decodeAnalyze(t, doJSON(t, router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		Title:   "Weeknight pasta",
		Content: "A simple recipe with tomatoes, garlic and basil.",
	}))
	if created.Data.ID == "" {
		t.Fatal("expected persisted analysis id")
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/analyze/"+created.Data.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := decodeAnalyze(t, w)
	if got.Data.Fingerprint != created.Data.Fingerprint {
		t.Fatalf("fingerprint mismatch: %q vs %q", got.Data.Fingerprint, created.Data.Fingerprint)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/analyze?limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list struct {
		Data AnalysesResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Data.Total != 1 || len(list.Data.Items) != 1 {
		t.Fatalf("total = %d, items = %d", list.Data.Total, len(list.Data.Items))
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/analyze/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var stats struct {
		Data struct {
			TotalAnalyses int64 `json:"total_analyses"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Data.TotalAnalyses != 1 {
		t.Fatalf("total analyses = %d, want 1", stats.Data.TotalAnalyses)
	}
}

func TestRecommendationLifecycle(t *testing.T) {
	stub := &stubAnalyzer{record: deepRecord()}
	_, router := newTestServer(t, stub, "pro")

	created := decodeAnalyze(t, doJSON(t, router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		Title:   "Crime report",
		Content: "The article describes a murder committed with a gun.",
	}))

	w := doJSON(t, router, http.MethodPost, "/api/v1/recommendations/track", TrackRecommendationRequest{
		AnalysisID:    created.Data.ID,
		OriginalText:  "murder",
		SuggestedText: "incident",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("track status = %d, body = %s", w.Code, w.Body.String())
	}
	var tracked struct {
		Data RecommendationDTO `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tracked); err != nil {
		t.Fatalf("decode tracked: %v", err)
	}
	if tracked.Data.ID == "" || tracked.Data.Implemented {
		t.Fatalf("unexpected tracked row: %+v", tracked.Data)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/recommendations/"+tracked.Data.ID+"/implemented", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("implemented status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/recommendations/"+tracked.Data.ID+"/feedback", FeedbackRequest{Rating: 4, Comment: "helped"})
	if w.Code != http.StatusOK {
		t.Fatalf("feedback status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/recommendations?implemented=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Data []RecommendationDTO `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Data) != 1 {
		t.Fatalf("listed %d recommendations, want 1", len(listed.Data))
	}
	row := listed.Data[0]
	if !row.Implemented || row.ImplementedAt == nil {
		t.Fatal("expected implemented stamp")
	}
	if row.FeedbackRating == nil || *row.FeedbackRating != 4 {
		t.Fatalf("feedback rating = %v, want 4", row.FeedbackRating)
	}
}

func TestRecommendationFeedbackRejectsBadRating(t *testing.T) {
	stub := &stubAnalyzer{record: deepRecord()}
	_, router := newTestServer(t, stub, "pro")

	created := decodeAnalyze(t, doJSON(t, router, http.MethodPost, "/api/v1/analyze", AnalyzeRequest{
		Title:   "Crime report",
		Content: "A murder with a gun.",
	}))
	w := doJSON(t, router, http.MethodPost, "/api/v1/recommendations/track", TrackRecommendationRequest{
		AnalysisID:    created.Data.ID,
		OriginalText:  "murder",
		SuggestedText: "incident",
	})
	var tracked struct {
		Data RecommendationDTO `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tracked); err != nil {
		t.Fatalf("decode tracked: %v", err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/recommendations/"+tracked.Data.ID+"/feedback", FeedbackRequest{Rating: 9})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUnknownAPIKeyRejected(t *testing.T) {
	_, router := newTestServer(t, nil, "free")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set("X-API-Key", "not-a-real-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRegenerateAPIKeyRotatesCredential(t *testing.T) {
	server, router := newTestServer(t, nil, "free")
	oldKey := server.devUser.APIKey

	w := doJSON(t, router, http.MethodPost, "/api/v1/user/regenerate-key", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			APIKey string `json:"api_key"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.APIKey == "" || resp.Data.APIKey == oldKey {
		t.Fatalf("expected a fresh key, got %q", resp.Data.APIKey)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set("X-API-Key", oldKey)
	rejected := httptest.NewRecorder()
	router.ServeHTTP(rejected, req)
	if rejected.Code != http.StatusUnauthorized {
		t.Fatalf("old key status = %d, want 401", rejected.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/user/me", nil)
	req.Header.Set("X-API-Key", resp.Data.APIKey)
	accepted := httptest.NewRecorder()
	router.ServeHTTP(accepted, req)
	if accepted.Code != http.StatusOK {
		t.Fatalf("new key status = %d, want 200", accepted.Code)
	}
}

func TestCurrentUserFallsBackToDevUser(t *testing.T) {
	_, router := newTestServer(t, nil, "pro")

	w := doJSON(t, router, http.MethodGet, "/api/v1/user/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var user struct {
		Data UserDTO `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Data.Email != "dev@localhost" {
		t.Fatalf("email = %q", user.Data.Email)
	}
	if user.Data.Tier != "pro" {
		t.Fatalf("tier = %q, want pro", user.Data.Tier)
	}
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"brand-suitability/backend/internal/analysis"
	"brand-suitability/backend/internal/screening"
)

// Config holds the semantic analyzer connection parameters.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

const anthropicVersion = "2023-06-01"

// Client implements Analyzer against the Anthropic Messages API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// NewClient constructs a Client if the supplied configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-sonnet-20241022"
	}
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrDisabled
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		temperature: temp,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Analyze submits the content for deep semantic analysis and normalizes
// the structured reply into a unified record. The caller's context bounds
// the call; on deadline the error carries FailureTimeout.
func (c *Client) Analyze(ctx context.Context, title, content, excerpt string) (analysis.Record, error) {
	if c == nil || !c.Enabled() {
		return analysis.Record{}, ErrDisabled
	}

	start := time.Now()

	payload := messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []message{
			{Role: "user", Content: buildPrompt(title, content, excerpt)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return analysis.Record{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return analysis.Record{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return analysis.Record{}, &Error{Kind: failureKindForTransport(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	// Status first: a non-200 is a transport failure regardless of what
	// the body looks like; gateways answer 502/503 with HTML. The API
	// error message is attached only when the body happens to decode.
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		var failed messagesResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failed); decodeErr == nil && failed.Error != nil {
			msg = fmt.Sprintf("status %d: %s (%s)", resp.StatusCode, failed.Error.Message, failed.Error.Type)
		}
		return analysis.Record{}, &Error{Kind: FailureTransport, Err: errors.New(msg)}
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return analysis.Record{}, &Error{Kind: FailureUnparsable, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	text := firstTextBlock(decoded)
	if text == "" {
		return analysis.Record{}, &Error{Kind: FailureUnparsable, Err: errors.New("empty analyzer reply")}
	}

	reply, raw, err := decodeAnalysisPayload(text)
	if err != nil {
		return analysis.Record{}, &Error{Kind: FailureUnparsable, Err: err}
	}

	record := c.normalize(reply, raw)
	record.ProcessingTimeMs = time.Since(start).Milliseconds()
	return record, nil
}

func failureKindForTransport(ctx context.Context, err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureTransport
}

func firstTextBlock(resp messagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			if trimmed := strings.TrimSpace(block.Text); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// decodeAnalysisPayload expects raw JSON but tolerates a markdown envelope:
// direct decode first, then a fenced-block unwrap.
func decodeAnalysisPayload(text string) (deepReply, json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	var reply deepReply
	if err := json.Unmarshal([]byte(trimmed), &reply); err == nil {
		return reply, json.RawMessage(trimmed), nil
	}
	block := normalizeJSONBlock(trimmed)
	if block != "" {
		if err := json.Unmarshal([]byte(block), &reply); err == nil {
			return reply, json.RawMessage(block), nil
		}
	}
	return deepReply{}, nil, errors.New("analyzer reply is not valid JSON")
}

func normalizeJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		if strings.HasSuffix(trimmed, "```") {
			trimmed = trimmed[:len(trimmed)-3]
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end >= start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

// normalize maps the wire reply onto the unified record, defaulting every
// absent field to an empty or neutral value instead of propagating nulls.
func (c *Client) normalize(reply deepReply, raw json.RawMessage) analysis.Record {
	record := analysis.Record{
		Fingerprint:     "",
		OverallScore:    clampScore(reply.OverallScore),
		RiskLevel:       riskLevelOrFloor(reply.GarmRiskLevel),
		Categories:      normalizeCategories(reply.GarmCategories),
		IABCategories:   make([]analysis.IABCategory, 0, len(reply.IABCategories)),
		SentimentScore:  clampFloat(reply.SentimentScore, -1, 1),
		RiskFlags:       make([]analysis.RiskFlag, 0, len(reply.RiskFlags)),
		FlaggedEntities: make([]analysis.FlaggedEntity, 0, len(reply.FlaggedEntities)),
		Recommendations: make([]analysis.Recommendation, 0, len(reply.Recommendations)),
		Method:          analysis.MethodAIOnly,
		ModelVersion:    c.model,
		Reasoning:       strings.TrimSpace(reply.Reasoning),
		RawResponse:     raw,
	}
	record.ToxicityFlags = analysis.ToxicityFlags{
		HateSpeech:    reply.ToxicityFlags.HateSpeech,
		Violence:      reply.ToxicityFlags.Violence,
		AdultContent:  reply.ToxicityFlags.AdultContent,
		Profanity:     reply.ToxicityFlags.Profanity,
		Controversial: reply.ToxicityFlags.Controversial,
	}
	for _, iab := range reply.IABCategories {
		record.IABCategories = append(record.IABCategories, analysis.IABCategory{
			ID:         iab.ID,
			Name:       iab.Name,
			Confidence: clampFloat(iab.Confidence, 0, 1),
		})
	}
	for _, flag := range reply.RiskFlags {
		record.RiskFlags = append(record.RiskFlags, analysis.RiskFlag{
			Type:        flag.Type,
			Severity:    flag.Severity,
			Description: flag.Description,
		})
	}
	for _, entity := range reply.FlaggedEntities {
		record.FlaggedEntities = append(record.FlaggedEntities, analysis.FlaggedEntity{
			Text:   entity.Text,
			Type:   entity.Type,
			Reason: entity.Reason,
		})
	}
	for _, rec := range reply.Recommendations {
		record.Recommendations = append(record.Recommendations, analysis.Recommendation{
			Issue:     rec.Issue,
			Location:  rec.Location,
			Original:  rec.Original,
			Suggested: rec.Suggested,
			Priority:  rec.Priority,
			Reasoning: rec.Reasoning,
		})
	}
	return record
}

// normalizeCategories reports all 12 taxonomy categories, filling the ones
// the analyzer omitted as undetected.
func normalizeCategories(wire map[string]deepCategory) map[analysis.CategoryKey]analysis.CategoryFinding {
	out := make(map[analysis.CategoryKey]analysis.CategoryFinding, len(screening.Taxonomy))
	for _, cat := range screening.Taxonomy {
		finding := analysis.CategoryFinding{Name: cat.Name}
		if raw, ok := wire[string(cat.Key)]; ok {
			finding.Detected = raw.Detected
			finding.Confidence = clampFloat(raw.Confidence, 0, 1)
			finding.Details = strings.TrimSpace(raw.Details)
		}
		out[cat.Key] = finding
	}
	return out
}

func riskLevelOrFloor(level string) analysis.RiskLevel {
	candidate := analysis.RiskLevel(strings.ToLower(strings.TrimSpace(level)))
	if candidate.Valid() {
		return candidate
	}
	return analysis.RiskFloor
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func clampFloat(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

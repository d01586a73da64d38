package ai

// Wire types for the analyzer's structured reply. Field names follow the
// JSON contract the prompt dictates, which is camelCase on the wire.

type deepCategory struct {
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
	Details    string  `json:"details"`
}

type deepIABCategory struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type deepToxicityFlags struct {
	HateSpeech    bool `json:"hateSpeech"`
	Violence      bool `json:"violence"`
	AdultContent  bool `json:"adultContent"`
	Profanity     bool `json:"profanity"`
	Controversial bool `json:"controversial"`
}

type deepRiskFlag struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type deepEntity struct {
	Text   string `json:"text"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type deepRecommendation struct {
	Issue     string `json:"issue"`
	Location  string `json:"location"`
	Original  string `json:"original"`
	Suggested string `json:"suggested"`
	Priority  string `json:"priority"`
	Reasoning string `json:"reasoning"`
}

type deepReply struct {
	OverallScore    float64                 `json:"overallScore"`
	GarmRiskLevel   string                  `json:"garmRiskLevel"`
	GarmCategories  map[string]deepCategory `json:"garmCategories"`
	IABCategories   []deepIABCategory       `json:"iabCategories"`
	SentimentScore  float64                 `json:"sentimentScore"`
	ToxicityFlags   deepToxicityFlags       `json:"toxicityFlags"`
	RiskFlags       []deepRiskFlag          `json:"riskFlags"`
	FlaggedEntities []deepEntity            `json:"flaggedEntities"`
	Recommendations []deepRecommendation    `json:"recommendations"`
	Reasoning       string                  `json:"reasoning"`
}

// Anthropic Messages API envelope.

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

package ai

import (
	"fmt"
	"strings"

	"brand-suitability/backend/internal/screening"
)

// buildPrompt renders the analysis request: the content under review, the
// required JSON output shape, and the 12-category taxonomy definitions
// that ground the analyzer's detections.
func buildPrompt(title, content, excerpt string) string {
	builder := &strings.Builder{}

	builder.WriteString("You are a brand suitability analyst. Analyze the following content and provide a comprehensive brand safety assessment.\n\n")
	fmt.Fprintf(builder, "Content Title: %s\n\n", title)
	fmt.Fprintf(builder, "Content Excerpt: %s\n\n", excerpt)
	fmt.Fprintf(builder, "Full Content:\n%s\n\n", content)

	builder.WriteString("Provide your analysis in the following JSON structure:\n{\n")
	builder.WriteString("  \"overallScore\": <number 0-100, where 100 is completely safe>,\n")
	builder.WriteString("  \"garmRiskLevel\": <\"floor\" | \"low\" | \"medium\" | \"high\">,\n")
	builder.WriteString("  \"garmCategories\": {\n")
	for i, cat := range screening.Taxonomy {
		sep := ","
		if i == len(screening.Taxonomy)-1 {
			sep = ""
		}
		fmt.Fprintf(builder, "    %q: {\"detected\": <boolean>, \"confidence\": <0-1>, \"details\": \"<explanation if detected>\"}%s\n", string(cat.Key), sep)
	}
	builder.WriteString("  },\n")
	builder.WriteString("  \"iabCategories\": [{\"id\": \"<IAB category ID like IAB1>\", \"name\": \"<category name>\", \"confidence\": <0-1>}],\n")
	builder.WriteString("  \"sentimentScore\": <number -1 to 1, where -1 is very negative, 0 is neutral, 1 is very positive>,\n")
	builder.WriteString("  \"toxicityFlags\": {\"hateSpeech\": <boolean>, \"violence\": <boolean>, \"adultContent\": <boolean>, \"profanity\": <boolean>, \"controversial\": <boolean>},\n")
	builder.WriteString("  \"riskFlags\": [{\"type\": \"<risk type>\", \"severity\": <\"low\" | \"medium\" | \"high\">, \"description\": \"<explanation>\"}],\n")
	builder.WriteString("  \"flaggedEntities\": [{\"text\": \"<entity name>\", \"type\": \"<PERSON | ORG | EVENT | etc>\", \"reason\": \"<why this is flagged>\"}],\n")
	builder.WriteString("  \"recommendations\": [{\"issue\": \"<specific issue found>\", \"location\": \"<paragraph/section where issue is>\", \"original\": \"<exact problematic text>\", \"suggested\": \"<suggested replacement text>\", \"priority\": <\"low\" | \"medium\" | \"high\">, \"reasoning\": \"<why this change improves brand suitability>\"}],\n")
	builder.WriteString("  \"reasoning\": \"<brief explanation of the score>\"\n}\n\n")

	builder.WriteString("GARM 12 Risk Categories:\n")
	for i, cat := range screening.Taxonomy {
		fmt.Fprintf(builder, "%d. %s - %s\n", i+1, cat.Name, cat.Definition)
	}
	builder.WriteString("\nGARM Risk Level Guidelines:\n")
	builder.WriteString("- floor: No risk, completely brand safe\n")
	builder.WriteString("- low: Minimal risk, safe for most brands\n")
	builder.WriteString("- medium: Some risk, may not be suitable for all brands\n")
	builder.WriteString("- high: Significant risk, not suitable for most brands\n\n")

	builder.WriteString("IAB Categories (use standard IAB Content Taxonomy v3.0):\n")
	builder.WriteString("Common examples: IAB1 (Arts & Entertainment), IAB3 (Business), IAB5 (Education), IAB7 (Health & Fitness), IAB11 (Law, Government & Politics), IAB12 (News), IAB14 (Society), IAB17 (Sports), IAB19 (Technology & Computing)\n\n")

	builder.WriteString("IMPORTANT: Provide 3-5 actionable recommendations with specific text replacements where content could be improved for brand safety. Be specific about the location and exact text to change.\n\n")
	builder.WriteString("Be thorough but conservative in your assessment. When in doubt, flag potential risks. Emit nothing outside the JSON object.")

	return builder.String()
}

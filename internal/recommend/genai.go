package recommend

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/utils"
)

const DefaultModel = "gemini-2.0-flash"

// GenAIRecommender ranks challenges and writes travel directions with Gemini.
type GenAIRecommender struct {
	client *genai.Client
	model  string
}

func NewGenAIRecommender(ctx context.Context, apiKey, model string) (*GenAIRecommender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIRecommender{client: client, model: model}, nil
}

func (r *GenAIRecommender) generate(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned an empty answer")
	}
	return text, nil
}

func describe(challenges []*challenge.Challenge) string {
	var b strings.Builder
	for _, c := range challenges {
		fmt.Fprintf(&b, "%s: %s - %s - %s\n", c.ID, c.Title, c.Category, c.Description)
	}
	return b.String()
}

func (r *GenAIRecommender) RankIDs(ctx context.Context, preferences string, challenges []*challenge.Challenge) ([]string, error) {
	prompt := fmt.Sprintf(`You are a recommendation system for a social platform built around location challenges. `+
		`Given the user preferences: %q and a list of challenges, rank the challenges by relevance to the preferences. `+
		`Return only the challenge IDs, most relevant first, comma separated.

Challenges:
%s
Ranked Challenge IDs:`, preferences, describe(challenges))

	text, err := r.generate(ctx, prompt, 0.7, 200)
	if err != nil {
		return nil, err
	}
	return utils.ParseRankedIDs(text), nil
}

func (r *GenAIRecommender) RecommendTitles(ctx context.Context, challenges []*challenge.Challenge) ([]string, error) {
	prompt := fmt.Sprintf(`Pick the challenges most people would enjoy from the list below. `+
		`Answer with their exact titles, each wrapped in double asterisks like **Title**.

Challenges:
%s`, describe(challenges))

	text, err := r.generate(ctx, prompt, 0.7, 200)
	if err != nil {
		return nil, err
	}
	return utils.ExtractBoldTitles(text), nil
}

func (r *GenAIRecommender) SuggestDirections(ctx context.Context, start, end challenge.Coordinate) (string, error) {
	prompt := fmt.Sprintf(`Suggest ways to travel from %.6f, %.6f to %.6f, %.6f. `+
		`Give short step by step plans for public transport (bus, train, cab) and for driving. `+
		`Keep it concise and actionable.`,
		start.Latitude, start.Longitude, end.Latitude, end.Longitude)

	return r.generate(ctx, prompt, 0.4, 500)
}

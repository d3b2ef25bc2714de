package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/focusflow/focusflow/internal/store"
)

const geminiModel = "gemini-2.0-flash"

// activityPrompt instructs the model to return strict JSON. The Career vs
// Leisure rules matter most: "worked on X" is productive effort even when X
// is a hobby project, while "played X" is entertainment.
const activityPrompt = `You are a data extraction engine for a productivity tracking app. Analyze the user's natural language text describing an activity they did.

Categories (use these EXACTLY):
- Career: productive work, learning, building things. "Worked on X" or "working on X" is ALWAYS Career unless the text says "for fun" or "as a hobby".
- Health: physical or mental wellness (gym, running, yoga, meditation, sleep).
- Leisure: entertainment and passive consumption (games, Netflix, YouTube, social media scrolling). "Social media" is Leisure, never Social.
- Chores: necessary household tasks (cleaning, laundry, groceries, errands).
- Social: real interpersonal interaction (dinner with friends, calling family, dates).

Return STRICT JSON with these fields:
{
  "activity_name": "A clean, concise name for the activity (2-4 words)",
  "category": "Career|Health|Leisure|Chores|Social",
  "duration_minutes": number or null if not specified,
  "sentiment_score": number from -1.0 to 1.0 (negative=frustrated, positive=happy),
  "is_focus_session": boolean (true if text implies deep work or flow state)
}

Only return the JSON object, no other text.`

var codeFenceRe = regexp.MustCompile("^```(?:json)?\n?|\n?```$")

// Gemini parses activities with the Gemini API and falls back to the
// heuristic parser whenever the call or its output is unusable.
type Gemini struct {
	client   *genai.Client
	model    string
	fallback *Heuristic
	logger   zerolog.Logger
}

// NewGemini creates the LLM-backed parser.
func NewGemini(ctx context.Context, apiKey string, logger zerolog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{
		client:   client,
		model:    geminiModel,
		fallback: NewHeuristic(),
		logger:   logger,
	}, nil
}

// geminiResult is the wire shape the prompt asks for. DurationMinutes is a
// pointer because the model returns null for unspecified durations.
type geminiResult struct {
	ActivityName    string  `json:"activity_name"`
	Category        string  `json:"category"`
	DurationMinutes *int    `json:"duration_minutes"`
	SentimentScore  float64 `json:"sentiment_score"`
	IsFocusSession  bool    `json:"is_focus_session"`
}

// Parse implements the Parser interface.
func (g *Gemini) Parse(ctx context.Context, text string) (Parsed, error) {
	parsed, err := g.parseLLM(ctx, text)
	if err != nil {
		g.logger.Warn().Err(err).Msg("llm parsing failed, using heuristic fallback")
		return g.fallback.Parse(ctx, text)
	}
	return parsed, nil
}

func (g *Gemini) parseLLM(ctx context.Context, text string) (Parsed, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(activityPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
		MaxOutputTokens:   200,
	})
	if err != nil {
		return Parsed{}, fmt.Errorf("generate content: %w", err)
	}

	raw := strings.TrimSpace(result.Text())
	// Models occasionally wrap the JSON in a markdown fence despite the prompt.
	raw = codeFenceRe.ReplaceAllString(raw, "")

	var out geminiResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Parsed{}, fmt.Errorf("parse llm response: %w", err)
	}

	category := store.Category(out.Category)
	if !category.Valid() {
		return Parsed{}, fmt.Errorf("invalid category in llm response: %q", out.Category)
	}

	name := out.ActivityName
	if name == "" {
		name = activityName(text)
	}
	duration := 0
	if out.DurationMinutes != nil {
		duration = *out.DurationMinutes
	}

	parsed := Parsed{
		Name:            name,
		Category:        category,
		DurationMinutes: duration,
		SentimentScore:  out.SentimentScore,
		IsFocusSession:  out.IsFocusSession,
	}
	parsed.ProductivityScore = WeightedScore(category, duration, out.IsFocusSession)
	return parsed, nil
}

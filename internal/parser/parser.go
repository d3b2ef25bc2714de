// Package parser turns free-form activity text into structured entries.
// Two implementations exist: Heuristic (keyword and regex rules, always
// available) and Gemini (LLM-backed, used when GEMINI_API_KEY is set).
// The Gemini parser falls back to Heuristic on any failure, so Parse never
// leaves the user without a result.
package parser

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/focusflow/focusflow/internal/store"
)

// Parsed is the structured form of one activity description.
// DurationMinutes is 0 when the text did not specify a duration; scoring
// treats that as 30 minutes.
type Parsed struct {
	Name              string         `json:"activity_name"`
	Category          store.Category `json:"category"`
	DurationMinutes   int            `json:"duration_minutes"`
	SentimentScore    float64        `json:"sentiment_score"`
	IsFocusSession    bool           `json:"is_focus_session"`
	ProductivityScore float64        `json:"productivity_score"`
}

// Parser extracts a structured activity from raw text.
type Parser interface {
	Parse(ctx context.Context, text string) (Parsed, error)
}

// BaseScores are the per-hour productivity scores by category. Leisure is
// negative on purpose: logging it is honest, rewarding it is not.
var BaseScores = map[store.Category]float64{
	store.CategoryCareer:  10,
	store.CategoryHealth:  8,
	store.CategorySocial:  5,
	store.CategoryChores:  4,
	store.CategoryLeisure: -5,
}

// FocusMultiplier boosts Career and Health scores for focus sessions.
const FocusMultiplier = 1.2

// DefaultDurationMinutes is assumed when the text gave no duration.
const DefaultDurationMinutes = 30

// WeightedScore computes the productivity score:
//
//	score = baseScore * min(durationHours, 4) [* 1.2 if focused]
//
// Duration defaults to 30 minutes and is capped at 4 hours to prevent a
// single marathon entry from dwarfing everything else. The focus
// multiplier only applies to Career and Health.
func WeightedScore(category store.Category, durationMinutes int, isFocusSession bool) float64 {
	base := BaseScores[category]

	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}
	factor := math.Min(float64(durationMinutes)/60, 4.0)

	score := base * factor
	if isFocusSession && (category == store.CategoryCareer || category == store.CategoryHealth) {
		score *= FocusMultiplier
	}
	return math.Round(score*100) / 100
}

// Select picks the parser implementation: Gemini with heuristic fallback
// when an API key is configured, plain heuristic otherwise.
func Select(ctx context.Context, apiKey string, logger zerolog.Logger) Parser {
	if apiKey == "" {
		logger.Info().Msg("no Gemini API key configured, using heuristic parser")
		return NewHeuristic()
	}

	gemini, err := NewGemini(ctx, apiKey, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("gemini parser unavailable, using heuristic parser")
		return NewHeuristic()
	}
	logger.Info().Str("model", gemini.model).Msg("using gemini parser with heuristic fallback")
	return gemini
}

package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/focusflow/focusflow/internal/store"
)

// durationPatterns extract an explicit duration from the text. First match
// wins, so hour forms come before minute forms.
var durationPatterns = []struct {
	re       *regexp.Regexp
	toMinute func(string) int
}{
	{regexp.MustCompile(`(\d+)\s*hours?`), func(s string) int { n, _ := strconv.Atoi(s); return n * 60 }},
	{regexp.MustCompile(`(\d+)\s*hrs?`), func(s string) int { n, _ := strconv.Atoi(s); return n * 60 }},
	{regexp.MustCompile(`(\d+)\s*minutes?`), func(s string) int { n, _ := strconv.Atoi(s); return n }},
	{regexp.MustCompile(`(\d+)\s*mins?`), func(s string) int { n, _ := strconv.Atoi(s); return n }},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h\b`), func(s string) int { f, _ := strconv.ParseFloat(s, 64); return int(f * 60) }},
}

// Phrases like "worked on X" always mean productive effort, regardless of
// what X is, unless an explicit hobby marker overrides them.
var workPhrases = []string{
	"worked on", "working on", "spent time on", "finished",
	"completed", "built", "building", "developed", "developing",
}

var funMarkers = []string{
	"for fun", "as a hobby", "just for fun", "playing around",
	"messing around", "fooling around",
}

// Keyword groups checked in order. "social media" is deliberately in the
// leisure group: scrolling is passive consumption, not human interaction.
var leisureKeywords = []string{
	"game", "gaming", "played", "playing", "netflix", "tv", "youtube", "movie", "movies",
	"relax", "chill", "scroll", "scrolling", "browse", "browsing",
	"social media", "instagram", "tiktok", "twitter", "reddit", "facebook",
	"snapchat", "discord", "twitch", "streamer", "anime", "manga",
	"binge", "show", "series", "podcast", "spotify",
	"phone", "internet", "surf", "surfing", "leisure",
	"entertainment", "downtime", "procrastinat",
}

var careerKeywords = []string{
	"work", "study", "studying", "code", "coding",
	"project", "meeting", "email", "learn", "learning",
	"read", "reading", "research", "class", "course",
	"homework", "assignment", "practice", "training",
	"interview", "job", "professional", "side project",
	"personal project",
}

var healthKeywords = []string{
	"gym", "exercise", "workout", "run", "running",
	"yoga", "meditat", "walk", "walking", "sleep",
	"nap", "stretch", "lift", "swim", "bike",
	"hike", "sport", "healthy", "health",
}

var socialKeywords = []string{
	"with friend", "with family", "with mom", "with dad",
	"with brother", "with sister", "with partner",
	"hangout", "hanging out", "party", "date",
	"dinner with", "lunch with", "coffee with",
	"called", "call with", "talking to", "talked to",
	"visited", "visiting", "met with", "meeting with",
}

var choresKeywords = []string{
	"clean", "cleaning", "laundry", "dishes", "grocery",
	"groceries", "errand", "organize", "vacuum",
	"cook", "cooking", "chore", "task", "housework",
}

var focusKeywords = []string{
	"focus", "focused", "deep work", "flow", "concentrated",
	"productive", "zone", "uninterrupted",
}

// Heuristic parses activities with regex and keyword rules. It never errs,
// defaulting ambiguous text to Career.
type Heuristic struct{}

// NewHeuristic creates the rule-based parser.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Parse implements the Parser interface.
func (h *Heuristic) Parse(ctx context.Context, text string) (Parsed, error) {
	lower := strings.ToLower(text)

	duration := 0
	for _, p := range durationPatterns {
		if m := p.re.FindStringSubmatch(lower); m != nil {
			duration = p.toMinute(m[1])
			break
		}
	}

	category := classify(lower)
	isFocus := containsAny(lower, focusKeywords)

	parsed := Parsed{
		Name:            activityName(text),
		Category:        category,
		DurationMinutes: duration,
		SentimentScore:  0,
		IsFocusSession:  isFocus,
	}
	parsed.ProductivityScore = WeightedScore(category, duration, isFocus)
	return parsed, nil
}

// classify applies the category rules in priority order.
func classify(lower string) store.Category {
	isWork := containsAny(lower, workPhrases)
	isForFun := containsAny(lower, funMarkers)

	switch {
	case isWork && !isForFun:
		return store.CategoryCareer
	case containsAny(lower, leisureKeywords) && !isWork:
		return store.CategoryLeisure
	case containsAny(lower, careerKeywords):
		return store.CategoryCareer
	case containsAny(lower, healthKeywords):
		return store.CategoryHealth
	case containsAny(lower, socialKeywords):
		return store.CategorySocial
	case containsAny(lower, choresKeywords):
		return store.CategoryChores
	default:
		return store.CategoryCareer
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// activityName title-cases the first five words of the input.
func activityName(text string) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) > 5 {
		words = words[:5]
	}
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
		}
	}
	return strings.Join(words, " ")
}

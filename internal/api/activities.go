package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/gamification"
	"github.com/focusflow/focusflow/internal/parser"
	"github.com/focusflow/focusflow/internal/store"
	"github.com/focusflow/focusflow/internal/telemetry"
)

type logActivityRequest struct {
	Text      *string `json:"text"`
	RawInput  *string `json:"raw_input"`
	LocalHour *int    `json:"local_hour"`
	Source    string  `json:"source"`
}

type gamificationResult struct {
	XPAwarded int                  `json:"xp_awarded"`
	TotalXP   int                  `json:"total_xp"`
	OldLevel  int                  `json:"old_level"`
	NewLevel  int                  `json:"new_level"`
	LeveledUp bool                 `json:"leveled_up"`
	NewBadges []gamification.Badge `json:"new_badges"`
}

type logActivityResponse struct {
	Success                   bool               `json:"success"`
	Activity                  *store.Activity    `json:"activity"`
	Gamification              gamificationResult `json:"gamification"`
	CreditsEarned             int                `json:"credits_earned"`
	TotalCredits              int                `json:"total_credits"`
	ProductiveMinutesProgress int                `json:"productive_minutes_progress"`
}

// handleLogActivity parses free-form text into an activity, stores it, and
// runs the whole gamification pass: XP, level, badges, and chest credit
// accrual.
func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req logActivityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Text == nil && req.RawInput == nil {
		BadRequestError(w, r, ErrCodeValidation, "Missing 'text' or 'raw_input'")
		return
	}
	text := ""
	if req.Text != nil {
		text = strings.TrimSpace(*req.Text)
	}
	if text == "" && req.RawInput != nil {
		text = strings.TrimSpace(*req.RawInput)
	}
	if text == "" {
		BadRequestError(w, r, ErrCodeValidation, "Text cannot be empty")
		return
	}

	source := store.SourceManual
	if req.Source != "" {
		source = store.Source(req.Source)
		if !source.Valid() {
			ValidationError(w, r, "Validation failed for one or more fields", map[string]string{
				"source": "Source must be manual, google_calendar, apple_health, or api",
			})
			return
		}
	}

	// Local hour is advisory; out-of-range values are ignored, not rejected.
	localHour := -1
	if req.LocalHour != nil && *req.LocalHour >= 0 && *req.LocalHour <= 23 {
		localHour = *req.LocalHour
	}

	parsed, err := s.parser.Parse(r.Context(), text)
	if err != nil {
		InternalError(w, r, "Failed to parse activity")
		return
	}
	duration := parsed.DurationMinutes
	if duration <= 0 {
		duration = parser.DefaultDurationMinutes
	}

	now := time.Now().UTC()
	activity, err := s.store.CreateActivity(r.Context(), store.CreateActivityParams{
		UserID:            userID,
		RawInput:          text,
		Name:              parsed.Name,
		Category:          parsed.Category,
		DurationMinutes:   duration,
		SentimentScore:    parsed.SentimentScore,
		ProductivityScore: parsed.ProductivityScore,
		IsFocusSession:    parsed.IsFocusSession,
		Source:            source,
		Timestamp:         now,
	})
	if err != nil {
		InternalError(w, r, "Failed to store activity")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to load user")
		return
	}
	history, err := s.store.ListAllActivities(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to load activity history")
		return
	}

	// XP and level
	xpGain := gamification.XPGain(parsed.ProductivityScore)
	oldLevel := user.Level
	totalXP := user.XP + xpGain
	newLevel := gamification.LevelForXP(totalXP)
	leveledUp := newLevel > oldLevel
	storedLevel := oldLevel
	if leveledUp {
		storedLevel = newLevel
	}

	// Chest credits accrue from cumulative productive minutes.
	creditsEarned, remainder := gamification.AccrueCredits(user.ProductiveMinutes, parsed.ProductivityScore, duration)

	if err := s.store.UpdateUserProgress(r.Context(), store.ProgressParams{
		UserID:            userID,
		XP:                totalXP,
		Level:             storedLevel,
		ChestCredits:      user.ChestCredits + creditsEarned,
		ProductiveMinutes: remainder,
	}); err != nil {
		InternalError(w, r, "Failed to update progress")
		return
	}

	// Badges: evaluate every condition against the updated history, then
	// keep the ones this activity newly earned.
	newBadges := []gamification.Badge{}
	check := gamification.BadgeCheck{
		Activity:  *activity,
		History:   history,
		LocalHour: localHour,
		Now:       now,
		TZOffset:  0,
	}
	for _, badge := range gamification.EarnedBadges(check) {
		isNew, err := s.store.GrantBadge(r.Context(), userID, badge.Name, now)
		if err != nil {
			InternalError(w, r, "Failed to record badge")
			return
		}
		if isNew {
			newBadges = append(newBadges, badge)
		}
	}

	telemetry.ActivitiesLogged.WithLabelValues(string(activity.Category), string(activity.Source)).Inc()
	telemetry.CreditsEarned.Add(float64(creditsEarned))

	s.logger.Info().
		Int("user_id", userID).
		Str("category", string(activity.Category)).
		Float64("score", activity.ProductivityScore).
		Int("xp_awarded", xpGain).
		Int("credits_earned", creditsEarned).
		Msg("activity logged")

	writeJSON(w, http.StatusCreated, logActivityResponse{
		Success:  true,
		Activity: activity,
		Gamification: gamificationResult{
			XPAwarded: xpGain,
			TotalXP:   totalXP,
			OldLevel:  oldLevel,
			NewLevel:  newLevel,
			LeveledUp: leveledUp,
			NewBadges: newBadges,
		},
		CreditsEarned:             creditsEarned,
		TotalCredits:              user.ChestCredits + creditsEarned,
		ProductiveMinutesProgress: remainder,
	})
}

// handleListActivities returns the activities on one local calendar day.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	date, ok := dateParam(r, "date")
	if !ok {
		BadRequestError(w, r, ErrCodeValidation, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	tzOffset := intParam(r, "tz_offset", 0)
	limit := intParam(r, "limit", 50)
	if limit > 100 {
		limit = 100
	}

	start, end := dayWindowUTC(date, tzOffset)
	activities, err := s.store.ListActivities(r.Context(), userID, start, end, limit)
	if err != nil {
		InternalError(w, r, "Failed to list activities")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":       date.Format("2006-01-02"),
		"count":      len(activities),
		"activities": activities,
	})
}

type updateActivityRequest struct {
	ActivityName    *string `json:"activity_name"`
	DurationMinutes *int    `json:"duration_minutes"`
	Category        *string `json:"category"`
}

// handleUpdateActivity edits an activity's name, duration, or category.
// Duration is clamped to one minute through one day, and the productivity
// score is recalculated when duration or category actually change.
func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	activityID, ok := urlParamInt(r, "id")
	if !ok {
		BadRequestError(w, r, ErrCodeValidation, "Activity ID must be an integer")
		return
	}

	var req updateActivityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var category *store.Category
	if req.Category != nil {
		c := store.Category(*req.Category)
		if !c.Valid() {
			ValidationError(w, r, "Validation failed for one or more fields", map[string]string{
				"category": "Category must be Career, Health, Leisure, Chores, or Social",
			})
			return
		}
		category = &c
	}

	existing, err := s.store.GetActivity(r.Context(), userID, activityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "Activity not found")
			return
		}
		InternalError(w, r, "Failed to load activity")
		return
	}

	params := store.UpdateActivityParams{UserID: userID, ActivityID: activityID}
	needsScoreUpdate := false

	if req.ActivityName != nil {
		name := strings.TrimSpace(*req.ActivityName)
		params.Name = &name
	}

	newCategory := existing.Category
	if category != nil && *category != existing.Category {
		params.Category = category
		newCategory = *category
		needsScoreUpdate = true
	}

	newDuration := existing.DurationMinutes
	if req.DurationMinutes != nil && *req.DurationMinutes != existing.DurationMinutes {
		clamped := *req.DurationMinutes
		if clamped < 1 {
			clamped = 1
		}
		if clamped > 1440 {
			clamped = 1440
		}
		params.DurationMinutes = &clamped
		newDuration = clamped
		needsScoreUpdate = true
	}

	if needsScoreUpdate {
		score := parser.WeightedScore(newCategory, newDuration, existing.IsFocusSession)
		params.ProductivityScore = &score
	}

	activity, err := s.store.UpdateActivity(r.Context(), params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "Activity not found")
			return
		}
		InternalError(w, r, "Failed to update activity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"activity": activity,
	})
}

// handleDeleteActivity removes an activity.
func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	activityID, ok := urlParamInt(r, "id")
	if !ok {
		BadRequestError(w, r, ErrCodeValidation, "Activity ID must be an integer")
		return
	}

	if err := s.store.DeleteActivity(r.Context(), userID, activityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "Activity not found")
			return
		}
		InternalError(w, r, "Failed to delete activity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Activity deleted",
	})
}

type categoryStat struct {
	Minutes int `json:"minutes"`
	Count   int `json:"count"`
}

// handleDashboard aggregates one local day: score, category breakdown,
// sentiment, level progress, and streak.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	date, ok := dateParam(r, "date")
	if !ok {
		BadRequestError(w, r, ErrCodeValidation, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	tzOffset := intParam(r, "tz_offset", 0)

	start, end := dayWindowUTC(date, tzOffset)
	activities, err := s.store.ListActivities(r.Context(), userID, start, end, 0)
	if err != nil {
		InternalError(w, r, "Failed to list activities")
		return
	}

	dailyScore := 0.0
	sentimentSum := 0.0
	breakdown := make(map[string]categoryStat)
	for _, a := range activities {
		dailyScore += a.ProductivityScore
		sentimentSum += a.SentimentScore
		stat := breakdown[string(a.Category)]
		stat.Minutes += a.DurationMinutes
		stat.Count++
		breakdown[string(a.Category)] = stat
	}

	avgSentiment := 0.0
	if len(activities) > 0 {
		avgSentiment = round2(sentimentSum / float64(len(activities)))
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to load user")
		return
	}
	history, err := s.store.ListAllActivities(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to load activity history")
		return
	}

	progress := gamification.LevelProgressFor(user.XP)
	streak := gamification.CalculateStreak(history, time.Now().UTC(), tzOffset)

	writeJSON(w, http.StatusOK, map[string]any{
		"date":               date.Format("2006-01-02"),
		"daily_score":        round2(dailyScore),
		"activity_count":     len(activities),
		"average_sentiment":  avgSentiment,
		"category_breakdown": breakdown,
		"level":              progress.Level,
		"xp":                 user.XP,
		"level_progress":     progress,
		"streak":             streak,
	})
}

type heatmapEntry struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

// handleHeatmap returns a year of per-day activity counts and scores,
// grouped by the user's local date.
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	tzOffset := intParam(r, "tz_offset", 0)

	now := time.Now().UTC()
	endDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startDate := endDate.AddDate(0, 0, -365)

	activities, err := s.store.ListActivities(r.Context(), userID, startDate, endDate.AddDate(0, 0, 1), 0)
	if err != nil {
		InternalError(w, r, "Failed to list activities")
		return
	}

	type dayAgg struct {
		count int
		score float64
	}
	daily := make(map[string]dayAgg)
	for _, a := range activities {
		local := a.Timestamp.Add(-time.Duration(tzOffset) * time.Minute)
		key := local.Format("2006-01-02")
		agg := daily[key]
		agg.count++
		agg.score += a.ProductivityScore
		daily[key] = agg
	}

	keys := make([]string, 0, len(daily))
	for key := range daily {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data := make([]heatmapEntry, 0, len(keys))
	for _, key := range keys {
		agg := daily[key]
		data = append(data, heatmapEntry{Date: key, Count: agg.count, Score: round2(agg.score)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start_date": startDate.Format("2006-01-02"),
		"end_date":   endDate.Format("2006-01-02"),
		"data":       data,
	})
}

// handleWeeklyRecap summarizes last week (Monday through Sunday) with a
// trend against the week before.
func (s *Server) handleWeeklyRecap(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	thisMonday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	weekStart := thisMonday.AddDate(0, 0, -7)
	weekEnd := thisMonday.AddDate(0, 0, -1)
	prevStart := weekStart.AddDate(0, 0, -7)

	activities, err := s.store.ListActivities(r.Context(), userID, weekStart, thisMonday, 0)
	if err != nil {
		InternalError(w, r, "Failed to list activities")
		return
	}
	prevActivities, err := s.store.ListActivities(r.Context(), userID, prevStart, weekStart, 0)
	if err != nil {
		InternalError(w, r, "Failed to list activities")
		return
	}

	totalScore := 0.0
	totalMinutes := 0
	breakdown := make(map[string]categoryStat)
	dailyScores := make(map[string]float64)
	for _, a := range activities {
		totalScore += a.ProductivityScore
		totalMinutes += a.DurationMinutes
		stat := breakdown[string(a.Category)]
		stat.Minutes += a.DurationMinutes
		stat.Count++
		breakdown[string(a.Category)] = stat
		dailyScores[a.Timestamp.Format("2006-01-02")] += a.ProductivityScore
	}

	prevScore := 0.0
	for _, a := range prevActivities {
		prevScore += a.ProductivityScore
	}
	trend := 0.0
	switch {
	case prevScore > 0:
		trend = (totalScore - prevScore) / prevScore * 100
	case totalScore > 0:
		trend = 100
	}

	var topDay map[string]any
	bestScore := 0.0
	days := make([]string, 0, len(dailyScores))
	for day := range dailyScores {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		if topDay == nil || dailyScores[day] > bestScore {
			bestScore = dailyScores[day]
			topDay = map[string]any{"date": day, "score": round2(bestScore)}
		}
	}

	badges, err := s.store.ListUserBadges(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to load badges")
		return
	}
	badgesEarned := []gamification.Badge{}
	for _, owned := range badges {
		if owned.EarnedAt.Before(weekStart) || !owned.EarnedAt.Before(thisMonday) {
			continue
		}
		if badge, found := gamification.BadgeByName(owned.Name); found {
			badgesEarned = append(badgesEarned, badge)
		}
	}

	history, err := s.store.ListAllActivities(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to load activity history")
		return
	}
	streak := gamification.CalculateStreak(history, now, 0)

	writeJSON(w, http.StatusOK, map[string]any{
		"week_start":         weekStart.Format("2006-01-02"),
		"week_end":           weekEnd.Format("2006-01-02"),
		"total_activities":   len(activities),
		"total_score":        round1(totalScore),
		"total_hours":        round1(float64(totalMinutes) / 60),
		"category_breakdown": breakdown,
		"trend_vs_previous":  round1(trend),
		"top_day":            topDay,
		"badges_earned":      badgesEarned,
		"streak_max":         streak.Longest,
	})
}

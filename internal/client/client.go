// Package client is the typed HTTP client for the FocusFlow API, shared by
// the CLI commands and the terminal UI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/focusflow/focusflow/internal/gamification"
	"github.com/focusflow/focusflow/internal/loot"
	"github.com/focusflow/focusflow/internal/store"
)

// Client is an HTTP client for the FocusFlow API
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	mu          sync.Mutex
	catalogETag string
	catalog     []loot.Item
}

// NewClient creates a new API client. Token may be empty for the public
// endpoints; Login and Register store the returned session token on the
// client so later calls are authenticated.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
}

// apiErrorFromResponse drains the body and extracts the structured error
// fields when the server sent them, falling back to the raw body.
func apiErrorFromResponse(resp *http.Response) *APIError {
	bodyBytes, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode, Message: string(bodyBytes)}

	var wire struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(bodyBytes, &wire); err == nil && wire.Message != "" {
		apiErr.Message = wire.Message
		apiErr.Code = wire.Code
	}
	return apiErr
}

// do runs one JSON request. in and out may be nil for bodyless requests and
// discarded responses.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiErrorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ===== Auth =====

// Session carries the token and user returned by register and login.
type Session struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

// Register creates an account and logs the client in.
func (c *Client) Register(ctx context.Context, email, name, password string) (*Session, error) {
	body := map[string]string{"email": email, "name": name, "password": password}

	var session Session
	if err := c.do(ctx, "POST", "/api/auth/register", nil, body, &session); err != nil {
		return nil, err
	}
	c.Token = session.Token
	return &session, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, "POST", "/api/auth/login", nil, body, &session); err != nil {
		return nil, err
	}
	c.Token = session.Token
	return &session, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*store.User, error) {
	var result struct {
		User *store.User `json:"user"`
	}
	if err := c.do(ctx, "GET", "/api/auth/me", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// ===== Activities =====

// LogParams describes one activity to log. LocalHour is the caller's local
// hour of day (0-23); pass -1 to let the server fall back to UTC.
type LogParams struct {
	Text      string
	LocalHour int
	Source    string
}

// GamificationSummary is the XP, level, and badge outcome of one log.
type GamificationSummary struct {
	XPAwarded int                  `json:"xp_awarded"`
	TotalXP   int                  `json:"total_xp"`
	OldLevel  int                  `json:"old_level"`
	NewLevel  int                  `json:"new_level"`
	LeveledUp bool                 `json:"leveled_up"`
	NewBadges []gamification.Badge `json:"new_badges"`
}

// LogResult is the server's response to a logged activity.
type LogResult struct {
	Success                   bool                `json:"success"`
	Activity                  *store.Activity     `json:"activity"`
	Gamification              GamificationSummary `json:"gamification"`
	CreditsEarned             int                 `json:"credits_earned"`
	TotalCredits              int                 `json:"total_credits"`
	ProductiveMinutesProgress int                 `json:"productive_minutes_progress"`
}

// LogActivity parses and records one activity.
func (c *Client) LogActivity(ctx context.Context, params LogParams) (*LogResult, error) {
	body := map[string]any{"text": params.Text}
	if params.LocalHour >= 0 && params.LocalHour <= 23 {
		body["local_hour"] = params.LocalHour
	}
	if params.Source != "" {
		body["source"] = params.Source
	}

	var result LogResult
	if err := c.do(ctx, "POST", "/api/log_activity", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ActivitiesPage is one day of activities, newest first.
type ActivitiesPage struct {
	Date       string           `json:"date"`
	Count      int              `json:"count"`
	Activities []store.Activity `json:"activities"`
}

// Activities lists activities for a date (YYYY-MM-DD, empty for today).
func (c *Client) Activities(ctx context.Context, date string, limit int) (*ActivitiesPage, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var page ActivitiesPage
	if err := c.do(ctx, "GET", "/api/activities", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateParams holds the editable activity fields. Nil fields are left
// unchanged.
type UpdateParams struct {
	ActivityName    *string `json:"activity_name,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Category        *string `json:"category,omitempty"`
}

// UpdateActivity edits an activity and returns the updated record.
func (c *Client) UpdateActivity(ctx context.Context, id int, params UpdateParams) (*store.Activity, error) {
	var result struct {
		Activity *store.Activity `json:"activity"`
	}
	if err := c.do(ctx, "PUT", "/api/activities/"+strconv.Itoa(id), nil, params, &result); err != nil {
		return nil, err
	}
	return result.Activity, nil
}

// DeleteActivity removes an activity.
func (c *Client) DeleteActivity(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", "/api/activities/"+strconv.Itoa(id), nil, nil, nil)
}

// ===== Insights =====

// CategoryStat is the per-category share of a time window.
type CategoryStat struct {
	Minutes int `json:"minutes"`
	Count   int `json:"count"`
}

// Dashboard is the one-day summary view.
type Dashboard struct {
	Date              string                     `json:"date"`
	DailyScore        float64                    `json:"daily_score"`
	ActivityCount     int                        `json:"activity_count"`
	AverageSentiment  float64                    `json:"average_sentiment"`
	CategoryBreakdown map[string]CategoryStat    `json:"category_breakdown"`
	Level             int                        `json:"level"`
	XP                int                        `json:"xp"`
	LevelProgress     gamification.LevelProgress `json:"level_progress"`
	Streak            gamification.Streak        `json:"streak"`
}

// GetDashboard fetches the daily summary. date is YYYY-MM-DD, empty for
// today; tzOffset is minutes behind UTC as reported by the caller's clock.
func (c *Client) GetDashboard(ctx context.Context, date string, tzOffset int) (*Dashboard, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	q.Set("tz_offset", strconv.Itoa(tzOffset))

	var dashboard Dashboard
	if err := c.do(ctx, "GET", "/api/dashboard", q, nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// HeatmapEntry is one local day's activity count and score.
type HeatmapEntry struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

// Heatmap is a year of daily activity, days with no entries omitted.
type Heatmap struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Data      []HeatmapEntry `json:"data"`
}

// GetHeatmap fetches the trailing year of per-day activity.
func (c *Client) GetHeatmap(ctx context.Context, tzOffset int) (*Heatmap, error) {
	q := url.Values{}
	q.Set("tz_offset", strconv.Itoa(tzOffset))

	var heatmap Heatmap
	if err := c.do(ctx, "GET", "/api/activities/heatmap", q, nil, &heatmap); err != nil {
		return nil, err
	}
	return &heatmap, nil
}

// TopDay is the highest-scoring day of a recap week.
type TopDay struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// WeeklyRecap summarizes last week against the week before.
type WeeklyRecap struct {
	WeekStart         string                  `json:"week_start"`
	WeekEnd           string                  `json:"week_end"`
	TotalActivities   int                     `json:"total_activities"`
	TotalScore        float64                 `json:"total_score"`
	TotalHours        float64                 `json:"total_hours"`
	CategoryBreakdown map[string]CategoryStat `json:"category_breakdown"`
	TrendVsPrevious   float64                 `json:"trend_vs_previous"`
	TopDay            *TopDay                 `json:"top_day"`
	BadgesEarned      []gamification.Badge    `json:"badges_earned"`
	StreakMax         int                     `json:"streak_max"`
}

// GetWeeklyRecap fetches last week's summary.
func (c *Client) GetWeeklyRecap(ctx context.Context) (*WeeklyRecap, error) {
	var recap WeeklyRecap
	if err := c.do(ctx, "GET", "/api/weekly-recap", nil, nil, &recap); err != nil {
		return nil, err
	}
	return &recap, nil
}

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/focusflow/focusflow/internal/client"
	"github.com/focusflow/focusflow/internal/gamification"
)

type fakeDashboardBackend struct {
	data *client.Dashboard
	err  error
}

func (f *fakeDashboardBackend) GetDashboard(ctx context.Context, date string, tzOffset int) (*client.Dashboard, error) {
	return f.data, f.err
}

func updateDashboard(t *testing.T, m DashboardModel, msg tea.Msg) DashboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(DashboardModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model
}

func TestDashboardModel_ShowsLoadingFirst(t *testing.T) {
	m := NewDashboardModel(&fakeDashboardBackend{}, DefaultStyles())
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("Expected the loading view, got:\n%s", m.View())
	}
}

func TestDashboardModel_RendersSummary(t *testing.T) {
	data := &client.Dashboard{
		Date:             "2026-08-25",
		DailyScore:       28.0,
		ActivityCount:    2,
		AverageSentiment: 0.4,
		Level:            3,
		XP:               245,
		LevelProgress: gamification.LevelProgress{
			Level:          3,
			XP:             245,
			XPInLevel:      145,
			XPForNextLevel: 125,
			ProgressPct:    45.0,
			NextLevel:      4,
		},
		Streak: gamification.Streak{Current: 3, Longest: 5, ActiveToday: true},
		CategoryBreakdown: map[string]client.CategoryStat{
			"Career": {Minutes: 120, Count: 1},
			"Health": {Minutes: 60, Count: 1},
		},
	}

	m := NewDashboardModel(&fakeDashboardBackend{data: data}, DefaultStyles())
	m = updateDashboard(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updateDashboard(t, m, dashboardMsg{data: data})

	view := m.View()
	for _, want := range []string{
		"2026-08-25",
		"Level 3 · 245 XP",
		"Daily score: 28.0",
		"Activities: 2",
		"3 day streak",
		"Career",
		"2h 00m",
		"Health",
		"1h 00m",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in the summary, got:\n%s", want, view)
		}
	}
}

func TestDashboardModel_RendersError(t *testing.T) {
	m := NewDashboardModel(&fakeDashboardBackend{}, DefaultStyles())
	m = updateDashboard(t, m, dashboardMsg{err: errors.New("request failed: connection refused")})

	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("Expected the error view, got:\n%s", m.View())
	}
}

func TestDashboardModel_RefreshKeyReloads(t *testing.T) {
	data := &client.Dashboard{Date: "2026-08-25", Level: 1}
	m := NewDashboardModel(&fakeDashboardBackend{data: data}, DefaultStyles())
	m = updateDashboard(t, m, dashboardMsg{data: data})

	if strings.Contains(m.View(), "Loading") {
		t.Fatal("Expected the summary after data arrives")
	}

	m = updateDashboard(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("Expected reloading after refresh, got:\n%s", m.View())
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{45, "45m"},
		{60, "1h 00m"},
		{125, "2h 05m"},
		{0, "0m"},
	}
	for _, tc := range cases {
		if got := formatMinutes(tc.minutes); got != tc.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

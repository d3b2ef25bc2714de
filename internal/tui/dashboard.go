package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/focusflow/focusflow/internal/client"
)

const categoryBarWidth = 20

// DashboardBackend is the slice of the API client the dashboard screen
// needs.
type DashboardBackend interface {
	GetDashboard(ctx context.Context, date string, tzOffset int) (*client.Dashboard, error)
}

type dashboardMsg struct {
	data *client.Dashboard
	err  error
}

// DashboardModel is the daily summary screen: level progress, score, streak,
// and the category breakdown.
type DashboardModel struct {
	backend DashboardBackend
	styles  Styles
	xpBar   progress.Model
	spinner spinner.Model

	data    *client.Dashboard
	err     error
	loading bool
	width   int
}

// NewDashboardModel creates the dashboard screen.
func NewDashboardModel(backend DashboardBackend, styles Styles) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return DashboardModel{
		backend: backend,
		styles:  styles,
		xpBar:   progress.New(progress.WithDefaultGradient()),
		spinner: sp,
		loading: true,
	}
}

// RunDashboard runs the dashboard screen until the user quits.
func RunDashboard(backend DashboardBackend) error {
	p := tea.NewProgram(NewDashboardModel(backend, DefaultStyles()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.spinner.Tick)
}

func (m DashboardModel) fetchCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, offsetSeconds := time.Now().Zone()
		data, err := backend.GetDashboard(ctx, "", -offsetSeconds/60)
		return dashboardMsg{data: data, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.fetchCmd(), m.spinner.Tick)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 20
		if barWidth > 40 {
			barWidth = 40
		}
		if barWidth < 10 {
			barWidth = 10
		}
		m.xpBar.Width = barWidth

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case dashboardMsg:
		m.loading = false
		m.data = msg.data
		m.err = msg.err
	}

	return m, nil
}

func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("📊 FocusFlow Dashboard"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading...")

	case m.err != nil:
		b.WriteString(m.styles.Error.Render(m.err.Error()))

	case m.data != nil:
		b.WriteString(m.summaryView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("[r] refresh · [q] quit"))
	return b.String()
}

func (m DashboardModel) summaryView() string {
	d := m.data
	var b strings.Builder

	b.WriteString(m.styles.Subtle.Render(d.Date))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Level %d · %d XP\n", d.Level, d.XP))
	b.WriteString(m.xpBar.ViewAs(d.LevelProgress.ProgressPct / 100))
	b.WriteString(m.styles.Subtle.Render(fmt.Sprintf("  %d/%d XP to level %d",
		d.LevelProgress.XPInLevel, d.LevelProgress.XPForNextLevel, d.LevelProgress.NextLevel)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Daily score: %.1f · Activities: %d", d.DailyScore, d.ActivityCount))
	if d.Streak.Current > 0 {
		b.WriteString(fmt.Sprintf(" · 🔥 %d day streak", d.Streak.Current))
	}
	b.WriteString("\n")

	if len(d.CategoryBreakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(m.categoryView())
	}
	return b.String()
}

func (m DashboardModel) categoryView() string {
	type row struct {
		name string
		stat client.CategoryStat
	}

	rows := make([]row, 0, len(m.data.CategoryBreakdown))
	maxMinutes := 0
	for name, stat := range m.data.CategoryBreakdown {
		rows = append(rows, row{name: name, stat: stat})
		if stat.Minutes > maxMinutes {
			maxMinutes = stat.Minutes
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Minutes != rows[j].stat.Minutes {
			return rows[i].stat.Minutes > rows[j].stat.Minutes
		}
		return rows[i].name < rows[j].name
	})

	var b strings.Builder
	for _, r := range rows {
		cells := 0
		if maxMinutes > 0 {
			cells = r.stat.Minutes * categoryBarWidth / maxMinutes
		}
		if cells < 1 {
			cells = 1
		}

		bar := categoryBar(r.name, cells)
		b.WriteString(fmt.Sprintf("%-8s %s %s\n", r.name, bar,
			m.styles.Subtle.Render(formatMinutes(r.stat.Minutes))))
	}
	return b.String()
}

func categoryBar(category string, cells int) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(category)).Render(strings.Repeat("█", cells))
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

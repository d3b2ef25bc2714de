package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/focusflow/focusflow/internal/gamification"
	"github.com/focusflow/focusflow/internal/reveal"
	"github.com/focusflow/focusflow/internal/store"
)

// frameInterval paces the spin animation. The engine derives progress from
// wall-clock time, so a slower terminal just renders fewer frames of the
// same scroll.
const frameInterval = 33 * time.Millisecond

// ChestBackend is the slice of the API client the chest screen needs.
type ChestBackend interface {
	reveal.Provider
	Me(ctx context.Context) (*store.User, error)
	ChestStatus(ctx context.Context) (*gamification.Eligibility, error)
}

// Messages for tea updates
type (
	chestStatusMsg struct {
		user   *store.User
		status *gamification.Eligibility
		err    error
	}
	outcomeMsg struct {
		out reveal.Outcome
		err error
	}
	measureTickMsg struct{}
	frameTickMsg   time.Time
)

// ChestModel is the loot chest screen: it hosts the reveal engine and steps
// it through provider responses, geometry measurements, and animation
// frames. All engine events run on the update loop; only the provider call
// itself runs in a command goroutine.
type ChestModel struct {
	backend ChestBackend
	engine  *reveal.Engine
	balance *reveal.Balance
	strip   *stripView
	spinner spinner.Model
	styles  Styles

	status *gamification.Eligibility
	err    error

	width  int
	height int
	ready  bool
}

// NewChestModel creates the chest screen. cfg tunes the reveal engine; pass
// reveal.DefaultConfig() outside tests.
func NewChestModel(backend ChestBackend, styles Styles, cfg reveal.Config) ChestModel {
	balance := reveal.NewBalance(0)
	strip := newStripView(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return ChestModel{
		backend: backend,
		engine:  reveal.New(backend, balance, strip, cfg),
		balance: balance,
		strip:   strip,
		spinner: sp,
		styles:  styles,
	}
}

// RunChest runs the chest screen until the user quits.
func RunChest(backend ChestBackend) error {
	p := tea.NewProgram(NewChestModel(backend, DefaultStyles(), reveal.DefaultConfig()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m ChestModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m ChestModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.strip.setWidth(msg.Width - 4)

	case spinner.TickMsg:
		if m.engine.Phase() == reveal.PhaseRequesting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case chestStatusMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = msg.status
		m.balance.SetCredits(msg.user.ChestCredits)

	case outcomeMsg:
		if msg.err != nil {
			m.engine.Fail(msg.err)
			m.err = msg.err
			return m, nil
		}
		m.engine.Resolve(msg.out)
		m.strip.setEntries(m.engine.Sequence())
		return m, func() tea.Msg { return measureTickMsg{} }

	case measureTickMsg:
		if m.engine.Measure() {
			return m, m.frameCmd()
		}
		if m.engine.Phase() == reveal.PhaseSequencing {
			return m, tea.Tick(m.engine.Config().MeasureInterval, func(time.Time) tea.Msg {
				return measureTickMsg{}
			})
		}

	case frameTickMsg:
		if _, more := m.engine.Frame(); more {
			return m, m.frameCmd()
		}
	}

	return m, nil
}

func (m ChestModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.engine.Teardown()
		return m, tea.Quit

	case "esc":
		if m.engine.Phase() == reveal.PhaseRevealed {
			m.engine.Dismiss()
			return m, m.refreshCmd()
		}

	case "enter", " ", "o":
		if m.engine.Phase() == reveal.PhaseRevealed {
			m.engine.Dismiss()
		}
		if m.engine.Trigger() {
			m.err = nil
			return m, tea.Batch(m.openCmd(), m.spinner.Tick)
		}
	}
	return m, nil
}

// openCmd calls the provider off the update loop. Only Open may run there;
// the outcome comes back as a message and is resolved on the loop.
func (m ChestModel) openCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		out, err := engine.Open(ctx)
		return outcomeMsg{out: out, err: err}
	}
}

func (m ChestModel) refreshCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := backend.Me(ctx)
		if err != nil {
			return chestStatusMsg{err: err}
		}
		status, err := backend.ChestStatus(ctx)
		if err != nil {
			return chestStatusMsg{err: err}
		}
		return chestStatusMsg{user: user, status: status}
	}
}

func (m ChestModel) frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func (m ChestModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("🎁 Loot Chest"))
	b.WriteString("\n\n")

	switch m.engine.Phase() {
	case reveal.PhaseRequesting:
		b.WriteString(m.spinner.View())
		b.WriteString(" Opening chest...")

	case reveal.PhaseSequencing:
		b.WriteString(m.strip.render(0))
		b.WriteString("\n")
		b.WriteString(m.styles.Subtle.Render("Shuffling..."))

	case reveal.PhaseSpinning:
		b.WriteString(m.strip.render(m.engine.Offset()))

	case reveal.PhaseRevealed:
		b.WriteString(m.revealedView())

	default:
		b.WriteString(m.idleView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m ChestModel) idleView() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Chest credits: %d\n", m.balance.Credits()))
	if m.status != nil {
		if m.status.Eligible {
			b.WriteString(m.styles.Success.Render("Chest unlocked!"))
			b.WriteString(m.styles.Subtle.Render(fmt.Sprintf(" %.1fh of productive time today", m.status.ProductiveHours)))
		} else {
			b.WriteString(m.styles.Subtle.Render(fmt.Sprintf(
				"Today's focus: %.1fh of %.1fh needed", m.status.ProductiveHours, m.status.RequiredHours)))
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		if errors.Is(m.err, reveal.ErrInsufficientCredits) {
			b.WriteString(m.styles.Error.Render("No keys available"))
			b.WriteString(m.styles.Subtle.Render(" · log productive time to earn chest credits"))
		} else {
			b.WriteString(m.styles.Error.Render(m.err.Error()))
		}
	}
	return b.String()
}

func (m ChestModel) revealedView() string {
	out := m.engine.Outcome()
	if out == nil {
		return ""
	}

	card := m.styles.CardForRarity(out.Prize.Rarity).Width(30).Render(
		m.styles.RarityText(out.Prize.Rarity).Render(out.Prize.Name) + "\n" +
			m.styles.Subtle.Render(string(out.Prize.Rarity)) + "\n\n" +
			out.Prize.Description,
	)

	status := fmt.Sprintf("Owned ×%d", out.Count)
	if out.IsNew {
		status = m.styles.Badge.Render("✨ NEW!")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		card,
		"",
		status,
		m.styles.Subtle.Render(fmt.Sprintf("Chest credits left: %d", m.balance.Credits())),
	)
}

func (m ChestModel) helpView() string {
	switch m.engine.Phase() {
	case reveal.PhaseRevealed:
		return m.styles.Help.Render("[enter] spin again · [esc] close · [q] quit")
	case reveal.PhaseSpinning, reveal.PhaseRequesting, reveal.PhaseSequencing:
		return m.styles.Help.Render("[q] quit")
	default:
		return m.styles.Help.Render("[enter] open chest · [q] quit")
	}
}

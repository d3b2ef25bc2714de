package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/focusflow/focusflow/internal/reveal"
)

const (
	// cardInnerWidth is the content width of one sequence card. With the
	// border the rendered card is cardInnerWidth+2 cells wide.
	cardInnerWidth = 12
	// cardGap is the spacing between cards in the strip.
	cardGap = 1
	// minStripWidth keeps the window usable on tiny terminals.
	minStripWidth = 20
)

// stripView renders the spin sequence as a horizontal row of rarity-colored
// cards and answers the engine's geometry queries from what it actually
// renders. The full strip is rendered once per sequence; each frame only
// crops the visible window at the engine's offset.
type stripView struct {
	styles  Styles
	width   int
	entries []reveal.Entry
	lines   []string
}

func newStripView(styles Styles) *stripView {
	return &stripView{styles: styles}
}

func (s *stripView) setWidth(w int) {
	if w < minStripWidth {
		w = minStripWidth
	}
	s.width = w
}

func (s *stripView) setEntries(entries []reveal.Entry) {
	s.entries = entries
	s.lines = nil
}

// MeasureWinner implements reveal.Metrics. Not ready until the terminal
// size is known and a sequence has been laid out.
func (s *stripView) MeasureWinner() (reveal.Measurement, bool) {
	if s.width == 0 || len(s.entries) == 0 {
		return reveal.Measurement{}, false
	}

	winner := -1
	for i, e := range s.entries {
		if e.IsWinner {
			winner = i
			break
		}
	}
	if winner < 0 {
		return reveal.Measurement{}, false
	}

	cardWidth := float64(lipgloss.Width(s.renderCard(s.entries[winner])))
	stride := cardWidth + cardGap
	return reveal.Measurement{
		ContainerWidth: float64(s.width),
		WinnerLeft:     float64(winner) * stride,
		WinnerWidth:    cardWidth,
	}, true
}

// render returns the visible strip window with the sequence shifted left by
// offset cells, topped by the fixed center marker.
func (s *stripView) render(offset float64) string {
	if s.lines == nil {
		s.lines = s.renderAll()
	}

	left := int(offset)
	if left < 0 {
		left = 0
	}

	var b strings.Builder
	b.WriteString(s.marker())
	for _, line := range s.lines {
		b.WriteByte('\n')
		b.WriteString(ansi.Cut(line, left, left+s.width))
	}
	return b.String()
}

// marker is the fixed pointer the winner settles under.
func (s *stripView) marker() string {
	pad := s.width / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s.styles.Marker.Render("▼")
}

func (s *stripView) renderAll() []string {
	gap := strings.Repeat(" ", cardGap)
	parts := make([]string, 0, len(s.entries)*2)
	for i, e := range s.entries {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, s.renderCard(e))
	}
	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, parts...), "\n")
}

func (s *stripView) renderCard(e reveal.Entry) string {
	style := s.styles.CardForRarity(e.Item.Rarity).Width(cardInnerWidth)
	name := s.styles.RarityText(e.Item.Rarity).Render(truncateName(e.Item.Name, cardInnerWidth-2))
	label := s.styles.Subtle.Render(string(e.Item.Rarity))
	return style.Render(name + "\n" + label)
}

func truncateName(name string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// Package tui implements the interactive terminal screens: the loot chest
// reveal and the daily dashboard. Screens are bubbletea models that talk to
// the API through the shared client.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/focusflow/focusflow/internal/loot"
)

// Rarity colors, one per tier. Chosen to survive 256-color terminals.
var rarityColors = map[loot.Rarity]lipgloss.Color{
	loot.RarityCommon:    lipgloss.Color("245"), // gray
	loot.RarityRare:      lipgloss.Color("39"),  // blue
	loot.RarityLegendary: lipgloss.Color("208"), // orange
	loot.RarityMythic:    lipgloss.Color("201"), // magenta
}

// Category colors for dashboard bars.
var categoryColors = map[string]lipgloss.Color{
	"Career":  lipgloss.Color("39"),
	"Health":  lipgloss.Color("42"),
	"Social":  lipgloss.Color("171"),
	"Chores":  lipgloss.Color("221"),
	"Leisure": lipgloss.Color("203"),
}

// Styles holds the styled components shared by the terminal screens.
type Styles struct {
	Title   lipgloss.Style
	Subtle  lipgloss.Style
	Help    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Spinner lipgloss.Style
	Marker  lipgloss.Style
	Card    lipgloss.Style
	Badge   lipgloss.Style
}

// DefaultStyles returns the standard FocusFlow look.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),

		Marker: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Align(lipgloss.Center).
			Padding(0, 1),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("63")).
			Padding(0, 1).
			Bold(true),
	}
}

// RarityColor returns the display color for a rarity tier.
func RarityColor(r loot.Rarity) lipgloss.Color {
	if c, ok := rarityColors[r]; ok {
		return c
	}
	return rarityColors[loot.RarityCommon]
}

// RarityText styles a string in its rarity color.
func (s Styles) RarityText(r loot.Rarity) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(RarityColor(r))
	if r == loot.RarityMythic || r == loot.RarityLegendary {
		style = style.Bold(true)
	}
	return style
}

// CardForRarity returns the card frame with the tier's border color.
func (s Styles) CardForRarity(r loot.Rarity) lipgloss.Style {
	return s.Card.BorderForeground(RarityColor(r))
}

// CategoryColor returns the display color for an activity category.
func CategoryColor(name string) lipgloss.Color {
	if c, ok := categoryColors[name]; ok {
		return c
	}
	return lipgloss.Color("246")
}

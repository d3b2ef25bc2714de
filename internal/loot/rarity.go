// Package loot defines the collectible item catalog and the weighted draw
// used when a reward chest is opened. Rarity weights follow the classic
// loot-box distribution:
//   - Common: 60%
//   - Rare: 25%
//   - Legendary: 10%
//   - Mythic: 5%
//
// Draw results depend only on the injected RNG, so callers can make the
// whole pipeline deterministic in tests.
package loot

import "errors"

// ErrUnknownRarity is returned when parsing a rarity name that is not in the catalog.
var ErrUnknownRarity = errors.New("unknown rarity")

// Rarity is the tier of a collectible item. The zero value is invalid.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityLegendary Rarity = "Legendary"
	RarityMythic    Rarity = "Mythic"
)

// Rarities lists all tiers from most to least common. Order matters:
// drawRarity walks this slice with cumulative weights, so it must stay
// aligned with the Weight values.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityLegendary, RarityMythic}

var rarityWeights = map[Rarity]int{
	RarityCommon:    60,
	RarityRare:      25,
	RarityLegendary: 10,
	RarityMythic:    5,
}

// Weight returns the drop weight for the rarity (out of TotalWeight).
// Unknown rarities weigh 0 and can never be drawn.
func (r Rarity) Weight() int {
	return rarityWeights[r]
}

// Valid reports whether r is one of the defined tiers.
func (r Rarity) Valid() bool {
	_, ok := rarityWeights[r]
	return ok
}

// TotalWeight is the sum of all rarity weights (100).
func TotalWeight() int {
	total := 0
	for _, r := range Rarities {
		total += rarityWeights[r]
	}
	return total
}

// ParseRarity converts a wire-format rarity name into a Rarity.
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(s)
	if !r.Valid() {
		return "", ErrUnknownRarity
	}
	return r, nil
}

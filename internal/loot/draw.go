package loot

import (
	"errors"
	"math/rand"
)

// ErrEmptyPool is returned when a draw is attempted against an empty item pool.
var ErrEmptyPool = errors.New("item pool is empty")

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// GlobalRNG draws from math/rand's shared locked source, which is safe for
// concurrent use.
type GlobalRNG struct{}

func (GlobalRNG) Intn(n int) int { return rand.Intn(n) }

// DrawRarity picks a tier using cumulative weights.
//
// Algorithm:
//  1. roll = rng.Intn(TotalWeight)
//  2. Walk Rarities accumulating weights until roll < cumulative
//
// Example with weights [Common:60, Rare:25, Legendary:10, Mythic:5]:
//   - roll 0-59  → Common
//   - roll 60-84 → Rare
//   - roll 85-94 → Legendary
//   - roll 95-99 → Mythic
func DrawRarity(rng RNG) Rarity {
	roll := rng.Intn(TotalWeight())

	cumulative := 0
	for _, r := range Rarities {
		cumulative += r.Weight()
		if roll < cumulative {
			return r
		}
	}
	// Unreachable while weights cover the full range.
	return Rarities[len(Rarities)-1]
}

// Draw opens one chest: weighted rarity first, then a uniform pick among the
// items of that tier. Mirrors the server-side award so clients can preview
// odds without a round trip.
func Draw(rng RNG) Item {
	rarity := DrawRarity(rng)
	items := ItemsByRarity(rarity)
	if len(items) == 0 {
		// Every tier in the static catalog is populated, but fall back to
		// the whole catalog rather than panic if that ever changes.
		items = Catalog()
	}
	return items[rng.Intn(len(items))]
}

// PickUniform selects one item from pool with equal probability.
func PickUniform(pool []Item, rng RNG) (Item, error) {
	if len(pool) == 0 {
		return Item{}, ErrEmptyPool
	}
	return pool[rng.Intn(len(pool))], nil
}

// WeightedPool expands items by their rarity weight: an item of weight w
// appears w times in the result. Sampling the expanded pool uniformly is
// then equivalent to a rarity-weighted draw, which is how reveal sequences
// keep their filler distribution aligned with real drop odds.
func WeightedPool(items []Item) []Item {
	total := 0
	for _, item := range items {
		total += item.Rarity.Weight()
	}

	pool := make([]Item, 0, total)
	for _, item := range items {
		for i := 0; i < item.Rarity.Weight(); i++ {
			pool = append(pool, item)
		}
	}
	return pool
}

package reveal

import "github.com/focusflow/focusflow/internal/loot"

// Entry is one slot in a spin sequence. Exactly one entry per sequence has
// IsWinner set, and its item is the server-resolved prize.
type Entry struct {
	Item     loot.Item
	IsWinner bool
}

// buildSequence fills a length-long sequence with weighted-random fillers
// and places the prize at winnerIndex. Fillers are sampled uniformly from
// the rarity-weight-expanded catalog, so their tier distribution matches the
// real drop odds without ever affecting the actual reward.
func buildSequence(prize loot.Item, length, winnerIndex int, rng loot.RNG) []Entry {
	pool := loot.WeightedPool(loot.Catalog())

	seq := make([]Entry, length)
	for i := range seq {
		if i == winnerIndex {
			seq[i] = Entry{Item: prize, IsWinner: true}
			continue
		}
		seq[i] = Entry{Item: pool[rng.Intn(len(pool))]}
	}
	return seq
}

package loot

// Item is a collectible from the Tech Relic catalog. Icon names match
// Lucide component names so web and terminal clients can render the same set.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Rarity      Rarity `json:"rarity"`
	Icon        string `json:"icon_name"`
	Description string `json:"description"`
}

// catalog holds the 20 item definitions. IDs are assigned by position and
// are stable: new items must be appended, never inserted.
var catalog = []Item{
	// Common (8)
	{1, "Code Snippet", RarityCommon, "FileCode", "A reusable piece of wisdom. Copy-paste with pride."},
	{2, "Coffee Cup", RarityCommon, "Coffee", "The fuel that powers all great code."},
	{3, "Bug Fix", RarityCommon, "Bug", "A squashed bug. Frame it and celebrate."},
	{4, "Terminal Line", RarityCommon, "Terminal", "Command the machine. Feel the power."},
	{5, "Git Commit", RarityCommon, "GitCommit", "Proof that you actually did something today."},
	{6, "Keyboard Key", RarityCommon, "Keyboard", "A single key from a well-worn keyboard."},
	{7, "Binary Fragment", RarityCommon, "Binary", "01101000 01101001. It means something."},
	{8, "Power Cable", RarityCommon, "Cable", "Keep the electrons flowing."},

	// Rare (6)
	{9, "RAM Stick", RarityRare, "MemoryStick", "16GB of pure possibility. Chrome approves."},
	{10, "Hard Drive", RarityRare, "HardDrive", "1TB of untapped potential."},
	{11, "Database Shard", RarityRare, "Database", "A fragment of infinite knowledge."},
	{12, "Wifi Signal", RarityRare, "Wifi", "Full bars. Maximum productivity."},
	{13, "Shield Protocol", RarityRare, "Shield", "Protection from digital threats."},
	{14, "Circuit Board", RarityRare, "CircuitBoard", "The foundation of all technology."},

	// Legendary (4)
	{15, "GPU Core", RarityLegendary, "Cpu", "Raw computational power. Games fear it."},
	{16, "Cloud Server", RarityLegendary, "Cloud", "Infinite scale. Zero maintenance."},
	{17, "Blockchain Node", RarityLegendary, "Boxes", "Decentralized. Immutable. Mysterious."},
	{18, "AI Model", RarityLegendary, "Bot", "Trained on millions of productive hours."},

	// Mythic (2)
	{19, "Quantum Core", RarityMythic, "Atom", "Exists in all states until observed. Including 'done'."},
	{20, "The Singularity", RarityMythic, "Sparkles", "The moment when productivity becomes infinite."},
}

// Catalog returns a copy of the full item catalog in ID order.
func Catalog() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogSize returns the number of defined items.
func CatalogSize() int {
	return len(catalog)
}

// ItemByID looks up an item by its stable ID.
func ItemByID(id int) (Item, bool) {
	if id < 1 || id > len(catalog) {
		return Item{}, false
	}
	// IDs are positional, no scan needed.
	return catalog[id-1], true
}

// ItemsByRarity returns all items of the given tier in ID order.
func ItemsByRarity(r Rarity) []Item {
	var out []Item
	for _, item := range catalog {
		if item.Rarity == r {
			out = append(out, item)
		}
	}
	return out
}

package reveal

import "time"

// Tuning defaults. These shape the feel of the reveal, not its correctness:
// the winner is decided by the server long before any of them apply.
const (
	DefaultSequenceLength  = 60
	DefaultWinnerIndex     = 40
	DefaultSpinDuration    = 3500 * time.Millisecond
	DefaultSettleDelay     = 600 * time.Millisecond
	DefaultMeasureAttempts = 5
	DefaultMeasureInterval = 50 * time.Millisecond
	DefaultEntryWidth      = 14
	DefaultContainerWidth  = 80
	DefaultMaxJitter       = 3
)

// Config holds the engine's tuning constants. Zero values are replaced with
// the defaults above, so Config{} is a valid configuration.
type Config struct {
	// SequenceLength is the number of entries in a spin sequence.
	SequenceLength int
	// WinnerIndex is the fixed position of the real prize in the sequence.
	WinnerIndex int
	// SpinDuration is the length of the deceleration scroll.
	SpinDuration time.Duration
	// SettleDelay is the pause between the scroll stopping and the reveal.
	SettleDelay time.Duration
	// MeasureAttempts bounds geometry measurement retries before the
	// fallback offset is used.
	MeasureAttempts int
	// MeasureInterval is how long the host should wait between measurement
	// attempts. The engine only counts attempts; pacing is the host's job.
	MeasureInterval time.Duration
	// EntryWidth and ContainerWidth are the layout cells assumed by the
	// fallback offset when measurement never becomes ready.
	EntryWidth     float64
	ContainerWidth float64
	// MaxJitter bounds the random off-center shift of the final offset, in
	// layout cells. It is clamped so the winner always stays the centered
	// entry.
	MaxJitter float64
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		SequenceLength:  DefaultSequenceLength,
		WinnerIndex:     DefaultWinnerIndex,
		SpinDuration:    DefaultSpinDuration,
		SettleDelay:     DefaultSettleDelay,
		MeasureAttempts: DefaultMeasureAttempts,
		MeasureInterval: DefaultMeasureInterval,
		EntryWidth:      DefaultEntryWidth,
		ContainerWidth:  DefaultContainerWidth,
		MaxJitter:       DefaultMaxJitter,
	}
}

// normalize fills zero fields with defaults and repairs an out-of-range
// winner index.
func (c Config) normalize() Config {
	if c.SequenceLength <= 0 {
		c.SequenceLength = DefaultSequenceLength
	}
	if c.WinnerIndex <= 0 || c.WinnerIndex >= c.SequenceLength {
		c.WinnerIndex = c.SequenceLength * 2 / 3
	}
	if c.SpinDuration <= 0 {
		c.SpinDuration = DefaultSpinDuration
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.MeasureAttempts <= 0 {
		c.MeasureAttempts = DefaultMeasureAttempts
	}
	if c.MeasureInterval <= 0 {
		c.MeasureInterval = DefaultMeasureInterval
	}
	if c.EntryWidth <= 0 {
		c.EntryWidth = DefaultEntryWidth
	}
	if c.ContainerWidth <= 0 {
		c.ContainerWidth = DefaultContainerWidth
	}
	if c.MaxJitter <= 0 {
		c.MaxJitter = DefaultMaxJitter
	}
	return c
}

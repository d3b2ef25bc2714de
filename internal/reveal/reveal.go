// Package reveal implements the loot-chest reward reveal: a state machine
// that takes a server-resolved prize, hides it inside a long randomized
// sequence, and runs a deceleration scroll that lands exactly on it.
//
// The engine owns no goroutines and no clock ticks. The host (a terminal
// program, usually) steps it through events: Trigger when the user opens a
// chest, Resolve or Fail when the provider call returns, Measure while the
// rendered strip is being laid out, and Frame once per animation tick. All
// stepping must happen on one goroutine; only Open may run elsewhere.
//
// The sequence randomness here is cosmetic. The prize is decided by the
// server before the first frame renders, and nothing in this package can
// change it.
package reveal

import (
	"context"
	"errors"
	"time"

	"github.com/focusflow/focusflow/internal/loot"
)

var (
	// ErrInsufficientCredits means the account had no credit to spend.
	// The balance is unchanged.
	ErrInsufficientCredits = errors.New("insufficient chest credits")

	// ErrTransport wraps network or server failures from the provider.
	// The balance is unchanged and no sequence is built.
	ErrTransport = errors.New("reward request failed")
)

// Phase is the engine's current position in the reveal flow. Exactly one
// phase is active at a time.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRequesting
	PhaseSequencing
	PhaseSpinning
	PhaseRevealed
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRequesting:
		return "requesting"
	case PhaseSequencing:
		return "sequencing"
	case PhaseSpinning:
		return "spinning"
	case PhaseRevealed:
		return "revealed"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome is the server's resolution of one chest open.
type Outcome struct {
	Prize            loot.Item
	CreditsRemaining int
	IsNew            bool
	Count            int
}

// Provider resolves chest opens against the server. Implementations must
// return ErrInsufficientCredits or ErrTransport (possibly wrapped) so the
// engine and its host can distinguish the two failure modes.
type Provider interface {
	OpenReward(ctx context.Context) (Outcome, error)
}

// CreditSource is the externally owned credit balance. The engine reads it
// to gate triggering and writes the server-reported remaining value after a
// successful open.
type CreditSource interface {
	Credits() int
	SetCredits(n int)
}

// Balance is a plain in-memory CreditSource for hosts that fetch the balance
// themselves and just need somewhere to keep it.
type Balance struct {
	n int
}

// NewBalance creates a balance holding n credits.
func NewBalance(n int) *Balance { return &Balance{n: n} }

func (b *Balance) Credits() int     { return b.n }
func (b *Balance) SetCredits(n int) { b.n = n }

// Engine is the reveal state machine. Create one per chest view and step it
// from a single goroutine.
type Engine struct {
	cfg      Config
	provider Provider
	credits  CreditSource
	metrics  Metrics

	// rng seeds filler sampling and jitter; now feeds the animation clock.
	// Tests swap both for determinism.
	rng loot.RNG
	now func() time.Time

	phase   Phase
	err     error
	outcome *Outcome

	sequence []Entry
	prizeID  int
	hasPrize bool

	attempts int
	target   float64
	offset   float64

	spinStart time.Time
	settled   bool
	settledAt time.Time

	torndown bool
}

// New creates an engine in PhaseIdle. cfg zero fields take defaults.
func New(provider Provider, credits CreditSource, metrics Metrics, cfg Config) *Engine {
	return &Engine{
		cfg:      cfg.normalize(),
		provider: provider,
		credits:  credits,
		metrics:  metrics,
		rng:      loot.GlobalRNG{},
		now:      time.Now,
		phase:    PhaseIdle,
	}
}

// Config returns the normalized tuning the engine runs with.
func (e *Engine) Config() Config { return e.cfg }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Err returns the error from the last failed request, if any. It is cleared
// on the next Trigger.
func (e *Engine) Err() error { return e.err }

// Outcome returns the resolved outcome, or nil before resolution.
func (e *Engine) Outcome() *Outcome { return e.outcome }

// Sequence returns the current spin sequence. Callers must not mutate it.
func (e *Engine) Sequence() []Entry { return e.sequence }

// Offset returns the live scroll offset in layout cells.
func (e *Engine) Offset() float64 { return e.offset }

// Target returns the resolved final offset. Zero until measurement completes.
func (e *Engine) Target() float64 { return e.target }

// Trigger starts a flow from Idle or Closed. It reports whether the host
// should now issue the provider call. A zero balance or an already running
// flow makes it a no-op.
func (e *Engine) Trigger() bool {
	if e.torndown {
		return false
	}
	if e.phase != PhaseIdle && e.phase != PhaseClosed {
		return false
	}
	if e.credits.Credits() <= 0 {
		return false
	}
	e.err = nil
	e.phase = PhaseRequesting
	return true
}

// Open performs the provider call for a triggered flow. It touches no engine
// state, so the host may run it on another goroutine and feed the result
// back through Resolve or Fail on the stepping goroutine.
func (e *Engine) Open(ctx context.Context) (Outcome, error) {
	return e.provider.OpenReward(ctx)
}

// Resolve accepts a successful provider response: the balance is reconciled
// to the server-reported value and the spin sequence is built. The sequence
// is memoized by prize identity, so resolving the same item twice in a row
// keeps the existing sequence.
func (e *Engine) Resolve(out Outcome) {
	if e.torndown || e.phase != PhaseRequesting {
		return
	}

	e.credits.SetCredits(out.CreditsRemaining)

	// Memoized by prize identity: the same item drawn again reuses the
	// existing sequence, so nothing mid-render can reshuffle it.
	if !e.hasPrize || out.Prize.ID != e.prizeID {
		e.sequence = buildSequence(out.Prize, e.cfg.SequenceLength, e.cfg.WinnerIndex, e.rng)
		e.prizeID = out.Prize.ID
		e.hasPrize = true
	}

	o := out
	e.outcome = &o
	e.attempts = 0
	e.target = 0
	e.offset = 0
	e.settled = false
	e.phase = PhaseSequencing
}

// Fail aborts a requesting flow. The balance is untouched and no sequence
// is built.
func (e *Engine) Fail(err error) {
	if e.torndown || e.phase != PhaseRequesting {
		return
	}
	e.err = err
	e.phase = PhaseIdle
}

// Dismiss closes a revealed prize.
func (e *Engine) Dismiss() {
	if e.torndown || e.phase != PhaseRevealed {
		return
	}
	e.phase = PhaseClosed
}

// Teardown permanently stops the engine. Every subsequent event and frame is
// a no-op, so callbacks landing after the host view is gone cannot advance
// the flow.
func (e *Engine) Teardown() {
	e.torndown = true
}

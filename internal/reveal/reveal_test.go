package reveal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/focusflow/focusflow/internal/loot"
)

// scriptedRNG cycles through fixed values.
type scriptedRNG struct {
	values []int
	i      int
}

func (r *scriptedRNG) Intn(n int) int {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v % n
}

type fakeProvider struct {
	out   Outcome
	err   error
	calls int
}

func (p *fakeProvider) OpenReward(ctx context.Context) (Outcome, error) {
	p.calls++
	if p.err != nil {
		return Outcome{}, p.err
	}
	return p.out, nil
}

type fakeMetrics struct {
	m     Measurement
	ready bool
	calls int
}

func (f *fakeMetrics) MeasureWinner() (Measurement, bool) {
	f.calls++
	return f.m, f.ready
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func mustItem(t *testing.T, id int) loot.Item {
	t.Helper()
	item, ok := loot.ItemByID(id)
	if !ok {
		t.Fatalf("no catalog item with ID %d", id)
	}
	return item
}

// newTestEngine wires an engine with deterministic rng and clock. The
// scripted value 3 lands every filler on item 1 and zeroes the jitter.
func newTestEngine(t *testing.T, provider *fakeProvider, balance *Balance, metrics *fakeMetrics) (*Engine, *testClock) {
	t.Helper()
	eng := New(provider, balance, metrics, Config{})
	clk := &testClock{t: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)}
	eng.now = clk.now
	eng.rng = &scriptedRNG{values: []int{3}}
	return eng, clk
}

func runSpin(t *testing.T, eng *Engine, clk *testClock) []float64 {
	t.Helper()
	var offsets []float64
	for i := 0; i < 200; i++ {
		offset, more := eng.Frame()
		offsets = append(offsets, offset)
		if !more {
			return offsets
		}
		clk.advance(50 * time.Millisecond)
	}
	t.Fatal("spin did not finish within 200 frames")
	return nil
}

func TestTrigger_RequiresCredits(t *testing.T) {
	provider := &fakeProvider{}
	eng, _ := newTestEngine(t, provider, NewBalance(0), &fakeMetrics{ready: true})

	if eng.Trigger() {
		t.Error("Expected trigger to be a no-op with zero balance")
	}
	if eng.Phase() != PhaseIdle {
		t.Errorf("Expected PhaseIdle, got %s", eng.Phase())
	}
	if provider.calls != 0 {
		t.Errorf("Expected no provider calls, got %d", provider.calls)
	}
}

func TestTrigger_IgnoredMidFlow(t *testing.T) {
	eng, _ := newTestEngine(t, &fakeProvider{}, NewBalance(3), &fakeMetrics{ready: true})

	if !eng.Trigger() {
		t.Fatal("Expected first trigger to start the flow")
	}
	if eng.Trigger() {
		t.Error("Expected second trigger to be ignored while requesting")
	}
	if eng.Phase() != PhaseRequesting {
		t.Errorf("Expected PhaseRequesting, got %s", eng.Phase())
	}
}

func TestResolve_BuildsSequenceWithWinnerAtIndex(t *testing.T) {
	prize := mustItem(t, 19)
	balance := NewBalance(3)
	eng, _ := newTestEngine(t, &fakeProvider{}, balance, &fakeMetrics{ready: true})

	eng.Trigger()
	eng.Resolve(Outcome{Prize: prize, CreditsRemaining: 2, IsNew: true, Count: 1})

	if eng.Phase() != PhaseSequencing {
		t.Fatalf("Expected PhaseSequencing, got %s", eng.Phase())
	}
	if balance.Credits() != 2 {
		t.Errorf("Expected balance reconciled to 2, got %d", balance.Credits())
	}

	seq := eng.Sequence()
	if len(seq) != DefaultSequenceLength {
		t.Fatalf("Expected sequence length %d, got %d", DefaultSequenceLength, len(seq))
	}

	winners := 0
	for i, entry := range seq {
		if entry.IsWinner {
			winners++
			if i != DefaultWinnerIndex {
				t.Errorf("Expected winner at index %d, got %d", DefaultWinnerIndex, i)
			}
			if entry.Item.ID != prize.ID {
				t.Errorf("Expected winner item %d, got %d", prize.ID, entry.Item.ID)
			}
		}
	}
	if winners != 1 {
		t.Errorf("Expected exactly 1 winner, got %d", winners)
	}

	// Scripted rng value 3 maps to the first catalog item for every filler.
	if seq[0].Item.ID != 1 {
		t.Errorf("Expected filler from the weighted pool, got item %d", seq[0].Item.ID)
	}
}

func TestResolve_WinnerSurvivesAnyRNG(t *testing.T) {
	prize := mustItem(t, 7)
	for seed := int64(0); seed < 20; seed++ {
		eng, _ := newTestEngine(t, &fakeProvider{}, NewBalance(1), &fakeMetrics{ready: true})
		eng.rng = rand.New(rand.NewSource(seed))

		eng.Trigger()
		eng.Resolve(Outcome{Prize: prize, CreditsRemaining: 0})

		entry := eng.Sequence()[DefaultWinnerIndex]
		if !entry.IsWinner || entry.Item.ID != prize.ID {
			t.Fatalf("seed %d: Expected prize %d at winner index, got %+v", seed, prize.ID, entry)
		}
	}
}

func TestResolve_MemoizedByPrizeIdentity(t *testing.T) {
	prize := mustItem(t, 15)
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	eng, clk := newTestEngine(t, &fakeProvider{}, NewBalance(5), metrics)

	eng.Trigger()
	eng.Resolve(Outcome{Prize: prize, CreditsRemaining: 4})
	first := eng.Sequence()

	eng.Measure()
	runSpin(t, eng, clk)
	eng.Dismiss()

	// Same prize again: the sequence must be reused, not rebuilt.
	eng.Trigger()
	eng.Resolve(Outcome{Prize: prize, CreditsRemaining: 3, Count: 2})
	second := eng.Sequence()
	if &first[0] != &second[0] {
		t.Error("Expected the memoized sequence for an identical prize")
	}

	eng.Measure()
	runSpin(t, eng, clk)
	eng.Dismiss()

	// A different prize forces a rebuild.
	other := mustItem(t, 2)
	eng.Trigger()
	eng.Resolve(Outcome{Prize: other, CreditsRemaining: 2})
	third := eng.Sequence()
	if &first[0] == &third[0] {
		t.Error("Expected a fresh sequence for a new prize")
	}
	if !third[DefaultWinnerIndex].IsWinner || third[DefaultWinnerIndex].Item.ID != other.ID {
		t.Errorf("Expected new prize %d at winner index, got %+v", other.ID, third[DefaultWinnerIndex])
	}
}

func TestFail_ReturnsToIdleWithBalanceUntouched(t *testing.T) {
	balance := NewBalance(3)
	provider := &fakeProvider{err: fmt.Errorf("%w: connection refused", ErrTransport)}
	eng, _ := newTestEngine(t, provider, balance, &fakeMetrics{ready: true})

	eng.Trigger()
	_, err := eng.Open(context.Background())
	if err == nil {
		t.Fatal("Expected an error from the provider")
	}
	eng.Fail(err)

	if eng.Phase() != PhaseIdle {
		t.Errorf("Expected PhaseIdle, got %s", eng.Phase())
	}
	if balance.Credits() != 3 {
		t.Errorf("Expected balance unchanged at 3, got %d", balance.Credits())
	}
	if eng.Sequence() != nil {
		t.Error("Expected no sequence after a failed request")
	}
	if !errors.Is(eng.Err(), ErrTransport) {
		t.Errorf("Expected ErrTransport, got %v", eng.Err())
	}

	// The error clears on the next trigger.
	eng.Trigger()
	if eng.Err() != nil {
		t.Errorf("Expected error cleared on retrigger, got %v", eng.Err())
	}
}

func TestMeasure_ComputesCenteringOffset(t *testing.T) {
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	eng, _ := newTestEngine(t, &fakeProvider{}, NewBalance(1), metrics)

	eng.Trigger()
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 0})

	if !eng.Measure() {
		t.Fatal("Expected measurement to succeed immediately")
	}
	if eng.Phase() != PhaseSpinning {
		t.Errorf("Expected PhaseSpinning, got %s", eng.Phase())
	}

	// winnerCenter 567, containerCenter 40, scripted jitter 0.
	if eng.Target() != 527 {
		t.Errorf("Expected target 527, got %f", eng.Target())
	}
}

func TestMeasure_JitterStaysWithinBound(t *testing.T) {
	m := Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}
	exact := targetOffset(m)

	for v := 0; v < 7; v++ {
		metrics := &fakeMetrics{m: m, ready: true}
		eng, _ := newTestEngine(t, &fakeProvider{}, NewBalance(1), metrics)

		eng.Trigger()
		eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 0})
		eng.rng = &scriptedRNG{values: []int{v}} // next draw is the jitter
		eng.Measure()

		shift := eng.Target() - exact
		if shift < -DefaultMaxJitter || shift > DefaultMaxJitter {
			t.Errorf("value %d: jitter %f outside ±%d", v, shift, DefaultMaxJitter)
		}
	}
}

func TestMeasure_FallsBackAfterBoundedRetries(t *testing.T) {
	metrics := &fakeMetrics{ready: false}
	eng, clk := newTestEngine(t, &fakeProvider{}, NewBalance(1), metrics)

	eng.Trigger()
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 0})

	for attempt := 1; attempt < DefaultMeasureAttempts; attempt++ {
		if eng.Measure() {
			t.Fatalf("Expected attempt %d to ask for a retry", attempt)
		}
		if eng.Phase() != PhaseSequencing {
			t.Fatalf("Expected PhaseSequencing during retries, got %s", eng.Phase())
		}
	}
	if !eng.Measure() {
		t.Fatal("Expected the final attempt to fall back and start the spin")
	}
	if metrics.calls != DefaultMeasureAttempts {
		t.Errorf("Expected %d measurement attempts, got %d", DefaultMeasureAttempts, metrics.calls)
	}

	// Fallback geometry: winner at 40 * 14 with the default 80-cell container.
	want := float64(DefaultWinnerIndex)*DefaultEntryWidth + DefaultEntryWidth/2 - DefaultContainerWidth/2
	if diff := eng.Target() - want; diff < -DefaultMaxJitter || diff > DefaultMaxJitter {
		t.Errorf("Expected fallback target near %f, got %f", want, eng.Target())
	}

	// The flow still ends in a reveal with the right winner.
	runSpin(t, eng, clk)
	if eng.Phase() != PhaseRevealed {
		t.Errorf("Expected PhaseRevealed, got %s", eng.Phase())
	}
	if entry := eng.Sequence()[DefaultWinnerIndex]; entry.Item.ID != 19 {
		t.Errorf("Expected winner item 19, got %d", entry.Item.ID)
	}
}

func TestFrame_ProgressMonotonicAndExact(t *testing.T) {
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	eng, clk := newTestEngine(t, &fakeProvider{}, NewBalance(1), metrics)

	eng.Trigger()
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 0})
	eng.Measure()

	offsets := runSpin(t, eng, clk)
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Fatalf("Offset decreased at frame %d: %f -> %f", i, offsets[i-1], offsets[i])
		}
	}
	if final := offsets[len(offsets)-1]; final != eng.Target() {
		t.Errorf("Expected final offset to equal target %f, got %f", eng.Target(), final)
	}
	if eng.Phase() != PhaseRevealed {
		t.Errorf("Expected PhaseRevealed, got %s", eng.Phase())
	}
}

func TestFrame_SettleDelayBeforeReveal(t *testing.T) {
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	eng, clk := newTestEngine(t, &fakeProvider{}, NewBalance(1), metrics)

	eng.Trigger()
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 0})
	eng.Measure()

	// Jump straight past the spin duration: the scroll is done but the
	// reveal waits out the settle delay.
	clk.advance(DefaultSpinDuration)
	offset, more := eng.Frame()
	if offset != eng.Target() {
		t.Errorf("Expected offset at target, got %f", offset)
	}
	if !more {
		t.Fatal("Expected ticking to continue through the settle delay")
	}
	if eng.Phase() != PhaseSpinning {
		t.Errorf("Expected PhaseSpinning during settle, got %s", eng.Phase())
	}

	clk.advance(DefaultSettleDelay)
	if _, more := eng.Frame(); more {
		t.Error("Expected ticking to stop at the reveal")
	}
	if eng.Phase() != PhaseRevealed {
		t.Errorf("Expected PhaseRevealed, got %s", eng.Phase())
	}
}

func TestDismissAndSpinAgain(t *testing.T) {
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	balance := NewBalance(2)
	eng, clk := newTestEngine(t, &fakeProvider{}, balance, metrics)

	eng.Trigger()
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 1})
	eng.Measure()
	runSpin(t, eng, clk)

	eng.Dismiss()
	if eng.Phase() != PhaseClosed {
		t.Fatalf("Expected PhaseClosed, got %s", eng.Phase())
	}

	// One credit left: spin again is allowed.
	if !eng.Trigger() {
		t.Fatal("Expected spin-again trigger from Closed")
	}
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 0})
	eng.Measure()
	runSpin(t, eng, clk)
	eng.Dismiss()

	// Balance exhausted: the chain stops.
	if eng.Trigger() {
		t.Error("Expected trigger refused at zero balance")
	}
}

func TestTeardown_FreezesEngine(t *testing.T) {
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	eng, _ := newTestEngine(t, &fakeProvider{}, NewBalance(3), metrics)

	eng.Trigger()
	eng.Teardown()

	// A response landing after teardown must not advance the flow.
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 2})
	if eng.Phase() != PhaseRequesting {
		t.Errorf("Expected phase frozen at PhaseRequesting, got %s", eng.Phase())
	}
	if eng.Sequence() != nil {
		t.Error("Expected no sequence after teardown")
	}
	if eng.Measure() {
		t.Error("Expected Measure to be a no-op after teardown")
	}
	if _, more := eng.Frame(); more {
		t.Error("Expected Frame to stop ticking after teardown")
	}
}

func TestTeardown_MidSpinDropsCompletion(t *testing.T) {
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	eng, clk := newTestEngine(t, &fakeProvider{}, NewBalance(1), metrics)

	eng.Trigger()
	eng.Resolve(Outcome{Prize: mustItem(t, 19), CreditsRemaining: 0})
	eng.Measure()

	clk.advance(time.Second)
	if _, more := eng.Frame(); !more {
		t.Fatal("Expected the spin to be running")
	}

	eng.Teardown()
	clk.advance(time.Hour)
	if _, more := eng.Frame(); more {
		t.Error("Expected no further frames after teardown")
	}
	if eng.Phase() == PhaseRevealed {
		t.Error("Expected no reveal after teardown")
	}
}

func TestEndToEnd_MythicReveal(t *testing.T) {
	prize := mustItem(t, 19)
	balance := NewBalance(3)
	provider := &fakeProvider{out: Outcome{Prize: prize, CreditsRemaining: 2, IsNew: true, Count: 1}}
	metrics := &fakeMetrics{m: Measurement{ContainerWidth: 80, WinnerLeft: 560, WinnerWidth: 14}, ready: true}
	eng, clk := newTestEngine(t, provider, balance, metrics)

	if !eng.Trigger() {
		t.Fatal("Expected trigger to start with 3 credits")
	}
	out, err := eng.Open(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eng.Resolve(out)

	seq := eng.Sequence()
	if len(seq) != 60 {
		t.Fatalf("Expected 60 entries, got %d", len(seq))
	}
	if !seq[40].IsWinner || seq[40].Item.ID != 19 {
		t.Fatalf("Expected item 19 flagged winner at index 40, got %+v", seq[40])
	}

	if !eng.Measure() {
		t.Fatal("Expected measurement to succeed")
	}
	runSpin(t, eng, clk)

	if eng.Phase() != PhaseRevealed {
		t.Errorf("Expected PhaseRevealed, got %s", eng.Phase())
	}
	if eng.Outcome().Prize.Rarity != loot.RarityMythic {
		t.Errorf("Expected a Mythic reveal, got %s", eng.Outcome().Prize.Rarity)
	}
	if balance.Credits() != 2 {
		t.Errorf("Expected displayed balance 2, got %d", balance.Credits())
	}
}

func TestEaseOutCubic(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.875},
		{1, 1},
		{2, 1},
	}
	for _, tc := range cases {
		if got := EaseOutCubic(tc.in); got != tc.want {
			t.Errorf("EaseOutCubic(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	want := map[Phase]string{
		PhaseIdle:       "idle",
		PhaseRequesting: "requesting",
		PhaseSequencing: "sequencing",
		PhaseSpinning:   "spinning",
		PhaseRevealed:   "revealed",
		PhaseClosed:     "closed",
		Phase(99):       "unknown",
	}
	for phase, s := range want {
		if phase.String() != s {
			t.Errorf("Phase(%d).String() = %s, want %s", phase, phase.String(), s)
		}
	}
}

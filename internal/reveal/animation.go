package reveal

import "math"

// EaseOutCubic maps linear progress to a fast-start, slow-finish curve:
// 1 - (1-p)^3. Input outside [0, 1] is clamped.
func EaseOutCubic(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return 1 - math.Pow(1-p, 3)
}

// startSpin arms the animation clock and enters Spinning.
func (e *Engine) startSpin() {
	e.spinStart = e.now()
	e.settled = false
	e.offset = 0
	e.phase = PhaseSpinning
}

// Frame advances the animation by one host tick and returns the live offset.
// While it returns true the host should schedule the next frame; false means
// the spin has revealed (or the engine is not spinning) and ticking can stop.
//
// Progress is derived from wall-clock elapsed time, not tick counts, so a
// host that drops frames still lands the scroll on time. When progress
// reaches 1 the offset equals the target exactly; after the settle delay the
// phase advances to Revealed.
func (e *Engine) Frame() (float64, bool) {
	if e.torndown || e.phase != PhaseSpinning {
		return e.offset, false
	}

	now := e.now()
	progress := float64(now.Sub(e.spinStart)) / float64(e.cfg.SpinDuration)
	if progress > 1 {
		progress = 1
	}
	e.offset = EaseOutCubic(progress) * e.target

	if progress < 1 {
		return e.offset, true
	}

	if !e.settled {
		e.settled = true
		e.settledAt = now
		return e.offset, true
	}
	if now.Sub(e.settledAt) < e.cfg.SettleDelay {
		return e.offset, true
	}

	e.phase = PhaseRevealed
	return e.offset, false
}

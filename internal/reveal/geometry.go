package reveal

// Measurement is the rendered geometry of the spin strip, in abstract layout
// cells. The terminal host measures in character cells; any other host can
// supply pixels, the math does not care.
type Measurement struct {
	ContainerWidth float64
	WinnerLeft     float64
	WinnerWidth    float64
}

// Metrics answers layout queries for the rendered sequence. Ready is false
// while layout has not completed (for a terminal host: before the first
// window size arrives), which tells the engine to retry.
type Metrics interface {
	MeasureWinner() (m Measurement, ready bool)
}

// Measure runs one geometry measurement attempt. It reports true when the
// engine advanced to Spinning; false means the host should wait
// Config.MeasureInterval and call Measure again. After Config.MeasureAttempts
// failed attempts the engine gives up on real geometry and uses the fallback
// offset, so measurement trouble can delay the spin but never kill it.
func (e *Engine) Measure() bool {
	if e.torndown || e.phase != PhaseSequencing {
		return false
	}

	e.attempts++
	m, ready := e.metrics.MeasureWinner()
	if !ready {
		if e.attempts < e.cfg.MeasureAttempts {
			return false
		}
		m = e.fallbackMeasurement()
	}

	e.target = targetOffset(m) + e.jitter(m)
	e.startSpin()
	return true
}

// fallbackMeasurement assumes uniformly sized entries at the configured
// default width. Centering will be approximate but the winner is still the
// rendered item.
func (e *Engine) fallbackMeasurement() Measurement {
	return Measurement{
		ContainerWidth: e.cfg.ContainerWidth,
		WinnerLeft:     float64(e.cfg.WinnerIndex) * e.cfg.EntryWidth,
		WinnerWidth:    e.cfg.EntryWidth,
	}
}

// targetOffset is the scroll distance that puts the winner's center on the
// container's center.
func targetOffset(m Measurement) float64 {
	winnerCenter := m.WinnerLeft + m.WinnerWidth/2
	containerCenter := m.ContainerWidth / 2
	return winnerCenter - containerCenter
}

// jitter returns a bounded random shift so the winner does not land on the
// exact same cell every spin. The bound stays under half the winner's width,
// which keeps the winner the entry under the center marker.
func (e *Engine) jitter(m Measurement) float64 {
	bound := e.cfg.MaxJitter
	if limit := m.WinnerWidth/2 - 1; bound > limit {
		bound = limit
	}
	cells := int(bound)
	if cells <= 0 {
		return 0
	}
	return float64(e.rng.Intn(2*cells+1) - cells)
}

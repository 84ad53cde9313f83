// Package scroll turns bursty scroll deltas into a smoothed offset that
// advances once per frame.
//
// Offsets are in grid slots: an offset of (1, 0) shifts the wall by one
// column. The two mutation points are Push (input events) and Step (frame
// tick); nothing else writes the state.
package scroll

import (
	"math"

	"media-wall/internal/config"
	"media-wall/internal/mathutil"
)

// SettleEpsilon is the residual, in slots, below which Step stops moving
// current. Far below a pixel at any realistic window size.
const SettleEpsilon = 1e-4

// Integrator owns one ScrollState.
type Integrator struct {
	target  mathutil.Vec2
	current mathutil.Vec2

	sensitivity float64
	smoothing   float64
}

// New returns an integrator at offset zero. Invalid parameters yield a
// *config.ConfigError.
func New(sensitivity, smoothing float64) (*Integrator, error) {
	if err := config.ValidateScroll(sensitivity, smoothing); err != nil {
		return nil, err
	}
	return &Integrator{sensitivity: sensitivity, smoothing: smoothing}, nil
}

// SetParams replaces sensitivity and smoothing. State is kept.
func (in *Integrator) SetParams(sensitivity, smoothing float64) error {
	if err := config.ValidateScroll(sensitivity, smoothing); err != nil {
		return err
	}
	in.sensitivity = sensitivity
	in.smoothing = smoothing
	return nil
}

// Push accumulates a raw delta in device pixels into target. Accumulation is
// unbounded in both directions. Non-finite deltas are dropped.
func (in *Integrator) Push(dx, dy float64) {
	d := mathutil.Vec2{dx, dy}
	if !d.IsFinite() {
		return
	}
	in.target = in.target.Add(d.Scale(in.sensitivity))
}

// Step advances current one frame toward target and reports whether it moved.
// A settled integrator is left untouched.
func (in *Integrator) Step() bool {
	if in.Settled() {
		return false
	}
	in.current = mathutil.Vec2{
		mathutil.Damp(in.current[0], in.target[0], in.smoothing),
		mathutil.Damp(in.current[1], in.target[1], in.smoothing),
	}
	return true
}

// Settled reports whether the residual is below SettleEpsilon on both axes.
func (in *Integrator) Settled() bool {
	return in.Residual().MaxAbs() < SettleEpsilon
}

// Current returns the smoothed offset that is rendered.
func (in *Integrator) Current() mathutil.Vec2 { return in.current }

// Target returns the accumulated raw offset.
func (in *Integrator) Target() mathutil.Vec2 { return in.target }

// Residual returns target - current.
func (in *Integrator) Residual() mathutil.Vec2 { return in.target.Sub(in.current) }

// Rebase bounds offset growth over long sessions. On each axis where
// |current| has reached limit periods, target and current are shifted by the
// same whole number of periods, leaving current in [0, period). The layout is
// periodic in the period, so the rendered frame does not change.
// Axes with a non-positive period are skipped. Reports whether it shifted.
func (in *Integrator) Rebase(period mathutil.Vec2, limit float64) bool {
	shifted := false
	for k := 0; k < 2; k++ {
		p := period[k]
		if p <= 0 || math.Abs(in.current[k]) < limit*p {
			continue
		}
		n := math.Floor(in.current[k]/p) * p
		in.current[k] -= n
		in.target[k] -= n
		shifted = true
	}
	return shifted
}

// Package animation interpolates chart values between successive loads.
//
// The controller is passive: it owns no timer. The caller drives it with a
// frame clock, sampling Progress(frame) for frame = 0..Frames and calling
// Commit once the final frame has been drawn.
package animation

import (
	"fmt"
	"math"

	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// Frames is the number of logical frames in one transition.
const Frames = constants.TransitionFrames

// Ease is quadratic ease-in-out on [0,1].
func Ease(t float64) float64 {
	t = clamp(t)
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Progress maps a frame index to animation progress in [0,1].
func Progress(frame int) float64 {
	return clamp(float64(frame) / Frames)
}

// Interpolate blends prev towards target element-wise with eased progress.
func Interpolate(prev, target []float64, progress float64) ([]float64, error) {
	if len(prev) != len(target) {
		return nil, fmt.Errorf("%w: previous has %d values, target has %d",
			model.ErrShapeMismatch, len(prev), len(target))
	}
	out := make([]float64, len(target))
	if progress >= 1 {
		copy(out, target)
		return out, nil
	}
	e := Ease(progress)
	for i := range target {
		out[i] = prev[i] + e*(target[i]-prev[i])
	}
	return out, nil
}

func clamp(t float64) float64 {
	switch {
	case t < 0 || math.IsNaN(t):
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Controller animates one chart from its last committed values to a new
// target. K is the category type of the chart.
type Controller[K any] struct {
	committed []model.Datum[K]
	previous  []float64
	target    []model.Datum[K]
	unit      string
	active    bool
}

func NewController[K any]() *Controller[K] {
	return &Controller[K]{}
}

// Begin starts a transition to target. The start state is the last
// committed series, or zeros if nothing was committed yet. A shorter start
// state is right-padded with zeros; a longer one cannot be aligned and
// yields ErrShapeMismatch, leaving the controller unchanged.
func (c *Controller[K]) Begin(target []model.Datum[K], unit string) error {
	var prev []float64
	if c.committed == nil {
		prev = make([]float64, len(target))
	} else {
		prev = model.Values(c.committed)
		if len(prev) < len(target) {
			prev = append(prev, make([]float64, len(target)-len(prev))...)
		}
	}
	if len(prev) != len(target) {
		return fmt.Errorf("%w: cannot animate %d values into %d",
			model.ErrShapeMismatch, len(prev), len(target))
	}

	c.previous = prev
	c.target = append([]model.Datum[K](nil), target...)
	c.unit = unit
	c.active = true
	return nil
}

// BeginByKey starts a transition whose start state is matched to target by
// key instead of position. Keys new to target start at zero and keys that
// left are dropped, so it never fails on a shape change.
func BeginByKey[K comparable](c *Controller[K], target []model.Datum[K], unit string) {
	committed := make(map[K]float64, len(c.committed))
	for _, d := range c.committed {
		committed[d.Key] = d.Value
	}
	prev := make([]float64, len(target))
	for i, d := range target {
		prev[i] = committed[d.Key]
	}

	c.previous = prev
	c.target = append([]model.Datum[K](nil), target...)
	c.unit = unit
	c.active = true
}

// Sample returns the target keys with values eased between the start state
// and the target. Sample(1) equals the target exactly.
func (c *Controller[K]) Sample(progress float64) []model.Datum[K] {
	if c.target == nil {
		return nil
	}
	values, _ := Interpolate(c.previous, model.Values(c.target), progress)
	out := make([]model.Datum[K], len(c.target))
	for i, d := range c.target {
		out[i] = model.Datum[K]{Key: d.Key, Value: values[i]}
	}
	return out
}

// Commit makes the current target the start state of the next transition.
func (c *Controller[K]) Commit() {
	if c.target == nil {
		return
	}
	c.committed = append([]model.Datum[K](nil), c.target...)
	c.previous = model.Values(c.target)
	c.active = false
}

// Reset forgets the committed series; the next Begin starts from zeros.
func (c *Controller[K]) Reset() {
	c.committed = nil
	c.active = false
}

// Active reports whether a transition has begun and not been committed.
func (c *Controller[K]) Active() bool {
	return c.active
}

// Unit is the unit label of the current target.
func (c *Controller[K]) Unit() string {
	return c.unit
}

// Frame returns the fully settled frame of the current target together
// with the padded start state.
func (c *Controller[K]) Frame() model.RenderFrame[K] {
	return c.FrameAt(1)
}

// FrameAt returns the frame to draw at the given progress.
func (c *Controller[K]) FrameAt(progress float64) model.RenderFrame[K] {
	prev := make([]model.Datum[K], len(c.target))
	for i, d := range c.target {
		prev[i] = model.Datum[K]{Key: d.Key}
		if i < len(c.previous) {
			prev[i].Value = c.previous[i]
		}
	}
	return model.RenderFrame[K]{Series: c.Sample(progress), Previous: prev, Unit: c.unit}
}

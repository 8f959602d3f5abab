package top

import (
	"context"
	"sync"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/animation"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/util"
)

// RefreshController turns reloaded snapshots into chart transitions.
type RefreshController struct {
	dataLoader *DataLoader
	timeAnim   *animation.Controller[time.Time]
	shareAnim  *animation.Controller[string]

	mu           sync.RWMutex
	refreshMutex sync.Mutex // Prevent concurrent refreshes
	snapshot     *Snapshot
}

func NewRefreshController(dataLoader *DataLoader) *RefreshController {
	return &RefreshController{
		dataLoader: dataLoader,
		timeAnim:   animation.NewController[time.Time](),
		shareAnim:  animation.NewController[string](),
	}
}

// Refresh loads subject over w and begins transitions to the new values.
// On error the running transitions and the last snapshot are untouched.
func (rc *RefreshController) Refresh(ctx context.Context, subject string, subjects []string, w model.Window) (*Snapshot, error) {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	snap, err := rc.dataLoader.Load(ctx, subject, subjects, w)
	if err != nil {
		return nil, err
	}

	begin(rc.timeAnim, snap.Series.Data(), snap.Unit.Label)
	animation.BeginByKey(rc.shareAnim, snap.Shares, model.UnitHours.Label)

	rc.mu.Lock()
	rc.snapshot = snap
	rc.mu.Unlock()

	util.LogDebug("refreshed chart data",
		util.F("subject", subject),
		util.F("window", w.String()),
		util.F("points", snap.Series.Len()))
	return snap, nil
}

// begin starts a transition, restarting from zeros when the committed
// series cannot be aligned with the target (e.g. after a zoom change).
func begin[K any](c *animation.Controller[K], target []model.Datum[K], unit string) {
	if err := c.Begin(target, unit); err != nil {
		util.LogDebug("restarting transition from zero", util.F("reason", err.Error()))
		c.Reset()
		_ = c.Begin(target, unit)
	}
}

// Snapshot returns the last successfully loaded snapshot
func (rc *RefreshController) Snapshot() *Snapshot {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.snapshot
}

// TimeFrame samples the time chart transition
func (rc *RefreshController) TimeFrame(progress float64) model.RenderFrame[time.Time] {
	return rc.timeAnim.FrameAt(progress)
}

// ShareFrame samples the share chart transition
func (rc *RefreshController) ShareFrame(progress float64) model.RenderFrame[string] {
	return rc.shareAnim.FrameAt(progress)
}

// Animating reports whether a transition awaits its final frame
func (rc *RefreshController) Animating() bool {
	return rc.timeAnim.Active() || rc.shareAnim.Active()
}

// Commit settles both transitions on their targets
func (rc *RefreshController) Commit() {
	rc.timeAnim.Commit()
	rc.shareAnim.Commit()
}

package top

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/animation"
	"github.com/penwyp/go-study-tracker/internal/core/calendar"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/core/window"
	"github.com/penwyp/go-study-tracker/internal/presentation/display"
	"github.com/penwyp/go-study-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-study-tracker/internal/presentation/interaction"
	"github.com/penwyp/go-study-tracker/internal/util"
)

const helpLine = "d/w/m/y zoom  h/l shift  t today  n/b subject  p share view  q quit"

// Dependencies are the collaborators an Orchestrator drives. Keyboard,
// Watcher and Screen are optional.
type Dependencies struct {
	Reader   SampleReader
	Renderer display.Renderer
	Screen   Screen
	Keyboard InputHandler
	Watcher  FileMonitor
	Clock    window.Clock
}

// Orchestrator serializes navigation commands, data changes and frame
// ticks for the top command
type Orchestrator struct {
	config *TopConfig
	deps   Dependencies

	navigator    *window.Navigator
	stateManager *StateManager
	refreshCtrl  *RefreshController

	// frames drawn since the last Begin
	frame int
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *TopConfig, deps Dependencies) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Reader == nil || deps.Renderer == nil {
		return nil, fmt.Errorf("reader and renderer are required")
	}

	cal := calendar.New(config.WeekStart, config.Location)
	nav, err := window.NewNavigator(cal, deps.Clock, config.Granularity)
	if err != nil {
		return nil, fmt.Errorf("failed to create navigator: %w", err)
	}

	return &Orchestrator{
		config:       config,
		deps:         deps,
		navigator:    nav,
		stateManager: NewStateManager(),
		refreshCtrl:  NewRefreshController(NewDataLoader(deps.Reader)),
	}, nil
}

// Run draws the first frame and then loops until ctx is done or the user
// quits.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting study tracker top...", util.F("fps", o.config.FPS))
	defer o.Close()

	if o.deps.Screen != nil {
		o.deps.Screen.EnterAlternateScreen()
		defer o.deps.Screen.ExitAlternateScreen()
	}

	if err := o.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(o.config.FrameInterval())
	defer ticker.Stop()

	var keys <-chan interaction.KeyEvent
	if o.deps.Keyboard != nil {
		keys = o.deps.Keyboard.Events()
	}
	var files <-chan model.FileEvent
	if o.deps.Watcher != nil {
		files = o.deps.Watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down study tracker top...")
			return nil

		case <-ticker.C:
			o.AdvanceFrame()

		case event, ok := <-files:
			if !ok {
				files = nil
				continue
			}
			o.handleFileChange(ctx, event)

		case keyEvent, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if o.HandleCommand(ctx, interaction.Decode(keyEvent)) {
				return nil
			}
		}
	}
}

// Start loads subjects, selects the configured one and begins the first
// transition.
func (o *Orchestrator) Start(ctx context.Context) error {
	if err := o.reloadSubjects(); err != nil {
		return err
	}
	if o.config.Subject != "" && !o.stateManager.Select(o.config.Subject) {
		util.LogWarn("configured subject not found", util.F("subject", o.config.Subject))
	}
	if _, err := o.refresh(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	return nil
}

// HandleCommand applies one decoded key; it reports true when the user
// asked to quit.
func (o *Orchestrator) HandleCommand(ctx context.Context, cmd interaction.Command) bool {
	var err error
	switch cmd.Action {
	case interaction.ActionQuit:
		return true
	case interaction.ActionZoom:
		err = o.SetGranularity(ctx, cmd.Granularity)
	case interaction.ActionShift:
		err = o.Shift(ctx, cmd.Direction)
	case interaction.ActionNextSubject:
		err = o.NextSubject(ctx, 1)
	case interaction.ActionPrevSubject:
		err = o.NextSubject(ctx, -1)
	case interaction.ActionToggleView:
		err = o.ToggleView(ctx)
	case interaction.ActionToday:
		err = o.Today(ctx)
	}
	if err != nil {
		util.LogError("command failed", util.F("error", err.Error()))
	}
	return false
}

// SetGranularity zooms and re-aligns the window around now.
func (o *Orchestrator) SetGranularity(ctx context.Context, g model.Granularity) error {
	if err := o.navigator.SetGranularity(g); err != nil {
		return err
	}
	_, err := o.refresh(ctx)
	return err
}

// Shift moves the window one period.
func (o *Orchestrator) Shift(ctx context.Context, dir model.Direction) error {
	if err := o.navigator.Shift(dir); err != nil {
		return err
	}
	_, err := o.refresh(ctx)
	return err
}

// Today jumps back to the period containing now.
func (o *Orchestrator) Today(ctx context.Context) error {
	return o.SetGranularity(ctx, o.navigator.Granularity())
}

// SelectSubject switches the time chart to subject.
func (o *Orchestrator) SelectSubject(ctx context.Context, subject string) error {
	if !o.stateManager.Select(subject) {
		return fmt.Errorf("unknown subject: %s", subject)
	}
	_, err := o.refresh(ctx)
	return err
}

// NextSubject cycles through subjects by delta.
func (o *Orchestrator) NextSubject(ctx context.Context, delta int) error {
	o.stateManager.Cycle(delta)
	_, err := o.refresh(ctx)
	return err
}

// ToggleView switches between the time chart and the share chart.
func (o *Orchestrator) ToggleView(ctx context.Context) error {
	o.stateManager.ToggleView()
	_, err := o.refresh(ctx)
	return err
}

// AdvanceFrame draws the next frame of a running transition and commits
// it once the last frame is shown.
func (o *Orchestrator) AdvanceFrame() {
	if !o.refreshCtrl.Animating() {
		return
	}
	o.frame++
	o.render(animation.Progress(o.frame))
	if o.frame >= animation.Frames {
		o.refreshCtrl.Commit()
	}
}

// Window is the viewed window.
func (o *Orchestrator) Window() model.Window {
	return o.navigator.Window()
}

// State exposes the interactive state
func (o *Orchestrator) State() *StateManager {
	return o.stateManager
}

// Snapshot is the data behind the current transition
func (o *Orchestrator) Snapshot() *Snapshot {
	return o.refreshCtrl.Snapshot()
}

func (o *Orchestrator) reloadSubjects() error {
	subjects, err := o.refreshCtrl.dataLoader.ListSubjects()
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}
	o.stateManager.SetSubjects(subjects)
	return nil
}

// refresh reloads the current selection and restarts the frame count.
// A failed load leaves the previous frame on screen with an error line.
func (o *Orchestrator) refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := o.refreshCtrl.Refresh(ctx, o.stateManager.Subject(), o.stateManager.GetSubjects(), o.navigator.Window())
	if err != nil {
		o.stateManager.SetStatus(err.Error(), true)
		o.render(animation.Progress(o.frame))
		return nil, err
	}
	o.stateManager.SetStatus("", false)
	o.stateManager.SetLastDataUpdate(snap.LoadedAt)
	o.frame = 0
	o.render(0)
	return snap, nil
}

func (o *Orchestrator) handleFileChange(ctx context.Context, event model.FileEvent) {
	util.LogDebug("data changed", util.F("path", event.Path), util.F("op", event.Operation))
	if err := o.reloadSubjects(); err != nil {
		util.LogError("reload subjects failed", util.F("error", err.Error()))
		return
	}
	if _, err := o.refresh(ctx); err != nil {
		util.LogError("reload after file change failed", util.F("error", err.Error()))
	}
}

func (o *Orchestrator) render(progress float64) {
	h := o.header()
	var err error
	if o.stateManager.View() == ViewShares {
		err = o.deps.Renderer.RenderShares(h, o.refreshCtrl.ShareFrame(progress))
	} else {
		snap := o.refreshCtrl.Snapshot()
		if snap == nil {
			return
		}
		err = o.deps.Renderer.RenderSeries(h, o.refreshCtrl.TimeFrame(progress), snap.Ticks)
	}
	if err != nil {
		util.LogError("render failed", util.F("error", err.Error()))
	}
}

func (o *Orchestrator) header() display.Header {
	w := o.navigator.Window()
	h := display.Header{
		Title:    "Study Tracker",
		Subtitle: formatter.WindowTitle(w),
		Help:     helpLine,
	}
	if o.stateManager.View() == ViewShares {
		h.Title += " · all subjects"
	} else if s := o.stateManager.Subject(); s != "" {
		h.Title += " · " + s
	}
	if snap := o.refreshCtrl.Snapshot(); snap != nil {
		h.Status = "total " + util.FormatSeconds(snap.TotalSeconds)
		if o.stateManager.View() == ViewShares {
			var sum float64
			for _, d := range snap.Shares {
				sum += d.Value
			}
			h.Status = "total " + util.FormatSeconds(model.UnitHours.ToSeconds(sum))
		}
	}
	if !o.navigator.Current() {
		h.Subtitle += "  (t: back to today)"
	}
	if msg, isErr := o.stateManager.Status(); msg != "" {
		if isErr {
			msg = util.FormatError(msg)
		}
		h.Subtitle += "  " + msg
	}
	return h
}

// Close cleans up all resources
func (o *Orchestrator) Close() error {
	var firstErr error
	if o.deps.Keyboard != nil {
		if err := o.deps.Keyboard.Close(); err != nil {
			firstErr = fmt.Errorf("failed to restore keyboard: %w", err)
		}
	}
	if o.deps.Watcher != nil {
		if err := o.deps.Watcher.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close file watcher: %w", err)
		}
	}
	return firstErr
}

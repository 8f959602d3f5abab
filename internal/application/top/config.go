package top

import (
	"fmt"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
)

// DefaultReloadDelay is the quiet period used when ReloadDelay is unset
const DefaultReloadDelay = 200 * time.Millisecond

// TopConfig contains configuration for the top command
type TopConfig struct {
	// Initial view
	Subject     string
	Granularity model.Granularity

	// Calendar
	Location  *time.Location
	WeekStart time.Weekday

	// Frame clock rate
	FPS int

	// Quiet period before reloading after file changes
	ReloadDelay time.Duration
}

// Validate fills defaults and checks ranges
func (c *TopConfig) Validate() error {
	if c.Location == nil {
		c.Location = time.Local
	}
	if !c.Granularity.Valid() {
		return fmt.Errorf("%w: %v", model.ErrInvalidGranularity, c.Granularity)
	}
	if c.FPS == 0 {
		c.FPS = constants.DefaultFPS
	}
	if c.FPS < constants.MinFPS || c.FPS > constants.MaxFPS {
		return fmt.Errorf("fps must be between %d and %d, got %d", constants.MinFPS, constants.MaxFPS, c.FPS)
	}
	if c.ReloadDelay == 0 {
		c.ReloadDelay = DefaultReloadDelay
	}
	return nil
}

// FrameInterval is the period of the frame clock.
func (c *TopConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

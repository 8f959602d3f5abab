package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-study-tracker/internal/application/top"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/core/window"
	"github.com/penwyp/go-study-tracker/internal/data/watcher"
	"github.com/penwyp/go-study-tracker/internal/presentation/display"
	"github.com/penwyp/go-study-tracker/internal/presentation/interaction"
	"github.com/penwyp/go-study-tracker/internal/util"
)

var (
	// Display related flags
	topFPS         int
	topSubject     string
	topGranularity string
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live animated chart of study time",
	Long: heredoc.Doc(`
		Similar to the Linux top command, draws the studied time of one subject
		full screen and redraws it when subject files change.

		Every change of window, zoom level or subject animates the bars from
		the values on screen to the new ones over 30 frames.

		Keys:
		  d w m y     zoom to day, week, month or year
		  h l ← →     previous or next period
		  t           back to the current period
		  n b ↓ ↑     next or previous subject
		  p           toggle the time chart and the share of all subjects
		  q Esc       quit
	`),
	SilenceUsage: true,
	RunE:         runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().IntVar(&topFPS, "fps", 0,
		"Frame clock rate in frames per second (default from config)")
	topCmd.Flags().StringVarP(&topSubject, "subject", "s", "",
		"Subject shown first")
	topCmd.Flags().StringVarP(&topGranularity, "granularity", "g", "",
		"Initial zoom level (day, week, month, year)")
}

func runTop(cmd *cobra.Command, args []string) error {
	// Console logs would tear the full-screen chart
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	if err := env.store.EnsureDefaultSubject(); err != nil {
		return fmt.Errorf("failed to prepare data directory: %w", err)
	}

	config, err := topConfig(cmd, env)
	if err != nil {
		return err
	}

	term := display.NewTerminalDisplay(os.Stdout, nil)
	deps := top.Dependencies{
		Reader:   env.store,
		Renderer: term,
		Screen:   term,
		Clock:    window.ClockFunc(util.GetTimeProvider().Now),
	}

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		util.LogWarn("keyboard input unavailable", util.F("error", err.Error()))
	} else {
		deps.Keyboard = keyboard
	}

	fw, err := watcher.NewFileWatcher(env.store.Dir())
	if err != nil {
		util.LogWarn("file watching unavailable", util.F("error", err.Error()))
	} else {
		deps.Watcher = newDebouncedWatcher(fw, config)
	}

	orchestrator, err := top.NewOrchestrator(config, deps)
	if err != nil {
		if deps.Keyboard != nil {
			_ = deps.Keyboard.Close()
		}
		if deps.Watcher != nil {
			_ = deps.Watcher.Close()
		}
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return orchestrator.Run(ctx)
}

// topConfig merges top flags over the loaded configuration.
func topConfig(cmd *cobra.Command, env *environment) (*top.TopConfig, error) {
	cfg := env.config
	if cmd.Flags().Changed("fps") {
		cfg.FPS = topFPS
	}
	if cmd.Flags().Changed("granularity") {
		cfg.Granularity = strings.ToLower(topGranularity)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	selected := cfg.Subject
	if cmd.Flags().Changed("subject") {
		selected = topSubject
	}

	return &top.TopConfig{
		Subject:     selected,
		Granularity: cfg.DefaultGranularity(),
		Location:    env.location,
		WeekStart:   cfg.WeekStartDay(),
		FPS:         cfg.FPS,
	}, nil
}

// debouncedWatcher reports one event per burst of subject file writes.
type debouncedWatcher struct {
	*watcher.FileWatcher
	events <-chan model.FileEvent
}

func newDebouncedWatcher(fw *watcher.FileWatcher, config *top.TopConfig) *debouncedWatcher {
	delay := config.ReloadDelay
	if delay <= 0 {
		delay = top.DefaultReloadDelay
	}
	return &debouncedWatcher{
		FileWatcher: fw,
		events:      watcher.Debounce(fw.Events(), delay),
	}
}

func (d *debouncedWatcher) Events() <-chan model.FileEvent {
	return d.events
}

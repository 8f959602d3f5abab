package top

import (
	"context"

	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/presentation/interaction"
)

// SampleReader supplies raw samples per subject
type SampleReader interface {
	// ReadSamples returns every stored sample of a subject
	ReadSamples(ctx context.Context, subject string) ([]model.Sample, error)
	// ListSubjects returns subject names in display order
	ListSubjects() ([]string, error)
}

// Screen switches the terminal in and out of full-screen mode
type Screen interface {
	EnterAlternateScreen()
	ExitAlternateScreen()
}

// InputHandler processes keyboard and other input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan model.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}

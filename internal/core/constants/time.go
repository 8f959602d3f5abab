package constants

import "time"

const (
	// Bucketing
	BucketDuration        = time.Hour
	BucketDurationSeconds = int64(3600)

	// Days per week window
	DaysPerWeek = 7

	// Animation frames per transition
	TransitionFrames = 30

	// Frame clock bounds for the live view
	DefaultFPS = 60
	MinFPS     = 1
	MaxFPS     = 240

	// Upper bound on labelled axis ticks for coarse zoom levels
	MaxTicks = 12

	// Upper bound on a manually logged session
	MaxSessionDuration = 24 * time.Hour

	// Default sample cache lifetime
	DefaultCacheTTL = 5 * time.Minute
)

// DefaultSubject is created in an empty data directory.
const DefaultSubject = "General"

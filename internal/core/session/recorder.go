// Package session records study sessions and splits them into hourly samples.
package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/penwyp/go-study-tracker/internal/core/calendar"
	"github.com/penwyp/go-study-tracker/internal/core/constants"
	"github.com/penwyp/go-study-tracker/internal/core/model"
)

var (
	ErrAlreadyRunning = errors.New("session already running")
	ErrNotRunning     = errors.New("no session running")
	ErrInvalidSession = errors.New("invalid session")
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Session is a finished interval of study on one subject.
type Session struct {
	Subject string
	Start   time.Time
	Stop    time.Time
}

// NewSession validates a manually entered interval.
func NewSession(subject string, start, stop time.Time) (Session, error) {
	if !stop.After(start) {
		return Session{}, fmt.Errorf("%w: stop %s is not after start %s",
			ErrInvalidSession, stop.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if stop.Sub(start) > constants.MaxSessionDuration {
		return Session{}, fmt.Errorf("%w: longer than %s", ErrInvalidSession, constants.MaxSessionDuration)
	}
	return Session{Subject: subject, Start: start, Stop: stop}, nil
}

func (s Session) Duration() time.Duration {
	return s.Stop.Sub(s.Start)
}

// Samples splits the session at local hour boundaries of loc. Each sample
// is stamped with the hour it falls in, and the seconds add up to the
// session duration.
func (s Session) Samples(loc *time.Location) []model.Sample {
	if loc == nil {
		loc = time.Local
	}
	var samples []model.Sample
	cur := s.Start.In(loc)
	stop := s.Stop.In(loc)
	for cur.Before(stop) {
		hour := calendar.StartOfHour(cur)
		next := hour.Add(constants.BucketDuration)
		if next.After(stop) {
			next = stop
		}
		samples = append(samples, model.Sample{Timestamp: hour, StudiedSeconds: next.Sub(cur).Seconds()})
		cur = next
	}
	return samples
}

// Recorder is the running study timer of one subject.
type Recorder struct {
	subject string
	clock   Clock
	start   time.Time
	running bool
}

// NewRecorder returns a stopped recorder. A nil clock uses the system clock.
func NewRecorder(subject string, clock Clock) *Recorder {
	if clock == nil {
		clock = systemClock{}
	}
	return &Recorder{subject: subject, clock: clock}
}

func (r *Recorder) Start() error {
	if r.running {
		return ErrAlreadyRunning
	}
	r.start = r.clock.Now()
	r.running = true
	return nil
}

// Stop ends the running session and returns it.
func (r *Recorder) Stop() (Session, error) {
	if !r.running {
		return Session{}, ErrNotRunning
	}
	r.running = false
	return Session{Subject: r.subject, Start: r.start, Stop: r.clock.Now()}, nil
}

// Elapsed is the time since Start, or zero when stopped.
func (r *Recorder) Elapsed() time.Duration {
	if !r.running {
		return 0
	}
	return r.clock.Now().Sub(r.start)
}

func (r *Recorder) Running() bool {
	return r.running
}

func (r *Recorder) StartedAt() time.Time {
	return r.start
}

func (r *Recorder) Subject() string {
	return r.subject
}

// ElapsedParts breaks d into clock-face hours, minutes and seconds.
// Seconds are rounded to the nearest whole second.
func ElapsedParts(d time.Duration) (hours, minutes, seconds int) {
	if d < 0 {
		d = 0
	}
	total := int64(math.Round(d.Seconds()))
	return int(total / 3600), int(total % 3600 / 60), int(total % 60)
}

package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-study-tracker/internal/core/session"
	"github.com/penwyp/go-study-tracker/internal/data/store"
)

func TestStudyPastSession(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "study", "Math", "--from", "2024-03-11 09:30", "--to", "2024-03-11 11:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 1h 30m of Math")

	samples, err := env.store(t).ReadSamples(context.Background(), "Math")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), samples[0].Timestamp)
	assert.Equal(t, 1800.0, samples[0].StudiedSeconds)
	assert.Equal(t, 3600.0, samples[1].StudiedSeconds)

	// a second session in the same hour is summed
	_, err = env.run(t, "study", "Math", "--from", "2024-03-11 10:00", "--to", "2024-03-11 10:15")
	require.NoError(t, err)
	samples, err = env.store(t).ReadSamples(context.Background(), "Math")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 4500.0, samples[1].StudiedSeconds)
}

func TestStudyErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		args    []string
		target  error
		errPart string
	}{
		{"missing_to", []string{"study", "Math", "--from", "2024-03-11 09:00"}, nil, "--from and --to"},
		{"reversed", []string{"study", "Math", "--from", "2024-03-11 10:00", "--to", "2024-03-11 09:00"}, session.ErrInvalidSession, ""},
		{"too_long", []string{"study", "Math", "--from", "2024-03-10", "--to", "2024-03-12"}, session.ErrInvalidSession, ""},
		{"bad_from", []string{"study", "Math", "--from", "soon", "--to", "2024-03-11 09:00"}, nil, "invalid --from"},
		{"bad_subject", []string{"study", ".hidden", "--from", "2024-03-11 09:00", "--to", "2024-03-11 10:00"}, store.ErrInvalidSubject, ""},
		{"no_subject", []string{"study"}, nil, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
			if tt.errPart != "" {
				assert.Contains(t, err.Error(), tt.errPart)
			}
		})
	}
}

func TestRunTimer(t *testing.T) {
	start := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	calls := 0
	clock := session.ClockFunc(func() time.Time {
		// each reading is ten minutes after the previous one
		now := start.Add(time.Duration(calls) * 10 * time.Minute)
		calls++
		return now
	})
	rec := session.NewRecorder("Math", clock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	sess, err := runTimer(ctx, &buf, rec, time.Hour)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "00:10:00")
	assert.Equal(t, "Math", sess.Subject)
	assert.Equal(t, start, sess.Start)
	assert.Equal(t, 20*time.Minute, sess.Duration())
	assert.False(t, rec.Running())
}

func TestSaveSessionSkipsEmpty(t *testing.T) {
	env := newTestEnv(t)
	st := env.store(t)
	stamp := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	require.NoError(t, saveSession(context.Background(), st, session.Session{Subject: "Math", Start: stamp, Stop: stamp}, time.UTC))
	assert.False(t, st.Exists("Math"))
}

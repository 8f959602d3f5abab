package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-study-tracker/internal/application/top"
	"github.com/penwyp/go-study-tracker/internal/config"
	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/data/watcher"
)

func TestTopConfig(t *testing.T) {
	tests := []struct {
		name    string
		flags   map[string]string
		fps     int
		g       model.Granularity
		subject string
		wantErr bool
	}{
		{"config_defaults", nil, 60, model.GranularityDay, "General", false},
		{"flags_override", map[string]string{"fps": "30", "granularity": "Week", "subject": "Math"}, 30, model.GranularityWeek, "Math", false},
		{"fps_out_of_range", map[string]string{"fps": "500"}, 0, 0, "", true},
		{"bad_granularity", map[string]string{"granularity": "decade"}, 0, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(topCmd)
			for k, v := range tt.flags {
				require.NoError(t, topCmd.Flags().Set(k, v))
			}
			env := &environment{config: config.Default(), location: time.UTC}

			cfg, err := topConfig(topCmd, env)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.fps, cfg.FPS)
			assert.Equal(t, tt.g, cfg.Granularity)
			assert.Equal(t, tt.subject, cfg.Subject)
			assert.Equal(t, time.UTC, cfg.Location)
			assert.Equal(t, time.Monday, cfg.WeekStart)
		})
	}
	resetFlags(topCmd)
}

func TestDebouncedWatcher(t *testing.T) {
	dir := t.TempDir()
	fw, err := watcher.NewFileWatcher(dir)
	require.NoError(t, err)

	dw := newDebouncedWatcher(fw, &top.TopConfig{ReloadDelay: 20 * time.Millisecond})

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Math.parquet"), []byte{byte(i)}, 0644))
	}

	select {
	case ev := <-dw.Events():
		assert.Equal(t, filepath.Join(dir, "Math.parquet"), ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a debounced event")
	}

	require.NoError(t, dw.Close())
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-dw.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel should close with the watcher")
		}
	}
}

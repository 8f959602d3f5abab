package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-study-tracker/internal/core/model"
	"github.com/penwyp/go-study-tracker/internal/data/scanner"
	"github.com/penwyp/go-study-tracker/internal/util"
)

// FileWatcher reports changes to subject files in a data directory.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	dir     string
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once
}

func NewFileWatcher(dir string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Subjects live at the top level only, so the directory itself is enough.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		dir:     dir,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !scanner.IsSubjectFile(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			fe := model.FileEvent{Path: event.Name, Operation: event.Op.String()}
			select {
			case fw.events <- fe:
			case <-fw.done:
				return
			default:
				// The consumer reloads everything on any event, so a full
				// buffer already guarantees a reload.
				util.LogDebug("dropping file event", util.F("path", event.Name))
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}

// Debounce collapses bursts of events into one signal per quiet period.
// The returned channel closes when in closes.
func Debounce(in <-chan model.FileEvent, quiet time.Duration) <-chan model.FileEvent {
	out := make(chan model.FileEvent, 1)
	go func() {
		defer close(out)
		var (
			timer   *time.Timer
			timerC  <-chan time.Time
			pending model.FileEvent
		)
		for {
			select {
			case ev, ok := <-in:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					return
				}
				pending = ev
				if timer == nil {
					timer = time.NewTimer(quiet)
				} else {
					timer.Reset(quiet)
				}
				timerC = timer.C
			case <-timerC:
				timerC = nil
				select {
				case out <- pending:
				default:
				}
			}
		}
	}()
	return out
}

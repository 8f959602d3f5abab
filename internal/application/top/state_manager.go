package top

import (
	"sync"
	"time"
)

// View is which chart the top screen shows.
type View int

const (
	ViewTime View = iota
	ViewShares
)

func (v View) String() string {
	if v == ViewShares {
		return "share"
	}
	return "time"
}

// StateManager holds the interactive state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	subjects []string
	current  int
	view     View

	// Status line
	message string
	isError bool

	lastDataUpdate time.Time
}

func NewStateManager() *StateManager {
	return &StateManager{}
}

// SetSubjects replaces the subject list and keeps the selection on the
// same name when it still exists.
func (sm *StateManager) SetSubjects(subjects []string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	selected := ""
	if sm.current < len(sm.subjects) {
		selected = sm.subjects[sm.current]
	}
	sm.subjects = append([]string(nil), subjects...)
	sm.current = 0
	for i, s := range sm.subjects {
		if s == selected {
			sm.current = i
			break
		}
	}
}

// GetSubjects returns a copy of the subject list
func (sm *StateManager) GetSubjects() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]string(nil), sm.subjects...)
}

// Select makes name the current subject; it reports false for unknown names.
func (sm *StateManager) Select(name string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for i, s := range sm.subjects {
		if s == name {
			sm.current = i
			return true
		}
	}
	return false
}

// Cycle moves the selection by delta, wrapping around.
func (sm *StateManager) Cycle(delta int) string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	n := len(sm.subjects)
	if n == 0 {
		return ""
	}
	sm.current = ((sm.current+delta)%n + n) % n
	return sm.subjects[sm.current]
}

// Subject returns the current subject, empty when there are none.
func (sm *StateManager) Subject() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.current >= len(sm.subjects) {
		return ""
	}
	return sm.subjects[sm.current]
}

func (sm *StateManager) View() View {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.view
}

func (sm *StateManager) ToggleView() View {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.view == ViewTime {
		sm.view = ViewShares
	} else {
		sm.view = ViewTime
	}
	return sm.view
}

// SetStatus sets the status line message
func (sm *StateManager) SetStatus(message string, isError bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.message = message
	sm.isError = isError
}

// Status returns the status line message
func (sm *StateManager) Status() (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.message, sm.isError
}

func (sm *StateManager) SetLastDataUpdate(t time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastDataUpdate = t
}

func (sm *StateManager) GetLastDataUpdate() time.Time {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastDataUpdate
}

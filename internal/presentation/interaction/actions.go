package interaction

import "github.com/penwyp/go-study-tracker/internal/core/model"

// Action is what the interactive view does in response to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionZoom
	ActionShift
	ActionNextSubject
	ActionPrevSubject
	ActionToggleView
	ActionToday
)

// Command is a decoded key binding.
type Command struct {
	Action      Action
	Granularity model.Granularity
	Direction   model.Direction
}

// Decode maps a key event onto a command.
//
//	d w m y   zoom to day, week, month or year
//	h ←  l →  shift the window back or forward
//	n b ↓ ↑   next / previous subject
//	p s Tab   toggle between time and share charts
//	t         jump back to the current period
//	q Ctrl+C  quit
func Decode(ev KeyEvent) Command {
	switch ev.Type {
	case KeyLeft:
		return Command{Action: ActionShift, Direction: model.DirectionBack}
	case KeyRight:
		return Command{Action: ActionShift, Direction: model.DirectionForward}
	case KeyUp:
		return Command{Action: ActionPrevSubject}
	case KeyDown:
		return Command{Action: ActionNextSubject}
	case KeyEscape:
		return Command{Action: ActionQuit}
	case KeyChar:
	default:
		return Command{}
	}

	switch ev.Key {
	case keyCtrlC, 'q', 'Q':
		return Command{Action: ActionQuit}
	case 'd', 'w', 'm', 'y', 'D', 'W', 'M', 'Y':
		g, err := model.ParseGranularity(string(ev.Key))
		if err != nil {
			return Command{}
		}
		return Command{Action: ActionZoom, Granularity: g}
	case 'h', 'H':
		return Command{Action: ActionShift, Direction: model.DirectionBack}
	case 'l', 'L':
		return Command{Action: ActionShift, Direction: model.DirectionForward}
	case 'n', 'N':
		return Command{Action: ActionNextSubject}
	case 'b', 'B':
		return Command{Action: ActionPrevSubject}
	case 'p', 'P', 's', 'S', '\t':
		return Command{Action: ActionToggleView}
	case 't', 'T':
		return Command{Action: ActionToday}
	}
	return Command{}
}

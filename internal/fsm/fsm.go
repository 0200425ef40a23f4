package fsm

import "fmt"

type State string

type Event string

const (
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
)

const (
	EventPause  Event = "pause"
	EventResume Event = "resume"
	EventStop   Event = "stop"
)

// Transition applies one lifecycle event to the current tracker state.
// Pause while paused and resume while running are valid self-transitions,
// so external controls stay idempotent. Stopped is terminal.
func Transition(current State, event Event) (State, error) {
	if event == EventStop {
		if current == StateStopped {
			return current, invalidTransition(current, event)
		}
		return StateStopped, nil
	}

	switch current {
	case StateRunning:
		switch event {
		case EventPause:
			return StatePaused, nil
		case EventResume:
			return StateRunning, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StatePaused:
		switch event {
		case EventResume:
			return StateRunning, nil
		case EventPause:
			return StatePaused, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStopped:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}

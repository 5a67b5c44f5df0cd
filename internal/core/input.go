package core

// Action is a semantic user intent, abstracted from physical keys.
type Action int

const (
	ActionNone         Action = iota
	ActionGravityDown         // Down arrow - gravity toward the bottom row
	ActionGravityUp           // Up arrow
	ActionGravityLeft         // Left arrow
	ActionGravityRight        // Right arrow
	ActionRotateLeft          // [ - rotate gravity counter-clockwise
	ActionRotateRight         // ] - rotate gravity clockwise
	ActionToggleTilt          // T - start/stop the tilt sampler
	ActionPause               // P, Space
	ActionStep                // . - advance one tick while paused
	ActionReset               // R - rebuild the scenario
	ActionSave                // S - store a snapshot
	ActionBack                // Esc, B - back to the scenario menu
	ActionQuit                // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionGravityDown:
		return "GravityDown"
	case ActionGravityUp:
		return "GravityUp"
	case ActionGravityLeft:
		return "GravityLeft"
	case ActionGravityRight:
		return "GravityRight"
	case ActionRotateLeft:
		return "RotateLeft"
	case ActionRotateRight:
		return "RotateRight"
	case ActionToggleTilt:
		return "ToggleTilt"
	case ActionPause:
		return "Pause"
	case ActionStep:
		return "Step"
	case ActionReset:
		return "Reset"
	case ActionSave:
		return "Save"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two ticks, in order.
// Repeated actions are kept so two presses of a rotate key rotate twice.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set records an action for this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.actions = append(f.actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.actions {
		if got == a {
			return true
		}
	}
	return false
}

// Actions returns the recorded actions in the order they arrived.
func (f InputFrame) Actions() []Action {
	return f.actions
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.actions = f.actions[:0]
}

// Package gesture classifies a single frame of hand keypoints into a cursor
// control mode.
package gesture

// Mode is the primary gesture recognised in one frame.
type Mode int

const (
	ModeIdle Mode = iota
	ModeMultitask
	ModeScroll
	ModeClick
	ModeDrag
	ModeMove
)

var modeNames = [...]string{
	ModeIdle:      "idle",
	ModeMultitask: "multitask",
	ModeScroll:    "scroll",
	ModeClick:     "click",
	ModeDrag:      "drag",
	ModeMove:      "move",
}

var modeLabels = [...]string{
	ModeMultitask: "MULTITASKING",
	ModeScroll:    "SCROLLING",
	ModeClick:     "LEFT CLICK",
	ModeDrag:      "DRAGGING",
	ModeMove:      "MOVING",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Label returns the overlay banner for the mode, empty for Idle.
func (m Mode) Label() string {
	if m < 0 || int(m) >= len(modeLabels) {
		return ""
	}
	return modeLabels[m]
}

// Frozen reports whether the mode suppresses all pointer logic.
func (m Mode) Frozen() bool {
	return m == ModeMultitask || m == ModeScroll
}

// MarshalText lets modes appear by name in JSON.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

package control

import (
	"fmt"
	"strings"
)

// Recorder is an Actuator that records calls instead of injecting input.
// It is used by tests.
type Recorder struct {
	Width, Height int
	Calls         []string
	// OnCall, when set, runs before each call is recorded.
	OnCall func(call string)
}

// NewRecorder creates a Recorder reporting the given screen size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) record(format string, args ...interface{}) {
	call := fmt.Sprintf(format, args...)
	if r.OnCall != nil {
		r.OnCall(call)
	}
	r.Calls = append(r.Calls, call)
}

func (r *Recorder) MoveTo(x, y int)       { r.record("move(%d,%d)", x, y) }
func (r *Recorder) Click()                { r.record("click") }
func (r *Recorder) MouseDown()            { r.record("down") }
func (r *Recorder) MouseUp()              { r.record("up") }
func (r *Recorder) Scroll(amount int)     { r.record("scroll(%d)", amount) }
func (r *Recorder) Hotkey(keys ...string) { r.record("hotkey(%s)", strings.Join(keys, "+")) }

func (r *Recorder) ScreenSize() (int, int) {
	return r.Width, r.Height
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() {
	r.Calls = nil
}

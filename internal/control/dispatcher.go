package control

import (
	"math"
	"time"

	"github.com/ayusman/gesturemouse/internal/gesture"
)

// Dispatch tuning.
const (
	ClickCooldown     = 500 * time.Millisecond
	MultitaskCooldown = 2500 * time.Millisecond

	// ScrollDeadzone is the minimum per-frame fingertip travel in pixels
	// before a scroll is emitted.
	ScrollDeadzone    = 5.0
	ScrollSensitivity = 1.5
	ScrollMultiplier  = 10

	// SmoothFactor weights the new target in the cursor moving average.
	SmoothFactor = 0.5

	// FrameMargin insets the capture rectangle so screen edges are reachable
	// without the hand leaving the camera view.
	FrameMargin = 100
)

// Kind names a dispatched action.
type Kind string

const (
	KindSwitchWindows Kind = "switch_windows"
	KindScroll        Kind = "scroll"
	KindClick         Kind = "click"
	KindMouseDown     Kind = "mouse_down"
	KindMouseUp       Kind = "mouse_up"
	KindMove          Kind = "move"
)

// Action is one call made on the Actuator.
type Action struct {
	Kind   Kind         `json:"kind"`
	Mode   gesture.Mode `json:"mode"`
	X      int          `json:"x,omitempty"`
	Y      int          `json:"y,omitempty"`
	Amount int          `json:"amount,omitempty"`
}

// State is a snapshot of the dispatcher's persistent fields.
type State struct {
	CursorX      float64 `json:"cursor_x"`
	CursorY      float64 `json:"cursor_y"`
	Dragging     bool    `json:"dragging"`
	ScrollY      float64 `json:"scroll_y"`
	HasScrollY   bool    `json:"has_scroll_y"`
	ScreenWidth  int     `json:"screen_width"`
	ScreenHeight int     `json:"screen_height"`
}

// Dispatcher owns the cursor, drag, scroll and cooldown state of one session
// and maps each frame's gesture onto Actuator calls.
type Dispatcher struct {
	act        Actuator
	switchKeys []string

	frameW, frameH   int
	screenW, screenH int

	cursorX, cursorY float64
	dragging         bool

	prevScrollY float64
	hasScrollY  bool

	lastClick     time.Time
	lastMultitask time.Time
}

// NewDispatcher creates a dispatcher for frames of the given size. The target
// screen size is read from the actuator once.
func NewDispatcher(act Actuator, frameW, frameH int) *Dispatcher {
	screenW, screenH := act.ScreenSize()
	return &Dispatcher{
		act:        act,
		switchKeys: defaultSwitchKeys,
		frameW:     frameW,
		frameH:     frameH,
		screenW:    screenW,
		screenH:    screenH,
	}
}

// SetSwitchKeys overrides the window-switcher key combination.
func (d *Dispatcher) SetSwitchKeys(keys ...string) {
	d.switchKeys = keys
}

// SetFrameSize sets the capture size fingertip positions are mapped from.
// Cameras may deliver a different size than requested, so callers pass the
// size of each frame they process. Non-positive sizes are ignored.
func (d *Dispatcher) SetFrameSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.frameW, d.frameH = width, height
}

// FrameSize returns the capture size positions are mapped from.
func (d *Dispatcher) FrameSize() (int, int) {
	return d.frameW, d.frameH
}

// Dispatch performs the actions for one classified frame and returns them in
// the order they were issued.
func (d *Dispatcher) Dispatch(res gesture.Result, now time.Time) []Action {
	if res.Mode != gesture.ModeScroll {
		d.hasScrollY = false
	}

	switch res.Mode {
	case gesture.ModeMultitask:
		if cooledDown(d.lastMultitask, now, MultitaskCooldown) {
			d.act.Hotkey(d.switchKeys...)
			d.lastMultitask = now
			return []Action{{Kind: KindSwitchWindows, Mode: res.Mode}}
		}
		return nil
	case gesture.ModeScroll:
		return d.scroll(res)
	}

	if !res.Hand {
		return nil
	}

	var actions []Action

	if res.Click && cooledDown(d.lastClick, now, ClickCooldown) {
		d.act.Click()
		d.lastClick = now
		actions = append(actions, Action{Kind: KindClick, Mode: res.Mode})
	}

	if res.Pinch {
		if !d.dragging {
			d.act.MouseDown()
			d.dragging = true
			actions = append(actions, Action{Kind: KindMouseDown, Mode: res.Mode})
		}
	} else if d.dragging {
		d.act.MouseUp()
		d.dragging = false
		actions = append(actions, Action{Kind: KindMouseUp, Mode: res.Mode})
	}

	if res.Move {
		x, y := d.move(res.IndexTip.X, res.IndexTip.Y)
		actions = append(actions, Action{Kind: KindMove, Mode: res.Mode, X: x, Y: y})
	}

	return actions
}

func (d *Dispatcher) scroll(res gesture.Result) []Action {
	var actions []Action
	if d.hasScrollY {
		dy := res.ScrollY - d.prevScrollY
		if math.Abs(dy) > ScrollDeadzone {
			// Natural scrolling: fingers moving down scroll content up.
			amount := -int(dy*ScrollSensitivity) * ScrollMultiplier
			d.act.Scroll(amount)
			actions = append(actions, Action{Kind: KindScroll, Mode: res.Mode, Amount: amount})
		}
	}
	d.prevScrollY = res.ScrollY
	d.hasScrollY = true
	return actions
}

func (d *Dispatcher) move(px, py int) (int, int) {
	targetX := Interp(float64(px), FrameMargin, float64(d.frameW-FrameMargin), 0, float64(d.screenW))
	targetY := Interp(float64(py), FrameMargin, float64(d.frameH-FrameMargin), 0, float64(d.screenH))

	d.cursorX += (targetX - d.cursorX) * SmoothFactor
	d.cursorY += (targetY - d.cursorY) * SmoothFactor

	x, y := int(math.Round(d.cursorX)), int(math.Round(d.cursorY))
	d.act.MoveTo(x, y)
	return x, y
}

// Release lifts a held drag. It reports whether a mouse-up was issued and is
// safe to call any number of times.
func (d *Dispatcher) Release() bool {
	if !d.dragging {
		return false
	}
	d.act.MouseUp()
	d.dragging = false
	return true
}

// Dragging reports whether the pointer button is currently held.
func (d *Dispatcher) Dragging() bool {
	return d.dragging
}

// State returns a snapshot of the persistent fields.
func (d *Dispatcher) State() State {
	return State{
		CursorX:      d.cursorX,
		CursorY:      d.cursorY,
		Dragging:     d.dragging,
		ScrollY:      d.prevScrollY,
		HasScrollY:   d.hasScrollY,
		ScreenWidth:  d.screenW,
		ScreenHeight: d.screenH,
	}
}

// Interp maps v linearly from [inLo, inHi] onto [outLo, outHi], clamping
// values outside the input range to the output ends.
func Interp(v, inLo, inHi, outLo, outHi float64) float64 {
	if v <= inLo {
		return outLo
	}
	if v >= inHi {
		return outHi
	}
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}

func cooledDown(last, now time.Time, cooldown time.Duration) bool {
	return last.IsZero() || now.Sub(last) > cooldown
}

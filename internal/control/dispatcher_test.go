package control

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturemouse/internal/gesture"
)

const (
	frameW, frameH   = 640, 480
	screenW, screenH = 1000, 500
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestDispatcher() (*Dispatcher, *Recorder) {
	rec := NewRecorder(screenW, screenH)
	d := NewDispatcher(rec, frameW, frameH)
	d.SetSwitchKeys("cmd", "tab")
	return d, rec
}

func clickFrame() gesture.Result {
	return gesture.Result{Mode: gesture.ModeClick, Hand: true, Click: true}
}

func pinchFrame(distance float64) gesture.Result {
	return gesture.Result{
		Mode:          gesture.ModeMove,
		Hand:          true,
		Pinch:         distance < gesture.PinchDistance,
		PinchDistance: distance,
	}
}

func scrollFrame(y float64) gesture.Result {
	return gesture.Result{Mode: gesture.ModeScroll, Hand: true, ScrollY: y}
}

func moveFrame(x, y int) gesture.Result {
	return gesture.Result{Mode: gesture.ModeMove, Hand: true, Move: true, IndexTip: image.Point{X: x, Y: y}}
}

func TestDispatcher_ClickCooldown(t *testing.T) {
	tests := []struct {
		name  string
		after time.Duration
		fires bool
	}{
		{"within cooldown", 300 * time.Millisecond, false},
		{"exactly at cooldown", ClickCooldown, false},
		{"after cooldown", 600 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDispatcher()

			first := d.Dispatch(clickFrame(), t0)
			require.Len(t, first, 1)
			assert.Equal(t, KindClick, first[0].Kind)

			second := d.Dispatch(clickFrame(), t0.Add(tt.after))
			if tt.fires {
				assert.Len(t, second, 1)
				assert.Equal(t, 2, rec.Count("click"))
			} else {
				assert.Empty(t, second)
				assert.Equal(t, 1, rec.Count("click"))
			}
		})
	}
}

func TestDispatcher_ClickCooldownHeldPosture(t *testing.T) {
	d, rec := newTestDispatcher()

	// Posture held at 30 fps for one second fires at 0 and just after 0.5 s.
	for i := 0; i < 30; i++ {
		d.Dispatch(clickFrame(), t0.Add(time.Duration(i)*time.Second/30))
	}
	assert.Equal(t, 2, rec.Count("click"))
}

func TestDispatcher_DragSequence(t *testing.T) {
	d, rec := newTestDispatcher()

	distances := []float64{50, 30, 30, 50}
	wantDragging := []bool{false, true, true, false}
	wantCalls := [][]string{nil, {"down"}, nil, {"up"}}

	assert.False(t, d.Dragging())
	for i, dist := range distances {
		rec.Reset()
		d.Dispatch(pinchFrame(dist), t0.Add(time.Duration(i)*33*time.Millisecond))

		assert.Equal(t, wantDragging[i], d.Dragging(), "frame %d dragging", i)
		assert.Equal(t, wantCalls[i], rec.Calls, "frame %d calls", i)
	}
}

func TestDispatcher_Scroll(t *testing.T) {
	tests := []struct {
		name  string
		ys    []float64
		calls []string
	}{
		{"fingers move down past deadzone", []float64{100, 108}, []string{"scroll(-120)"}},
		{"fingers move up past deadzone", []float64{100, 92}, []string{"scroll(120)"}},
		{"inside deadzone", []float64{100, 102}, nil},
		{"on the deadzone", []float64{100, 105}, nil},
		{"first frame only primes", []float64{300}, nil},
		{"fractional delta truncates", []float64{100, 105.5}, []string{"scroll(-80)"}},
		{"previous always updated", []float64{100, 103, 106, 109}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDispatcher()
			for i, y := range tt.ys {
				d.Dispatch(scrollFrame(y), t0.Add(time.Duration(i)*33*time.Millisecond))
			}
			assert.Equal(t, tt.calls, rec.Calls)
		})
	}
}

func TestDispatcher_ScrollResetByOtherFrame(t *testing.T) {
	others := map[string]gesture.Result{
		"move":      moveFrame(320, 240),
		"no hand":   gesture.Idle,
		"multitask": {Mode: gesture.ModeMultitask, Hand: true},
	}

	for name, other := range others {
		t.Run(name, func(t *testing.T) {
			d, rec := newTestDispatcher()

			d.Dispatch(scrollFrame(100), t0)
			d.Dispatch(other, t0.Add(33*time.Millisecond))
			assert.False(t, d.State().HasScrollY)

			rec.Reset()
			d.Dispatch(scrollFrame(140), t0.Add(66*time.Millisecond))
			assert.Zero(t, rec.Count("scroll"))
			assert.True(t, d.State().HasScrollY)
		})
	}
}

func TestDispatcher_MultitaskCooldown(t *testing.T) {
	d, rec := newTestDispatcher()
	frame := gesture.Result{Mode: gesture.ModeMultitask, Hand: true}

	actions := d.Dispatch(frame, t0)
	require.Len(t, actions, 1)
	assert.Equal(t, KindSwitchWindows, actions[0].Kind)

	assert.Empty(t, d.Dispatch(frame, t0.Add(2*time.Second)))
	assert.Empty(t, d.Dispatch(frame, t0.Add(MultitaskCooldown)))
	assert.Len(t, d.Dispatch(frame, t0.Add(2600*time.Millisecond)), 1)

	assert.Equal(t, []string{"hotkey(cmd+tab)", "hotkey(cmd+tab)"}, rec.Calls)
}

func TestDispatcher_FrozenModesSkipPointerLogic(t *testing.T) {
	d, rec := newTestDispatcher()

	d.Dispatch(pinchFrame(10), t0)
	require.True(t, d.Dragging())
	rec.Reset()

	frozen := []gesture.Result{
		{Mode: gesture.ModeMultitask, Hand: true, Move: true, IndexTip: image.Point{X: 300, Y: 300}},
		scrollFrame(200),
		scrollFrame(201),
	}
	for i, res := range frozen {
		d.Dispatch(res, t0.Add(time.Duration(i+1)*33*time.Millisecond))
	}

	assert.True(t, d.Dragging(), "frozen modes leave the drag held")
	assert.Zero(t, rec.Count("move"))
	assert.Zero(t, rec.Count("up"))
}

func TestDispatcher_NoHandKeepsDrag(t *testing.T) {
	d, rec := newTestDispatcher()

	d.Dispatch(pinchFrame(10), t0)
	rec.Reset()

	assert.Empty(t, d.Dispatch(gesture.Idle, t0.Add(33*time.Millisecond)))
	assert.True(t, d.Dragging())
	assert.Empty(t, rec.Calls)

	// A detected hand without the pinch releases it.
	d.Dispatch(gesture.Result{Mode: gesture.ModeIdle, Hand: true}, t0.Add(66*time.Millisecond))
	assert.False(t, d.Dragging())
	assert.Equal(t, []string{"up"}, rec.Calls)
}

func TestDispatcher_MoveSmoothing(t *testing.T) {
	d, rec := newTestDispatcher()

	// Bottom-right margin corner maps to the screen corner (1000, 500).
	d.Dispatch(moveFrame(frameW-FrameMargin, frameH-FrameMargin), t0)
	d.Dispatch(moveFrame(frameW-FrameMargin, frameH-FrameMargin), t0.Add(33*time.Millisecond))

	assert.Equal(t, []string{"move(500,250)", "move(750,375)"}, rec.Calls)

	state := d.State()
	assert.InDelta(t, 750.0, state.CursorX, 1e-9)
	assert.InDelta(t, 375.0, state.CursorY, 1e-9)
}

func TestDispatcher_MoveClampsBeyondMargin(t *testing.T) {
	d, rec := newTestDispatcher()

	for i := 0; i < 40; i++ {
		d.Dispatch(moveFrame(5, 5), t0.Add(time.Duration(i)*33*time.Millisecond))
	}
	assert.Equal(t, "move(0,0)", rec.Calls[len(rec.Calls)-1])

	for i := 0; i < 40; i++ {
		d.Dispatch(moveFrame(frameW, frameH), t0.Add(time.Duration(40+i)*33*time.Millisecond))
	}
	assert.Equal(t, "move(1000,500)", rec.Calls[len(rec.Calls)-1])
}

func TestDispatcher_SetFrameSize(t *testing.T) {
	d, rec := newTestDispatcher()

	d.SetFrameSize(1280, 720)
	w, h := d.FrameSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	// The centre of a 1280x720 frame lands mid-screen instead of clamping
	// against a 640x480 margin rectangle.
	for i := 0; i < 40; i++ {
		d.Dispatch(moveFrame(640, 360), t0.Add(time.Duration(i)*33*time.Millisecond))
	}
	assert.Equal(t, "move(500,250)", rec.Calls[len(rec.Calls)-1])

	d.SetFrameSize(0, -1)
	w, h = d.FrameSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestDispatcher_PointerActionOrder(t *testing.T) {
	d, rec := newTestDispatcher()

	res := gesture.Result{
		Mode:     gesture.ModeClick,
		Hand:     true,
		Click:    true,
		Pinch:    true,
		Move:     true,
		IndexTip: image.Point{X: 100, Y: 100},
	}
	actions := d.Dispatch(res, t0)

	kinds := make([]Kind, len(actions))
	for i, a := range actions {
		kinds[i] = a.Kind
	}
	assert.Equal(t, []Kind{KindClick, KindMouseDown, KindMove}, kinds)
	assert.Equal(t, []string{"click", "down", "move(0,0)"}, rec.Calls)
}

func TestDispatcher_Release(t *testing.T) {
	d, rec := newTestDispatcher()

	assert.False(t, d.Release(), "nothing to release")
	assert.Empty(t, rec.Calls)

	d.Dispatch(pinchFrame(10), t0)
	rec.Reset()

	assert.True(t, d.Release())
	assert.False(t, d.Release())
	assert.Equal(t, []string{"up"}, rec.Calls)
	assert.False(t, d.Dragging())
}

func TestInterp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"left margin", 100, 0},
		{"right margin", 540, 1920},
		{"middle", 320, 960},
		{"beyond left clamps", 20, 0},
		{"beyond right clamps", 639, 1920},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Interp(tt.v, 100, 540, 0, 1920), 1e-9)
		})
	}

	t.Run("degenerate input range", func(t *testing.T) {
		assert.Equal(t, 0.0, Interp(5, 10, 10, 0, 100))
		assert.Equal(t, 100.0, Interp(15, 10, 10, 0, 100))
	})
}

func TestSwitchWindowsKeys(t *testing.T) {
	assert.Equal(t, []string{"ctrl", "up"}, SwitchWindowsKeys("darwin"))
	assert.Equal(t, []string{"cmd", "tab"}, SwitchWindowsKeys("windows"))
	assert.Equal(t, []string{"cmd", "tab"}, SwitchWindowsKeys("linux"))
}

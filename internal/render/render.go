// Package render draws the gesture overlay onto camera frames and presents
// them in a preview window.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturemouse/internal/detector"
	"github.com/ayusman/gesturemouse/internal/gesture"
)

// KeyEscape is the key code that ends the session from the preview window.
const KeyEscape = 27

// Overlay is what gets drawn on one frame.
type Overlay struct {
	// Points are the hand keypoints in frame pixels; nil when no hand.
	Points []image.Point
	Result gesture.Result
	// Pressed is set on the frame a drag begins.
	Pressed bool
	Paused  bool
}

// Renderer draws overlays and presents frames.
type Renderer interface {
	Draw(frame *gocv.Mat, ov Overlay)
	// Show presents the frame and reports whether the user asked to quit.
	Show(frame *gocv.Mat) (quit bool)
	Close() error
}

var (
	skeletonColor = color.RGBA{R: 255, G: 255, B: 255}
	jointColor    = color.RGBA{R: 255, G: 0, B: 0}
	pressColor    = color.RGBA{R: 255, G: 0, B: 0}
	moveColor     = color.RGBA{R: 0, G: 0, B: 255}
	pausedColor   = color.RGBA{R: 200, G: 200, B: 200}
)

var labelColors = map[gesture.Mode]color.RGBA{
	gesture.ModeMultitask: {R: 0, G: 100, B: 255},
	gesture.ModeScroll:    {R: 255, G: 255, B: 0},
	gesture.ModeClick:     {R: 0, G: 255, B: 0},
	gesture.ModeDrag:      {R: 255, G: 0, B: 0},
	gesture.ModeMove:      {R: 255, G: 0, B: 255},
}

// Annotate draws ov onto frame in place.
func Annotate(frame *gocv.Mat, ov Overlay) {
	if len(ov.Points) >= detector.NumLandmarks {
		for _, c := range detector.Connections {
			gocv.Line(frame, ov.Points[c[0]], ov.Points[c[1]], skeletonColor, 2)
		}
		for _, p := range ov.Points {
			gocv.Circle(frame, p, 4, jointColor, -1)
		}
	}

	res := ov.Result
	if label := res.Mode.Label(); label != "" {
		gocv.PutText(frame, label, image.Pt(10, 60), gocv.FontHersheySimplex, 0.8, labelColors[res.Mode], 2)
	}
	if ov.Pressed {
		gocv.Circle(frame, res.IndexTip, 15, pressColor, -1)
	}
	if res.Move && !res.Mode.Frozen() {
		gocv.Circle(frame, res.IndexTip, 10, moveColor, -1)
	}
	if ov.Paused {
		gocv.PutText(frame, "PAUSED", image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, pausedColor, 2)
	}
}

// Window shows frames in an OpenCV highgui window. It must be used from the
// main OS thread on macOS.
type Window struct {
	window *gocv.Window
}

// NewWindow opens a preview window with the given title.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

// Draw annotates the frame.
func (w *Window) Draw(frame *gocv.Mat, ov Overlay) {
	Annotate(frame, ov)
}

// Show displays the frame and polls the keyboard for one millisecond. Esc quits.
func (w *Window) Show(frame *gocv.Mat) bool {
	w.window.IMShow(*frame)
	return w.window.WaitKey(1)&0xFF == KeyEscape
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Headless is a Renderer with no window. With Annotate set it still draws
// overlays so the preview stream shows them.
type Headless struct {
	Annotate bool
	// QuitAfter makes the n-th Show report quit; zero never quits.
	QuitAfter int

	draws int
	shows int
	last  Overlay
}

// NewHeadless returns a Headless renderer.
func NewHeadless(annotate bool) *Headless {
	return &Headless{Annotate: annotate}
}

// Draw records the overlay and annotates the frame if enabled.
func (h *Headless) Draw(frame *gocv.Mat, ov Overlay) {
	h.draws++
	h.last = ov
	if h.Annotate {
		Annotate(frame, ov)
	}
}

// Show counts the frame and reports quit once QuitAfter frames were shown.
func (h *Headless) Show(frame *gocv.Mat) bool {
	h.shows++
	return h.QuitAfter > 0 && h.shows >= h.QuitAfter
}

// Close is a no-op.
func (h *Headless) Close() error {
	return nil
}

// Draws returns how many frames were drawn.
func (h *Headless) Draws() int { return h.draws }

// Shows returns how many frames were shown.
func (h *Headless) Shows() int { return h.shows }

// Last returns the most recent overlay.
func (h *Headless) Last() Overlay { return h.last }

package gesture

import (
	"image"
	"math"

	"github.com/ayusman/gesturemouse/internal/detector"
)

// Gesture thresholds in pixels of the capture frame.
const (
	// ClickDistance is the maximum index-to-middle tip distance for a click.
	ClickDistance = 60.0
	// PinchDistance is the maximum index-to-thumb tip distance that holds a drag.
	PinchDistance = 40.0
)

// Finger positions within Fingers.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// Fingers holds the extended state of thumb, index, middle, ring and pinky.
type Fingers [5]bool

// Count returns how many fingers are extended.
func (f Fingers) Count() int {
	n := 0
	for _, up := range f {
		if up {
			n++
		}
	}
	return n
}

// Result is the classification of one frame.
type Result struct {
	Mode    Mode    `json:"mode"`
	Hand    bool    `json:"hand"`
	Fingers Fingers `json:"fingers"`

	// Pointer-family gates. Several may hold in the same frame.
	Click bool `json:"click"`
	Pinch bool `json:"pinch"`
	Move  bool `json:"move"`

	IndexTip      image.Point `json:"index_tip"`
	ThumbTip      image.Point `json:"thumb_tip"`
	ClickDistance float64     `json:"click_distance"`
	PinchDistance float64     `json:"pinch_distance"`

	// ScrollY is the mean index/middle/ring tip height, set in ModeScroll.
	ScrollY float64 `json:"scroll_y"`
}

// Idle is the result for a frame without a usable hand.
var Idle = Result{Mode: ModeIdle}

// Distance returns the Euclidean distance between two keypoints.
func Distance(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// FingersUp computes the extended state of each finger for a mirrored right
// hand. The thumb is extended when its tip lies left of its IP joint; the other
// fingers when the tip is above the PIP joint. points must hold all landmarks.
func FingersUp(points []image.Point) Fingers {
	var f Fingers
	f[Thumb] = points[detector.ThumbTip].X < points[detector.ThumbIP].X
	f[Index] = points[detector.IndexTip].Y < points[detector.IndexPIP].Y
	f[Middle] = points[detector.MiddleTip].Y < points[detector.MiddlePIP].Y
	f[Ring] = points[detector.RingTip].Y < points[detector.RingPIP].Y
	f[Pinky] = points[detector.PinkyTip].Y < points[detector.PinkyPIP].Y
	return f
}

// Classify selects the gesture for one frame of pixel keypoints. A short or
// nil slice yields Idle.
func Classify(points []image.Point) Result {
	if len(points) < detector.NumLandmarks {
		return Idle
	}

	f := FingersUp(points)
	res := Result{
		Hand:     true,
		Fingers:  f,
		IndexTip: points[detector.IndexTip],
		ThumbTip: points[detector.ThumbTip],
	}

	switch {
	case f[Index] && f[Middle] && f[Ring] && f[Pinky]:
		res.Mode = ModeMultitask
		return res
	case f[Index] && f[Middle] && f[Ring] && !f[Pinky]:
		res.Mode = ModeScroll
		res.ScrollY = float64(points[detector.IndexTip].Y+points[detector.MiddleTip].Y+points[detector.RingTip].Y) / 3
		return res
	}

	res.ClickDistance = Distance(points[detector.IndexTip], points[detector.MiddleTip])
	res.PinchDistance = Distance(res.IndexTip, res.ThumbTip)

	res.Click = f[Index] && f[Middle] && !f[Ring] && !f[Pinky] && res.ClickDistance < ClickDistance
	res.Pinch = f[Index] && res.PinchDistance < PinchDistance
	res.Move = f[Index] && !f[Ring] && !f[Pinky]

	switch {
	case res.Click:
		res.Mode = ModeClick
	case res.Pinch:
		res.Mode = ModeDrag
	case res.Move:
		res.Mode = ModeMove
	default:
		res.Mode = ModeIdle
	}

	return res
}

// ClassifyHand converts a detected hand to pixel keypoints for a frame of the
// given size and classifies it. A nil hand yields Idle.
func ClassifyHand(hand *detector.HandLandmarks, width, height int) Result {
	if hand == nil {
		return Idle
	}
	return Classify(hand.Pixels(width, height))
}

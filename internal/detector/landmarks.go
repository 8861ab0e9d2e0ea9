// Package detector provides hand landmark detection for the gesture mouse.
package detector

import "image"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a normalized landmark position. X and Y are in [0,1] relative to
// the frame; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
	// Missing counts trailing points the detector did not report.
	Missing int `json:"-"`
}

// Valid returns the number of usable points.
func (h *HandLandmarks) Valid() int {
	switch {
	case h.Missing <= 0:
		return NumLandmarks
	case h.Missing >= NumLandmarks:
		return 0
	}
	return NumLandmarks - h.Missing
}

// Pixels converts the normalized landmarks to pixel coordinates for a frame of
// the given size, truncating toward zero. Only the points the detector reported
// are returned, so a partial detection yields fewer than NumLandmarks points.
func (h *HandLandmarks) Pixels(width, height int) []image.Point {
	if h == nil {
		return nil
	}

	n := h.Valid()
	points := make([]image.Point, n)
	for i := 0; i < n; i++ {
		points[i] = image.Point{
			X: int(h.Points[i].X * float64(width)),
			Y: int(h.Points[i].Y * float64(height)),
		}
	}
	return points
}

// Connections lists landmark index pairs forming the hand skeleton, used for
// drawing the overlay.
var Connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

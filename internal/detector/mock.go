package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	script [][]HandLandmarks
	err    error
	calls  int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetScript queues per-call results. Each Detect call consumes one entry;
// once the script is exhausted the hands set by SetHands are returned.
func (m *MockDetector) SetScript(frames ...[]HandLandmarks) {
	m.script = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Shifted returns a copy of the hand moved by (dx, dy) in normalized units.
func (h HandLandmarks) Shifted(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}

// PoseLandmarks builds a mirrored right hand with the given fingers extended,
// ordered thumb, index, middle, ring, pinky. Extended fingers point up; folded
// fingers curl their tip back below the PIP joint.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb sits on the left of the palm in a mirrored view.
	lm.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.76}
	lm.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.70}
	lm.Points[ThumbIP] = Point3D{X: 0.37, Y: 0.65}
	if thumb {
		lm.Points[ThumbTip] = Point3D{X: 0.33, Y: 0.61}
	} else {
		lm.Points[ThumbTip] = Point3D{X: 0.42, Y: 0.66}
	}

	finger := func(mcp, pip, dip, tip int, x, mcpY, pipY, dipY, tipY float64, up bool) {
		lm.Points[mcp] = Point3D{X: x, Y: mcpY}
		lm.Points[pip] = Point3D{X: x, Y: pipY}
		if up {
			lm.Points[dip] = Point3D{X: x, Y: dipY}
			lm.Points[tip] = Point3D{X: x, Y: tipY}
			return
		}
		lm.Points[dip] = Point3D{X: x + 0.01, Y: pipY + 0.06}
		lm.Points[tip] = Point3D{X: x + 0.01, Y: mcpY}
	}

	finger(IndexMCP, IndexPIP, IndexDIP, IndexTip, 0.45, 0.60, 0.50, 0.44, 0.38, index)
	finger(MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.50, 0.58, 0.48, 0.41, 0.35, middle)
	finger(RingMCP, RingPIP, RingDIP, RingTip, 0.55, 0.60, 0.50, 0.44, 0.39, ring)
	finger(PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.60, 0.64, 0.56, 0.51, 0.47, pinky)

	return lm
}

// PointingLandmarks returns an index-only pose (cursor movement).
func PointingLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, false, false, false)
}

// TwoFingerLandmarks returns index and middle extended close together (click).
func TwoFingerLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, true, false, false)
}

// ThreeFingerLandmarks returns index, middle and ring extended (scroll).
func ThreeFingerLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, true, true, false)
}

// FourFingerLandmarks returns all fingers but the thumb extended (window switch).
func FourFingerLandmarks() HandLandmarks {
	return PoseLandmarks(false, true, true, true, true)
}

// OpenPalmLandmarks returns a pose with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(true, true, true, true, true)
}

// FistLandmarks returns a pose with every finger folded.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(false, false, false, false, false)
}

// PinchLandmarks returns an index-only pose with the thumb tip touching the
// index tip (drag).
func PinchLandmarks() HandLandmarks {
	lm := PointingLandmarks()
	lm.Points[ThumbIP] = Point3D{X: 0.42, Y: 0.46}
	lm.Points[ThumbTip] = Point3D{X: 0.46, Y: 0.40}
	return lm
}

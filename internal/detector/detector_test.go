package detector

import (
	"errors"
	"image"
	"testing"
)

func TestHandLandmarks_Pixels(t *testing.T) {
	t.Run("scales normalized points to frame size", func(t *testing.T) {
		hand := HandLandmarks{}
		hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.25}
		hand.Points[IndexTip] = Point3D{X: 1.0, Y: 1.0}

		points := hand.Pixels(640, 480)

		if len(points) != NumLandmarks {
			t.Fatalf("expected %d points, got %d", NumLandmarks, len(points))
		}
		if points[Wrist] != (image.Point{X: 320, Y: 120}) {
			t.Errorf("wrist = %v, want (320,120)", points[Wrist])
		}
		if points[IndexTip] != (image.Point{X: 640, Y: 480}) {
			t.Errorf("index tip = %v, want (640,480)", points[IndexTip])
		}
	})

	t.Run("truncates toward zero", func(t *testing.T) {
		hand := HandLandmarks{}
		hand.Points[Wrist] = Point3D{X: 0.0999, Y: 0.0999}

		points := hand.Pixels(100, 100)
		if points[Wrist] != (image.Point{X: 9, Y: 9}) {
			t.Errorf("wrist = %v, want (9,9)", points[Wrist])
		}
	})

	t.Run("partial detection returns fewer points", func(t *testing.T) {
		hand := HandLandmarks{Missing: 13}

		points := hand.Pixels(640, 480)
		if len(points) != 8 {
			t.Errorf("expected 8 points, got %d", len(points))
		}
	})

	t.Run("nil hand returns nil", func(t *testing.T) {
		var hand *HandLandmarks
		if points := hand.Pixels(640, 480); points != nil {
			t.Errorf("expected nil, got %v", points)
		}
	})
}

func TestHandLandmarks_Valid(t *testing.T) {
	tests := []struct {
		name    string
		missing int
		want    int
	}{
		{"complete", 0, NumLandmarks},
		{"negative treated as complete", -3, NumLandmarks},
		{"some missing", 5, 16},
		{"all missing", NumLandmarks, 0},
		{"more than all missing", 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := HandLandmarks{Missing: tt.missing}
			if got := hand.Valid(); got != tt.want {
				t.Errorf("Valid() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("full hand", func(t *testing.T) {
		line := `{"hands":[{"handedness":"Right","score":0.9,"points":[` +
			`{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},` +
			`{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},` +
			`{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},` +
			`{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},` +
			`{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},{"x":0.1,"y":0.2,"z":0},` +
			`{"x":0.7,"y":0.8,"z":0}]}]}` + "\n"

		hands, err := parseResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		if hands[0].Valid() != NumLandmarks {
			t.Errorf("expected full hand, got %d points", hands[0].Valid())
		}
		if hands[0].Points[PinkyTip].X != 0.7 {
			t.Errorf("pinky tip X = %f, want 0.7", hands[0].Points[PinkyTip].X)
		}
	})

	t.Run("short hand is marked partial", func(t *testing.T) {
		line := `{"hands":[{"handedness":"Left","score":0.8,"points":[{"x":0.1,"y":0.2,"z":0}]}]}`

		hands, err := parseResponse([]byte(line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hands[0].Valid() != 1 {
			t.Errorf("expected 1 valid point, got %d", hands[0].Valid())
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected 0 hands, got %d", len(hands))
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := parseResponse([]byte(`{"hands":`)); err == nil {
			t.Error("expected error for malformed response")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{PointingLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Errorf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("script is consumed before fallback", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{FistLandmarks()})
		mock.SetScript(nil, []HandLandmarks{PointingLandmarks(), PinchLandmarks()})

		first, _ := mock.Detect(nil)
		second, _ := mock.Detect(nil)
		third, _ := mock.Detect(nil)

		if len(first) != 0 {
			t.Errorf("first call: expected no hands, got %d", len(first))
		}
		if len(second) != 2 {
			t.Errorf("second call: expected 2 hands, got %d", len(second))
		}
		if len(third) != 1 {
			t.Errorf("third call: expected fallback hand, got %d", len(third))
		}
		if mock.Calls() != 3 {
			t.Errorf("Calls() = %d, want 3", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPoseLandmarks(t *testing.T) {
	// For extended fingers the tip is above (lower Y than) the PIP joint.
	extended := func(lm HandLandmarks, tip, pip int) bool {
		return lm.Points[tip].Y < lm.Points[pip].Y
	}

	t.Run("pointing extends only the index", func(t *testing.T) {
		lm := PointingLandmarks()
		if !extended(lm, IndexTip, IndexPIP) {
			t.Error("index should be extended")
		}
		for _, f := range [][2]int{{MiddleTip, MiddlePIP}, {RingTip, RingPIP}, {PinkyTip, PinkyPIP}} {
			if extended(lm, f[0], f[1]) {
				t.Errorf("finger with tip %d should be folded", f[0])
			}
		}
	})

	t.Run("open palm extends the thumb outward", func(t *testing.T) {
		lm := OpenPalmLandmarks()
		if lm.Points[ThumbTip].X >= lm.Points[ThumbIP].X {
			t.Error("thumb tip should be left of the thumb IP in a mirrored view")
		}
	})

	t.Run("fingers are ordered left to right", func(t *testing.T) {
		lm := OpenPalmLandmarks()
		if lm.Points[IndexMCP].X >= lm.Points[MiddleMCP].X {
			t.Error("index should be left of middle finger")
		}
		if lm.Points[MiddleMCP].X >= lm.Points[RingMCP].X {
			t.Error("middle should be left of ring finger")
		}
		if lm.Points[RingMCP].X >= lm.Points[PinkyMCP].X {
			t.Error("ring should be left of pinky finger")
		}
	})

	t.Run("shifted moves every point", func(t *testing.T) {
		lm := PointingLandmarks()
		moved := lm.Shifted(0.1, -0.05)
		for i := range lm.Points {
			dx := moved.Points[i].X - lm.Points[i].X
			dy := moved.Points[i].Y - lm.Points[i].Y
			if dx < 0.0999 || dx > 0.1001 || dy > -0.0499 || dy < -0.0501 {
				t.Fatalf("point %d moved by (%f,%f), want (0.1,-0.05)", i, dx, dy)
			}
		}
	})
}

package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistance(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		p := Point3D{X: 1.0, Y: 2.0, Z: 3.0}
		if d := Distance(p, p); d != 0 {
			t.Errorf("expected distance 0 for identical points, got %f", d)
		}
	})

	t.Run("unit distance along one axis", func(t *testing.T) {
		a := Point3D{X: 0, Y: 0, Z: 0}
		b := Point3D{X: 1, Y: 0, Z: 0}
		if d := Distance(a, b); math.Abs(d-1.0) > epsilon {
			t.Errorf("expected distance 1.0, got %f", d)
		}
	})

	t.Run("3-4-5 triangle", func(t *testing.T) {
		a := Point3D{X: 0, Y: 0, Z: 0}
		b := Point3D{X: 3, Y: 4, Z: 0}
		if d := Distance(a, b); math.Abs(d-5.0) > epsilon {
			t.Errorf("expected distance 5.0, got %f", d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Point3D{X: 0.1, Y: 0.2, Z: 0.3}
		b := Point3D{X: 0.4, Y: 0.5, Z: 0.6}
		if Distance(a, b) != Distance(b, a) {
			t.Error("expected Distance(a,b) == Distance(b,a)")
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

		mock.SetHands([]HandLandmarks{OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Errorf("expected 1 hand, got %d", len(hands))
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

	t.Run("Close returns nil", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestClosedFistLandmarks(t *testing.T) {
	landmarks := ClosedFistLandmarks()
	wrist := landmarks.Palm()

	fingers := []struct {
		name string
		tip  int
		pip  int
	}{
		{"index", IndexTip, IndexPIP},
		{"middle", MiddleTip, MiddlePIP},
		{"ring", RingTip, RingPIP},
		{"pinky", PinkyTip, PinkyPIP},
	}

	for _, f := range fingers {
		t.Run(f.name+" is curled", func(t *testing.T) {
			tipDist := Distance(landmarks.Points[f.tip], wrist)
			pipDist := Distance(landmarks.Points[f.pip], wrist)
			if tipDist >= pipDist {
				t.Errorf("%s tip-to-wrist %f should be less than PIP-to-wrist %f", f.name, tipDist, pipDist)
			}
		})
	}
}

func TestOpenPalmLandmarks(t *testing.T) {
	landmarks := OpenPalmLandmarks()
	wrist := landmarks.Palm()

	fingers := []struct {
		name string
		tip  int
		pip  int
	}{
		{"index", IndexTip, IndexPIP},
		{"middle", MiddleTip, MiddlePIP},
		{"ring", RingTip, RingPIP},
		{"pinky", PinkyTip, PinkyPIP},
	}

	for _, f := range fingers {
		t.Run(f.name+" is extended", func(t *testing.T) {
			tipDist := Distance(landmarks.Points[f.tip], wrist)
			pipDist := Distance(landmarks.Points[f.pip], wrist)
			if tipDist <= pipDist {
				t.Errorf("%s tip-to-wrist %f should exceed PIP-to-wrist %f", f.name, tipDist, pipDist)
			}
			if tipDist <= 0.06 {
				t.Errorf("%s tip-to-wrist %f should exceed the closeness threshold", f.name, tipDist)
			}
		})
	}
}

func TestPinchLandmarks(t *testing.T) {
	landmarks := PinchLandmarks()

	t.Run("thumb and index tips are touching", func(t *testing.T) {
		d := Distance(landmarks.Points[ThumbTip], landmarks.Points[IndexTip])
		if d > 0.05 {
			t.Errorf("expected thumb-index distance below 0.05, got %f", d)
		}
	})

	t.Run("index finger stays extended", func(t *testing.T) {
		wrist := landmarks.Palm()
		tipDist := Distance(landmarks.Points[IndexTip], wrist)
		pipDist := Distance(landmarks.Points[IndexPIP], wrist)
		if tipDist <= pipDist {
			t.Error("index finger should not read as curled in a pinch pose")
		}
	})
}

// Package gesture classifies grab and pinch gestures from hand landmarks.
package gesture

import (
	"sync"

	"github.com/ayusman/mudra/internal/detector"
)

// Classifier defaults.
const (
	// DefaultCurlThreshold is the tip-to-palm distance (normalized units)
	// under which a finger always counts as curled.
	DefaultCurlThreshold = 0.06
	// DefaultDwellFrames is the number of consecutive disagreeing frames
	// required before the emitted grab state flips.
	DefaultDwellFrames = 3

	// minCurledFingers is how many of the four fingers must be curled for
	// the raw grab signal to read true.
	minCurledFingers = 3
)

// Signal is the per-frame output of the classifier.
type Signal struct {
	// Grabbing is the debounced grab state.
	Grabbing bool `json:"grabbing"`
	// PinchDistance is the distance between thumb tip and index tip.
	PinchDistance float64 `json:"pinch_distance"`
	// PinchDelta is the change in pinch distance since the previous frame.
	PinchDelta float64 `json:"pinch_delta"`
	// Palm is the palm-base keypoint in normalized image coordinates.
	Palm detector.Point3D `json:"palm"`
}

// Classifier turns a stream of hand landmarks into gesture signals.
// It carries two pieces of state between frames: the debounced grab state
// and the previous pinch distance.
type Classifier struct {
	mu            sync.Mutex
	curlThreshold float64
	dwellFrames   int

	grabbing  bool
	disagree  int
	prevPinch float64

	onSignal func(Signal)
}

// NewClassifier creates a Classifier with default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		curlThreshold: DefaultCurlThreshold,
		dwellFrames:   DefaultDwellFrames,
	}
}

// OnSignal sets the callback invoked once per classified frame.
func (c *Classifier) OnSignal(fn func(Signal)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSignal = fn
}

// SetCurlThreshold updates the absolute closeness threshold for finger curl.
// Values outside (0, 1) are ignored.
func (c *Classifier) SetCurlThreshold(v float64) {
	if v <= 0 || v >= 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.curlThreshold = v
}

// SetDwellFrames updates the debounce dwell length. Values below 1 are ignored.
func (c *Classifier) SetDwellFrames(n int) {
	if n < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dwellFrames = n
}

// Reset clears the carried state so the next frame starts from a released
// hand and a zero pinch baseline.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grabbing = false
	c.disagree = 0
	c.prevPinch = 0
}

// Classify processes one hand's landmarks and returns the gesture signal.
// The caller must only invoke it when a hand was actually detected.
// The registered callback, if any, receives the same signal.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Signal {
	c.mu.Lock()

	raw := rawGrab(hand, c.curlThreshold)

	// Deterministic debounce: the emitted state flips only after the raw
	// signal has disagreed with it for dwellFrames consecutive frames.
	if raw != c.grabbing {
		c.disagree++
		if c.disagree >= c.dwellFrames {
			c.grabbing = raw
			c.disagree = 0
		}
	} else {
		c.disagree = 0
	}

	pinch := detector.Distance(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	delta := pinch - c.prevPinch
	c.prevPinch = pinch

	sig := Signal{
		Grabbing:      c.grabbing,
		PinchDistance: pinch,
		PinchDelta:    delta,
		Palm:          hand.Palm(),
	}

	fn := c.onSignal
	c.mu.Unlock()

	if fn != nil {
		fn(sig)
	}

	return sig
}

// RawGrab reports whether the hand reads as a grab before debouncing:
// at least 3 of the index, middle, ring and pinky fingers are curled.
func RawGrab(hand *detector.HandLandmarks) bool {
	return rawGrab(hand, DefaultCurlThreshold)
}

// fingerJoints pairs each finger's tip with its PIP joint.
var fingerJoints = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

func rawGrab(hand *detector.HandLandmarks, curlThreshold float64) bool {
	palm := hand.Palm()

	curled := 0
	for _, fj := range fingerJoints {
		tipDist := detector.Distance(hand.Points[fj[0]], palm)
		pipDist := detector.Distance(hand.Points[fj[1]], palm)
		if tipDist < pipDist || tipDist < curlThreshold {
			curled++
		}
	}

	return curled >= minCurledFingers
}

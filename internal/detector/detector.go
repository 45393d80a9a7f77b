package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Model complexity tiers. Lite is faster, Full is more accurate.
const (
	ModelLite = 0
	ModelFull = 1
)

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// ModelComplexity selects the landmark model tier (ModelLite or ModelFull).
	ModelComplexity int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
// One hand is enough to drive the object; both confidence thresholds
// default to 0.6 to suppress jittery low-quality detections.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		ModelComplexity: ModelFull,
		MinConfidence:   0.6,
		MinTrackingConf: 0.6,
	}
}

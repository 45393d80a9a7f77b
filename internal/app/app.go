// Package app wires the capture, detection, gesture and animation pipeline.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate while a hand is being tracked.
	ActiveFPS = 15
	// IdleTimeoutMs is how long without motion before dropping back to idle.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Tuning       config.Tuning
}

// App orchestrates the detection pipeline: camera frames go through motion
// gating and hand detection, the classifier turns landmarks into gesture
// signals, and the animator turns signals into object movement.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.Classifier
	animator   *scene.Animator

	mu          sync.RWMutex
	enabled     bool
	stopCh      chan struct{}
	onSignal    func(gesture.Signal)
	lastSignal  gesture.Signal
	hasSignal   bool
	stride      int
	session     *store.Session
	wasGrabbing bool
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	motionThreshold := cfg.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	a := &App{
		config:     cfg,
		camera:     capture.NewCamera(cfg.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		classifier: gesture.NewClassifier(),
		animator:   scene.NewAnimator(),
		stride:     2,
	}

	a.ApplyTuning(cfg.Tuning)

	// Try MediaPipe first, fall back to the mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// ApplyTuning pushes tuning values into the classifier and animator.
// Zero-valued fields fall back to the built-in defaults.
func (a *App) ApplyTuning(t config.Tuning) {
	if t.CurlThreshold > 0 {
		a.classifier.SetCurlThreshold(t.CurlThreshold)
	}
	if t.DwellFrames > 0 {
		a.classifier.SetDwellFrames(t.DwellFrames)
	}
	if t.PinchSensitivity > 0 {
		a.animator.SetPinchSensitivity(t.PinchSensitivity)
	}
	if t.ScaleMin > 0 && t.ScaleMax > t.ScaleMin {
		a.animator.SetScaleRange(t.ScaleMin, t.ScaleMax)
	}
	a.animator.SetSmoothing(t.PositionRate, t.ScaleRate)
	if t.MinFrameIntervalMs > 0 {
		a.animator.SetMinFrameInterval(t.MinFrameInterval())
	}
	if t.ClassifyStride > 0 {
		a.mu.Lock()
		a.stride = t.ClassifyStride
		a.mu.Unlock()
	}
}

// SetEnabled enables or disables gesture tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnSignal sets an external consumer callback invoked once per processed
// frame when a hand is present.
func (a *App) OnSignal(fn func(gesture.Signal)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSignal = fn
}

// LastSignal returns the most recent gesture signal and whether any signal
// has been emitted yet.
func (a *App) LastSignal() (gesture.Signal, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastSignal, a.hasSignal
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	if a.config.Store != nil {
		a.session = &store.Session{
			ID:        uuid.New().String(),
			PeakScale: 1.0,
		}
		if err := a.config.Store.Sessions().Create(a.session); err != nil {
			log.Printf("Failed to record session start: %v", err)
			a.session = nil
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	if a.session != nil && a.config.Store != nil {
		now := time.Now()
		a.session.EndedAt = &now
		if err := a.config.Store.Sessions().Update(a.session); err != nil {
			log.Printf("Failed to record session end: %v", err)
		}
		a.session = nil
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Classifier returns the gesture classifier.
func (a *App) Classifier() *gesture.Classifier {
	return a.classifier
}

// Animator returns the scene animator.
func (a *App) Animator() *scene.Animator {
	return a.animator
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

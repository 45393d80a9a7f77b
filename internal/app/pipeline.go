package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// runPipeline is the main detection loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on
// motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Run hand detection
// 4. Classify every Nth detected frame (ClassifyStride downsampling)
// 5. Feed the gesture signal to the animator and the consumer callback
// 6. After 2s without motion, drop back to idle mode and reset the classifier
func (a *App) runPipeline() {
	activeMode := false
	lastMotionTime := time.Now()
	detectedFrames := 0

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.mu.RLock()
	stopCh := a.stopCh
	a.mu.RUnlock()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					detectedFrames = 0
					// A fresh grab/pinch baseline when the hand comes back
					a.classifier.Reset()
					log.Println("Switched to idle mode")
				}
			}

			d := a.Detector()
			if !activeMode || d == nil {
				frame.Close()
				continue
			}

			hands, err := d.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.countFrame()

			// No hand: no signal for this frame
			if len(hands) == 0 {
				continue
			}

			// Downsample: classify only every Nth detected frame
			detectedFrames++
			a.mu.RLock()
			stride := a.stride
			a.mu.RUnlock()
			if stride > 1 && detectedFrames%stride != 0 {
				continue
			}

			sig := a.classifier.Classify(&hands[0])
			a.handleSignal(sig)
		}
	}
}

// handleSignal fans a gesture signal out to the animator, updates the
// session counters, and invokes the consumer callback.
func (a *App) handleSignal(sig gesture.Signal) {
	a.animator.Apply(sig)

	a.mu.Lock()
	a.lastSignal = sig
	a.hasSignal = true
	if sig.Grabbing && !a.wasGrabbing && a.session != nil {
		a.session.Grabs++
	}
	a.wasGrabbing = sig.Grabbing
	if a.session != nil {
		if s := a.animator.TargetScale(); s.X > a.session.PeakScale {
			a.session.PeakScale = s.X
		}
	}
	cb := a.onSignal
	a.mu.Unlock()

	if cb != nil {
		cb(sig)
	}
}

// countFrame bumps the processed-frame counter of the current session.
func (a *App) countFrame() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		a.session.Frames++
	}
}

// Package scene maintains the transform of the manipulated 3D object and
// eases it toward gesture-driven targets.
package scene

import (
	"math"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Animator defaults.
const (
	// DefaultPinchSensitivity multiplies the pinch delta when scaling.
	DefaultPinchSensitivity = 2.5
	// DefaultScaleMin and DefaultScaleMax bound every scale axis.
	DefaultScaleMin = 0.3
	DefaultScaleMax = 2.5
	// DefaultPositionRate and DefaultScaleRate are exponential approach
	// rates per second. They match per-frame factors of 0.15 and 0.1 at
	// 60 FPS.
	DefaultPositionRate = 9.75
	DefaultScaleRate    = 6.32
	// DefaultRotationCoupling converts positional movement into rotation
	// while the object is grabbed.
	DefaultRotationCoupling = 0.1
	// DefaultMinFrameInterval caps the advance rate at roughly 60 per
	// second; earlier ticks are skipped.
	DefaultMinFrameInterval = 15 * time.Millisecond
)

// Palm-to-world mapping spans. The palm center (0.5, 0.5, 0) maps to the
// world origin; each axis has its own scale.
const (
	palmSpanX = 8.0
	palmSpanY = 6.0
	palmSpanZ = 5.0
)

// Vec3 is a 3D vector in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min Vec3
	Max Vec3
}

// DefaultBounds returns the world-space box the object may occupy.
func DefaultBounds() Box {
	return Box{
		Min: Vec3{X: -4, Y: -3, Z: -3},
		Max: Vec3{X: 4, Y: 3, Z: 3},
	}
}

// Clamp returns v constrained to the box.
func (b Box) Clamp(v Vec3) Vec3 {
	return Vec3{
		X: clamp(v.X, b.Min.X, b.Max.X),
		Y: clamp(v.Y, b.Min.Y, b.Max.Y),
		Z: clamp(v.Z, b.Min.Z, b.Max.Z),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapPalm maps a palm keypoint in normalized image coordinates to a world
// position. X grows to the right, Y upward (image Y is inverted), and the
// depth component pushes the object away from the camera.
func MapPalm(p detector.Point3D) Vec3 {
	return Vec3{
		X: (p.X - 0.5) * palmSpanX,
		Y: (0.5 - p.Y) * palmSpanY,
		Z: -p.Z * palmSpanZ,
	}
}

// Transform is a snapshot of the object state for rendering and streaming.
type Transform struct {
	Position    Vec3 `json:"position"`
	Rotation    Vec3 `json:"rotation"`
	Scale       Vec3 `json:"scale"`
	Grabbed     bool `json:"grabbed"`
	Highlighted bool `json:"highlighted"`
}

// Animator holds one persistent object transform. Gesture signals update the
// targets; Tick eases the live transform toward them at a bounded rate.
type Animator struct {
	mu sync.Mutex

	pos         Vec3
	targetPos   Vec3
	scale       Vec3
	targetScale Vec3
	rot         Vec3

	grabbed     bool
	highlighted bool
	anchor      Vec3
	lastPos     Vec3
	lastTick    time.Time

	sensitivity float64
	scaleMin    float64
	scaleMax    float64
	posRate     float64
	scaleRate   float64
	rotCoupling float64
	minInterval time.Duration
	bounds      Box
}

// NewAnimator creates an Animator with the object at the origin at unit scale.
func NewAnimator() *Animator {
	return &Animator{
		scale:       Vec3{X: 1, Y: 1, Z: 1},
		targetScale: Vec3{X: 1, Y: 1, Z: 1},
		sensitivity: DefaultPinchSensitivity,
		scaleMin:    DefaultScaleMin,
		scaleMax:    DefaultScaleMax,
		posRate:     DefaultPositionRate,
		scaleRate:   DefaultScaleRate,
		rotCoupling: DefaultRotationCoupling,
		minInterval: DefaultMinFrameInterval,
		bounds:      DefaultBounds(),
	}
}

// SetPinchSensitivity updates the pinch-to-scale multiplier.
// Non-positive values are ignored.
func (a *Animator) SetPinchSensitivity(v float64) {
	if v <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sensitivity = v
}

// SetScaleRange updates the per-axis scale bounds. Invalid ranges are ignored.
func (a *Animator) SetScaleRange(min, max float64) {
	if min <= 0 || max <= min {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scaleMin = min
	a.scaleMax = max
	a.targetScale = a.clampScale(a.targetScale)
	a.scale = a.clampScale(a.scale)
}

// SetSmoothing updates the exponential approach rates (per second).
// Non-positive rates are ignored.
func (a *Animator) SetSmoothing(posRate, scaleRate float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if posRate > 0 {
		a.posRate = posRate
	}
	if scaleRate > 0 {
		a.scaleRate = scaleRate
	}
}

// SetMinFrameInterval updates the advance rate gate.
func (a *Animator) SetMinFrameInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.minInterval = d
}

// Apply consumes one gesture signal and updates the target transform.
func (a *Animator) Apply(sig gesture.Signal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if sig.Grabbing {
		if !a.grabbed {
			// Grab start: remember where the object was and light it up
			a.grabbed = true
			a.highlighted = true
			a.anchor = a.pos
			a.lastPos = a.pos
		}
		a.targetPos = a.bounds.Clamp(MapPalm(sig.Palm))
	} else {
		a.grabbed = false
		a.highlighted = false
		a.lastPos = a.pos
	}

	if sig.PinchDelta != 0 {
		factor := 1 + sig.PinchDelta*a.sensitivity
		a.targetScale = a.clampScale(Vec3{
			X: a.targetScale.X * factor,
			Y: a.targetScale.Y * factor,
			Z: a.targetScale.Z * factor,
		})
	}
}

// Tick advances the live transform toward the targets. The first call only
// establishes the time baseline; calls arriving before the minimum frame
// interval has elapsed are skipped entirely. Returns whether a step ran.
func (a *Animator) Tick(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lastTick.IsZero() {
		a.lastTick = now
		return false
	}

	dt := now.Sub(a.lastTick)
	if dt < a.minInterval {
		return false
	}
	a.lastTick = now

	// Time-scaled exponential approach keeps the ease-toward-target feel
	// independent of the tick rate.
	posFactor := 1 - math.Exp(-a.posRate*dt.Seconds())
	scaleFactor := 1 - math.Exp(-a.scaleRate*dt.Seconds())

	a.pos = a.bounds.Clamp(lerp(a.pos, a.targetPos, posFactor))
	a.scale = a.clampScale(lerp(a.scale, a.targetScale, scaleFactor))

	if a.grabbed {
		// Rolling feel: dragging the object spins it around the axes
		// perpendicular to the movement.
		a.rot.Y += (a.pos.X - a.lastPos.X) * a.rotCoupling
		a.rot.X += (a.pos.Y - a.lastPos.Y) * a.rotCoupling
	}
	a.lastPos = a.pos

	return true
}

// Snapshot returns the current object transform.
func (a *Animator) Snapshot() Transform {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Transform{
		Position:    a.pos,
		Rotation:    a.rot,
		Scale:       a.scale,
		Grabbed:     a.grabbed,
		Highlighted: a.highlighted,
	}
}

// Anchor returns the object position recorded at the last grab start.
func (a *Animator) Anchor() Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.anchor
}

// TargetPosition returns the current position target.
func (a *Animator) TargetPosition() Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.targetPos
}

// TargetScale returns the current scale target.
func (a *Animator) TargetScale() Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.targetScale
}

func (a *Animator) clampScale(v Vec3) Vec3 {
	return Vec3{
		X: clamp(v.X, a.scaleMin, a.scaleMax),
		Y: clamp(v.Y, a.scaleMin, a.scaleMax),
		Z: clamp(v.Z, a.scaleMin, a.scaleMax),
	}
}

func lerp(from, to Vec3, factor float64) Vec3 {
	return Vec3{
		X: from.X + (to.X-from.X)*factor,
		Y: from.Y + (to.Y-from.Y)*factor,
		Z: from.Z + (to.Z-from.Z)*factor,
	}
}

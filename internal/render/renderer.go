// Package render draws the animated scene in a native window using raylib.
package render

import (
	"log"
	"math"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ayusman/mudra/internal/scene"
)

// Window defaults.
const (
	DefaultWidth     = 960
	DefaultHeight    = 720
	DefaultTargetFPS = 60
	// resizeQuiet is how long a window resize must settle before the
	// camera is reconfigured.
	resizeQuiet = 250 * time.Millisecond
)

// Grid layout on the XZ plane.
const (
	gridExtent = 10
	gridStep   = 1
	gridAlpha  = 60
)

var (
	// cubeColor is the resting tint of the tracked object.
	cubeColor = rl.NewColor(86, 156, 214, 255)
	// grabColor replaces cubeColor while the object is grabbed.
	grabColor = rl.NewColor(255, 170, 60, 255)
	background = rl.NewColor(18, 18, 24, 255)
)

// Config holds window options for the renderer.
type Config struct {
	Width     int32
	Height    int32
	Title     string
	TargetFPS int32
	ShowGrid  bool
}

// DefaultConfig returns the standard window configuration.
func DefaultConfig() Config {
	return Config{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Title:     "Mudra",
		TargetFPS: DefaultTargetFPS,
		ShowGrid:  true,
	}
}

// Renderer owns the window and the per-frame draw loop. It reads the
// animator's transform each frame and never mutates gesture state.
type Renderer struct {
	config   Config
	animator *scene.Animator
	camera   rl.Camera3D
	resize   *Debouncer

	mu      sync.Mutex
	stopped bool

	// GPU resources, created lazily after the window exists
	mesh       rl.Mesh
	material   rl.Material
	meshLoaded bool
}

// New creates a Renderer that draws the given animator's object.
func New(animator *scene.Animator, cfg Config) *Renderer {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = DefaultTargetFPS
	}

	r := &Renderer{
		config:   cfg,
		animator: animator,
		resize:   NewDebouncer(resizeQuiet),
	}
	r.camera = rl.Camera3D{
		Position:   rl.NewVector3(0, 2, 9),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	return r
}

// Stop asks the render loop to exit after the current frame.
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}

func (r *Renderer) isStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Run opens the window and blocks until it is closed or Stop is called.
// Must run on the main goroutine.
func (r *Renderer) Run() {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(r.config.Width, r.config.Height, r.config.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(r.config.TargetFPS)
	log.Printf("Render window opened (%dx%d)", r.config.Width, r.config.Height)

	for !rl.WindowShouldClose() && !r.isStopped() {
		now := time.Now()

		if rl.IsWindowResized() {
			r.resize.Trigger(now)
		}
		if r.resize.Ready(now) {
			r.fitCamera()
		}

		r.animator.Tick(now)
		t := r.animator.Snapshot()

		rl.BeginDrawing()
		rl.ClearBackground(background)

		rl.BeginMode3D(r.camera)
		if r.config.ShowGrid {
			drawGrid()
		}
		r.drawObject(t)
		rl.EndMode3D()

		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}

	log.Println("Render window closed")
}

// fitCamera pulls the camera back on narrow windows so the whole movement
// range stays in view. Runs debounced after a resize settles.
func (r *Renderer) fitCamera() {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w <= 0 || h <= 0 {
		return
	}
	aspect := w / h
	dist := float32(9.0)
	if aspect < 4.0/3.0 {
		dist *= (4.0 / 3.0) / aspect
	}
	r.camera.Position.Z = dist
}

// ensureMesh creates the cube mesh, material, and lighting shader. Deferred
// until the first frame so GPU resources are allocated after the GL context
// exists.
func (r *Renderer) ensureMesh() {
	if r.meshLoaded {
		return
	}
	r.mesh = rl.GenMeshCube(1, 1, 1)
	r.material = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		r.material.Shader = shader
	}
	r.meshLoaded = true
}

// drawObject draws the tracked cube with the animator's current transform.
func (r *Renderer) drawObject(t scene.Transform) {
	r.ensureMesh()

	tint := cubeColor
	if t.Highlighted {
		tint = grabColor
	}
	if albedo := r.material.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	r.setLightUniforms()

	scaleM := rl.MatrixScale(float32(t.Scale.X), float32(t.Scale.Y), float32(t.Scale.Z))
	rotM := rl.MatrixRotateXYZ(rl.NewVector3(
		float32(normalizeAngle(t.Rotation.X)),
		float32(normalizeAngle(t.Rotation.Y)),
		float32(normalizeAngle(t.Rotation.Z))))
	transM := rl.MatrixTranslate(
		float32(t.Position.X), float32(t.Position.Y), float32(t.Position.Z))

	// Scale first, then rotate, then translate
	transform := rl.MatrixMultiply(rl.MatrixMultiply(scaleM, rotM), transM)
	rl.DrawMesh(r.mesh, r.material, transform)
}

// Lighting: a key light, a dimmer fill from the opposite side, and a flat
// ambient term.
var (
	keyLightDir   = [3]float32{0.5, 1, 0.6}
	fillLightDir  = [3]float32{-0.6, 0.3, -0.4}
	ambientColor  = [4]float32{0.22, 0.22, 0.26, 1.0}
	keyIntensity  = float32(0.7)
	fillIntensity = float32(0.3)
)

func (r *Renderer) setLightUniforms() {
	shader := r.material.Shader
	if !rl.IsShaderValid(shader) {
		return
	}
	if loc := rl.GetShaderLocation(shader, "keyDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, keyLightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "fillDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, fillLightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, ambientColor[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "keyIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{keyIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "fillIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{fillIntensity}, rl.ShaderUniformFloat)
	}
}

// drawGrid draws a line grid on the XZ plane under the object.
func drawGrid() {
	c := rl.NewColor(128, 128, 128, gridAlpha)
	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridStep {
		start.X, start.Y, start.Z = float32(x), -3, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), -3, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridStep {
		start.X, start.Y, start.Z = float32(-gridExtent), -3, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), -3, float32(z)
		rl.DrawLine3D(start, end, c)
	}
}

// normalizeAngle wraps an angle into [0, 2π). Rotation accumulates without
// bound while an object is held, and float32 loses precision at large
// magnitudes.
func normalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

// Two directional lights plus ambient. Same vertex attributes as raylib
// meshes: vertexPosition, vertexTexCoord, vertexNormal.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	litFS = `#version 330
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 keyDir;
uniform vec3 fillDir;
uniform vec4 ambient;
uniform float keyIntensity;
uniform float fillIntensity;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  float key = max(dot(N, normalize(keyDir)), 0.0) * keyIntensity;
  float fill = max(dot(N, normalize(fillDir)), 0.0) * fillIntensity;
  vec3 lit = colDiffuse.rgb * (ambient.rgb + vec3(key + fill));
  finalColor = vec4(lit, colDiffuse.a);
}
`
)

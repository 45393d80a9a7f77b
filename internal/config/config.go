// Package config loads and saves the application configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/scene"
)

// Config holds all user-adjustable settings, persisted as YAML.
type Config struct {
	CameraID        int     `yaml:"camera_id"`
	MotionThreshold float64 `yaml:"motion_threshold"`
	ServerAddr      string  `yaml:"server_addr"`
	Tuning          Tuning  `yaml:"tuning"`
}

// Tuning carries the tuned constants of the gesture and animation pipeline.
type Tuning struct {
	// CurlThreshold is the tip-to-palm distance under which a finger
	// always counts as curled (normalized units).
	CurlThreshold float64 `yaml:"curl_threshold"`
	// DwellFrames is the grab debounce length in frames.
	DwellFrames int `yaml:"dwell_frames"`
	// PinchSensitivity multiplies the pinch delta when scaling.
	PinchSensitivity float64 `yaml:"pinch_sensitivity"`
	// ScaleMin and ScaleMax bound every scale axis.
	ScaleMin float64 `yaml:"scale_min"`
	ScaleMax float64 `yaml:"scale_max"`
	// PositionRate and ScaleRate are exponential approach rates per second.
	PositionRate float64 `yaml:"position_rate"`
	ScaleRate    float64 `yaml:"scale_rate"`
	// MinFrameIntervalMs caps the animator advance rate.
	MinFrameIntervalMs int `yaml:"min_frame_interval_ms"`
	// ClassifyStride runs the classifier on every Nth detected frame.
	ClassifyStride int `yaml:"classify_stride"`
}

// MinFrameInterval returns the advance rate gate as a duration.
func (t Tuning) MinFrameInterval() time.Duration {
	return time.Duration(t.MinFrameIntervalMs) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CameraID:        0,
		MotionThreshold: 1.0,
		ServerAddr:      ":8080",
		Tuning: Tuning{
			CurlThreshold:      gesture.DefaultCurlThreshold,
			DwellFrames:        gesture.DefaultDwellFrames,
			PinchSensitivity:   scene.DefaultPinchSensitivity,
			ScaleMin:           scene.DefaultScaleMin,
			ScaleMax:           scene.DefaultScaleMax,
			PositionRate:       scene.DefaultPositionRate,
			ScaleRate:          scene.DefaultScaleRate,
			MinFrameIntervalMs: int(scene.DefaultMinFrameInterval / time.Millisecond),
			ClassifyStride:     2,
		},
	}
}

// Load reads the configuration from the given path. A missing file yields
// the defaults without error; a malformed file is reported.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}

	cfg.Tuning = cfg.Tuning.normalized()
	return cfg, nil
}

// Save writes the configuration to the given path, creating the directory
// if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// normalized replaces out-of-range tuning values with the defaults.
func (t Tuning) normalized() Tuning {
	def := Default().Tuning

	if t.CurlThreshold <= 0 || t.CurlThreshold >= 1 {
		t.CurlThreshold = def.CurlThreshold
	}
	if t.DwellFrames < 1 {
		t.DwellFrames = def.DwellFrames
	}
	if t.PinchSensitivity <= 0 {
		t.PinchSensitivity = def.PinchSensitivity
	}
	if t.ScaleMin <= 0 || t.ScaleMax <= t.ScaleMin {
		t.ScaleMin = def.ScaleMin
		t.ScaleMax = def.ScaleMax
	}
	if t.PositionRate <= 0 {
		t.PositionRate = def.PositionRate
	}
	if t.ScaleRate <= 0 {
		t.ScaleRate = def.ScaleRate
	}
	if t.MinFrameIntervalMs <= 0 {
		t.MinFrameIntervalMs = def.MinFrameIntervalMs
	}
	if t.ClassifyStride < 1 {
		t.ClassifyStride = def.ClassifyStride
	}

	return t
}

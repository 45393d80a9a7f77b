package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg != Default() {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "camera_id: 2\ntuning:\n  dwell_frames: 5\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.CameraID != 2 {
			t.Errorf("expected camera_id 2, got %d", cfg.CameraID)
		}
		if cfg.Tuning.DwellFrames != 5 {
			t.Errorf("expected dwell_frames 5, got %d", cfg.Tuning.DwellFrames)
		}
		if cfg.Tuning.PinchSensitivity != Default().Tuning.PinchSensitivity {
			t.Errorf("expected default pinch sensitivity, got %f", cfg.Tuning.PinchSensitivity)
		}
		if cfg.ServerAddr != Default().ServerAddr {
			t.Errorf("expected default server address, got %q", cfg.ServerAddr)
		}
	})

	t.Run("malformed file reports an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("tuning: ["), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := Load(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("out-of-range tuning is normalized", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "tuning:\n  curl_threshold: -0.5\n  scale_min: 3.0\n  scale_max: 1.0\n  classify_stride: 0\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		def := Default().Tuning
		if cfg.Tuning.CurlThreshold != def.CurlThreshold {
			t.Errorf("expected curl threshold normalized to default, got %f", cfg.Tuning.CurlThreshold)
		}
		if cfg.Tuning.ScaleMin != def.ScaleMin || cfg.Tuning.ScaleMax != def.ScaleMax {
			t.Errorf("expected scale range normalized, got [%f, %f]", cfg.Tuning.ScaleMin, cfg.Tuning.ScaleMax)
		}
		if cfg.Tuning.ClassifyStride != def.ClassifyStride {
			t.Errorf("expected classify stride normalized, got %d", cfg.Tuning.ClassifyStride)
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.CameraID = 1
	cfg.Tuning.PinchSensitivity = 3.0

	if err := Save(path, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loaded != cfg {
		t.Errorf("round trip mismatch: saved %+v, loaded %+v", cfg, loaded)
	}
}

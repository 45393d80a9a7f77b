package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

// tuningSettingKey is the settings row the live tuning is persisted under.
const tuningSettingKey = "tuning"

// TuningApplier receives tuning updates. Implemented by app.App.
type TuningApplier interface {
	ApplyTuning(config.Tuning)
}

// TuningHandler handles GET and PUT requests for the live pipeline tuning.
// Updates are applied immediately and persisted so they survive a restart.
type TuningHandler struct {
	app   TuningApplier
	store *store.Store

	mu      sync.RWMutex
	current config.Tuning
}

// NewTuningHandler creates a TuningHandler seeded with the given tuning.
// A previously persisted tuning, if any, takes precedence over the seed and
// is pushed into the applier right away.
func NewTuningHandler(app TuningApplier, s *store.Store, initial config.Tuning) *TuningHandler {
	h := &TuningHandler{
		app:     app,
		store:   s,
		current: initial,
	}

	if s != nil {
		if saved, err := s.Settings().Get(tuningSettingKey); err == nil {
			var t tuningPayload
			if err := json.Unmarshal([]byte(saved), &t); err == nil {
				h.current = t.toTuning()
				if app != nil {
					app.ApplyTuning(h.current)
				}
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to load persisted tuning: %v", err)
		}
	}

	return h
}

// Current returns the tuning the handler last applied.
func (h *TuningHandler) Current() config.Tuning {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// ServeHTTP implements the http.Handler interface.
func (h *TuningHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// tuningPayload is the wire form of config.Tuning.
type tuningPayload struct {
	CurlThreshold      float64 `json:"curl_threshold"`
	DwellFrames        int     `json:"dwell_frames"`
	PinchSensitivity   float64 `json:"pinch_sensitivity"`
	ScaleMin           float64 `json:"scale_min"`
	ScaleMax           float64 `json:"scale_max"`
	PositionRate       float64 `json:"position_rate"`
	ScaleRate          float64 `json:"scale_rate"`
	MinFrameIntervalMs int     `json:"min_frame_interval_ms"`
	ClassifyStride     int     `json:"classify_stride"`
}

func fromTuning(t config.Tuning) tuningPayload {
	return tuningPayload{
		CurlThreshold:      t.CurlThreshold,
		DwellFrames:        t.DwellFrames,
		PinchSensitivity:   t.PinchSensitivity,
		ScaleMin:           t.ScaleMin,
		ScaleMax:           t.ScaleMax,
		PositionRate:       t.PositionRate,
		ScaleRate:          t.ScaleRate,
		MinFrameIntervalMs: t.MinFrameIntervalMs,
		ClassifyStride:     t.ClassifyStride,
	}
}

func (p tuningPayload) toTuning() config.Tuning {
	return config.Tuning{
		CurlThreshold:      p.CurlThreshold,
		DwellFrames:        p.DwellFrames,
		PinchSensitivity:   p.PinchSensitivity,
		ScaleMin:           p.ScaleMin,
		ScaleMax:           p.ScaleMax,
		PositionRate:       p.PositionRate,
		ScaleRate:          p.ScaleRate,
		MinFrameIntervalMs: p.MinFrameIntervalMs,
		ClassifyStride:     p.ClassifyStride,
	}
}

// validate rejects values that would stall or destabilize the pipeline.
func (p tuningPayload) validate() error {
	if p.CurlThreshold <= 0 || p.CurlThreshold >= 1 {
		return errors.New("curl_threshold must be in (0, 1)")
	}
	if p.DwellFrames < 1 {
		return errors.New("dwell_frames must be at least 1")
	}
	if p.PinchSensitivity <= 0 {
		return errors.New("pinch_sensitivity must be positive")
	}
	if p.ScaleMin <= 0 || p.ScaleMax <= p.ScaleMin {
		return errors.New("scale bounds must satisfy 0 < scale_min < scale_max")
	}
	if p.PositionRate <= 0 || p.ScaleRate <= 0 {
		return errors.New("smoothing rates must be positive")
	}
	if p.MinFrameIntervalMs < 1 {
		return errors.New("min_frame_interval_ms must be at least 1")
	}
	if p.ClassifyStride < 1 {
		return errors.New("classify_stride must be at least 1")
	}
	return nil
}

// get handles GET /api/tuning and returns the tuning currently in effect.
func (h *TuningHandler) get(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.current
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, fromTuning(current))
}

// update handles PUT /api/tuning. Fields absent from the request body keep
// their current value.
func (h *TuningHandler) update(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	payload := fromTuning(h.current)
	h.mu.RUnlock()

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := payload.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tuning := payload.toTuning()

	h.mu.Lock()
	h.current = tuning
	h.mu.Unlock()

	if h.app != nil {
		h.app.ApplyTuning(tuning)
	}

	if h.store != nil {
		data, _ := json.Marshal(payload)
		if err := h.store.Settings().Set(tuningSettingKey, string(data)); err != nil {
			log.Printf("Failed to persist tuning: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, payload)
}

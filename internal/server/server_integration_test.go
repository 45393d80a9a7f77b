package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func TestAPI_SessionWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	sess := &store.Session{ID: "sess-1", Frames: 50, Grabs: 2, PeakScale: 1.4}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. List sessions
	resp, err := client.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/sessions status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Sessions []struct {
			ID    string `json:"id"`
			Grabs int    `json:"grabs"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(listed.Sessions))
	}
	if listed.Sessions[0].Grabs != 2 {
		t.Errorf("grabs = %d, want 2", listed.Sessions[0].Grabs)
	}

	// 2. Get single session
	resp, _ = client.Get(ts.URL + "/api/sessions/sess-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/sessions/sess-1 status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 3. Delete session
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/sess-1", nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()
}

func TestWS_StateBroadcast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	p := newFakePipeline()
	palm := detector.OpenPalmLandmarks()
	p.sig = gesture.Signal{
		PinchDistance: 0.12,
		Palm:          palm.Palm(),
	}
	p.has = true

	srv := New(Config{Pipeline: p})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http://", "ws://", 1) + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("websocket read error = %v", err)
	}

	var state stateMessage
	if err := json.Unmarshal(msg, &state); err != nil {
		t.Fatalf("failed to decode state message: %v", err)
	}

	if state.Signal == nil {
		t.Fatal("expected a gesture signal in the broadcast")
	}
	if state.Signal.PinchDistance != 0.12 {
		t.Errorf("pinch distance = %v, want 0.12", state.Signal.PinchDistance)
	}
	if state.Transform.Scale.X != 1 {
		t.Errorf("initial scale = %v, want 1", state.Transform.Scale.X)
	}
	if state.Timestamp == 0 {
		t.Error("expected a non-zero timestamp")
	}
}

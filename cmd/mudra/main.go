package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default ~/.mudra/config.yaml)")
		addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
		headless   = flag.Bool("headless", false, "run without the render window")
	)
	flag.Parse()

	fmt.Println("Mudra - Hand Tracking")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if *configPath == "" {
		*configPath = filepath.Join(dataDir, "config.yaml")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThreshold,
		Tuning:       cfg.Tuning,
	})
	a.SetEnabled(true)

	// A missing camera shouldn't take the viewer down with it
	if err := a.Start(); err != nil {
		log.Printf("Failed to start pipeline: %v", err)
		a.SetEnabled(false)
	}
	defer a.Stop()

	webDir := findWebDir(dataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Pipeline:  a,
		Tuning:    cfg.Tuning,
	})

	fmt.Printf("Starting server on %s\n", cfg.ServerAddr)
	go func() {
		if err := srv.ListenAndServe(cfg.ServerAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	tr := tray.New()
	tr.OnToggle(a.SetEnabled)
	tr.OnViewer(func() {
		openBrowser(viewerURL(cfg.ServerAddr))
	})

	a.OnSignal(func(sig gesture.Signal) {
		if sig.Grabbing {
			tr.SetHandState("grabbing")
		} else {
			tr.SetHandState("open")
		}
	})

	if *headless {
		// No window: the tray owns the main thread and blocks until Quit
		tr.Run()
		return
	}

	// The render window owns the main thread; the tray runs alongside it.
	// Quitting from the tray closes the window and vice versa.
	renderer := render.New(a.Animator(), render.DefaultConfig())
	tr.OnQuit(renderer.Stop)
	go tr.Run()

	renderer.Run()
	tr.Quit()
}

// findWebDir searches for the viewer web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// viewerURL turns a listen address into a browsable URL.
func viewerURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

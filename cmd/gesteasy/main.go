package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/gesteasy/internal/app"
	"github.com/ayusman/gesteasy/internal/capture"
	"github.com/ayusman/gesteasy/internal/config"
	"github.com/ayusman/gesteasy/internal/detector"
	"github.com/ayusman/gesteasy/internal/plugin"
	"github.com/ayusman/gesteasy/internal/server"
	"github.com/ayusman/gesteasy/internal/store"
	"github.com/ayusman/gesteasy/internal/tray"
)

func main() {
	fmt.Println("Gesteasy - Hand Gesture Control")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	pipelineCfg, err := cfg.PipelineConfig()
	if err != nil {
		log.Fatalf("Invalid pipeline configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	plugins := plugin.NewManager(cfg.PluginDir)
	if err := plugins.Discover(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}
	log.Printf("Loaded %d plugin(s) from %s", len(plugins.List()), cfg.PluginDir)

	// Try MediaPipe first, fall back to mock detector
	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		det = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		det = detector.NewMockDetector()
	}

	camCfg := capture.DefaultConfig()
	camCfg.DeviceID = cfg.CameraID
	camCfg.FPS = cfg.FPS
	camCfg.Width = pipelineCfg.SourceWidth
	camCfg.Height = pipelineCfg.SourceHeight

	hub := server.NewHub()

	application, err := app.New(app.Config{
		Store:         st,
		Pipeline:      pipelineCfg,
		Camera:        capture.NewCamera(camCfg),
		Detector:      det,
		Plugins:       plugins,
		Runner:        plugin.NewExecutor(plugin.DefaultTimeout),
		Hub:           hub,
		FrameInterval: cfg.FrameInterval(),
		StartActive:   cfg.StartActive,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Controller: application,
		Plugins:    plugins,
		Hub:        hub,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		log.Fatalf("Failed to start frame loop: %v", err)
	}
	defer application.Stop()

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	if !cfg.Tray {
		<-ctx.Done()
		return
	}

	t := tray.New(application.Status().Active)
	t.OnToggle(func(active bool) {
		if err := application.SetActive(active); err != nil {
			log.Printf("Failed to toggle gesture mode: %v", err)
		}
	})
	t.OnSettings(func() {
		openBrowser(settingsURL(cfg.Addr))
	})
	application.OnModeChange(t.SetActive)
	application.OnEvent(func(e store.Event) {
		t.SetLastEvent(e.Kind.String())
	})

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	// systray must own the main thread; Run returns after Quit.
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	// Check relative paths from current working directory
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

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}

// settingsURL turns a listen address into a browsable URL.
func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

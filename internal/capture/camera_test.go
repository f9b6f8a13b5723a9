package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantFPS int
	}{
		{
			name:    "default config",
			cfg:     DefaultConfig(),
			wantFPS: DefaultFPS,
		},
		{
			name:    "zero fps falls back",
			cfg:     Config{DeviceID: 1},
			wantFPS: DefaultFPS,
		},
		{
			name:    "explicit fps",
			cfg:     Config{DeviceID: 2, FPS: 15},
			wantFPS: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.cfg)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 10", fps: 10, wantFPS: 10},
		{name: "set to 1", fps: 1, wantFPS: 1},
		{name: "set to 0 should keep previous", fps: 0, wantFPS: 1},
		{name: "set to negative should keep previous", fps: -5, wantFPS: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestNormalizeFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	t.Run("resizes to configured size", func(t *testing.T) {
		mat := gocv.NewMatWithSize(720, 1280, gocv.MatTypeCV8UC3)
		defer mat.Close()

		normalizeFrame(&mat, Config{Width: 640, Height: 480})

		if mat.Cols() != 640 || mat.Rows() != 480 {
			t.Errorf("frame is %dx%d, want 640x480", mat.Cols(), mat.Rows())
		}
	})

	t.Run("mirrors horizontally", func(t *testing.T) {
		mat := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8U)
		defer mat.Close()
		mat.SetUCharAt(0, 0, 200)

		normalizeFrame(&mat, Config{Width: 2, Height: 2, Mirror: true})

		if got := mat.GetUCharAt(0, 1); got != 200 {
			t.Errorf("mirrored pixel = %d, want 200", got)
		}
		if got := mat.GetUCharAt(0, 0); got != 0 {
			t.Errorf("original pixel = %d, want 0", got)
		}
	})
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultConfig())

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Cols() != DefaultWidth || mat.Rows() != DefaultHeight {
			t.Errorf("frame is %dx%d, want %dx%d", mat.Cols(), mat.Rows(), DefaultWidth, DefaultHeight)
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/stages/transform"
)

func TestDefaults_MatchTransformDefaults(t *testing.T) {
	got := Defaults().ToSessionConfig()
	want := transform.DefaultOptions()

	if got.Transform != want {
		t.Errorf("config defaults %+v differ from transform defaults %+v", got.Transform, want)
	}
	if got.AudioFormat != ports.AudioMP3 {
		t.Errorf("expected mp3, got %q", got.AudioFormat)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videolab.yaml")
	yml := `
audio_format: wav
grid:
  rows: 3
detect:
  min_area: 1200
  box_color: "#ff0000"
log_level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.AudioFormat != "wav" {
		t.Errorf("expected wav, got %q", cfg.AudioFormat)
	}
	if cfg.Grid.Rows != 3 || cfg.Grid.Cols != 4 {
		t.Errorf("expected 3x4 grid (cols from defaults), got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Detect.MinArea != 1200 || cfg.Detect.HighThreshold != 150 {
		t.Errorf("unexpected detect config %+v", cfg.Detect)
	}
	if cfg.Level() != ports.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Level())
	}

	sc := cfg.ToSessionConfig()
	if sc.Transform.Detect.BoxColor != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("unexpected box color %v", sc.Transform.Detect.BoxColor)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [1, 2"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Defaults()
	cfg.Grid.Rows = 6

	err := ApplyEnv(&cfg, map[string]string{
		"VIDEOLAB_FFMPEG_PATH":     "/opt/ffmpeg/bin/ffmpeg",
		"VIDEOLAB_GRID_COLS":       "8",
		"VIDEOLAB_DETECT_MIN_AREA": "42.5",
		"VIDEOLAB_DEBUG":           "true",
	})
	if err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("unexpected ffmpeg path %q", cfg.FFmpegPath)
	}
	if cfg.FFmpegOptions().FFmpegPath != cfg.FFmpegPath {
		t.Error("FFmpegOptions should carry the configured path")
	}
	if cfg.Grid.Rows != 6 || cfg.Grid.Cols != 8 {
		t.Errorf("expected 6x8 grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Detect.MinArea != 42.5 {
		t.Errorf("expected min area 42.5, got %v", cfg.Detect.MinArea)
	}
	if !cfg.Debug {
		t.Error("expected debug to be enabled")
	}
	if cfg.AudioFormat != "mp3" {
		t.Errorf("unset variables must not clear fields, got audio format %q", cfg.AudioFormat)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	cfg := Defaults()
	if err := ApplyEnv(&cfg, map[string]string{"VIDEOLAB_GRID_ROWS": "many"}); err == nil {
		t.Error("expected error for a non-numeric value")
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}

	cfg.AudioFormat = "aiff"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported audio format")
	}

	cfg = Defaults()
	cfg.Detect.BoxWidth = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative box width")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#38bdf8", color.RGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 255}},
		{"38BDF8", color.RGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 255}},
		{"#0f0", color.RGBA{G: 0xff, A: 255}},
		{"", color.RGBA{A: 255}},
		{"#12345", color.RGBA{A: 255}},
		{"#zzzzzz", color.RGBA{A: 255}},
	}

	for _, tt := range tests {
		if got := ParseColor(tt.in); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

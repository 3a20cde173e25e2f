// Package config provides configuration loading and management.
//
// Values are layered: Defaults, then an optional YAML file, then
// VIDEOLAB_* environment variables. Command-line flags are applied last by
// the caller.
package config

import (
	"fmt"
	"image/color"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/user/videolab/pkg/adapters/ffmpeg"
	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/session"
	"github.com/user/videolab/pkg/stages/transform"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VIDEOLAB_"

// Config represents the full configuration for videolab.
type Config struct {
	// External tools
	FFmpegPath  string `yaml:"ffmpeg_path" env:"FFMPEG_PATH"`
	FFprobePath string `yaml:"ffprobe_path" env:"FFPROBE_PATH"`

	// Audio
	AudioFormat string `yaml:"audio_format" env:"AUDIO_FORMAT"`

	// Transforms
	Grid   GridConfig   `yaml:"grid" envPrefix:"GRID_"`
	Detect DetectConfig `yaml:"detect" envPrefix:"DETECT_"`

	// Logging
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Debug
	Debug    bool   `yaml:"debug" env:"DEBUG"`
	DebugDir string `yaml:"debug_dir" env:"DEBUG_DIR"`
}

// GridConfig configures the grid overlay.
type GridConfig struct {
	Rows  int    `yaml:"rows" env:"ROWS"`
	Cols  int    `yaml:"cols" env:"COLS"`
	Color string `yaml:"color" env:"COLOR"`
}

// DetectConfig configures region detection.
type DetectConfig struct {
	MinArea       float64 `yaml:"min_area" env:"MIN_AREA"`
	LowThreshold  float64 `yaml:"low_threshold" env:"LOW_THRESHOLD"`
	HighThreshold float64 `yaml:"high_threshold" env:"HIGH_THRESHOLD"`
	BoxColor      string  `yaml:"box_color" env:"BOX_COLOR"`
	BoxWidth      float64 `yaml:"box_width" env:"BOX_WIDTH"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		AudioFormat: string(ports.DefaultAudioFormat),

		Grid: GridConfig{
			Rows:  4,
			Cols:  4,
			Color: "#38bdf8",
		},
		Detect: DetectConfig{
			MinArea:       500,
			LowThreshold:  50,
			HighThreshold: 150,
			BoxColor:      "#00ff00",
			BoxWidth:      2,
		},

		LogLevel: "info",
		DebugDir: "./debug",
	}
}

// Load returns Defaults overlaid with the YAML file at path (skipped when
// path is empty) and then with the process environment.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, nil); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with VIDEOLAB_* variables. environ replaces the
// process environment when non-nil. Unset variables leave fields as they are.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if f := ports.ParseAudioFormat(c.AudioFormat); f != "" && !f.Supported() {
		return fmt.Errorf("unsupported audio format %q", c.AudioFormat)
	}
	if c.Detect.BoxWidth < 0 {
		return fmt.Errorf("detect.box_width must not be negative")
	}
	return nil
}

// ParseColor parses "#rrggbb" or "#rgb". Invalid input yields opaque black.
func ParseColor(hex string) color.RGBA {
	black := color.RGBA{A: 255}
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return black
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexValue(hex[2*i])
		lo, ok2 := hexValue(hex[2*i+1])
		if !ok1 || !ok2 {
			return black
		}
		rgb[i] = hi<<4 | lo
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// Level returns the configured log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// FFmpegOptions returns the tool locations for the ffmpeg adapter.
func (c Config) FFmpegOptions() ffmpeg.Options {
	return ffmpeg.Options{
		FFmpegPath:  c.FFmpegPath,
		FFprobePath: c.FFprobePath,
	}
}

// ToSessionConfig converts Config to session.Config.
func (c Config) ToSessionConfig() session.Config {
	return session.Config{
		AudioFormat: ports.ParseAudioFormat(c.AudioFormat),
		Transform: transform.Options{
			Grid: transform.GridOptions{
				Rows:  c.Grid.Rows,
				Cols:  c.Grid.Cols,
				Color: ParseColor(c.Grid.Color),
			},
			Detect: transform.DetectOptions{
				MinArea:       c.Detect.MinArea,
				LowThreshold:  c.Detect.LowThreshold,
				HighThreshold: c.Detect.HighThreshold,
				BoxColor:      ParseColor(c.Detect.BoxColor),
				BoxWidth:      c.Detect.BoxWidth,
			},
		},
	}
}

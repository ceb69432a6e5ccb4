// Package config loads the optional YAML preset of the motionbg command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/motionbg"
)

// DefaultFile is the preset looked up when no path is given.
const DefaultFile = "motionbg.yaml"

// ErrInvalid is returned by Resolve for values out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config represents the optional motionbg.yaml preset.
type Config struct {
	Canvas    CanvasConfig    `yaml:"canvas"`
	Frame     FrameConfig     `yaml:"frame"`
	Animation AnimationConfig `yaml:"animation"`
	Output    OutputConfig    `yaml:"output"`
}

// CanvasConfig describes the target bitmap.
type CanvasConfig struct {
	Width     int `yaml:"width,omitempty"`
	Height    int `yaml:"height,omitempty"`
	StridePad int `yaml:"stride_pad,omitempty"`
}

// FrameConfig describes the rendered frame.
type FrameConfig struct {
	Phase    int      `yaml:"phase,omitempty"`
	Progress *float32 `yaml:"progress,omitempty"`
	Colors   []string `yaml:"colors,omitempty"`
}

// Animation modes.
const (
	// ModeLoop rotates through all phases once over the frame count.
	ModeLoop = "loop"
	// ModeSwitch plays consecutive phase switches.
	ModeSwitch = "switch"
)

// AnimationConfig controls animated output.
type AnimationConfig struct {
	Frames int    `yaml:"frames,omitempty"`
	FPS    int    `yaml:"fps,omitempty"`
	Mode   string `yaml:"mode,omitempty"`
	Fast   bool   `yaml:"fast,omitempty"`
}

// OutputConfig controls the written file.
type OutputConfig struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
	Scale  int    `yaml:"scale,omitempty"`
}

// Resolved contains validated settings with defaults applied.
type Resolved struct {
	Width, Height int
	Stride        int
	Phase         int
	Progress      float32
	Colors        motionbg.Palette
	Frames        int
	FPS           int
	Mode          string
	Fast          bool
	Path          string
	Format        string
	Scale         int
}

// LoadOptional reads the preset at path if present. A missing file yields an
// empty Config.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Resolve applies defaults to cfg and validates the result.
func Resolve(cfg *Config) (*Resolved, error) {
	r := &Resolved{
		Width:    cfg.Canvas.Width,
		Height:   cfg.Canvas.Height,
		Phase:    cfg.Frame.Phase,
		Progress: 1,
		Colors:   motionbg.DefaultPalette,
		Frames:   cfg.Animation.Frames,
		FPS:      cfg.Animation.FPS,
		Mode:     strings.ToLower(strings.TrimSpace(cfg.Animation.Mode)),
		Fast:     cfg.Animation.Fast,
		Path:     strings.TrimSpace(cfg.Output.Path),
		Format:   strings.ToLower(strings.TrimSpace(cfg.Output.Format)),
		Scale:    cfg.Output.Scale,
	}

	if r.Width == 0 && r.Height == 0 {
		r.Width, r.Height = 60, 80
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalid, r.Width, r.Height)
	}
	if cfg.Canvas.StridePad < 0 {
		return nil, fmt.Errorf("%w: stride_pad %d", ErrInvalid, cfg.Canvas.StridePad)
	}
	r.Stride = r.Width*4 + cfg.Canvas.StridePad

	if cfg.Frame.Progress != nil {
		r.Progress = *cfg.Frame.Progress
		if r.Progress < 0 || r.Progress > 1 {
			return nil, fmt.Errorf("%w: progress %v", ErrInvalid, r.Progress)
		}
	}

	if len(cfg.Frame.Colors) > 0 {
		p, err := motionbg.ParsePalette(strings.Join(cfg.Frame.Colors, ","))
		if err != nil {
			return nil, fmt.Errorf("%w: colors: %w", ErrInvalid, err)
		}
		r.Colors = p
	}

	if r.Frames < 0 {
		return nil, fmt.Errorf("%w: frames %d", ErrInvalid, r.Frames)
	}
	if r.FPS == 0 {
		r.FPS = 30
	}
	if r.FPS < 0 || r.FPS > 100 {
		return nil, fmt.Errorf("%w: fps %d", ErrInvalid, r.FPS)
	}

	switch r.Mode {
	case "":
		r.Mode = ModeLoop
	case ModeLoop, ModeSwitch:
	default:
		return nil, fmt.Errorf("%w: mode %q", ErrInvalid, r.Mode)
	}

	if r.Scale == 0 {
		r.Scale = 1
	}
	if r.Scale < 0 {
		return nil, fmt.Errorf("%w: scale %d", ErrInvalid, r.Scale)
	}

	if r.Format == "" {
		r.Format = formatFromPath(r.Path, r.Frames)
	}
	switch r.Format {
	case "png", "bmp", "tiff", "gif":
	default:
		return nil, fmt.Errorf("%w: format %q", ErrInvalid, r.Format)
	}
	if r.Frames > 0 && r.Format != "gif" {
		return nil, fmt.Errorf("%w: %d frames need gif output, got %s", ErrInvalid, r.Frames, r.Format)
	}
	if r.Path == "" {
		r.Path = "motionbg." + r.Format
	}

	return r, nil
}

func formatFromPath(path string, frames int) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".gif":
		return "gif"
	case ".png":
		return "png"
	}
	if frames > 0 {
		return "gif"
	}
	return "png"
}

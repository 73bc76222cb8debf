// Package config holds the playground settings. Values come from built-in defaults, an optional
// YAML file and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/router"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/signal"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// WindowConfig describes the preview window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// ShaderConfig locates the edited shader and sets how edits are batched.
type ShaderConfig struct {
	// Path is the fragment shader file watched for edits.
	Path string `yaml:"path"`
	// Debounce is the quiet period after the last edit before the source is recompiled.
	Debounce time.Duration `yaml:"debounce"`
}

// RenderConfig selects and tunes the renderer backend.
type RenderConfig struct {
	// Backend is "wgpu" or "headless".
	Backend string `yaml:"backend"`
	// PresentMode is "vsync" or "uncapped".
	PresentMode   string `yaml:"present_mode"`
	RefreshRate   int    `yaml:"refresh_rate"`
	ForceSoftware bool   `yaml:"force_software"`
	Profile       bool   `yaml:"profile"`
	// SkipValidation hands source straight to the device without the WGSL front-end pass.
	SkipValidation bool `yaml:"skip_validation"`
	// ClearColor is the RGBA background behind the full-screen triangle, each component in [0, 1].
	// Empty keeps the renderer default.
	ClearColor []float64 `yaml:"clear_color"`
}

// LogConfig controls the diagnostic log level and the terminal log feed.
type LogConfig struct {
	Level       string `yaml:"level"`
	Capacity    int    `yaml:"capacity"`
	ClearScreen bool   `yaml:"clear_screen"`
}

// Config is the complete playground configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Shader ShaderConfig `yaml:"shader"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{Title: "shaderbox", Width: 960, Height: 540},
		Shader: ShaderConfig{Path: "shader.wgsl", Debounce: signal.DefaultDebounce},
		Render: RenderConfig{Backend: "wgpu", PresentMode: "vsync", RefreshRate: signal.DefaultRefreshRate},
		Log:    LogConfig{Level: "info", Capacity: router.DefaultLogCapacity},
	}
}

// Load reads a YAML file and fills every unset field from Default. An empty path returns Default.
//
// Parameters:
//   - path: the YAML file, may be empty
//
// Returns:
//   - Config: the loaded configuration
//   - error: an error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return Default().Merge(cfg), nil
}

// Merge returns c with every non-zero field of over applied on top.
//
// Parameters:
//   - over: the higher-precedence values
//
// Returns:
//   - Config: the merged configuration
func (c Config) Merge(over Config) Config {
	return Config{
		Window: WindowConfig{
			Title:  common.Coalesce(over.Window.Title, c.Window.Title),
			Width:  common.Coalesce(over.Window.Width, c.Window.Width),
			Height: common.Coalesce(over.Window.Height, c.Window.Height),
		},
		Shader: ShaderConfig{
			Path:     common.Coalesce(over.Shader.Path, c.Shader.Path),
			Debounce: common.Coalesce(over.Shader.Debounce, c.Shader.Debounce),
		},
		Render: RenderConfig{
			Backend:       common.Coalesce(over.Render.Backend, c.Render.Backend),
			PresentMode:   common.Coalesce(over.Render.PresentMode, c.Render.PresentMode),
			RefreshRate:   common.Coalesce(over.Render.RefreshRate, c.Render.RefreshRate),
			ForceSoftware: over.Render.ForceSoftware || c.Render.ForceSoftware,
			Profile:       over.Render.Profile || c.Render.Profile,

			SkipValidation: over.Render.SkipValidation || c.Render.SkipValidation,
			ClearColor:     mergeColor(over.Render.ClearColor, c.Render.ClearColor),
		},
		Log: LogConfig{
			Level:       common.Coalesce(over.Log.Level, c.Log.Level),
			Capacity:    common.Coalesce(over.Log.Capacity, c.Log.Capacity),
			ClearScreen: over.Log.ClearScreen || c.Log.ClearScreen,
		},
	}
}

// RegisterFlags binds command line flags to c. Unset flags leave the zero value, so the result is
// meant to be passed to Merge.
//
// Parameters:
//   - fs: the flag set to register on
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Window.Title, "title", "", "window title")
	fs.IntVar(&c.Window.Width, "width", 0, "initial window width in pixels")
	fs.IntVar(&c.Window.Height, "height", 0, "initial window height in pixels")
	fs.StringVar(&c.Shader.Path, "shader", "", "fragment shader file to watch")
	fs.DurationVar(&c.Shader.Debounce, "debounce", 0, "quiet period after an edit before recompiling")
	fs.StringVar(&c.Render.Backend, "backend", "", "renderer backend: wgpu or headless")
	fs.StringVar(&c.Render.PresentMode, "present", "", "present mode: vsync or uncapped")
	fs.IntVar(&c.Render.RefreshRate, "refresh", 0, "display refresh rate in Hz")
	fs.BoolVar(&c.Render.ForceSoftware, "software", false, "force the software fallback adapter")
	fs.BoolVar(&c.Render.Profile, "profile", false, "log memory statistics with every FPS sample")
	fs.BoolVar(&c.Render.SkipValidation, "no-validate", false, "skip the WGSL front-end pass before compiling on the device")
	fs.StringVar(&c.Log.Level, "log-level", "", "diagnostic log level: debug, info, warn or error")
	fs.IntVar(&c.Log.Capacity, "log-capacity", 0, "number of log feed entries kept")
	fs.BoolVar(&c.Log.ClearScreen, "clear", false, "clear the terminal before each log feed redraw")
}

// Validate reports every invalid field.
//
// Returns:
//   - error: nil if valid, otherwise an error wrapping ErrInvalid
func (c Config) Validate() error {
	var errs []error
	if !(common.Resolution{Width: c.Window.Width, Height: c.Window.Height}).Valid() {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Shader.Path == "" {
		errs = append(errs, errors.New("shader path is empty"))
	}
	if c.Shader.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce %s is negative", c.Shader.Debounce))
	}
	if _, err := renderer.ParseBackendType(c.Render.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := renderer.ParsePresentMode(c.Render.PresentMode); err != nil {
		errs = append(errs, err)
	}
	if err := validateColor(c.Render.ClearColor); err != nil {
		errs = append(errs, err)
	}
	if c.Render.RefreshRate < 0 {
		errs = append(errs, fmt.Errorf("refresh rate %d is negative", c.Render.RefreshRate))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Capacity < 0 {
		errs = append(errs, fmt.Errorf("log capacity %d is negative", c.Log.Capacity))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// SlogLevel parses the diagnostic log level.
//
// Returns:
//   - slog.Level: the parsed level
//   - error: an error if the level name is unknown
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// RendererOptions translates the render section into backend construction arguments.
//
// Returns:
//   - renderer.BackendType: the selected backend
//   - []renderer.RendererBuilderOption: the backend options
//   - error: an error if a name does not parse
func (c Config) RendererOptions() (renderer.BackendType, []renderer.RendererBuilderOption, error) {
	bt, err := renderer.ParseBackendType(c.Render.Backend)
	if err != nil {
		return 0, nil, err
	}
	pm, err := renderer.ParsePresentMode(c.Render.PresentMode)
	if err != nil {
		return 0, nil, err
	}
	options := []renderer.RendererBuilderOption{
		renderer.WithPresentMode(pm),
		renderer.WithForceSoftwareRenderer(c.Render.ForceSoftware),
		renderer.WithValidation(!c.Render.SkipValidation),
	}
	if err := validateColor(c.Render.ClearColor); err != nil {
		return 0, nil, err
	}
	if cc := c.Render.ClearColor; len(cc) == 4 {
		options = append(options, renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]))
	}
	return bt, options, nil
}

func mergeColor(over, base []float64) []float64 {
	if len(over) > 0 {
		return over
	}
	return base
}

func validateColor(cc []float64) error {
	if len(cc) == 0 {
		return nil
	}
	if len(cc) != 4 {
		return fmt.Errorf("clear color needs 4 components, got %d", len(cc))
	}
	for _, v := range cc {
		if v < 0 || v > 1 {
			return fmt.Errorf("clear color component %g outside [0, 1]", v)
		}
	}
	return nil
}

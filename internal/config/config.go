// Package config loads the application settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"CurveBoard/internal/curve"
	"CurveBoard/internal/state"
	"CurveBoard/internal/xlog"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window WindowConfig `toml:"window"`
	Editor EditorConfig `toml:"editor"`
	Render RenderConfig `toml:"render"`
	Export ExportConfig `toml:"export"`
	Share  ShareConfig  `toml:"share"`
	Log    xlog.Conf    `toml:"log"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type EditorConfig struct {
	// Capacity is the maximum number of control points; the oldest point
	// is dropped when a new one would exceed it.
	Capacity int `toml:"capacity"`
	// PickRadius is how close, in normalized units, a press must be to a
	// point to drag it.
	PickRadius float64 `toml:"pick_radius"`
	// Samples is the number of line segments used to draw the curve.
	Samples int `toml:"samples"`
}

type RenderConfig struct {
	PointSize  float32 `toml:"point_size"`
	LineWidth  float32 `toml:"line_width"`
	CurveColor string  `toml:"curve_color"`
}

type ExportConfig struct {
	PDFPath string `toml:"pdf_path"`
}

type ShareConfig struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{Title: "CurveBoard", Width: 500, Height: 500},
		Editor: EditorConfig{
			Capacity:   state.DefaultCapacity,
			PickRadius: state.DefaultPickRadius,
			Samples:    curve.DefaultSamples,
		},
		Render: RenderConfig{PointSize: 8, LineWidth: 1, CurveColor: "black"},
		Export: ExportConfig{PDFPath: "curve.pdf"},
		Share:  ShareConfig{Port: 8888, Advertise: true},
		Log:    xlog.Default(),
	}
}

// Load reads the file at path on top of Default. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r on top of Default and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, sme.String())
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).SetIndentTables(true).Encode(c)
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width < 1 || c.Window.Height < 1:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Editor.Capacity < 1:
		return fmt.Errorf("%w: editor.capacity %d", ErrInvalid, c.Editor.Capacity)
	case c.Editor.PickRadius <= 0:
		return fmt.Errorf("%w: editor.pick_radius %g", ErrInvalid, c.Editor.PickRadius)
	case c.Editor.Samples < 1:
		return fmt.Errorf("%w: editor.samples %d", ErrInvalid, c.Editor.Samples)
	case c.Render.PointSize <= 0 || c.Render.LineWidth <= 0:
		return fmt.Errorf("%w: render sizes must be positive", ErrInvalid)
	case c.Share.Port < 1 || c.Share.Port > 65535:
		return fmt.Errorf("%w: share.port %d", ErrInvalid, c.Share.Port)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// EditorOptions converts the editor section for state.NewEditor.
func (c Config) EditorOptions() state.Options {
	return state.Options{
		Capacity:   c.Editor.Capacity,
		PickRadius: c.Editor.PickRadius,
		Samples:    c.Editor.Samples,
	}
}

// Package config describes a planner run: document title, script, page
// geometry and default styles, and which calendar pages to generate.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
	"github.com/chipsenkbeil/makepdf-sub000/object"
)

// DefaultScript names the built-in script run when none is configured.
const DefaultScript = "example"

var ErrInvalidSize = errors.New("invalid size")

type Config struct {
	Title   string  `json:"title"`
	Script  string  `json:"script"`
	Page    Page    `json:"page"`
	Planner Planner `json:"planner"`
}

// Page holds page geometry in millimeters and the styles objects fall back
// to when they leave a field unset.
type Page struct {
	DPI              float64             `json:"dpi"`
	Font             string              `json:"font,omitempty"`
	Width            float64             `json:"width"`
	Height           float64             `json:"height"`
	FontSize         float64             `json:"font_size"`
	FillColor        builder.Color       `json:"fill_color"`
	OutlineColor     builder.Color       `json:"outline_color"`
	OutlineThickness float64             `json:"outline_thickness"`
	LineStyle        builder.LineStyle   `json:"line_style"`
	DashPattern      builder.DashPattern `json:"dash_pattern"`
	LineCap          builder.LineCap     `json:"cap_style"`
	LineJoin         builder.LineJoin    `json:"join_style"`
}

type Planner struct {
	Year    int    `json:"year"`
	Monthly Toggle `json:"monthly"`
	Weekly  Toggle `json:"weekly"`
	Daily   Toggle `json:"daily"`
}

type Toggle struct {
	Enabled bool `json:"enabled"`
}

// Default returns the configuration for a Supernote A6 X2 Nomad sized
// planner of the current year with every page kind enabled.
func Default() Config {
	now := time.Now()
	return Config{
		Title:  "MakePDF " + now.Format("2006-01-02"),
		Script: DefaultScript,
		Page:   DefaultPage(),
		Planner: Planner{
			Year:    now.Year(),
			Monthly: Toggle{Enabled: true},
			Weekly:  Toggle{Enabled: true},
			Daily:   Toggle{Enabled: true},
		},
	}
}

func DefaultPage() Page {
	const dpi = 300
	return Page{
		DPI:              dpi,
		Width:            coords.PxToMM(1404, dpi),
		Height:           coords.PxToMM(1872, dpi),
		FontSize:         32,
		FillColor:        builder.Black,
		OutlineColor:     builder.Black,
		OutlineThickness: 1,
		LineStyle:        builder.LineSolid,
		DashPattern:      builder.Solid(),
		LineCap:          builder.CapButt,
		LineJoin:         builder.JoinMiter,
	}
}

// Defaults converts the page styles into drawing defaults.
func (p Page) Defaults() object.Defaults {
	return object.Defaults{
		FontSize:         p.FontSize,
		FillColor:        p.FillColor,
		OutlineColor:     p.OutlineColor,
		OutlineThickness: p.OutlineThickness,
		DashPattern:      p.DashPattern,
		LineCap:          p.LineCap,
		LineJoin:         p.LineJoin,
		LineStyle:        p.LineStyle,
	}
}

// PxSize renders the page size as WIDTHxHEIGHTpx at the page DPI.
func (p Page) PxSize() string {
	w := math.Round(coords.MMToPx(p.Width, p.DPI))
	h := math.Round(coords.MMToPx(p.Height, p.DPI))
	return fmt.Sprintf("%.0fx%.0fpx", w, h)
}

// Validate reports the first setting that would make the run meaningless.
func (c Config) Validate() error {
	switch {
	case c.Page.DPI <= 0:
		return fmt.Errorf("page dpi must be positive, got %v", c.Page.DPI)
	case c.Page.Width <= 0 || c.Page.Height <= 0:
		return fmt.Errorf("page size must be positive, got %vx%vmm", c.Page.Width, c.Page.Height)
	case c.Page.FontSize <= 0:
		return fmt.Errorf("font size must be positive, got %v", c.Page.FontSize)
	case c.Planner.Year < 1 || c.Planner.Year > 9999:
		return fmt.Errorf("planner year %d out of range", c.Planner.Year)
	}
	return nil
}

// ParseSize reads WIDTHxHEIGHT followed by a two letter unit (in, mm or px)
// and returns the size in millimeters. Pixel sizes are converted at dpi.
func ParseSize(s string, dpi float64) (width, height float64, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("%w %q: missing units", ErrInvalidSize, s)
	}
	dims, unit := s[:len(s)-2], s[len(s)-2:]
	ws, hs, ok := strings.Cut(dims, "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w %q: missing 'x' between width and height", ErrInvalidSize, s)
	}
	width, err = strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w %q: width must be numeric", ErrInvalidSize, s)
	}
	height, err = strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w %q: height must be numeric", ErrInvalidSize, s)
	}
	switch unit {
	case "in":
		return coords.InToMM(width), coords.InToMM(height), nil
	case "mm":
		return width, height, nil
	case "px":
		if dpi <= 0 {
			return 0, 0, fmt.Errorf("%w %q: dpi must be positive", ErrInvalidSize, s)
		}
		return coords.PxToMM(width, dpi), coords.PxToMM(height, dpi), nil
	}
	return 0, 0, fmt.Errorf("%w %q: unknown units %q", ErrInvalidSize, s, unit)
}

// Load reads a JSON file over Default. Keys missing from the file keep their
// default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := decodeInto(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeInto(data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Record returns the configuration as the plain nested map scripts see as
// pdf.config.
func (c Config) Record() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FromRecord reads a configuration back from a script-side map. Fields the
// map omits keep their values from base.
func FromRecord(base Config, rec map[string]any) (Config, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return Config{}, err
	}
	cfg := base
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		w, h float64
	}{
		{"210x297mm", 210, 297},
		{" 8.5X11IN ", 215.9, 279.4},
		{"1404x1872px", 1404 * 25.4 / 300, 1872 * 25.4 / 300},
		{"100 x 50mm", 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseSize(tt.in, 300)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if math.Abs(w-tt.w) > 0.01 || math.Abs(h-tt.h) > 0.01 {
				t.Fatalf("size = %vx%v, want %vx%v", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestParseSizeErrors(t *testing.T) {
	for _, in := range []string{"", "m", "210x297", "210x297cm", "210297mm", "axbmm", "1x2"} {
		t.Run(in, func(t *testing.T) {
			if _, _, err := ParseSize(in, 300); !errors.Is(err, ErrInvalidSize) {
				t.Fatalf("err = %v, want ErrInvalidSize", err)
			}
		})
	}
	if _, _, err := ParseSize("10x10px", 0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("zero dpi err = %v, want ErrInvalidSize", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.Page.PxSize(); got != "1404x1872px" {
		t.Fatalf("px size = %q, want 1404x1872px", got)
	}
	if cfg.Script != DefaultScript {
		t.Fatalf("script = %q, want %q", cfg.Script, DefaultScript)
	}
	d := cfg.Page.Defaults()
	if d.FontSize != 32 || d.FillColor != builder.Black || d.LineCap != builder.CapButt {
		t.Fatalf("defaults = %+v", d)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.json")
	body := `{
		"title": "My Planner",
		"page": {"font_size": 18, "fill_color": "#336699", "dash_pattern": "dashed:2", "cap_style": "round"},
		"planner": {"year": 2024, "weekly": {"enabled": false}}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.Title = "My Planner"
	want.Page.FontSize = 18
	want.Page.FillColor = builder.RGB255(0x33, 0x66, 0x99)
	want.Page.DashPattern = builder.Dashed(2)
	want.Page.LineCap = builder.CapRound
	want.Planner.Year = 2024
	want.Planner.Weekly.Enabled = false
	if diff := cmp.Diff(want, cfg, cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"page": {"cap_style": "pointy"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatal("expected an error for an unknown cap style")
	}
	unknown := filepath.Join(dir, "unknown.json")
	if err := os.WriteFile(unknown, []byte(`{"colour": "red"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(unknown); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Planner.Year = 2030
	rec, err := cfg.Record()
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	page := rec["page"].(map[string]any)
	if page["fill_color"] != "000000" {
		t.Fatalf("fill_color = %v, want 000000", page["fill_color"])
	}
	// Scripts hand back integers where JSON produced floats.
	page["font"] = "custom.ttf"
	page["font_size"] = int64(20)
	rec["planner"].(map[string]any)["daily"] = map[string]any{"enabled": false}

	got, err := FromRecord(cfg, rec)
	if err != nil {
		t.Fatalf("from record: %v", err)
	}
	want := cfg
	want.Page.Font = "custom.ttf"
	want.Page.FontSize = 20
	want.Planner.Daily.Enabled = false
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"dpi", func(c *Config) { c.Page.DPI = 0 }},
		{"width", func(c *Config) { c.Page.Width = -1 }},
		{"font size", func(c *Config) { c.Page.FontSize = 0 }},
		{"year", func(c *Config) { c.Planner.Year = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

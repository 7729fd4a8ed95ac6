package builder

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/chipsenkbeil/makepdf-sub000/coords"
)

func TestColor_HexRoundTrip(t *testing.T) {
	for _, hex := range []string{"FF8800", "000000", "FFFFFF", "1A2B3C"} {
		c, err := ParseColor(hex)
		if err != nil {
			t.Fatalf("parse %s: %v", hex, err)
		}
		if got := c.Hex(); got != hex {
			t.Fatalf("hex round trip = %s, want %s", got, hex)
		}
	}
	c, err := ParseColor("#ff8800")
	if err != nil {
		t.Fatalf("parse lower: %v", err)
	}
	if c.Hex() != "FF8800" {
		t.Fatalf("expected uppercase output, got %s", c.Hex())
	}
	for _, bad := range []string{"FF88", "GG0000", ""} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseDashPattern(t *testing.T) {
	tests := []struct {
		in   string
		want DashPattern
	}{
		{"solid", Solid()},
		{"dashed", Dashed(DefaultDashLength)},
		{"dashed:3", Dashed(3)},
		{"dashed: 2.5", Dashed(2.5)},
		{"[2 3] 1", DashPattern{Offset: 1, Array: []float64{2, 3}}},
	}
	for _, tt := range tests {
		got, err := ParseDashPattern(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("pattern %q mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
	for _, bad := range []string{"dotted", "dashed:x", "dashed:0", "[2 x]", "[2 3"} {
		if _, err := ParseDashPattern(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
	if got := Dashed(3).String(); got != "dashed:3" {
		t.Fatalf("string = %q", got)
	}
	odd := DashPattern{Offset: 0.5, Array: []float64{1, 2, 3}}
	back, err := ParseDashPattern(odd.String())
	if err != nil {
		t.Fatalf("parse %q: %v", odd.String(), err)
	}
	if diff := cmp.Diff(odd, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePaintMode_RejectsClip(t *testing.T) {
	if _, err := ParsePaintMode("clip"); err == nil {
		t.Fatalf("expected clip to be rejected")
	}
	m, err := ParsePaintMode("fill_stroke")
	if err != nil || m != PaintFillStroke {
		t.Fatalf("fill_stroke = %v, %v", m, err)
	}
	if paintStyle(PaintFill, WindingEvenOdd) != "f*" || paintStyle(PaintFillStroke, WindingNonZero) != "FD" {
		t.Fatalf("unexpected fpdf styles")
	}
}

func TestLayer_RecordsInOrder(t *testing.T) {
	doc := NewDocument()
	l := doc.AddPage(100, 50)
	l.SetFillColor(White)
	l.AddRect(coords.FromSize(0, 0, 100, 50), PaintFill, WindingNonZero)
	l.UseText("hi", 12, 5, 5, FontRef{Family: "x"})
	l.AddGoToLink(coords.FromSize(0, 0, 10, 10), 0)

	var kinds []OpKind
	for _, op := range l.Ops() {
		kinds = append(kinds, op.Kind)
	}
	if diff := cmp.Diff([]OpKind{OpFillColor, OpRect, OpText}, kinds); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
	if w, h := l.Size(); w != 100 || h != 50 {
		t.Fatalf("size = %vx%v", w, h)
	}
	if len(l.Annotations()) != 1 {
		t.Fatalf("expected one annotation")
	}
}

func TestDocument_AddPageDefaults(t *testing.T) {
	doc := NewDocument(WithPageSize(80, 120))
	l := doc.AddPage(0, 0)
	if w, h := l.Size(); w != 80 || h != 120 {
		t.Fatalf("default size = %vx%v", w, h)
	}
	if doc.PageCount() != 1 || l.Index() != 0 {
		t.Fatalf("unexpected page bookkeeping")
	}
}

func TestDocument_AddFontErrors(t *testing.T) {
	doc := NewDocument()
	if _, err := doc.AddFont("empty", nil); err == nil {
		t.Fatalf("expected error for empty data")
	}
	if _, err := doc.AddFont("mono", gomono.TTF); err != nil {
		t.Fatalf("add font: %v", err)
	}
	_, err := doc.AddFont("mono", gomono.TTF)
	if !errors.Is(err, ErrDuplicateFont) {
		t.Fatalf("expected ErrDuplicateFont, got %v", err)
	}
}

func render(t *testing.T) []byte {
	t.Helper()
	doc := NewDocument(WithTitle("test"), WithCreationDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	font, err := doc.AddFont("mono", gomono.TTF)
	if err != nil {
		t.Fatalf("add font: %v", err)
	}
	first := doc.AddPage(100, 150)
	second := doc.AddPage(150, 100)

	first.SetFillColor(RGB255(0xEE, 0xEE, 0xEE))
	first.AddRect(first.Bounds(), PaintFill, WindingNonZero)
	first.SetFillColor(Black)
	first.UseText("Hello", 12, 10, 10, font)
	first.AddGoToLink(coords.FromSize(10, 10, 20, 5), second.Index())

	second.SetOutlineThickness(2)
	second.SetDashPattern(Dashed(3))
	second.SetLineCap(CapRound)
	second.SetLineJoin(JoinBevel)
	second.AddLine([]coords.Point{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 0}})
	second.AddPath(PolygonPath([]coords.Point{{X: 10, Y: 10}, {X: 20, Y: 30}, {X: 30, Y: 10}}, true), PaintFillStroke, WindingEvenOdd)
	second.AddURILink(coords.FromSize(0, 0, 10, 10), "https://example.com")

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := doc.Write(&buf); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on second write, got %v", err)
	}
	return buf.Bytes()
}

func TestDocument_WriteIsReproducible(t *testing.T) {
	first := render(t)
	if !bytes.HasPrefix(first, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
	for i := 1; i < 4; i++ {
		if !bytes.Equal(first, render(t)) {
			t.Fatalf("render %d differs from the first", i+1)
		}
	}
}

func TestDocument_AddFontKeepsCallerBytes(t *testing.T) {
	data := bytes.Clone(gomono.TTF)
	want := bytes.Clone(data)

	doc := NewDocument()
	font, err := doc.AddFont("mono", data)
	if err != nil {
		t.Fatalf("add font: %v", err)
	}
	// Glyphs beyond the font's full horizontal metrics take fpdf's
	// short-metric path while subsetting.
	doc.AddPage(100, 100).UseText("Hello, wörld! 0123 {}[]", 12, 10, 10, font)
	if err := doc.Write(io.Discard); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("writing the document modified the font bytes passed to AddFont")
	}
}

func TestDocument_EmptyURIStaysURI(t *testing.T) {
	doc := NewDocument()
	doc.AddPage(100, 100).AddURILink(coords.FromSize(0, 0, 10, 10), "")
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/S /URI /URI ()")) {
		t.Fatalf("uri annotation was not written as a uri action")
	}
	if bytes.Contains(buf.Bytes(), []byte("/Dest [")) {
		t.Fatalf("uri annotation was written as a page destination")
	}
}

func TestDocument_SaveReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.pdf")
	err := NewDocument().Save(path)
	if err == nil {
		t.Fatalf("expected error saving into a missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	ok := filepath.Join(t.TempDir(), "out.pdf")
	if err := NewDocument().Save(ok); err != nil {
		t.Fatalf("save: %v", err)
	}
	if info, err := os.Stat(ok); err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty file, stat err %v", err)
	}
}

package fonts

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/chipsenkbeil/makepdf-sub000/coords"
)

// ErrFontParse is returned when font bytes cannot be parsed as TrueType or
// OpenType.
var ErrFontParse = errors.New("fonts: invalid font data")

// Face is a parsed font with the metrics needed to measure text. Vertical
// metrics are kept in font design units.
type Face struct {
	mu   sync.Mutex
	font *sfnt.Font
	buf  sfnt.Buffer
	ppem fixed.Int26_6

	data        []byte
	name        string
	fingerprint string
	upem        float64
	ascender    float64
	descender   float64
	lineGap     float64
}

// ParseFace parses TrueType or OpenType data. The data is retained and must
// not be modified afterwards.
func ParseFace(data []byte) (*Face, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrFontParse)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontParse, err)
	}
	upem := f.UnitsPerEm()
	if upem == 0 {
		return nil, fmt.Errorf("%w: zero units per em", ErrFontParse)
	}
	face := &Face{font: f, data: data, upem: float64(upem), ppem: fixed.Int26_6(upem) << 6}

	// At ppem == upem, 26.6 metrics are design units times 64.
	m, err := f.Metrics(&face.buf, face.ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("%w: metrics: %v", ErrFontParse, err)
	}
	face.ascender = unitsOf(m.Ascent)
	face.descender = -unitsOf(m.Descent)
	face.lineGap = unitsOf(m.Height) - face.ascender + face.descender

	if ps, err := f.Name(&face.buf, sfnt.NameIDPostScript); err == nil {
		face.name = strings.TrimSpace(ps)
	}
	sum := blake2b.Sum256(data)
	face.fingerprint = hex.EncodeToString(sum[:8])
	return face, nil
}

func unitsOf(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Name is the PostScript name of the face, if it has one.
func (f *Face) Name() string { return f.name }

// Fingerprint is a short content hash of the font bytes.
func (f *Face) Fingerprint() string { return f.fingerprint }

func (f *Face) Data() []byte { return f.data }

func (f *Face) UnitsPerEm() float64 { return f.upem }

// Ascender is the distance above the baseline in design units.
func (f *Face) Ascender() float64 { return f.ascender }

// Descender is the distance below the baseline in design units; it is
// negative for normal fonts.
func (f *Face) Descender() float64 { return f.descender }

func (f *Face) LineGap() float64 { return f.lineGap }

// Advance returns the horizontal advance of r in design units. ok is false
// when the face has no glyph for r.
func (f *Face) Advance(r rune) (adv float64, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.advance(r)
}

func (f *Face) advance(r rune) (float64, bool) {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	a, err := f.font.GlyphAdvance(&f.buf, idx, f.ppem, xfont.HintingNone)
	if err != nil {
		return 0, false
	}
	return unitsOf(a), true
}

// HasGlyph reports whether the face maps r to a real glyph.
func (f *Face) HasGlyph(r rune) bool {
	_, ok := f.Advance(r)
	return ok
}

// TextWidth returns the width in millimeters of text set at size points.
// Characters without a glyph contribute nothing.
func (f *Face) TextWidth(text string, size float64) float64 {
	scale := size / f.upem
	f.mu.Lock()
	defer f.mu.Unlock()
	var w float64
	for _, r := range norm.NFC.String(text) {
		if adv, ok := f.advance(r); ok {
			w += adv * scale
		}
	}
	return coords.PtToMM(w)
}

// TextHeight returns the single-line height in millimeters at size points:
// ascender minus descender plus line gap.
func (f *Face) TextHeight(size float64) float64 {
	return coords.PtToMM((f.ascender - f.descender + f.lineGap) * size / f.upem)
}

// AscenderHeight is the ascender in millimeters at size points.
func (f *Face) AscenderHeight(size float64) float64 {
	return coords.PtToMM(f.ascender * size / f.upem)
}

// DescenderHeight is the descender in millimeters at size points; negative
// below the baseline.
func (f *Face) DescenderHeight(size float64) float64 {
	return coords.PtToMM(f.descender * size / f.upem)
}

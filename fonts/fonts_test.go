package fonts

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
)

func writeFont(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "mono.ttf")
	if err := os.WriteFile(path, gomono.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	return path
}

func TestRegistry_AddFromPathIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFont(t, dir)
	link := filepath.Join(dir, "link.ttf")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r := NewRegistry()
	first, err := r.AddFromPath(path)
	if err != nil {
		t.Fatalf("add from path: %v", err)
	}
	// Equivalent spellings of the same file must hit the cache.
	for _, p := range []string{path, link, filepath.Join(dir, ".", "mono.ttf")} {
		id, err := r.AddFromPath(p)
		if err != nil {
			t.Fatalf("add %s: %v", p, err)
		}
		if id != first {
			t.Fatalf("add %s = %d, want cached %d", p, id, first)
		}
	}

	// A cached path is not read again, so corrupting the file is not noticed.
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("overwrite font: %v", err)
	}
	if id, err := r.AddFromPath(path); err != nil || id != first {
		t.Fatalf("cached lookup = %d, %v", id, err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected one face, got %d", r.Len())
	}
}

func TestRegistry_AddFromPathErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddFromPath(filepath.Join(t.TempDir(), "missing.ttf")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := r.AddFromPath(bad); !errors.Is(err, ErrFontParse) {
		t.Fatalf("expected ErrFontParse, got %v", err)
	}
}

func TestRegistry_BytesAndBuiltin(t *testing.T) {
	r := NewRegistry()
	a, err := r.AddFromBytes(gomono.TTF)
	if err != nil {
		t.Fatalf("add bytes: %v", err)
	}
	b, err := r.AddFromBytes(gomono.TTF)
	if err != nil {
		t.Fatalf("add bytes: %v", err)
	}
	if a == b {
		t.Fatalf("bytes loads must allocate distinct ids")
	}
	x, _ := r.AddBuiltinFont()
	y, _ := r.AddBuiltinFont()
	if x != y {
		t.Fatalf("builtin font loaded twice: %d vs %d", x, y)
	}
	if got := r.IDs(); len(got) != 3 || got[0] != a || got[1] != b || got[2] != x {
		t.Fatalf("ids not in load order: %v", got)
	}
}

func TestRegistry_Fallback(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.FaceOrFallback(nil); ok {
		t.Fatalf("no fallback should be resolvable yet")
	}
	a, _ := r.AddBuiltinFont()
	if _, had := r.AddFontAsFallback(a); had {
		t.Fatalf("expected no previous fallback")
	}
	b, _ := r.AddFromBytes(gomono.TTF)
	prev, had := r.AddFontAsFallback(b)
	if !had || prev != a {
		t.Fatalf("previous fallback = %d, %v", prev, had)
	}
	unknown := FontID(12345)
	face, ok := r.FaceOrFallback(&unknown)
	if want, _ := r.Face(b); !ok || face != want {
		t.Fatalf("unknown id should resolve to fallback face")
	}
}

type countingDoc struct {
	calls int
	fail  error
}

func (d *countingDoc) AddFont(family string, _ []byte) (builder.FontRef, error) {
	d.calls++
	if d.fail != nil {
		return builder.FontRef{}, d.fail
	}
	return builder.FontRef{Family: family}, nil
}

func TestRegistry_AddFontToDoc(t *testing.T) {
	r := NewRegistry(WithIDSource(sequence()))
	id, _ := r.AddBuiltinFont()
	twin, _ := r.AddFromBytes(gomono.TTF)
	doc := &countingDoc{}

	if _, ok := r.DocRef(id); ok {
		t.Fatalf("font should not have a doc ref before attaching")
	}
	for i := 0; i < 2; i++ {
		ok, err := r.AddFontToDoc(id, doc)
		if err != nil || !ok {
			t.Fatalf("attach = %v, %v", ok, err)
		}
	}
	if ok, err := r.AddFontToDoc(twin, doc); err != nil || !ok {
		t.Fatalf("attach twin = %v, %v", ok, err)
	}
	if doc.calls != 1 {
		t.Fatalf("expected a single embed, got %d", doc.calls)
	}
	ref, _ := r.DocRef(id)
	twinRef, _ := r.DocRef(twin)
	if ref != twinRef {
		t.Fatalf("identical faces should share a document font")
	}

	if ok, err := r.AddFontToDoc(FontID(999), doc); ok || err != nil {
		t.Fatalf("unknown id = %v, %v; want false, nil", ok, err)
	}

	other := NewRegistry()
	oid, _ := other.AddBuiltinFont()
	boom := errors.New("boom")
	if _, err := other.AddFontToDoc(oid, &countingDoc{fail: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected doc error, got %v", err)
	}
}

func sequence() func() FontID {
	var n FontID
	return func() FontID {
		n++
		return n
	}
}

func TestRegistry_IDCollisionsRetry(t *testing.T) {
	ids := []FontID{7, 7, 9}
	r := NewRegistry(WithIDSource(func() FontID {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	a, _ := r.AddFromBytes(gomono.TTF)
	b, _ := r.AddFromBytes(gomono.TTF)
	if a != 7 || b != 9 {
		t.Fatalf("ids = %d, %d; want 7, 9", a, b)
	}
}

func TestFace_Metrics(t *testing.T) {
	face, err := ParseFace(gomono.TTF)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if face.UnitsPerEm() <= 0 || face.Ascender() <= 0 || face.Descender() >= 0 {
		t.Fatalf("unexpected vertical metrics: upem %v asc %v desc %v",
			face.UnitsPerEm(), face.Ascender(), face.Descender())
	}

	// Go Mono is monospaced, so widths add up per character.
	one := face.TextWidth("a", 12)
	if one <= 0 {
		t.Fatalf("width of 'a' = %v", one)
	}
	if got := face.TextWidth("abcd", 12); !near(got, 4*one) {
		t.Fatalf("width of 4 chars = %v, want %v", got, 4*one)
	}
	if got := face.TextWidth("abcd", 24); !near(got, 2*face.TextWidth("abcd", 12)) {
		t.Fatalf("width should scale linearly with size")
	}
	if face.TextWidth("", 12) != 0 {
		t.Fatalf("empty text should have zero width")
	}

	// Height depends on the face and size only, never on the text.
	if !near(face.TextHeight(24), 2*face.TextHeight(12)) {
		t.Fatalf("height should be linear in size")
	}
	want := (face.Ascender() - face.Descender() + face.LineGap()) * 12 / face.UnitsPerEm() * 0.352778
	if !near(face.TextHeight(12), want) {
		t.Fatalf("height = %v, want %v", face.TextHeight(12), want)
	}

	// U+10FFFF has no glyph and contributes nothing.
	if face.HasGlyph('\U0010FFFF') {
		t.Fatalf("unexpected glyph for U+10FFFF")
	}
	if got := face.TextWidth("a\U0010FFFF", 12); !near(got, one) {
		t.Fatalf("missing glyph should add zero width, got %v want %v", got, one)
	}
	if face.Name() == "" || len(face.Fingerprint()) != 16 {
		t.Fatalf("name %q fingerprint %q", face.Name(), face.Fingerprint())
	}
}

func TestFace_NormalizesBeforeMeasuring(t *testing.T) {
	face, err := ParseFace(gomono.TTF)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	composed := face.TextWidth("\u00e9", 12)
	decomposed := face.TextWidth("e\u0301", 12)
	if !near(composed, decomposed) {
		t.Fatalf("composed %v != decomposed %v", composed, decomposed)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

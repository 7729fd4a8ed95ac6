// Package builder turns recorded page layers into a PDF file using fpdf.
package builder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/chipsenkbeil/makepdf-sub000/coords"
)

var (
	ErrClosed        = errors.New("builder: document already written")
	ErrDuplicateFont = errors.New("builder: font family already registered")
)

// DocError records which document operation failed.
type DocError struct {
	Op  string
	Err error
}

func (e *DocError) Error() string { return fmt.Sprintf("builder.%s: %v", e.Op, e.Err) }
func (e *DocError) Unwrap() error { return e.Err }

// FontRef names a font registered with a Document.
type FontRef struct {
	Family string
}

// Option configures a new Document.
type Option func(*docConfig)

type docConfig struct {
	title   string
	created time.Time
	width   float64
	height  float64
}

func WithTitle(title string) Option { return func(c *docConfig) { c.title = title } }

// WithCreationDate pins the creation and modification dates written into the
// file, which keeps repeated renders byte-identical.
func WithCreationDate(t time.Time) Option { return func(c *docConfig) { c.created = t } }

// WithPageSize sets the default page size in millimeters.
func WithPageSize(width, height float64) Option {
	return func(c *docConfig) { c.width, c.height = width, height }
}

// Document is an output PDF under construction. Fonts are embedded as soon as
// they are added so bad font data fails early; pages are rendered when the
// document is written.
type Document struct {
	pdf    *fpdf.Fpdf
	cfg    docConfig
	fonts  map[string]bool
	pages  []*Layer
	closed bool
}

func NewDocument(opts ...Option) *Document {
	cfg := docConfig{
		created: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		width:   210,
		height:  297,
	}
	for _, o := range opts {
		o(&cfg)
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cfg.width, Ht: cfg.height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(true)
	pdf.SetCreationDate(cfg.created)
	pdf.SetModificationDate(cfg.created)
	pdf.SetCatalogSort(true)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	return &Document{pdf: pdf, cfg: cfg, fonts: make(map[string]bool)}
}

// AddFont embeds TrueType data under family.
func (d *Document) AddFont(family string, data []byte) (FontRef, error) {
	if d.closed {
		return FontRef{}, &DocError{Op: "AddFont", Err: ErrClosed}
	}
	if d.fonts[family] {
		return FontRef{}, &DocError{Op: "AddFont", Err: fmt.Errorf("%w: %s", ErrDuplicateFont, family)}
	}
	if len(data) == 0 {
		return FontRef{}, &DocError{Op: "AddFont", Err: errors.New("empty font data")}
	}
	// fpdf writes into the slice it is given while subsetting, so it gets a
	// private copy and the caller's bytes stay usable for the next document.
	data = bytes.Clone(data)
	if err := d.guard(func() { d.pdf.AddUTF8FontFromBytes(family, "", data) }); err != nil {
		d.pdf.ClearError()
		return FontRef{}, &DocError{Op: "AddFont", Err: err}
	}
	d.fonts[family] = true
	return FontRef{Family: family}, nil
}

// guard runs fn, folding both sticky fpdf errors and panics raised by
// malformed input into an error.
func (d *Document) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return d.pdf.Error()
}

// AddPage appends a page of the given size in millimeters. A non-positive
// dimension falls back to the document default.
func (d *Document) AddPage(width, height float64) *Layer {
	if width <= 0 {
		width = d.cfg.width
	}
	if height <= 0 {
		height = d.cfg.height
	}
	l := &Layer{index: len(d.pages), width: width, height: height}
	d.pages = append(d.pages, l)
	return l
}

func (d *Document) PageCount() int { return len(d.pages) }

// Page returns the layer at a zero-based index.
func (d *Document) Page(i int) (*Layer, bool) {
	if i < 0 || i >= len(d.pages) {
		return nil, false
	}
	return d.pages[i], true
}

// Write renders every page and writes the PDF to w. A document can only be
// written once.
func (d *Document) Write(w io.Writer) error {
	if d.closed {
		return &DocError{Op: "Write", Err: ErrClosed}
	}
	d.closed = true
	if len(d.pages) == 0 {
		d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: d.cfg.width, Ht: d.cfg.height})
	}
	for _, l := range d.pages {
		if err := d.guard(func() { d.render(l) }); err != nil {
			return &DocError{Op: "Write", Err: fmt.Errorf("page %d: %w", l.index+1, err)}
		}
	}
	if err := d.pdf.Output(w); err != nil {
		return &DocError{Op: "Write", Err: err}
	}
	return nil
}

// Save writes the PDF to path. The file is removed again if writing fails.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (d *Document) render(l *Layer) {
	pdf := d.pdf
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: l.width, Ht: l.height})
	// fpdf measures y from the top of the most recently added page.
	_, top := pdf.GetPageSize()
	fy := func(y float64) float64 { return top - y }

	fill := Black
	for _, op := range l.ops {
		switch op.Kind {
		case OpFillColor:
			fill = op.Color
			r, g, b := op.Color.Bytes()
			pdf.SetFillColor(int(r), int(g), int(b))
		case OpOutlineColor:
			r, g, b := op.Color.Bytes()
			pdf.SetDrawColor(int(r), int(g), int(b))
		case OpOutlineThickness:
			pdf.SetLineWidth(coords.PtToMM(op.Value))
		case OpDashPattern:
			dashes := make([]float64, len(op.Dash.Array))
			for i, v := range op.Dash.Array {
				dashes[i] = coords.PtToMM(v)
			}
			pdf.SetDashPattern(dashes, coords.PtToMM(op.Dash.Offset))
		case OpLineCap:
			pdf.SetLineCapStyle(capStyle(op.Cap))
		case OpLineJoin:
			pdf.SetLineJoinStyle(op.Join.String())
		case OpText:
			r, g, b := fill.Bytes()
			pdf.SetTextColor(int(r), int(g), int(b))
			pdf.SetFont(op.Font.Family, "", op.Value)
			pdf.Text(op.Point.X, fy(op.Point.Y), op.Text)
		case OpRect:
			llx, _, _, ury := op.Bounds.Coords()
			pdf.Rect(llx, fy(ury), op.Bounds.Width(), op.Bounds.Height(), paintStyle(op.Mode, op.Winding))
		case OpPath:
			tracePath(pdf, op.Path, fy)
			pdf.DrawPath(paintStyle(op.Mode, op.Winding))
		case OpLine:
			tracePath(pdf, op.Path, fy)
			pdf.DrawPath("D")
		}
	}

	for _, a := range l.links {
		llx, _, _, ury := a.Bounds.Coords()
		w, h := a.Bounds.ClampedWidth(), a.Bounds.ClampedHeight()
		if a.Page < 0 {
			pdf.LinkString(llx, fy(ury), w, h, a.URI)
			continue
		}
		id := pdf.AddLink()
		pdf.SetLink(id, 0, a.Page+1)
		pdf.Link(llx, fy(ury), w, h, id)
	}
}

func tracePath(pdf *fpdf.Fpdf, p Path, fy func(float64) float64) {
	pdf.MoveTo(p.Start.X, fy(p.Start.Y))
	for _, s := range p.Segments {
		if s.Curve {
			pdf.CurveBezierCubicTo(s.C1.X, fy(s.C1.Y), s.C2.X, fy(s.C2.Y), s.To.X, fy(s.To.Y))
			continue
		}
		pdf.LineTo(s.To.X, fy(s.To.Y))
	}
	if p.Closed {
		pdf.ClosePath()
	}
}

// paintStyle maps a paint mode to an fpdf style string. fpdf passes unknown
// styles through as the raw PDF operator, which is how even-odd fills are
// requested.
func paintStyle(m PaintMode, w WindingOrder) string {
	switch m {
	case PaintStroke:
		return "D"
	case PaintFillStroke:
		if w == WindingEvenOdd {
			return "B*"
		}
		return "FD"
	default:
		if w == WindingEvenOdd {
			return "f*"
		}
		return "F"
	}
}

func capStyle(c LineCap) string {
	switch c {
	case CapRound:
		return "round"
	case CapProjectingSquare:
		return "square"
	default:
		return "butt"
	}
}

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/config"
	"github.com/chipsenkbeil/makepdf-sub000/observability"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.js")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func testConfig(script string, monthly, weekly, daily bool) config.Config {
	cfg := config.Default()
	cfg.Title = "Test Planner"
	cfg.Script = script
	cfg.Planner = config.Planner{
		Year:    2024,
		Monthly: config.Toggle{Enabled: monthly},
		Weekly:  config.Toggle{Enabled: weekly},
		Daily:   config.Toggle{Enabled: daily},
	}
	return cfg
}

func build(t *testing.T, cfg config.Config, opts ...Option) *DocumentBuilt {
	t.Helper()
	exec, err := New(cfg, opts...).Setup(context.Background())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	built, err := exec.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return built
}

func opKinds(l *builder.Layer) []builder.OpKind {
	var out []builder.OpKind
	for _, op := range l.Ops() {
		if op.Kind == builder.OpRect || op.Kind == builder.OpText {
			out = append(out, op.Kind)
		}
	}
	return out
}

func TestPipeline_DailyYearDrawsRectUnderText(t *testing.T) {
	script := writeScript(t, `
		for (const id of pdf.pages.ids()) {
			const page = pdf.pages.get(id);
			page.push(pdf.object.text({ x: 10, y: 10, text: page.date.format("%F"), depth: 1 }));
			page.push(pdf.object.rect({ bounds: page.bounds(), depth: 0 }));
		}
	`)
	built := build(t, testConfig(script, false, false, true))

	doc := built.Document()
	if got := doc.PageCount(); got != 366 {
		t.Fatalf("page count = %d, want 366", got)
	}
	for _, i := range []int{0, 59, 365} {
		l, _ := doc.Page(i)
		if diff := cmp.Diff([]builder.OpKind{builder.OpRect, builder.OpText}, opKinds(l)); diff != "" {
			t.Fatalf("page %d draw order (-want +got):\n%s", i, diff)
		}
	}
	first, _ := doc.Page(0)
	for _, op := range first.Ops() {
		if op.Kind == builder.OpText && op.Text != "2024-01-01" {
			t.Fatalf("first page text = %q", op.Text)
		}
		if op.Kind == builder.OpRect && op.Bounds != first.Bounds() {
			t.Fatalf("rect = %v, want page bounds %v", op.Bounds, first.Bounds())
		}
	}
	if st := built.Stats(); st.Pages != 366 || st.Objects != 732 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestPipeline_Links(t *testing.T) {
	script := writeScript(t, `
		const a = pdf.pages.get(pdf.pages.create("A"));
		const b = pdf.pages.get(pdf.pages.create("B"));
		const missing = a.id === 1 || b.id === 1 ? 3 : 1;
		a.push([
			pdf.object.text({ x: 1, y: 1, text: "to b", link: b.id, depth: 5 }),
			pdf.object.rect({ bounds: [0, 0, 5, 5], link: "https://example.com", depth: 1 }),
			pdf.object.text({ x: 1, y: 20, text: "nowhere", link: missing }),
		]);
	`)
	var logs bytes.Buffer
	log := observability.NewSlogLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	built := build(t, testConfig(script, false, false, false), WithLogger(log))

	l, _ := built.Document().Page(0)
	var got []builder.Annotation
	for _, a := range l.Annotations() {
		got = append(got, builder.Annotation{Page: a.Page, URI: a.URI})
	}
	want := []builder.Annotation{{Page: -1, URI: "https://example.com"}, {Page: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("annotations mismatch (-want +got):\n%s", diff)
	}
	if st := built.Stats(); st.Links != 2 || st.DroppedLinks != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if !strings.Contains(logs.String(), "dropping link to unknown page") {
		t.Fatalf("missing warning in logs: %s", logs.String())
	}
}

func TestPipeline_ConfigMutationsApply(t *testing.T) {
	script := writeScript(t, `
		pdf.config.title = "From Script";
		pdf.config.page.font_size = 12;
		const p = pdf.pages.get(pdf.pages.create("only"));
		p.push(pdf.object.text({ x: 1, y: 1, text: "hi" }));
	`)
	exec, err := New(testConfig(script, false, false, false)).Setup(context.Background())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if cfg := exec.Config(); cfg.Title != "From Script" || cfg.Page.FontSize != 12 {
		t.Fatalf("config = %+v", cfg)
	}
	built, err := exec.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	l, _ := built.Document().Page(0)
	for _, op := range l.Ops() {
		if op.Kind == builder.OpText && op.Value != 12 {
			t.Fatalf("text size = %v, want 12", op.Value)
		}
	}
}

func TestPipeline_HooksRunAfterScript(t *testing.T) {
	script := writeScript(t, `
		pdf.hooks.on_monthly_page(function (page) {
			return pdf.object.text({ x: 1, y: 1, text: page.title });
		});
	`)
	built := build(t, testConfig(script, true, false, false))
	if st := built.Stats(); st.Pages != 12 || st.Objects != 12 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestPipeline_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   error
	}{
		{"missing builtin", "makepdf:nope", ErrScriptLoad},
		{"throws", "throw new Error('boom')", ErrScriptExec},
		{"hook throws", "pdf.hooks.on_monthly_page(function () { throw new Error('boom'); })", ErrScriptExec},
		{"config replaced", "pdf.config = null", ErrConfigExtract},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := tt.script
			if !strings.HasPrefix(script, "makepdf:") {
				script = writeScript(t, script)
			}
			_, err := New(testConfig(script, true, false, false)).Setup(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPipeline_MissingFontFails(t *testing.T) {
	cfg := testConfig("example", false, false, false)
	cfg.Page.Font = filepath.Join(t.TempDir(), "missing.ttf")
	if _, err := New(cfg).Setup(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not exist", err)
	}
}

func TestFontAttachError_Unwraps(t *testing.T) {
	err := error(&FontAttachError{ID: 7, Err: builder.ErrDuplicateFont})
	var fae *FontAttachError
	if !errors.As(err, &fae) || fae.ID != 7 || !errors.Is(err, builder.ErrDuplicateFont) {
		t.Fatalf("font attach error does not unwrap: %v", err)
	}
	if got := err.Error(); got != "attach font 7: builder: font family already registered" {
		t.Fatalf("message = %q", got)
	}
}

func TestPipeline_PhasesAreConsumed(t *testing.T) {
	c := New(testConfig("example", true, false, false))
	exec, err := c.Setup(context.Background())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := c.Setup(context.Background()); !errors.Is(err, ErrConsumed) {
		t.Fatalf("second setup err = %v", err)
	}
	built, err := exec.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := exec.Build(context.Background()); !errors.Is(err, ErrConsumed) {
		t.Fatalf("second build err = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.pdf")
	saved, err := built.Save(context.Background(), path)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Path != path || saved.Stats.Pages != 12 {
		t.Fatalf("saved = %+v", saved)
	}
	if _, err := built.Save(context.Background(), path); !errors.Is(err, ErrConsumed) {
		t.Fatalf("second save err = %v", err)
	}
}

func TestPipeline_SaveFailureLeavesNoFile(t *testing.T) {
	built := build(t, testConfig("example", true, false, false))
	path := filepath.Join(t.TempDir(), "missing-dir", "out.pdf")
	if _, err := built.Save(context.Background(), path); err == nil {
		t.Fatal("expected save error")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stat after failed save: %v", err)
	}
}

func TestRun_Reproducible(t *testing.T) {
	dir := t.TempDir()
	var outputs [][]byte
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		path := filepath.Join(dir, name)
		if _, err := Run(context.Background(), testConfig("example", true, true, false), path); err != nil {
			t.Fatalf("run: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Fatalf("output is not a PDF")
		}
		outputs = append(outputs, data)
	}
	for i, out := range outputs[1:] {
		if !bytes.Equal(outputs[0], out) {
			t.Fatalf("run %d differs from the first: %d vs %d bytes", i+2, len(out), len(outputs[0]))
		}
	}
}

type recordingTracer struct{ names []string }

type recordingSpan struct{ err error }

func (r *recordingTracer) StartSpan(ctx context.Context, name string) (context.Context, observability.Span) {
	r.names = append(r.names, name)
	return ctx, &recordingSpan{}
}

func (s *recordingSpan) SetTag(string, interface{}) {}
func (s *recordingSpan) SetError(err error)         { s.err = err }
func (s *recordingSpan) Finish()                    {}

func TestRun_Spans(t *testing.T) {
	tr := &recordingTracer{}
	path := filepath.Join(t.TempDir(), "out.pdf")
	if _, err := Run(context.Background(), testConfig("panda", false, false, false), path, WithTracer(tr)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{observability.SpanSetup, observability.SpanHooks, observability.SpanBuild, observability.SpanSave}, tr.names); diff != "" {
		t.Fatalf("spans mismatch (-want +got):\n%s", diff)
	}
}

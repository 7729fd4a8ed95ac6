// Package pipeline drives a planner from configuration to a saved PDF. Each
// phase is a value that can be advanced exactly once:
//
//	Configured -> ScriptExecuted -> DocumentBuilt -> Saved
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/config"
	"github.com/chipsenkbeil/makepdf-sub000/extensions"
	"github.com/chipsenkbeil/makepdf-sub000/fonts"
	"github.com/chipsenkbeil/makepdf-sub000/object"
	"github.com/chipsenkbeil/makepdf-sub000/observability"
	"github.com/chipsenkbeil/makepdf-sub000/pages"
	"github.com/chipsenkbeil/makepdf-sub000/scripting"
)

type settings struct {
	log    observability.Logger
	tracer observability.Tracer
}

type Option func(*settings)

func WithLogger(l observability.Logger) Option { return func(s *settings) { s.log = l } }
func WithTracer(t observability.Tracer) Option { return func(s *settings) { s.tracer = t } }

// once guards a phase so that it transitions a single time.
type once struct {
	mu   sync.Mutex
	used bool
}

func (o *once) take() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.used {
		return ErrConsumed
	}
	o.used = true
	return nil
}

// Configured is the starting phase.
type Configured struct {
	once
	cfg config.Config
	settings
}

func New(cfg config.Config, opts ...Option) *Configured {
	s := settings{log: observability.NopLogger{}, tracer: observability.NopTracer()}
	for _, o := range opts {
		o(&s)
	}
	return &Configured{cfg: cfg, settings: s}
}

// Setup registers the calendar pages and fallback font, runs the configured
// script and then every hook it registered.
func (c *Configured) Setup(ctx context.Context) (_ *ScriptExecuted, err error) {
	if err := c.take(); err != nil {
		return nil, err
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	ctx, span := c.tracer.StartSpan(ctx, observability.SpanSetup)
	defer finish(span, &err)
	c.log.Info("setup started", observability.String("script", c.cfg.Script), observability.Int("year", c.cfg.Planner.Year))

	pl := c.cfg.Planner
	reg := pages.NewRegistry(pl.Year, pages.WithLogger(c.log))
	if err := reg.RegisterYear(pl.Monthly.Enabled, pl.Weekly.Enabled, pl.Daily.Enabled); err != nil {
		return nil, err
	}
	fr := fonts.NewRegistry(fonts.WithLogger(c.log))
	if _, err := setFallback(fr, c.cfg.Page.Font); err != nil {
		return nil, err
	}
	hub := extensions.NewHub(c.log)

	label, src, err := scripting.Load(c.cfg.Script)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptLoad, err)
	}
	host, err := scripting.NewHost(c.cfg, reg, fr, hub, scripting.WithLogger(c.log.With(observability.String("script", label))))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptExec, err)
	}
	if _, err := host.Execute(ctx, label, src); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrScriptExec, label, err)
	}
	cfg, err := host.Config()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigExtract, err)
	}
	if err := runHooks(ctx, c.tracer, hub, reg); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrScriptExec, label, err)
	}

	c.log.Info("setup finished",
		observability.Int("pages", reg.Len()),
		observability.Int("fonts", fr.Len()),
		observability.Int("hooks", hub.Len()))
	return &ScriptExecuted{cfg: cfg, pages: reg, fonts: fr, hooks: hub, settings: c.settings}, nil
}

func runHooks(ctx context.Context, tracer observability.Tracer, hub *extensions.Hub, reg *pages.Registry) (err error) {
	ctx, span := tracer.StartSpan(ctx, observability.SpanHooks)
	defer finish(span, &err)
	st, err := hub.Execute(ctx, reg)
	span.SetTag("calls", st.Calls)
	return err
}

// setFallback loads the font at path, or the built-in font when path is
// empty, and marks it as the fallback. Loading by path is cached, so calling
// this again for an unchanged path reuses the same id.
func setFallback(fr *fonts.Registry, path string) (fonts.FontID, error) {
	var (
		id  fonts.FontID
		err error
	)
	if path != "" {
		id, err = fr.AddFromPath(path)
	} else {
		id, err = fr.AddBuiltinFont()
	}
	if err != nil {
		return 0, err
	}
	fr.AddFontAsFallback(id)
	return id, nil
}

// ScriptExecuted holds everything the script produced.
type ScriptExecuted struct {
	once
	cfg   config.Config
	pages *pages.Registry
	fonts *fonts.Registry
	hooks *extensions.Hub
	settings
}

// Config is the configuration as the script left it.
func (s *ScriptExecuted) Config() config.Config  { return s.cfg }
func (s *ScriptExecuted) Pages() *pages.Registry { return s.pages }
func (s *ScriptExecuted) Fonts() *fonts.Registry { return s.fonts }
func (s *ScriptExecuted) Hooks() *extensions.Hub { return s.hooks }

// BuildStats summarizes a build.
type BuildStats struct {
	Pages        int
	Objects      int
	Links        int
	DroppedLinks int
}

// Build creates the output document: fonts are attached, one physical page
// is added per registered page and every queue is drawn depth-ascending.
func (s *ScriptExecuted) Build(ctx context.Context) (_ *DocumentBuilt, err error) {
	if err := s.take(); err != nil {
		return nil, err
	}
	_, span := s.tracer.StartSpan(ctx, observability.SpanBuild)
	defer finish(span, &err)
	s.log.Info("build started", observability.Int("pages", s.pages.Len()))

	page := s.cfg.Page
	doc := builder.NewDocument(
		builder.WithTitle(s.cfg.Title),
		builder.WithPageSize(page.Width, page.Height),
		builder.WithCreationDate(time.Date(s.pages.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)),
	)

	if _, err := setFallback(s.fonts, page.Font); err != nil {
		return nil, err
	}
	for _, id := range s.fonts.IDs() {
		ok, err := s.fonts.AddFontToDoc(id, doc)
		if err != nil {
			return nil, &FontAttachError{ID: id, Err: err}
		}
		if !ok {
			s.log.Warn("font vanished before attach", observability.Uint32("id", uint32(id)))
		}
	}

	list := s.pages.Pages()
	layers := make([]*builder.Layer, len(list))
	index := make(map[pages.ID]int, len(list))
	for i, p := range list {
		layers[i] = doc.AddPage(p.Size(page.Width, page.Height))
		index[p.ID] = layers[i].Index()
	}

	var st BuildStats
	defaults := page.Defaults()
	for i, p := range list {
		dc := object.Context{Surface: layers[i], Fonts: s.fonts, Defaults: defaults}
		var anns []object.LinkAnnotation
		objs := p.Objects()
		for _, o := range objs {
			o.Draw(dc)
			anns = append(anns, o.LinkAnnotations(dc)...)
		}
		sort.SliceStable(anns, func(a, b int) bool { return anns[a].Depth < anns[b].Depth })
		for _, a := range anns {
			if a.Link.Kind == object.LinkURI {
				layers[i].AddURILink(a.Bounds, a.Link.URI)
				st.Links++
				continue
			}
			target, ok := index[a.Link.Page]
			if !ok {
				s.log.Warn("dropping link to unknown page",
					observability.String("page", p.Title),
					observability.Uint32("target", uint32(a.Link.Page)))
				st.DroppedLinks++
				continue
			}
			layers[i].AddGoToLink(a.Bounds, target)
			st.Links++
		}
		st.Objects += len(objs)
		s.log.Debug("page drawn", observability.String("page", p.Title), observability.Int("objects", len(objs)))
	}
	st.Pages = len(list)
	span.SetTag("pages", st.Pages)

	s.log.Info("build finished",
		observability.Int("pages", st.Pages),
		observability.Int("objects", st.Objects),
		observability.Int("links", st.Links),
		observability.Int("dropped_links", st.DroppedLinks))
	return &DocumentBuilt{doc: doc, stats: st, settings: s.settings}, nil
}

// DocumentBuilt is a fully drawn document that has not been written yet.
type DocumentBuilt struct {
	once
	doc   *builder.Document
	stats BuildStats
	settings
}

func (d *DocumentBuilt) Document() *builder.Document { return d.doc }
func (d *DocumentBuilt) Stats() BuildStats           { return d.stats }

// Save writes the document to path. No file is left behind on failure.
func (d *DocumentBuilt) Save(ctx context.Context, path string) (_ *Saved, err error) {
	if err := d.take(); err != nil {
		return nil, err
	}
	_, span := d.tracer.StartSpan(ctx, observability.SpanSave)
	defer finish(span, &err)
	if err := d.doc.Save(path); err != nil {
		return nil, err
	}
	d.log.Info("saved", observability.String("path", path), observability.Int("pages", d.stats.Pages))
	return &Saved{Path: path, Stats: d.stats}, nil
}

// Saved is the final phase.
type Saved struct {
	Path  string
	Stats BuildStats
}

// Run takes cfg through every phase and saves the result to path.
func Run(ctx context.Context, cfg config.Config, path string, opts ...Option) (*Saved, error) {
	exec, err := New(cfg, opts...).Setup(ctx)
	if err != nil {
		return nil, err
	}
	built, err := exec.Build(ctx)
	if err != nil {
		return nil, err
	}
	return built.Save(ctx, path)
}

func finish(span observability.Span, err *error) {
	if *err != nil {
		span.SetError(*err)
	}
	span.Finish()
}

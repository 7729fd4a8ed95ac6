package scripting

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/chipsenkbeil/makepdf-sub000/config"
	"github.com/chipsenkbeil/makepdf-sub000/extensions"
	"github.com/chipsenkbeil/makepdf-sub000/fonts"
	"github.com/chipsenkbeil/makepdf-sub000/object"
	"github.com/chipsenkbeil/makepdf-sub000/observability"
	"github.com/chipsenkbeil/makepdf-sub000/pages"
)

var ErrNoConfig = errors.New("pdf.config is missing or not an object")

var _ Engine = (*Host)(nil)

// Host owns one JavaScript runtime bound to a planner's registries. It is
// not safe for concurrent use.
type Host struct {
	vm    *goja.Runtime
	base  config.Config
	pages *pages.Registry
	fonts *fonts.Registry
	hooks *extensions.Hub
	log   observability.Logger

	pdf      *goja.Object
	hookSeq  int
	inspectF goja.Callable
}

type Option func(*Host)

func WithLogger(l observability.Logger) Option {
	return func(h *Host) { h.log = l }
}

// NewHost returns a host whose pdf global reflects cfg and the given
// registries. Hooks registered by scripts are added to hub.
func NewHost(cfg config.Config, pg *pages.Registry, fr *fonts.Registry, hub *extensions.Hub, opts ...Option) (*Host, error) {
	h := &Host{
		vm:    goja.New(),
		base:  cfg,
		pages: pg,
		fonts: fr,
		hooks: hub,
		log:   observability.NopLogger{},
	}
	for _, o := range opts {
		o(h)
	}
	if err := h.install(); err != nil {
		return nil, fmt.Errorf("install script globals: %w", err)
	}
	return h, nil
}

// Execute compiles and runs src. Script exceptions are returned with their
// JavaScript stack; a cancelled ctx yields its error.
func (h *Host) Execute(ctx context.Context, name, src string) (any, error) {
	prog, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, err
	}
	val, err := h.guard(ctx, func() (goja.Value, error) { return h.vm.RunProgram(prog) })
	if err != nil {
		return nil, err
	}
	return val.Export(), nil
}

// guard runs fn with ctx able to interrupt the runtime.
func (h *Host) guard(ctx context.Context, fn func() (goja.Value, error)) (goja.Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer h.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			h.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := fn()
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val, nil
}

// Config reads pdf.config back, applying whatever the script changed on top
// of the configuration the host started with.
func (h *Host) Config() (config.Config, error) {
	v := h.pdf.Get("config")
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return config.Config{}, ErrNoConfig
	}
	rec, ok := exportPlain(v).(map[string]any)
	if !ok {
		return config.Config{}, ErrNoConfig
	}
	cfg, err := config.FromRecord(h.base, rec)
	if err != nil {
		return config.Config{}, fmt.Errorf("read pdf.config: %w", err)
	}
	return cfg, nil
}

// drawContext is the measuring context for the current configuration.
func (h *Host) drawContext() object.Context {
	cfg, err := h.Config()
	if err != nil {
		cfg = h.base
	}
	return object.Context{Fonts: h.fonts, Defaults: cfg.Page.Defaults()}
}

// pageSize is the default page size from the current configuration.
func (h *Host) pageSize() (float64, float64) {
	cfg, err := h.Config()
	if err != nil {
		cfg = h.base
	}
	return cfg.Page.Width, cfg.Page.Height
}

// throw raises err as a JavaScript exception.
func (h *Host) throw(err error) {
	panic(h.vm.NewGoError(err))
}

func (h *Host) throwf(format string, args ...any) {
	h.throw(fmt.Errorf(format, args...))
}

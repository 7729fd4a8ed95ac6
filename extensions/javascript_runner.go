package extensions

import (
	"context"

	"github.com/chipsenkbeil/makepdf-sub000/pages"
)

// Callback is invoked with the page a hook runs for.
type Callback func(ctx context.Context, page pages.Page) error

// ScriptHook adapts a callback registered by a script into a Hook.
type ScriptHook struct {
	name     string
	phase    Phase
	priority int
	fn       Callback
}

func NewScriptHook(name string, phase Phase, priority int, fn Callback) *ScriptHook {
	return &ScriptHook{name: name, phase: phase, priority: priority, fn: fn}
}

func (h *ScriptHook) Name() string  { return h.name }
func (h *ScriptHook) Phase() Phase  { return h.phase }
func (h *ScriptHook) Priority() int { return h.priority }

func (h *ScriptHook) Run(ctx context.Context, page pages.Page) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(ctx, page)
}

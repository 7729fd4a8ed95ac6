// Package extensions runs per-page hooks over the calendar pages of a
// planner. Hooks are grouped by the page kind they apply to and run in
// priority order, then registration order.
package extensions

import (
	"context"
	"fmt"
	"sort"

	"github.com/chipsenkbeil/makepdf-sub000/observability"
	"github.com/chipsenkbeil/makepdf-sub000/pages"
)

type Phase int

const (
	PhaseMonthly Phase = iota
	PhaseWeekly
	PhaseDaily
)

func (p Phase) String() string { return []string{"Monthly", "Weekly", "Daily"}[p] }

// PhaseFor maps a page kind to the phase whose hooks apply to it. Free-form
// pages have no phase.
func PhaseFor(kind pages.Kind) (Phase, bool) {
	switch kind {
	case pages.KindMonthly:
		return PhaseMonthly, true
	case pages.KindWeekly:
		return PhaseWeekly, true
	case pages.KindDaily:
		return PhaseDaily, true
	}
	return 0, false
}

type Hook interface {
	Name() string
	Phase() Phase
	Priority() int
	Run(ctx context.Context, page pages.Page) error
}

// Stats summarizes one Execute call.
type Stats struct {
	Pages int
	Calls int
}

type Hub struct {
	hooks map[Phase][]Hook
	log   observability.Logger
}

func NewHub(log observability.Logger) *Hub {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Hub{hooks: make(map[Phase][]Hook), log: log}
}

func (h *Hub) Register(hook Hook) error {
	if hook == nil {
		return fmt.Errorf("register hook: nil hook")
	}
	ph := hook.Phase()
	if ph < PhaseMonthly || ph > PhaseDaily {
		return fmt.Errorf("register hook %s: unknown phase %d", hook.Name(), ph)
	}
	h.hooks[ph] = append(h.hooks[ph], hook)
	sort.SliceStable(h.hooks[ph], func(i, j int) bool { return h.hooks[ph][i].Priority() < h.hooks[ph][j].Priority() })
	return nil
}

func (h *Hub) Hooks(phase Phase) []Hook {
	return append([]Hook(nil), h.hooks[phase]...)
}

func (h *Hub) Len() int {
	n := 0
	for _, hs := range h.hooks {
		n += len(hs)
	}
	return n
}

// Execute calls every matching hook once per page, walking pages in
// registration order. The first hook error stops the run.
func (h *Hub) Execute(ctx context.Context, reg *pages.Registry) (Stats, error) {
	var st Stats
	if h.Len() == 0 {
		return st, nil
	}
	for _, p := range reg.Pages() {
		ph, ok := PhaseFor(p.Kind)
		if !ok || len(h.hooks[ph]) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Pages++
		for _, hook := range h.hooks[ph] {
			st.Calls++
			if err := hook.Run(ctx, p); err != nil {
				return st, fmt.Errorf("hook %s on page %q: %w", hook.Name(), p.Title, err)
			}
		}
	}
	h.log.Debug("hooks executed",
		observability.Int("pages", st.Pages),
		observability.Int("calls", st.Calls))
	return st, nil
}

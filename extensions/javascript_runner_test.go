package extensions

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chipsenkbeil/makepdf-sub000/pages"
)

type recorder struct {
	calls []string
}

func (r *recorder) hook(name string, phase Phase, priority int) *ScriptHook {
	return NewScriptHook(name, phase, priority, func(_ context.Context, p pages.Page) error {
		r.calls = append(r.calls, name+":"+p.Title)
		return nil
	})
}

func newRegistry(t *testing.T) *pages.Registry {
	t.Helper()
	reg := pages.NewRegistry(2024)
	if err := reg.RegisterYear(true, false, false); err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.Create("notes")
	return reg
}

func TestHub_RunsHooksPerPageInOrder(t *testing.T) {
	reg := newRegistry(t)
	rec := &recorder{}
	hub := NewHub(nil)
	for _, h := range []*ScriptHook{
		rec.hook("late", PhaseMonthly, 10),
		rec.hook("first", PhaseMonthly, 0),
		rec.hook("second", PhaseMonthly, 0),
		rec.hook("daily", PhaseDaily, 0),
	} {
		if err := hub.Register(h); err != nil {
			t.Fatalf("register %s: %v", h.Name(), err)
		}
	}

	st, err := hub.Execute(context.Background(), reg)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if st.Pages != 12 || st.Calls != 36 {
		t.Fatalf("stats = %+v, want 12 pages 36 calls", st)
	}
	want := []string{"first:January 2024", "second:January 2024", "late:January 2024"}
	if diff := cmp.Diff(want, rec.calls[:3]); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	if got := rec.calls[len(rec.calls)-1]; got != "late:December 2024" {
		t.Fatalf("last call = %q", got)
	}
}

func TestHub_StopsOnError(t *testing.T) {
	reg := newRegistry(t)
	boom := errors.New("boom")
	calls := 0
	hub := NewHub(nil)
	_ = hub.Register(NewScriptHook("fails", PhaseMonthly, 0, func(context.Context, pages.Page) error {
		calls++
		return boom
	}))
	if _, err := hub.Execute(context.Background(), reg); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestHub_HonorsCancellation(t *testing.T) {
	reg := newRegistry(t)
	rec := &recorder{}
	hub := NewHub(nil)
	_ = hub.Register(rec.hook("m", PhaseMonthly, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := hub.Execute(ctx, reg); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("hooks ran after cancellation: %v", rec.calls)
	}
}

func TestHub_RejectsUnknownPhase(t *testing.T) {
	hub := NewHub(nil)
	if err := hub.Register(NewScriptHook("x", Phase(9), 0, nil)); err == nil {
		t.Fatal("expected an error for an unknown phase")
	}
	if err := hub.Register(nil); err == nil {
		t.Fatal("expected an error for a nil hook")
	}
	if hub.Len() != 0 {
		t.Fatalf("len = %d, want 0", hub.Len())
	}
}

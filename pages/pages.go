// Package pages tracks the logical pages of a planner, their object queues
// and the calendar keys used to find and navigate them.
package pages

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
	"weak"

	"github.com/chipsenkbeil/makepdf-sub000/calendar"
	"github.com/chipsenkbeil/makepdf-sub000/coords"
	"github.com/chipsenkbeil/makepdf-sub000/object"
	"github.com/chipsenkbeil/makepdf-sub000/observability"
)

type ID = object.PageID

// Kind is the calendar period a page covers. Free-form pages have KindNone.
type Kind int

const (
	KindNone Kind = iota
	KindDaily
	KindMonthly
	KindWeekly
)

func (k Kind) String() string {
	switch k {
	case KindDaily:
		return "daily"
	case KindMonthly:
		return "monthly"
	case KindWeekly:
		return "weekly"
	}
	return "none"
}

// Key identifies a calendar page within a year: day of year, month or ISO
// week depending on Kind.
type Key struct {
	Kind    Kind
	Ordinal int
}

// KeyFor derives the key of the kind's page containing date. Dates in an ISO
// week belonging to a neighboring year have no weekly key.
func KeyFor(kind Kind, date calendar.Date) (Key, bool) {
	switch kind {
	case KindDaily:
		return Key{Kind: kind, Ordinal: date.Ordinal()}, true
	case KindMonthly:
		return Key{Kind: kind, Ordinal: int(date.Month())}, true
	case KindWeekly:
		year, week := date.ISOWeek()
		if year != date.Year() {
			return Key{}, false
		}
		return Key{Kind: kind, Ordinal: week}, true
	}
	return Key{}, false
}

// Title is the default title of the kind's page for date.
func Title(kind Kind, date calendar.Date) string {
	switch kind {
	case KindDaily:
		return date.Format("01/02/2006 (Monday)")
	case KindMonthly:
		return date.Format("January 2006")
	case KindWeekly:
		_, week := date.ISOWeek()
		return fmt.Sprintf("Week %02d %d", week, date.Year())
	}
	return date.String()
}

// Page is a handle to a logical page. Copies share the same object queue.
type Page struct {
	ID    ID
	Title string
	Kind  Kind
	Date  calendar.Date

	// Width and Height override the document page size in millimeters when
	// positive.
	Width  float64
	Height float64

	queue *Queue
}

// NewPage returns a free-form page with an empty queue. Its ID is assigned
// when inserted into a Registry.
func NewPage(title string) Page { return Page{Title: title, queue: newQueue()} }

// NewCalendarPage returns a page of kind covering date, titled with Title.
func NewCalendarPage(kind Kind, date calendar.Date) Page {
	p := NewPage(Title(kind, date))
	p.Kind = kind
	p.Date = date
	return p
}

// Key reports the page's calendar key. Free-form pages have none.
func (p Page) Key() (Key, bool) {
	if p.Kind == KindNone {
		return Key{}, false
	}
	return KeyFor(p.Kind, p.Date)
}

// Push appends o to the page's queue.
func (p Page) Push(o object.Object) {
	if p.queue != nil {
		p.queue.Push(o)
	}
}

// Objects returns the queued objects in draw order.
func (p Page) Objects() []object.Object {
	if p.queue == nil {
		return nil
	}
	return p.queue.Objects()
}

func (p Page) Len() int {
	if p.queue == nil {
		return 0
	}
	return p.queue.Len()
}

// Weak returns a handle that pushes into this page's queue only while the
// page is still held elsewhere.
func (p Page) Weak() WeakPage { return WeakPage{ID: p.ID, queue: weak.Make(p.queue)} }

// Size returns the page size, using the given defaults where the page has no
// override.
func (p Page) Size(defWidth, defHeight float64) (width, height float64) {
	width, height = defWidth, defHeight
	if p.Width > 0 {
		width = p.Width
	}
	if p.Height > 0 {
		height = p.Height
	}
	return width, height
}

// Bounds is the page area at the given default size, clamped so an inverted
// override never yields negative room.
func (p Page) Bounds(defWidth, defHeight float64) coords.Bounds {
	w, h := p.Size(defWidth, defHeight)
	return coords.FromSize(0, 0, w, h).Clamped()
}

var ErrDuplicateKey = errors.New("calendar page already registered")

// Registry keeps pages in insertion order. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	year  int
	log   observability.Logger
	newID func() ID
	pages map[ID]Page
	keys  map[Key]ID
	order []ID
}

type RegistryOption func(*Registry)

func WithLogger(l observability.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// WithIDSource replaces the random id generator.
func WithIDSource(fn func() ID) RegistryOption {
	return func(r *Registry) { r.newID = fn }
}

// NewRegistry returns an empty registry whose navigation stays within year.
func NewRegistry(year int, opts ...RegistryOption) *Registry {
	r := &Registry{
		year:  year,
		log:   observability.NopLogger{},
		newID: func() ID { return ID(rand.Uint32()) },
		pages: make(map[ID]Page),
		keys:  make(map[Key]ID),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) Year() int { return r.year }

// Insert appends p and returns its id, assigning a fresh one when p has
// none. A second calendar page for the same key is rejected.
func (r *Registry) Insert(p Page) (ID, error) {
	if p.queue == nil {
		p.queue = newQueue()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key, keyed := p.Key()
	if keyed {
		if id, dup := r.keys[key]; dup {
			return 0, fmt.Errorf("%w: %s %d (page %d)", ErrDuplicateKey, key.Kind, key.Ordinal, id)
		}
	}
	if _, taken := r.pages[p.ID]; p.ID == 0 || taken {
		p.ID = r.freshIDLocked()
	}
	r.pages[p.ID] = p
	r.order = append(r.order, p.ID)
	if keyed {
		r.keys[key] = p.ID
	}
	r.log.Debug("page registered",
		observability.Uint32("id", uint32(p.ID)),
		observability.String("title", p.Title),
		observability.String("kind", p.Kind.String()))
	return p.ID, nil
}

func (r *Registry) freshIDLocked() ID {
	for {
		id := r.newID()
		if _, taken := r.pages[id]; id != 0 && !taken {
			return id
		}
	}
}

// Create inserts a new free-form page titled title.
func (r *Registry) Create(title string) Page {
	p := NewPage(title)
	// Free-form pages carry no key so Insert cannot fail.
	p.ID, _ = r.Insert(p)
	return p
}

// Remove drops the page with id. Weak handles to it stop accepting objects
// once no other handle keeps it alive.
func (r *Registry) Remove(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok {
		return false
	}
	delete(r.pages, id)
	if key, keyed := p.Key(); keyed && r.keys[key] == id {
		delete(r.keys, key)
	}
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Get(id ID) (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[id]
	return p, ok
}

// GetByDate finds the kind's calendar page containing date.
func (r *Registry) GetByDate(kind Kind, date calendar.Date) (Page, bool) {
	if date.Year() != r.year {
		return Page{}, false
	}
	key, ok := KeyFor(kind, date)
	if !ok {
		return Page{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.keys[key]
	if !ok {
		return Page{}, false
	}
	return r.pages[id], true
}

// IDs lists page ids in insertion order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ID(nil), r.order...)
}

// Pages lists pages in insertion order.
func (r *Registry) Pages() []Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Page, len(r.order))
	for i, id := range r.order {
		out[i] = r.pages[id]
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Next returns the calendar page following p within the registry's year.
func (r *Registry) Next(p Page) (Page, bool) { return r.step(p, 1) }

// Prev returns the calendar page preceding p within the registry's year.
func (r *Registry) Prev(p Page) (Page, bool) { return r.step(p, -1) }

func (r *Registry) step(p Page, dir int) (Page, bool) {
	date, ok := adjacent(p, dir)
	if !ok || date.Year() != r.year {
		return Page{}, false
	}
	return r.GetByDate(p.Kind, date)
}

// adjacent returns a date inside the neighboring period of p. Weekly pages
// step by ISO week so a week 1 clamped to January 1 still links to week 2.
func adjacent(p Page, dir int) (calendar.Date, bool) {
	switch p.Kind {
	case KindDaily:
		return p.Date.AddDays(dir), true
	case KindMonthly:
		return p.Date.BeginningOfMonth().AddMonths(dir), true
	case KindWeekly:
		year, week := p.Date.ISOWeek()
		week += dir
		if week < 1 || week > calendar.ISOWeeksInYear(year) {
			return calendar.Date{}, false
		}
		start := calendar.ISOWeekStart(year, week)
		if start.Year() < year {
			start = calendar.BeginningOfYear(year)
		}
		return start, true
	}
	return calendar.Date{}, false
}

// RegisterYear inserts the calendar pages of the enabled kinds for the
// registry's year: months, then ISO weeks, then days.
func (r *Registry) RegisterYear(monthly, weekly, daily bool) error {
	year := r.year
	if monthly {
		for m := time.January; m <= time.December; m++ {
			if _, err := r.Insert(NewCalendarPage(KindMonthly, calendar.New(year, m, 1))); err != nil {
				return err
			}
		}
	}
	if weekly {
		for w := 1; w <= calendar.ISOWeeksInYear(year); w++ {
			start := calendar.ISOWeekStart(year, w)
			if start.Year() < year {
				start = calendar.BeginningOfYear(year)
			}
			if _, err := r.Insert(NewCalendarPage(KindWeekly, start)); err != nil {
				return err
			}
		}
	}
	if daily {
		for d := calendar.BeginningOfYear(year); d.Year() == year; d = d.Tomorrow() {
			if _, err := r.Insert(NewCalendarPage(KindDaily, d)); err != nil {
				return err
			}
		}
	}
	r.log.Info("calendar pages registered",
		observability.Int("year", year),
		observability.Int("pages", r.Len()))
	return nil
}

package pages

import (
	"slices"
	"sync"
	"weak"

	"github.com/chipsenkbeil/makepdf-sub000/object"
)

// Queue holds a page's objects keyed by depth. Objects at the same depth
// keep their push order. It is safe for concurrent use.
type Queue struct {
	mu      sync.RWMutex
	byDepth map[int64][]object.Object
	n       int
}

func newQueue() *Queue { return &Queue{byDepth: make(map[int64][]object.Object)} }

func (q *Queue) Push(o object.Object) {
	q.mu.Lock()
	defer q.mu.Unlock()
	d := o.Depth()
	q.byDepth[d] = append(q.byDepth[d], o)
	q.n++
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.n
}

// Objects returns every object in draw order: ascending depth, then push
// order.
func (q *Queue) Objects() []object.Object {
	q.mu.RLock()
	defer q.mu.RUnlock()
	depths := make([]int64, 0, len(q.byDepth))
	for d := range q.byDepth {
		depths = append(depths, d)
	}
	slices.Sort(depths)
	out := make([]object.Object, 0, q.n)
	for _, d := range depths {
		out = append(out, q.byDepth[d]...)
	}
	return out
}

// WeakPage refers to a page's queue without keeping it alive. Pushing after
// the page has been dropped does nothing.
type WeakPage struct {
	ID    ID
	queue weak.Pointer[Queue]
}

// Push appends o if the page is still alive and reports whether it was.
func (w WeakPage) Push(o object.Object) bool {
	q := w.queue.Value()
	if q == nil {
		return false
	}
	q.Push(o)
	return true
}

// Alive reports whether the page's queue still exists.
func (w WeakPage) Alive() bool { return w.queue.Value() != nil }

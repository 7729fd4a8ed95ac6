// Package fonts loads font faces, caches them by canonical path and attaches
// them to output documents.
package fonts

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font/gofont/gomono"

	"github.com/chipsenkbeil/makepdf-sub000/builder"
	"github.com/chipsenkbeil/makepdf-sub000/observability"
)

// FontID identifies a loaded face for the lifetime of a Registry.
type FontID uint32

// Attacher is the part of an output document fonts are embedded into.
type Attacher interface {
	AddFont(family string, data []byte) (builder.FontRef, error)
}

// Registry owns every loaded face. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	log      observability.Logger
	newID    func() FontID
	faces    map[FontID]*Face
	paths    map[string]FontID
	refs     map[FontID]builder.FontRef
	families map[string]builder.FontRef
	order    []FontID

	builtin     FontID
	hasBuiltin  bool
	fallback    FontID
	hasFallback bool
}

type RegistryOption func(*Registry)

func WithLogger(l observability.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// WithIDSource replaces the random id generator.
func WithIDSource(fn func() FontID) RegistryOption {
	return func(r *Registry) { r.newID = fn }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		log:      observability.NopLogger{},
		newID:    func() FontID { return FontID(rand.Uint32()) },
		faces:    make(map[FontID]*Face),
		paths:    make(map[string]FontID),
		refs:     make(map[FontID]builder.FontRef),
		families: make(map[string]builder.FontRef),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// CanonicalPath resolves path to an absolute path with symlinks evaluated.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// AddFromPath loads the font at path. Loading the same canonical path again
// returns the cached id without reading the file.
func (r *Registry) AddFromPath(path string) (FontID, error) {
	canon, err := CanonicalPath(path)
	if err != nil {
		return 0, err
	}
	r.mu.RLock()
	id, ok := r.paths[canon]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	data, err := os.ReadFile(canon)
	if err != nil {
		return 0, fmt.Errorf("read font %s: %w", canon, err)
	}
	face, err := ParseFace(data)
	if err != nil {
		return 0, fmt.Errorf("load font %s: %w", canon, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have loaded it while the file was being read.
	if id, ok := r.paths[canon]; ok {
		return id, nil
	}
	id = r.insertLocked(face)
	r.paths[canon] = id
	r.log.Debug("font loaded",
		observability.String("path", canon),
		observability.Uint32("id", uint32(id)),
		observability.Int64("bytes", int64(len(data))))
	return id, nil
}

// AddFromBytes parses data into a new face. Each call allocates a new id.
func (r *Registry) AddFromBytes(data []byte) (FontID, error) {
	face, err := ParseFace(data)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(face), nil
}

// AddBuiltinFont loads the embedded Go Mono face once and returns its id on
// every call.
func (r *Registry) AddBuiltinFont() (FontID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasBuiltin {
		return r.builtin, nil
	}
	face, err := ParseFace(gomono.TTF)
	if err != nil {
		return 0, fmt.Errorf("builtin font: %w", err)
	}
	r.builtin = r.insertLocked(face)
	r.hasBuiltin = true
	return r.builtin, nil
}

func (r *Registry) insertLocked(face *Face) FontID {
	id := r.newID()
	for {
		if _, taken := r.faces[id]; !taken {
			break
		}
		id = r.newID()
	}
	r.faces[id] = face
	r.order = append(r.order, id)
	return id
}

// AddFontAsFallback makes id the fallback font, returning the previous
// fallback if there was one.
func (r *Registry) AddFontAsFallback(id FontID) (prev FontID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok = r.fallback, r.hasFallback
	r.fallback, r.hasFallback = id, true
	return prev, ok
}

func (r *Registry) Fallback() (FontID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback, r.hasFallback
}

// AddFontToDoc embeds the face for id into doc. It reports false for an
// unknown id and true without re-embedding when the font is already
// attached. Faces with identical bytes share one embedded font.
func (r *Registry) AddFontToDoc(id FontID, doc Attacher) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.refs[id]; ok {
		return true, nil
	}
	face, ok := r.faces[id]
	if !ok {
		return false, nil
	}
	family := "f" + face.Fingerprint()
	if ref, ok := r.families[family]; ok {
		r.refs[id] = ref
		return true, nil
	}
	ref, err := doc.AddFont(family, face.Data())
	if err != nil {
		return false, fmt.Errorf("embed %s: %w", family, err)
	}
	r.refs[id] = ref
	r.families[family] = ref
	r.log.Debug("font attached", observability.Uint32("id", uint32(id)), observability.String("family", family))
	return true, nil
}

func (r *Registry) Face(id FontID) (*Face, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.faces[id]
	return f, ok
}

// DocRef returns the document font for id. It is absent until the font has
// been attached.
func (r *Registry) DocRef(id FontID) (builder.FontRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.refs[id]
	return ref, ok
}

// FaceOrFallback returns the face for id, or the fallback face when id is
// nil or unknown.
func (r *Registry) FaceOrFallback(id *FontID) (*Face, bool) {
	if id != nil {
		if f, ok := r.Face(*id); ok {
			return f, true
		}
	}
	fb, ok := r.Fallback()
	if !ok {
		return nil, false
	}
	return r.Face(fb)
}

// DocRefOrFallback is FaceOrFallback for attached document fonts.
func (r *Registry) DocRefOrFallback(id *FontID) (builder.FontRef, bool) {
	if id != nil {
		if ref, ok := r.DocRef(*id); ok {
			return ref, true
		}
	}
	fb, ok := r.Fallback()
	if !ok {
		return builder.FontRef{}, false
	}
	return r.DocRef(fb)
}

// IDs lists every loaded font in load order.
func (r *Registry) IDs() []FontID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]FontID(nil), r.order...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.faces)
}

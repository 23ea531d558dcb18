package resource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Loader fetches the raw bytes behind an asset path. Implementations may
// block; they must honour ctx cancellation where they can.
type Loader interface {
	Load(ctx context.Context, path string) ([]byte, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) ([]byte, error)

// Load calls f(ctx, path).
func (f LoaderFunc) Load(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// Texture is a decoded image resource.
type Texture struct {
	Path  string
	Image *ebiten.Image
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Sound is an undecoded audio resource. Decoding happens in the audio
// package because it needs the process audio context.
type Sound struct {
	Path string
	Data []byte
}

// Format returns the lower-case file extension without the dot ("mp3", "ogg").
func (s *Sound) Format() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(s.Path)), ".")
}

// DefaultManifestPath maps a set id to assets/loader/<id>.xml.
func DefaultManifestPath(setID string) string {
	return "assets/loader/" + setID + ".xml"
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithManifestPath overrides how a set id maps to its manifest path.
func WithManifestPath(fn func(setID string) string) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.manifestPath = fn
		}
	}
}

// WithManifests maps set ids to explicit manifest paths; ids not listed
// fall back to the previous mapping.
func WithManifests(paths map[string]string) Option {
	return func(r *Resolver) {
		fallback := r.manifestPath
		r.manifestPath = func(setID string) string {
			if p, ok := paths[setID]; ok {
				return p
			}
			return fallback(setID)
		}
	}
}

// Resolver loads resource sets and resolves (category, key) pairs against a
// selected set. Decoded textures and sound bytes are cached by path, and
// concurrent requests for the same path share a single fetch.
//
// Resolver is safe for concurrent use. The set selection used by the
// Resolver's own Resolve methods is shared; scenes should take their own
// View so that their selection cannot be changed underneath them.
//
// Usage:
//
//	r := resource.NewResolver(loader)
//	if err := r.LoadSet(ctx, "login"); err != nil {
//	    log.Printf("Failed to load set: %v", err)
//	}
//	v := r.View()
//	_ = v.SelectSet("login")
//	tex, err := v.ResolveTexture(ctx, "StageSelect", "stage1_0")
type Resolver struct {
	loader       Loader
	manifestPath func(setID string) string

	mu       sync.RWMutex
	sets     map[string]*Set
	textures map[string]*Texture
	sounds   map[string]*Sound

	flight singleflight.Group
	def    *View
}

// NewResolver creates a Resolver reading through loader.
func NewResolver(loader Loader, opts ...Option) *Resolver {
	r := &Resolver{
		loader:       loader,
		manifestPath: DefaultManifestPath,
		sets:         make(map[string]*Set),
		textures:     make(map[string]*Texture),
		sounds:       make(map[string]*Sound),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.def = r.View()
	return r
}

// ManifestPath returns the manifest path used for setID.
func (r *Resolver) ManifestPath(setID string) string {
	return r.manifestPath(setID)
}

// LoadSet reads and registers the manifest for setID. Loading a set that is
// already registered is a no-op. Bad entries are logged and skipped; only
// a failed fetch or an unparseable document fails the call, in which case
// nothing is registered and a later call may try again.
func (r *Resolver) LoadSet(ctx context.Context, setID string) error {
	if _, ok := r.Set(setID); ok {
		return nil
	}

	_, err, _ := r.flight.Do("set:"+setID, func() (interface{}, error) {
		if _, ok := r.Set(setID); ok {
			return nil, nil
		}

		source := r.manifestPath(setID)
		data, err := r.loader.Load(ctx, source)
		if err != nil {
			return nil, &AssetLoadError{Path: source, Err: err}
		}

		raw, err := parseManifest(source, data)
		if err != nil {
			return nil, fmt.Errorf("resource set %q: %w", setID, err)
		}

		set := newSet(setID, source, raw)

		r.mu.Lock()
		r.sets[setID] = set
		r.mu.Unlock()

		log.Printf("[Resolver] Loaded set %q from %s (%d entries, %d skipped)",
			setID, source, set.Len(), len(set.problems))
		return nil, nil
	})
	return err
}

// LoadSets loads several sets concurrently and returns the first failure.
func (r *Resolver) LoadSets(ctx context.Context, setIDs ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range setIDs {
		g.Go(func() error {
			return r.LoadSet(gctx, id)
		})
	}
	return g.Wait()
}

// Set returns a loaded set.
func (r *Resolver) Set(setID string) (*Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sets[setID]
	return s, ok
}

// View returns a new selection cursor sharing this Resolver's caches.
func (r *Resolver) View() *View {
	return &View{r: r}
}

// SelectSet selects setID for the Resolver's own Resolve methods.
func (r *Resolver) SelectSet(setID string) error {
	return r.def.SelectSet(setID)
}

// ResolveTexture resolves against the Resolver's selected set.
func (r *Resolver) ResolveTexture(ctx context.Context, category, key string) (*Texture, error) {
	return r.def.ResolveTexture(ctx, category, key)
}

// ResolveSound resolves against the Resolver's selected set.
func (r *Resolver) ResolveSound(ctx context.Context, category, key string) (*Sound, error) {
	return r.def.ResolveSound(ctx, category, key)
}

// texture returns the decoded image for path, fetching it at most once.
func (r *Resolver) texture(ctx context.Context, path string) (*Texture, error) {
	r.mu.RLock()
	cached, ok := r.textures[path]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.flight.Do("tex:"+path, func() (interface{}, error) {
		r.mu.RLock()
		cached, ok := r.textures[path]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		data, err := r.loader.Load(ctx, path)
		if err != nil {
			return nil, &AssetLoadError{Path: path, Err: err}
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &AssetLoadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
		}

		tex := &Texture{Path: path, Image: ebiten.NewImageFromImage(img)}
		r.mu.Lock()
		r.textures[path] = tex
		r.mu.Unlock()
		return tex, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Texture), nil
}

// sound returns the bytes for path, fetching them at most once.
func (r *Resolver) sound(ctx context.Context, path string) (*Sound, error) {
	r.mu.RLock()
	cached, ok := r.sounds[path]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.flight.Do("snd:"+path, func() (interface{}, error) {
		r.mu.RLock()
		cached, ok := r.sounds[path]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		data, err := r.loader.Load(ctx, path)
		if err != nil {
			return nil, &AssetLoadError{Path: path, Err: err}
		}

		snd := &Sound{Path: path, Data: data}
		r.mu.Lock()
		r.sounds[path] = snd
		r.mu.Unlock()
		return snd, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Sound), nil
}

package resource

import (
	"context"
	"sync"

	"github.com/decker502/vnmenu/pkg/display"
)

// View is an independent set selection over a Resolver. Each scene owns one
// and selects its set as the first step of initialization.
type View struct {
	r *Resolver

	mu  sync.Mutex
	set *Set
}

// SelectSet makes setID the target of subsequent resolutions. It fails with
// UnknownSetError if the set was never loaded; the previous selection is
// kept in that case.
func (v *View) SelectSet(setID string) error {
	set, ok := v.r.Set(setID)
	if !ok {
		return &UnknownSetError{Set: setID}
	}
	v.mu.Lock()
	v.set = set
	v.mu.Unlock()
	return nil
}

// Selected returns the selected set id, or "" when nothing is selected.
func (v *View) Selected() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.set == nil {
		return ""
	}
	return v.set.id
}

// Lookup returns the manifest entry for (category, key) in the selected set.
func (v *View) Lookup(category, key string) (Entry, error) {
	v.mu.Lock()
	set := v.set
	v.mu.Unlock()

	if set == nil {
		return Entry{}, &UnknownSetError{}
	}
	e, ok := set.Lookup(category, key)
	if !ok {
		return Entry{}, &ResourceNotFoundError{Set: set.id, Category: category, Key: key}
	}
	return e, nil
}

// ResolveTexture loads the image registered for (category, key).
func (v *View) ResolveTexture(ctx context.Context, category, key string) (*Texture, error) {
	e, err := v.Lookup(category, key)
	if err != nil {
		return nil, err
	}
	return v.r.texture(ctx, e.Path)
}

// ResolveSound loads the audio bytes registered for (category, key).
func (v *View) ResolveSound(ctx context.Context, category, key string) (*Sound, error) {
	e, err := v.Lookup(category, key)
	if err != nil {
		return nil, err
	}
	return v.r.sound(ctx, e.Path)
}

// ResolveSprite creates a new sprite node showing the texture registered
// for (category, key). Every call returns a distinct node.
func (v *View) ResolveSprite(ctx context.Context, category, key string) (*display.Node, error) {
	tex, err := v.ResolveTexture(ctx, category, key)
	if err != nil {
		return nil, err
	}
	return display.NewSprite(category+"/"+key, tex.Image), nil
}

// ResolveSprite resolves against the Resolver's selected set.
func (r *Resolver) ResolveSprite(ctx context.Context, category, key string) (*display.Node, error) {
	return r.def.ResolveSprite(ctx, category, key)
}

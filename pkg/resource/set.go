package resource

import (
	"fmt"
	"log"
	"sort"
)

// Entry is one resolved manifest line.
type Entry struct {
	Kind     Kind
	Category string
	Key      string
	Path     string
}

type entryKey struct {
	category string
	key      string
}

// EntryError describes a manifest line that was skipped during LoadSet.
type EntryError struct {
	Set      string
	Category string
	Key      string
	Reason   string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("set %q: entry %s/%s skipped: %s", e.Set, e.Category, e.Key, e.Reason)
}

// Set is a loaded resource set. Its entries never change after LoadSet.
type Set struct {
	id       string
	source   string
	entries  map[entryKey]Entry
	problems []error
}

// newSet validates raw manifest lines. Malformed lines and repeated
// (category, key) pairs are reported and skipped; the first definition wins.
func newSet(id, source string, raw []rawEntry) *Set {
	s := &Set{
		id:      id,
		source:  source,
		entries: make(map[entryKey]Entry, len(raw)),
	}

	for _, r := range raw {
		var reason string
		switch {
		case r.Category == "":
			reason = "missing category"
		case r.Key == "":
			reason = "missing name"
		case r.Path == "":
			reason = "missing path"
		}
		if reason != "" {
			s.report(r, reason)
			continue
		}

		k := entryKey{category: r.Category, key: r.Key}
		if prev, dup := s.entries[k]; dup {
			s.report(r, fmt.Sprintf("duplicate definition (keeping %s)", prev.Path))
			continue
		}
		s.entries[k] = Entry{Kind: r.Kind, Category: r.Category, Key: r.Key, Path: r.Path}
	}
	return s
}

func (s *Set) report(r rawEntry, reason string) {
	err := &EntryError{Set: s.id, Category: r.Category, Key: r.Key, Reason: reason}
	s.problems = append(s.problems, err)
	log.Printf("[Resolver] Warning: %v", err)
}

// ID returns the set name.
func (s *Set) ID() string { return s.id }

// Source returns the manifest path the set was read from.
func (s *Set) Source() string { return s.source }

// Len returns the number of registered entries.
func (s *Set) Len() int { return len(s.entries) }

// Lookup returns the entry registered for (category, key).
func (s *Set) Lookup(category, key string) (Entry, bool) {
	e, ok := s.entries[entryKey{category: category, key: key}]
	return e, ok
}

// Entries returns every entry ordered by category then key.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Problems returns the entry errors collected while loading.
func (s *Set) Problems() []error {
	out := make([]error, len(s.problems))
	copy(out, s.problems)
	return out
}

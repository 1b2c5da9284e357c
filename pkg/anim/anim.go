// Package anim provides the animation primitives for driving skeletal
// avatars: a fixed vocabulary of named motions, opaque clip and skeleton
// handles produced by an asset loader, per-clip actions with weight fading,
// and a mixer that advances and blends actions over time.
//
// The package has no rendering dependencies. A renderer binds concrete
// skeleton and clip implementations; everything here operates on the
// handles alone.
package anim

import "strings"

// DefaultNames is the built-in animation vocabulary. The order is
// significant: it is the order animations are offered to the language
// model and the order clips are loaded during avatar creation.
var DefaultNames = []string{
	"Idle",
	"Jumping",
	"Chicken Dance",
	"Gangnam Style",
	"Samba Dancing",
	"Silly Dancing",
	"Snake Hip Hop Dance",
	"Twist Dance",
	"Wave Hip Hop Dance",
}

// Vocabulary is the fixed set of animation names the engine recognizes.
// Lookups are case-insensitive; the canonical casing given at construction
// is authoritative for clip path resolution.
type Vocabulary struct {
	names []string
	index map[string]string // lowercase -> canonical
}

// NewVocabulary builds a vocabulary from canonical names.
// Duplicate names (case-insensitively) keep their first casing.
func NewVocabulary(names []string) *Vocabulary {
	v := &Vocabulary{
		names: make([]string, 0, len(names)),
		index: make(map[string]string, len(names)),
	}
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := v.index[key]; ok {
			continue
		}
		v.index[key] = name
		v.names = append(v.names, name)
	}
	return v
}

// DefaultVocabulary returns a vocabulary over DefaultNames.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(DefaultNames)
}

// Resolve maps name to its canonical vocabulary entry, case-insensitively.
// The second result reports whether the name is part of the vocabulary.
func (v *Vocabulary) Resolve(name string) (string, bool) {
	canonical, ok := v.index[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Names returns the canonical names in vocabulary order.
// The returned slice must not be modified.
func (v *Vocabulary) Names() []string {
	return v.names
}

// Len returns the number of entries.
func (v *Vocabulary) Len() int {
	return len(v.names)
}

// Skeleton is an opaque handle to a loaded rig. Concrete implementations
// come from the renderer-side asset loader.
type Skeleton interface {
	// ID returns a stable identifier for the loaded rig instance.
	ID() string
}

// Clip is an opaque handle to a loaded animation clip, already bound to a
// specific skeleton by the asset loader.
type Clip interface {
	// Name returns the canonical animation name the clip was loaded for.
	Name() string

	// Duration returns the clip length in seconds, or 0 if unknown.
	Duration() float64
}

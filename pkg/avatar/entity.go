// Package avatar owns the on-screen character entities: one skeleton, one
// mixer, and one set of bound clip actions per avatar, plus the registry
// that creates entities, hands them to the command router, and advances
// every mixer once per render frame.
package avatar

import (
	"errors"
	"sync"

	"github.com/autocube/cubo/pkg/anim"
)

// State is an entity's lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownAnimation reports a name outside the vocabulary. Expected
	// for free-form model output; callers log and continue.
	ErrUnknownAnimation = errors.New("avatar: unknown animation")

	// ErrNotReady reports a play command that arrived before the entity
	// finished loading. Transient; callers log and drop, never retry.
	ErrNotReady = errors.New("avatar: entity not ready")

	// ErrActionMissing reports a vocabulary name with no bound action.
	ErrActionMissing = errors.New("avatar: no action bound for animation")
)

// Entity is one avatar instance. It is created fully populated by
// Registry.CreateAvatar; callers never observe a partial entity.
//
// All playback state is guarded by a mutex so Play and Update may be
// called from different goroutines (the chat pipeline and the render
// loop respectively).
type Entity struct {
	id    string
	vocab *anim.Vocabulary
	fade  float64

	mu       sync.Mutex
	state    State
	skeleton anim.Skeleton
	mixer    *anim.Mixer
	actions  map[string]*anim.Action // canonical name -> bound action
	current  *anim.Action
}

func newEntity(id string, vocab *anim.Vocabulary, fade float64) *Entity {
	if fade <= 0 {
		fade = anim.DefaultFadeDuration
	}
	return &Entity{
		id:    id,
		vocab: vocab,
		fade:  fade,
		state: StateUninitialized,
	}
}

// ID returns the entity's registry identifier.
func (e *Entity) ID() string {
	return e.id
}

// State returns the entity's lifecycle stage.
func (e *Entity) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Skeleton returns the loaded rig handle, or nil before Ready.
func (e *Entity) Skeleton() anim.Skeleton {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skeleton
}

// CurrentAnimation returns the canonical name of the animation currently
// playing, or "" when none is.
func (e *Entity) CurrentAnimation() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return ""
	}
	return e.current.Clip().Name()
}

// Play transitions the avatar into the named animation.
//
// The name is resolved case-insensitively against the vocabulary. Playing
// the animation that is already current is a no-op: it neither rewinds the
// clip nor restarts the crossfade. The first animation ever played starts
// at full weight; every later one crossfades from whatever is currently
// blended over the configured fade duration, superseding any transition
// still in flight.
//
// The returned error classifies dropped commands (ErrUnknownAnimation,
// ErrNotReady, ErrActionMissing). They are expected runtime outcomes of
// parsing model output, not failures: callers log them and continue.
func (e *Entity) Play(name string) error {
	canonical, ok := e.vocab.Resolve(name)
	if !ok {
		return ErrUnknownAnimation
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return ErrNotReady
	}
	action, ok := e.actions[canonical]
	if !ok {
		return ErrActionMissing
	}
	if action == e.current {
		return nil
	}

	action.Reset()
	if e.current == nil {
		action.Play()
	} else {
		e.mixer.CrossFade(action, e.fade)
	}
	e.current = action
	return nil
}

// Update advances the entity's mixer by dt seconds. It never blocks on
// loads; before Ready it is a no-op.
func (e *Entity) Update(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady {
		return
	}
	e.mixer.Update(dt)
}

// WeightSum returns the combined weight of the entity's enabled actions.
func (e *Entity) WeightSum() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mixer == nil {
		return 0
	}
	return e.mixer.WeightSum()
}

// bind installs the loaded playback state and transitions to Ready.
// Called once by the registry at the end of a successful creation.
func (e *Entity) bind(skeleton anim.Skeleton, mixer *anim.Mixer, actions map[string]*anim.Action) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.skeleton = skeleton
	e.mixer = mixer
	e.actions = actions
	e.state = StateReady
}

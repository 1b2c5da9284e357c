package avatar

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/autocube/cubo/pkg/anim"
)

func readyEntity(t *testing.T) *Entity {
	t.Helper()
	r, err := NewRegistry(Config{
		Loader: &testLoader{},
		Logger: slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	entity, err := r.CreateAvatar(context.Background(), "a", "models/cubo.vrm")
	if err != nil {
		t.Fatalf("CreateAvatar: %v", err)
	}
	return entity
}

func TestEntity_PlayResolvesCaseInsensitively(t *testing.T) {
	e := readyEntity(t)

	if err := e.Play("gangnam style"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := e.CurrentAnimation(); got != "Gangnam Style" {
		t.Errorf("CurrentAnimation() = %q, want %q", got, "Gangnam Style")
	}
}

func TestEntity_PlayUnknownAnimation(t *testing.T) {
	e := readyEntity(t)

	if err := e.Play("moonwalk"); !errors.Is(err, ErrUnknownAnimation) {
		t.Errorf("Play(moonwalk) = %v, want ErrUnknownAnimation", err)
	}
	if got := e.CurrentAnimation(); got != "" {
		t.Errorf("CurrentAnimation() = %q after dropped command, want empty", got)
	}
}

func TestEntity_PlayBeforeReady(t *testing.T) {
	e := newEntity("a", anim.DefaultVocabulary(), 0)
	e.state = StateLoading

	if err := e.Play("Idle"); !errors.Is(err, ErrNotReady) {
		t.Errorf("Play before ready = %v, want ErrNotReady", err)
	}
}

func TestEntity_PlayActionMissing(t *testing.T) {
	// A vocabulary entry with no bound action (its clip failed to load in
	// a hypothetical partial setup) is reported as ErrActionMissing.
	e := newEntity("a", anim.DefaultVocabulary(), 0)
	skel := &testSkeleton{id: "s"}
	mixer := anim.NewMixer(skel)
	e.bind(skel, mixer, map[string]*anim.Action{})

	if err := e.Play("Idle"); !errors.Is(err, ErrActionMissing) {
		t.Errorf("Play = %v, want ErrActionMissing", err)
	}
}

func TestEntity_PlayIsIdempotent(t *testing.T) {
	e := readyEntity(t)

	if err := e.Play("Jumping"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	e.Update(0.3)
	clock := e.actions["Jumping"].Time()
	if clock == 0 {
		t.Fatal("clip clock did not advance")
	}

	// Replaying the current animation must not rewind the clip or restart
	// a crossfade.
	if err := e.Play("jumping"); err != nil {
		t.Fatalf("repeat Play: %v", err)
	}
	if got := e.actions["Jumping"].Time(); got != clock {
		t.Errorf("repeat Play rewound the clip: clock %v -> %v", clock, got)
	}
	if w := e.actions["Jumping"].Weight(); w != 1 {
		t.Errorf("repeat Play disturbed the weight: %v", w)
	}
}

func TestEntity_FirstPlayStartsDirectly(t *testing.T) {
	e := readyEntity(t)

	if err := e.Play("Idle"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	// No fade-in on first play: full weight immediately.
	if w := e.actions["Idle"].Weight(); w != 1 {
		t.Errorf("first play Weight() = %v, want 1", w)
	}
}

func TestEntity_PlayCrossfadesFromCurrent(t *testing.T) {
	e := readyEntity(t)

	if err := e.Play("Idle"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := e.Play("Samba Dancing"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := e.CurrentAnimation(); got != "Samba Dancing" {
		t.Fatalf("CurrentAnimation() = %q, want %q", got, "Samba Dancing")
	}

	// Throughout the 0.5s blend window the two actions' weights sum to 1.
	for i := 0; i < 4; i++ {
		e.Update(0.1)
		if sum := e.WeightSum(); math.Abs(sum-1) > 1e-9 {
			t.Fatalf("WeightSum() = %v mid-blend, want 1", sum)
		}
	}
	e.Update(0.2)
	if e.actions["Idle"].Enabled() {
		t.Error("outgoing action still enabled after blend window")
	}
	if w := e.actions["Samba Dancing"].Weight(); w != 1 {
		t.Errorf("target Weight() = %v after blend, want 1", w)
	}
}

package anim

import (
	"math"
	"testing"
)

// fakeClip is a minimal Clip for mixer tests.
type fakeClip struct {
	name     string
	duration float64
}

func (c *fakeClip) Name() string      { return c.name }
func (c *fakeClip) Duration() float64 { return c.duration }

type fakeSkeleton struct{ id string }

func (s *fakeSkeleton) ID() string { return s.id }

func TestMixer_ClipActionDeduplicates(t *testing.T) {
	m := NewMixer(&fakeSkeleton{id: "a"})
	clip := &fakeClip{name: "Idle", duration: 2}

	a1 := m.ClipAction(clip)
	a2 := m.ClipAction(clip)
	if a1 != a2 {
		t.Error("ClipAction registered the same clip twice")
	}
}

func TestMixer_FirstPlayHasFullWeight(t *testing.T) {
	m := NewMixer(&fakeSkeleton{id: "a"})
	idle := m.ClipAction(&fakeClip{name: "Idle", duration: 2})

	idle.Reset()
	idle.Play()

	if w := idle.Weight(); w != 1 {
		t.Errorf("Weight() = %v, want 1", w)
	}
	m.Update(0.25)
	if w := m.WeightSum(); w != 1 {
		t.Errorf("WeightSum() = %v, want 1", w)
	}
}

func TestMixer_CrossFadeWeightsSumToOne(t *testing.T) {
	m := NewMixer(&fakeSkeleton{id: "a"})
	idle := m.ClipAction(&fakeClip{name: "Idle", duration: 2})
	jump := m.ClipAction(&fakeClip{name: "Jumping", duration: 2})

	idle.Play()
	jump.Reset()
	m.CrossFade(jump, 0.5)

	for i := 0; i < 5; i++ {
		m.Update(0.1)
		if sum := m.WeightSum(); math.Abs(sum-1) > 1e-9 {
			t.Fatalf("after %d steps WeightSum() = %v, want 1", i+1, sum)
		}
	}

	// Past the blend window only the target contributes.
	m.Update(0.1)
	if idle.Enabled() {
		t.Error("outgoing action still enabled after blend window")
	}
	if w := jump.Weight(); w != 1 {
		t.Errorf("target Weight() = %v, want 1", w)
	}
}

func TestMixer_CrossFadeDoesNotStopOutgoing(t *testing.T) {
	m := NewMixer(&fakeSkeleton{id: "a"})
	idle := m.ClipAction(&fakeClip{name: "Idle", duration: 2})
	jump := m.ClipAction(&fakeClip{name: "Jumping", duration: 2})

	idle.Play()
	m.CrossFade(jump, 0.5)

	// Mid-blend the outgoing action must still be enabled and advancing.
	m.Update(0.2)
	if !idle.Enabled() {
		t.Fatal("outgoing action was stopped mid-blend")
	}
	if idle.Weight() <= 0 || idle.Weight() >= 1 {
		t.Errorf("outgoing Weight() = %v, want in (0, 1)", idle.Weight())
	}
	if idle.Time() == 0 {
		t.Error("outgoing action clock is not advancing")
	}
}

func TestMixer_SupersedingCrossFadeStartsFromBlendedWeights(t *testing.T) {
	m := NewMixer(&fakeSkeleton{id: "a"})
	idle := m.ClipAction(&fakeClip{name: "Idle", duration: 2})
	jump := m.ClipAction(&fakeClip{name: "Jumping", duration: 2})
	twist := m.ClipAction(&fakeClip{name: "Twist Dance", duration: 2})

	idle.Play()
	m.CrossFade(jump, 0.5)
	m.Update(0.25) // idle 0.5, jump 0.5

	m.CrossFade(twist, 0.5)

	// The superseding blend starts from the mid-flight weights, not from a
	// reset state: idle and jump fade 0.5 -> 0, twist fades 0 -> 1.
	m.Update(0.25)
	if w := idle.Weight(); math.Abs(w-0.25) > 1e-9 {
		t.Errorf("idle Weight() = %v, want 0.25", w)
	}
	if w := jump.Weight(); math.Abs(w-0.25) > 1e-9 {
		t.Errorf("jump Weight() = %v, want 0.25", w)
	}
	if w := twist.Weight(); math.Abs(w-0.5) > 1e-9 {
		t.Errorf("twist Weight() = %v, want 0.5", w)
	}

	m.Update(0.3)
	if idle.Enabled() || jump.Enabled() {
		t.Error("superseded actions still enabled after blend window")
	}
	if w := twist.Weight(); w != 1 {
		t.Errorf("twist Weight() = %v, want 1", w)
	}
}

func TestMixer_CrossFadeWarpsMismatchedDurations(t *testing.T) {
	m := NewMixer(&fakeSkeleton{id: "a"})
	slow := m.ClipAction(&fakeClip{name: "Idle", duration: 4})
	fast := m.ClipAction(&fakeClip{name: "Jumping", duration: 2})

	slow.Play()
	m.CrossFade(fast, 0.5)

	// Incoming starts warped to the outgoing clip's pace (ratio 4/2 = 2)
	// and relaxes to 1 across the blend.
	m.Update(0.25)
	ts := fast.timeScale
	if ts <= 1 || ts >= 2 {
		t.Errorf("incoming timeScale mid-blend = %v, want in (1, 2)", ts)
	}

	m.Update(0.3)
	if fast.timeScale != 1 {
		t.Errorf("incoming timeScale after blend = %v, want 1", fast.timeScale)
	}
}

func TestAction_ClockWrapsAtClipDuration(t *testing.T) {
	m := NewMixer(&fakeSkeleton{id: "a"})
	idle := m.ClipAction(&fakeClip{name: "Idle", duration: 1})

	idle.Play()
	m.Update(2.5)
	if tm := idle.Time(); math.Abs(tm-0.5) > 1e-9 {
		t.Errorf("Time() = %v, want 0.5", tm)
	}
}

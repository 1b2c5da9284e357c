package anim

// DefaultFadeDuration is the crossfade length in seconds used by
// Mixer.CrossFade when the configured duration is zero.
const DefaultFadeDuration = 0.5

// Mixer advances and blends the actions bound to one skeleton. It is the
// per-avatar animation player: one mixer per skeleton, one action per
// bound clip.
//
// Mixer is not safe for concurrent use. The owning entity serializes
// Update against CrossFade/Play (see avatar.Entity).
type Mixer struct {
	skeleton Skeleton
	actions  []*Action
}

// NewMixer creates a mixer bound to the given skeleton.
func NewMixer(skeleton Skeleton) *Mixer {
	return &Mixer{skeleton: skeleton}
}

// Skeleton returns the skeleton this mixer drives.
func (m *Mixer) Skeleton() Skeleton {
	return m.skeleton
}

// ClipAction binds a clip to this mixer and returns its action. Binding
// the same clip handle twice returns the existing action rather than
// registering a duplicate.
func (m *Mixer) ClipAction(clip Clip) *Action {
	for _, a := range m.actions {
		if a.clip == clip {
			return a
		}
	}
	a := &Action{clip: clip, timeScale: 1}
	m.actions = append(m.actions, a)
	return a
}

// Update advances all enabled actions by dt seconds. It never blocks and
// performs no allocation on the steady-state path; the render loop calls
// it once per frame.
func (m *Mixer) Update(dt float64) {
	for _, a := range m.actions {
		a.update(dt)
	}
}

// CrossFade blends from the currently playing actions into target over
// duration seconds (DefaultFadeDuration if duration is 0).
//
// The target fades in from its current weight; every other enabled action
// fades out from its current weight. Nothing is force-stopped: the
// fade-out drives outgoing actions to zero weight and disables them when
// they get there. Calling CrossFade again mid-blend therefore supersedes
// the in-flight transition, starting from whatever is currently blended.
//
// When both the target and the single outgoing action report a positive
// clip duration, their time scales are warped through the blend window so
// the two motions stay in phase (duration-normalized blend).
func (m *Mixer) CrossFade(target *Action, duration float64) {
	if target == nil {
		return
	}
	if duration <= 0 {
		duration = DefaultFadeDuration
	}

	var out *Action
	outCount := 0
	for _, a := range m.actions {
		if a == target || !a.enabled {
			continue
		}
		a.fadeTo(0, duration)
		out = a
		outCount++
	}

	target.fadeTo(1, duration)

	if outCount == 1 {
		inDur := target.clip.Duration()
		outDur := out.clip.Duration()
		if inDur > 0 && outDur > 0 && inDur != outDur {
			ratio := outDur / inDur
			target.warpTo(ratio, 1, duration)
			out.warpTo(1, 1/ratio, duration)
		}
	}
}

// WeightSum returns the combined weight of all enabled actions. Exposed
// for diagnostics; during a two-way crossfade it stays at 1.
func (m *Mixer) WeightSum() float64 {
	sum := 0.0
	for _, a := range m.actions {
		if a.enabled {
			sum += a.weight
		}
	}
	return sum
}

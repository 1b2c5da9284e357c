package anim

// Action is a clip scheduled on a mixer: it carries the playback state
// (local clock, weight, time scale) that lets the same clip be blended
// against others on the same skeleton.
//
// Actions are created by Mixer.ClipAction and advanced by Mixer.Update.
// They are not safe for concurrent use; the owning entity serializes
// access (see avatar.Entity).
type Action struct {
	clip Clip

	time      float64
	timeScale float64
	weight    float64
	enabled   bool

	fade *fade
	warp *warp
}

// fade linearly interpolates an action's weight from start to end over
// duration seconds. A completed fade to zero disables the action.
type fade struct {
	start    float64
	end      float64
	elapsed  float64
	duration float64
}

// warp linearly interpolates an action's time scale during a crossfade so
// that clips of different lengths stay in phase through the blend window.
type warp struct {
	start    float64
	end      float64
	elapsed  float64
	duration float64
}

// Clip returns the clip this action plays.
func (a *Action) Clip() Clip {
	return a.clip
}

// Weight returns the action's current blend weight in [0, 1].
func (a *Action) Weight() float64 {
	return a.weight
}

// Time returns the action's local clock in seconds.
func (a *Action) Time() float64 {
	return a.time
}

// Enabled reports whether the action contributes to the blend.
func (a *Action) Enabled() bool {
	return a.enabled
}

// Reset rewinds the local clock and clears any in-flight fade or warp.
// The weight is left untouched so a superseding crossfade can start from
// the currently blended value.
func (a *Action) Reset() {
	a.time = 0
	a.timeScale = 1
	a.fade = nil
	a.warp = nil
}

// Play enables the action at full weight with no fade.
func (a *Action) Play() {
	a.enabled = true
	a.weight = 1
	a.fade = nil
}

// Stop disables the action immediately.
func (a *Action) Stop() {
	a.enabled = false
	a.weight = 0
	a.fade = nil
	a.warp = nil
}

// fadeTo schedules a linear weight ramp from the current weight to target
// over duration seconds, replacing any fade already in flight.
func (a *Action) fadeTo(target, duration float64) {
	if duration <= 0 {
		a.weight = target
		a.enabled = target > 0
		a.fade = nil
		return
	}
	a.enabled = true
	a.fade = &fade{
		start:    a.weight,
		end:      target,
		duration: duration,
	}
}

// warpTo schedules a time-scale ramp from start to end over duration
// seconds, replacing any warp already in flight.
func (a *Action) warpTo(start, end, duration float64) {
	if duration <= 0 {
		a.timeScale = end
		a.warp = nil
		return
	}
	a.warp = &warp{
		start:    start,
		end:      end,
		duration: duration,
	}
}

// update advances the local clock and any in-flight fade and warp by dt
// seconds. Clip playback loops: the clock wraps at the clip duration.
func (a *Action) update(dt float64) {
	if !a.enabled {
		return
	}

	if w := a.warp; w != nil {
		w.elapsed += dt
		t := w.elapsed / w.duration
		if t >= 1 {
			a.timeScale = w.end
			a.warp = nil
		} else {
			a.timeScale = w.start + (w.end-w.start)*t
		}
	}

	a.time += dt * a.timeScale
	if d := a.clip.Duration(); d > 0 {
		for a.time >= d {
			a.time -= d
		}
	}

	if f := a.fade; f != nil {
		f.elapsed += dt
		t := f.elapsed / f.duration
		if t >= 1 {
			a.weight = f.end
			a.fade = nil
			if a.weight <= 0 {
				a.enabled = false
			}
		} else {
			a.weight = f.start + (f.end-f.start)*t
		}
	}
}

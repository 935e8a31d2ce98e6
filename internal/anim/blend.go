package anim

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Registry is the clip playback surface the blend controller drives. It is
// implemented by the embedding engine; weights are in [0,1].
type Registry interface {
	Start(clipID string)
	Stop(clipID string)
	SetWeight(clipID string, weight float64)
}

// Blender cross-fades between two clips over wall-clock time. Timing runs
// on explicit timestamps, so perceived blend duration is frame-rate
// independent; after a stall, progress jumps forward instead of drifting.
type Blender struct {
	registry Registry
	duration time.Duration

	current  string
	previous string
	start    time.Time
	blending bool
}

func NewBlender(registry Registry, duration time.Duration) *Blender {
	return &Blender{registry: registry, duration: duration}
}

// RequestClip asks for target to become the active clip. Requests for the
// already-active clip, an empty (unresolved) target, or while a blend is in
// flight are dropped; dropping is a visible no-op, never an error.
func (b *Blender) RequestClip(target string, now time.Time) {
	if target == "" || b.blending || target == b.current {
		return
	}

	if b.current == "" {
		b.registry.Start(target)
		b.registry.SetWeight(target, 1.0)
		b.current = target
		return
	}

	if b.duration <= 0 {
		b.registry.Stop(b.current)
		b.registry.Start(target)
		b.registry.SetWeight(target, 1.0)
		b.current = target
		return
	}

	b.previous = b.current
	b.current = target
	b.registry.Start(target)
	b.registry.SetWeight(b.previous, 1.0)
	b.registry.SetWeight(b.current, 0.0)
	b.start = now
	b.blending = true
}

// Advance moves an in-flight blend to the given timestamp. Runs once per
// render tick; a no-op while idle.
func (b *Blender) Advance(now time.Time) {
	if !b.blending {
		return
	}

	progress := float64(now.Sub(b.start)) / float64(b.duration)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	eased := float64(ease.InOutCubic(float32(progress), 0, 1, 1))

	b.registry.SetWeight(b.previous, 1-eased)
	b.registry.SetWeight(b.current, eased)

	if progress >= 1 {
		b.registry.Stop(b.previous)
		b.registry.SetWeight(b.current, 1.0)
		b.previous = ""
		b.blending = false
	}
}

// Reset stops whatever is playing and clears all blend state. Used when the
// controlled character is swapped out.
func (b *Blender) Reset() {
	if b.previous != "" {
		b.registry.Stop(b.previous)
	}
	if b.current != "" {
		b.registry.Stop(b.current)
	}
	b.current = ""
	b.previous = ""
	b.blending = false
	b.start = time.Time{}
}

func (b *Blender) Blending() bool {
	return b.blending
}

// CurrentClip returns the active (or blend-target) clip, empty when nothing
// has been requested yet.
func (b *Blender) CurrentClip() string {
	return b.current
}

package anim

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

var t0 = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func approxWeight(t *testing.T, reg *MemoryRegistry, clip string, want float64) {
	t.Helper()
	got := reg.Weight(clip)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("weight(%s) = %.8f, want %.8f", clip, got, want)
	}
}

func TestRequestClip_FirstClipStartsAtFullWeight(t *testing.T) {
	reg := NewMemoryRegistry("idle", "walk")
	b := NewBlender(reg, 400*time.Millisecond)

	b.RequestClip("idle", t0)

	if b.Blending() {
		t.Fatalf("blending = true, want false")
	}
	if b.CurrentClip() != "idle" {
		t.Fatalf("currentClip = %q, want idle", b.CurrentClip())
	}
	if !reg.Playing("idle") {
		t.Fatalf("idle is not playing")
	}
	approxWeight(t, reg, "idle", 1.0)
}

func TestRequestClip_SameClipIsNoOp(t *testing.T) {
	reg := NewMemoryRegistry("idle")
	b := NewBlender(reg, 400*time.Millisecond)
	b.RequestClip("idle", t0)

	b.RequestClip("idle", t0.Add(time.Second))

	if b.Blending() {
		t.Fatalf("blending = true, want false")
	}
	approxWeight(t, reg, "idle", 1.0)
}

func TestRequestClip_EmptyTargetKeepsPlaying(t *testing.T) {
	reg := NewMemoryRegistry("idle")
	b := NewBlender(reg, 400*time.Millisecond)
	b.RequestClip("idle", t0)

	b.RequestClip("", t0.Add(time.Second))

	if b.CurrentClip() != "idle" || !reg.Playing("idle") {
		t.Fatalf("unresolved target disturbed playback: current=%q", b.CurrentClip())
	}
}

func TestRequestClip_ZeroDurationSwitchesInstantly(t *testing.T) {
	reg := NewMemoryRegistry("idle", "walk")
	b := NewBlender(reg, 0)
	b.RequestClip("idle", t0)

	b.RequestClip("walk", t0)

	if b.Blending() {
		t.Fatalf("blending = true, want false")
	}
	if b.CurrentClip() != "walk" {
		t.Fatalf("currentClip = %q, want walk", b.CurrentClip())
	}
	if reg.Playing("idle") {
		t.Fatalf("idle still playing after instant switch")
	}
	approxWeight(t, reg, "walk", 1.0)
}

func TestRequestClip_MidBlendRequestIsDropped(t *testing.T) {
	reg := NewMemoryRegistry("idle", "walk", "jump")
	b := NewBlender(reg, 400*time.Millisecond)
	b.RequestClip("idle", t0)
	b.RequestClip("walk", t0)

	b.RequestClip("jump", t0.Add(100*time.Millisecond))

	if b.CurrentClip() != "walk" {
		t.Fatalf("currentClip = %q, want walk (jump request dropped)", b.CurrentClip())
	}
	if reg.Playing("jump") {
		t.Fatalf("jump started despite in-flight blend")
	}

	// dropping is idempotent
	b.RequestClip("jump", t0.Add(150*time.Millisecond))
	if b.CurrentClip() != "walk" || reg.Playing("jump") {
		t.Fatalf("repeated dropped request had an effect")
	}
}

func TestAdvance_MidpointWeightsAreHalf(t *testing.T) {
	reg := NewMemoryRegistry("idle", "walk")
	b := NewBlender(reg, 400*time.Millisecond)
	b.RequestClip("idle", t0)
	b.RequestClip("walk", t0)

	b.Advance(t0.Add(200 * time.Millisecond))

	if !b.Blending() {
		t.Fatalf("blending = false, want true at midpoint")
	}
	approxWeight(t, reg, "idle", 0.5)
	approxWeight(t, reg, "walk", 0.5)
}

func TestAdvance_CompletionIsExact(t *testing.T) {
	reg := NewMemoryRegistry("idle", "walk")
	b := NewBlender(reg, 400*time.Millisecond)
	b.RequestClip("idle", t0)
	b.RequestClip("walk", t0)

	b.Advance(t0.Add(400 * time.Millisecond))

	if b.Blending() {
		t.Fatalf("blending = true after full duration")
	}
	if reg.Playing("idle") {
		t.Fatalf("previous clip still playing after completion")
	}
	if got := reg.Weight("walk"); got != 1.0 {
		t.Fatalf("weight(walk) = %v, want exactly 1.0", got)
	}
}

func TestAdvance_StalledFrameJumpsForward(t *testing.T) {
	reg := NewMemoryRegistry("idle", "walk")
	b := NewBlender(reg, 400*time.Millisecond)
	b.RequestClip("idle", t0)
	b.RequestClip("walk", t0)

	// a long stall lands past the end; the blend completes, no drift
	b.Advance(t0.Add(5 * time.Second))

	if b.Blending() {
		t.Fatalf("blending = true after stall past duration")
	}
	approxWeight(t, reg, "walk", 1.0)
}

func TestAdvance_EasingEndpointsAndMonotonicity(t *testing.T) {
	if got := ease.InOutCubic(0, 0, 1, 1); got != 0 {
		t.Fatalf("ease(0) = %v, want 0", got)
	}
	if got := ease.InOutCubic(1, 0, 1, 1); got != 1 {
		t.Fatalf("ease(1) = %v, want 1", got)
	}
	if got := ease.InOutCubic(0.5, 0, 1, 1); math.Abs(float64(got)-0.5) > 1e-6 {
		t.Fatalf("ease(0.5) = %v, want 0.5", got)
	}
	prev := float32(0)
	for i := 1; i <= 100; i++ {
		v := ease.InOutCubic(float32(i)/100, 0, 1, 1)
		if v < prev {
			t.Fatalf("easing not non-decreasing at t=%d/100: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestReset_StopsEverythingAndClearsState(t *testing.T) {
	reg := NewMemoryRegistry("idle", "walk")
	b := NewBlender(reg, 400*time.Millisecond)
	b.RequestClip("idle", t0)
	b.RequestClip("walk", t0)

	b.Reset()

	if b.Blending() || b.CurrentClip() != "" {
		t.Fatalf("state survived reset: blending=%v current=%q", b.Blending(), b.CurrentClip())
	}
	if len(reg.Active()) != 0 {
		t.Fatalf("clips still playing after reset: %v", reg.Active())
	}
}

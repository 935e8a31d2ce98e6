package avatar

import (
	"math"
	"testing"
	"time"

	"github.com/hexforge/stride/internal/anim"
	"github.com/hexforge/stride/internal/locomotion"
	"github.com/hexforge/stride/internal/mathx"
	"github.com/hexforge/stride/internal/physics"
)

// stubBackend reports scripted support and snaps ResolveMovement straight
// to the desired velocity, keeping the traces easy to predict.
type stubBackend struct {
	support      physics.SupportInfo
	lastVelocity mathx.Vec3
	integrations int
}

func (s *stubBackend) CheckSupport(dt float64, down mathx.Vec3) physics.SupportInfo {
	return s.support
}

func (s *stubBackend) ResolveMovement(dt float64, forward, normalOrUp, currentVel, surfaceVel, desiredVel, up mathx.Vec3) mathx.Vec3 {
	return desiredVel.Add(surfaceVel)
}

func (s *stubBackend) Integrate(dt float64, velocity mathx.Vec3, support physics.SupportInfo, gravity mathx.Vec3) {
	s.lastVelocity = velocity
	s.integrations++
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

var testEnv = locomotion.Environment{Gravity: mathx.Vec3{Y: -18}}

func scoutProfile() *locomotion.CharacterProfile {
	return &locomotion.CharacterProfile{
		Name:            "scout",
		Mass:            1.0,
		GroundSpeed:     25.0,
		AirSpeed:        12.0,
		BoostMultiplier: 1.6,
		JumpHeight:      2.5,
		RotationSpeed:   720,
		BlendDuration:   400 * time.Millisecond,
		JumpDelay:       200 * time.Millisecond,
	}
}

func scoutClips() map[anim.Category]string {
	return map[anim.Category]string{
		anim.CategoryIdle: "Idle_Loop",
		anim.CategoryWalk: "Walk_Cycle",
		anim.CategoryJump: "Jump_Up",
	}
}

func groundedBackend() *stubBackend {
	return &stubBackend{support: physics.SupportInfo{Supported: true, SurfaceNormal: mathx.Vec3{Y: 1}}}
}

func newTestAvatar(backend *stubBackend, reg *anim.MemoryRegistry, clock *fakeClock) *Avatar {
	a := New(backend, reg, testEnv, WithClock(clock.Now))
	a.SelectCharacter(scoutProfile(), scoutClips())
	return a
}

func TestPhysicsTick_LandsAndWalks(t *testing.T) {
	backend := groundedBackend()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	a := newTestAvatar(backend, anim.NewMemoryRegistry(), clock)

	a.PhysicsTick(0.05, locomotion.Intent{Move: mathx.Vec2{Y: 1}})

	if a.CurrentState() != locomotion.StateOnGround {
		t.Fatalf("state = %v, want on_ground", a.CurrentState())
	}
	v := a.Velocity()
	if math.Abs(v.Z-25.0*0.95) > 1e-9 {
		t.Fatalf("velocity.z = %.8f, want %.8f", v.Z, 25.0*0.95)
	}
	if backend.integrations != 1 {
		t.Fatalf("integrations = %d, want 1", backend.integrations)
	}
	if backend.lastVelocity != v {
		t.Fatalf("backend received %+v, avatar kept %+v", backend.lastVelocity, v)
	}
}

func TestPhysicsTick_JumpLaunchSequence(t *testing.T) {
	backend := groundedBackend()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	a := newTestAvatar(backend, anim.NewMemoryRegistry(), clock)

	a.PhysicsTick(0.05, locomotion.Intent{}) // land
	a.PhysicsTick(0.05, locomotion.Intent{Jump: true})

	if a.CurrentState() != locomotion.StateStartJump {
		t.Fatalf("state = %v, want start_jump", a.CurrentState())
	}
	want := math.Sqrt(2 * 18.0 * 2.5)
	if math.Abs(a.Velocity().Y-want) > 1e-9 {
		t.Fatalf("velocity.y = %.8f, want %.8f", a.Velocity().Y, want)
	}

	backend.support = physics.SupportInfo{}
	a.PhysicsTick(0.05, locomotion.Intent{})

	if a.CurrentState() != locomotion.StateInAir {
		t.Fatalf("state = %v, want in_air after launch tick", a.CurrentState())
	}
}

func TestRenderTick_WalkWhenMovingIdleWhenStill(t *testing.T) {
	backend := groundedBackend()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	a := newTestAvatar(backend, anim.NewMemoryRegistry(), clock)

	a.PhysicsTick(0.05, locomotion.Intent{})
	a.RenderTick(clock.Now())
	if a.CurrentClip() != "Idle_Loop" {
		t.Fatalf("clip = %q, want Idle_Loop", a.CurrentClip())
	}

	// the idle->walk transition starts a blend targeting the walk clip
	a.PhysicsTick(0.05, locomotion.Intent{Move: mathx.Vec2{Y: 1}})
	a.RenderTick(clock.Now())
	if a.CurrentClip() != "Walk_Cycle" {
		t.Fatalf("clip = %q, want Walk_Cycle", a.CurrentClip())
	}
	if !a.IsBlending() {
		t.Fatalf("blending = false, want true right after clip change")
	}
}

func TestRenderTick_JumpClipWaitsForDelayWindow(t *testing.T) {
	backend := groundedBackend()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	a := newTestAvatar(backend, anim.NewMemoryRegistry(), clock)

	a.PhysicsTick(0.05, locomotion.Intent{})
	a.RenderTick(clock.Now())

	// walk off a ledge
	backend.support = physics.SupportInfo{}
	a.PhysicsTick(0.05, locomotion.Intent{})
	a.RenderTick(clock.Now())

	if a.CurrentState() != locomotion.StateInAir {
		t.Fatalf("state = %v, want in_air", a.CurrentState())
	}
	if a.CurrentClip() == "Jump_Up" {
		t.Fatalf("jump clip selected during the delay window")
	}

	clock.advance(200 * time.Millisecond)
	a.PhysicsTick(0.05, locomotion.Intent{})
	a.RenderTick(clock.Now())

	if a.CurrentClip() != "Jump_Up" {
		t.Fatalf("clip = %q, want Jump_Up after the delay window", a.CurrentClip())
	}
}

func TestSelectCharacter_ResetsEveryStateBundleAtomically(t *testing.T) {
	backend := groundedBackend()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	reg := anim.NewMemoryRegistry()
	a := newTestAvatar(backend, reg, clock)

	// build up state: grounded, moving, mid-blend
	a.PhysicsTick(0.05, locomotion.Intent{})
	a.RenderTick(clock.Now())
	a.PhysicsTick(0.05, locomotion.Intent{Move: mathx.Vec2{Y: 1}})
	a.RenderTick(clock.Now())
	if !a.IsBlending() || a.Velocity().IsZero() {
		t.Fatalf("precondition failed: blending=%v velocity=%+v", a.IsBlending(), a.Velocity())
	}

	brute := scoutProfile()
	brute.Name = "brute"
	brute.Mass = 2.5
	a.SelectCharacter(brute, map[anim.Category]string{
		anim.CategoryIdle: "BruteIdle",
		anim.CategoryWalk: "BruteRun",
		anim.CategoryJump: "BruteLeap",
	})

	if a.CurrentState() != locomotion.StateInAir {
		t.Fatalf("state = %v, want in_air after switch", a.CurrentState())
	}
	if !a.Velocity().IsZero() {
		t.Fatalf("velocity = %+v, want zero after switch", a.Velocity())
	}
	if a.IsBlending() || a.CurrentClip() != "" {
		t.Fatalf("blend state survived switch: blending=%v clip=%q", a.IsBlending(), a.CurrentClip())
	}
	if active := reg.Active(); len(active) != 0 {
		t.Fatalf("old clips still playing after switch: %v", active)
	}

	a.PhysicsTick(0.05, locomotion.Intent{})
	a.RenderTick(clock.Now())
	if a.CurrentClip() != "BruteIdle" {
		t.Fatalf("clip = %q, want BruteIdle from the new clip table", a.CurrentClip())
	}
}

func TestPhysicsTick_NoProfileIsInert(t *testing.T) {
	backend := groundedBackend()
	a := New(backend, anim.NewMemoryRegistry(), testEnv)

	a.PhysicsTick(0.05, locomotion.Intent{Move: mathx.Vec2{Y: 1}})
	a.RenderTick(time.Unix(1000, 0))

	if backend.integrations != 0 {
		t.Fatalf("integrations = %d without a profile, want 0", backend.integrations)
	}
	if a.CurrentClip() != "" {
		t.Fatalf("clip = %q without a profile, want none", a.CurrentClip())
	}
}

func TestResolveVelocity_ComputesWithoutIntegrating(t *testing.T) {
	backend := groundedBackend()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	a := newTestAvatar(backend, anim.NewMemoryRegistry(), clock)

	v := a.ResolveVelocity(0.05, locomotion.Intent{Move: mathx.Vec2{Y: 1}})

	if v.IsZero() {
		t.Fatalf("resolved velocity is zero, want forward motion")
	}
	if backend.integrations != 0 {
		t.Fatalf("integrations = %d, want 0 from ResolveVelocity", backend.integrations)
	}
	if a.Velocity() != v {
		t.Fatalf("stored velocity %+v differs from returned %+v", a.Velocity(), v)
	}
}

package avatar

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hexforge/stride/internal/anim"
	"github.com/hexforge/stride/internal/locomotion"
	"github.com/hexforge/stride/internal/mathx"
	"github.com/hexforge/stride/internal/physics"
)

// Backend is the physics/collision collaborator the avatar consumes. It
// owns position; the avatar owns velocity and hands it over on Integrate.
type Backend interface {
	CheckSupport(dt float64, down mathx.Vec3) physics.SupportInfo
	ResolveMovement(dt float64, forward, normalOrUp, currentVel, surfaceVel, desiredVel, up mathx.Vec3) mathx.Vec3
	Integrate(dt float64, velocity mathx.Vec3, support physics.SupportInfo, gravity mathx.Vec3)
}

// Avatar is one controlled character. All of its per-character state (the
// locomotion state, velocity, jump-delay window and blend state) lives
// behind a single mutex, so a physics tick and a render tick on different
// goroutines never observe a partial update.
type Avatar struct {
	mu       sync.Mutex
	backend  Backend
	registry anim.Registry
	env      locomotion.Environment
	resolver *locomotion.Resolver
	clock    func() time.Time

	profile   *locomotion.CharacterProfile
	clips     map[anim.Category]string
	state     locomotion.State
	velocity  mathx.Vec3
	yaw       float64
	moving    bool
	jumpDelay *anim.JumpDelay
	blender   *anim.Blender
}

type Option func(*Avatar)

// WithClock injects the timestamp source for jump-delay and blend timing.
// Tests pass a fake clock; production uses time.Now.
func WithClock(clock func() time.Time) Option {
	return func(a *Avatar) {
		a.clock = clock
	}
}

func New(backend Backend, registry anim.Registry, env locomotion.Environment, opts ...Option) *Avatar {
	a := &Avatar{
		backend:  backend,
		registry: registry,
		env:      env,
		resolver: locomotion.NewResolver(env, backend),
		clock:    time.Now,
		state:    locomotion.StateInAir,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SelectCharacter swaps in a new archetype. Every state bundle resets in
// one critical section: no stale velocity, debounce timestamp or blend
// survives into the new character's first tick.
func (a *Avatar) SelectCharacter(profile *locomotion.CharacterProfile, clips map[anim.Category]string) {
	if a == nil || profile == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.blender != nil {
		a.blender.Reset()
	}

	a.profile = profile
	a.clips = clips
	a.state = locomotion.StateInAir
	a.velocity = mathx.Vec3{}
	a.moving = false
	a.jumpDelay = anim.NewJumpDelay(profile.JumpDelay, a.state)
	a.blender = anim.NewBlender(a.registry, profile.BlendDuration)

	slog.Debug("Character selected", "name", profile.Name)
}

// PhysicsTick runs the locomotion side of one frame: support query, state
// transition, velocity resolution, integration, debounce. Call exactly once
// per frame, before RenderTick.
func (a *Avatar) PhysicsTick(dt float64, intent locomotion.Intent) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profile == nil || dt <= 0 {
		return
	}

	up := a.env.Up()
	support := a.backend.CheckSupport(dt, up.Scale(-1))
	a.state = locomotion.NextState(a.state, support, intent.Jump)

	a.yaw = locomotion.TurnToward(a.yaw, intent.Move, a.profile.RotationSpeed, a.profile.RotationSmoothing, dt)
	forward := locomotion.ForwardFromYaw(a.yaw)

	a.velocity = a.resolver.Resolve(a.state, dt, forward, a.velocity, a.profile, support, intent)
	a.backend.Integrate(dt, a.velocity, support, a.env.Gravity)

	a.jumpDelay.Observe(a.state, a.clock())
	a.moving = intent.Moving()
}

// RenderTick runs the animation side of one frame: category selection and
// blend advancement. Call exactly once per frame, after PhysicsTick, so it
// sees the already-updated locomotion state.
func (a *Avatar) RenderTick(now time.Time) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profile == nil {
		return
	}

	category := anim.SelectCategory(a.state, a.moving, a.jumpDelay.Delayed())
	a.blender.RequestClip(a.clips[category], now)
	a.blender.Advance(now)
}

// ResolveVelocity computes and stores the tick's velocity without handing
// it to the backend, for callers that integrate positions themselves.
func (a *Avatar) ResolveVelocity(dt float64, intent locomotion.Intent) mathx.Vec3 {
	if a == nil {
		return mathx.Vec3{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profile == nil || dt <= 0 {
		return a.velocity
	}

	up := a.env.Up()
	support := a.backend.CheckSupport(dt, up.Scale(-1))
	a.state = locomotion.NextState(a.state, support, intent.Jump)
	forward := locomotion.ForwardFromYaw(a.yaw)
	a.velocity = a.resolver.Resolve(a.state, dt, forward, a.velocity, a.profile, support, intent)

	a.jumpDelay.Observe(a.state, a.clock())
	a.moving = intent.Moving()
	return a.velocity
}

func (a *Avatar) CurrentState() locomotion.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Avatar) Velocity() mathx.Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.velocity
}

func (a *Avatar) Heading() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.yaw
}

func (a *Avatar) IsBlending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blender != nil && a.blender.Blending()
}

// CurrentClip returns the active clip name, empty before any clip started.
func (a *Avatar) CurrentClip() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.blender == nil {
		return ""
	}
	return a.blender.CurrentClip()
}

func (a *Avatar) Profile() *locomotion.CharacterProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile
}

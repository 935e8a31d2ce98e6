package locomotion

import (
	"math"

	"github.com/hexforge/stride/internal/mathx"
	"github.com/hexforge/stride/internal/physics"
)

// MovementResolver is the surface-aware steering primitive supplied by the
// physics backend. It blends currentVel toward desiredVel relative to the
// surface identified by normalOrUp.
type MovementResolver interface {
	ResolveMovement(dt float64, forward, normalOrUp, currentVel, surfaceVel, desiredVel, up mathx.Vec3) mathx.Vec3
}

// Environment carries world-level constants shared by every character.
type Environment struct {
	Gravity mathx.Vec3
}

// Up is the opposite of gravity, falling back to +Y in a zero-gravity world.
func (e Environment) Up() mathx.Vec3 {
	up := e.Gravity.Scale(-1).Normalize()
	if up.IsZero() {
		return mathx.Vec3{Y: 1}
	}
	return up
}

const (
	groundFrictionBase     = 0.95
	groundFrictionPerMass  = 0.02
	standstillDampingBase  = 0.9
	standstillDampPerMass  = 0.05
	airResistanceBase      = 0.98
	airResistancePerMass   = 0.01
	liftOffEpsilon         = 1e-3
	boostJumpHeight        = 10.0
	groundSpeedClampFactor = 2.0
)

// Resolver computes the per-tick velocity for one character. It never
// signals errors: out-of-domain inputs degrade to identity or clamped
// behavior so a frame can always complete.
type Resolver struct {
	env      Environment
	movement MovementResolver
}

func NewResolver(env Environment, movement MovementResolver) *Resolver {
	return &Resolver{env: env, movement: movement}
}

func (r *Resolver) Environment() Environment {
	return r.env
}

// Resolve dispatches on the locomotion state. The forward vector must be
// unit length; support is only consulted for the ground strategy.
func (r *Resolver) Resolve(state State, dt float64, forward, vel mathx.Vec3, profile *CharacterProfile, support physics.SupportInfo, intent Intent) mathx.Vec3 {
	if dt <= 0 || profile == nil {
		return vel
	}
	switch state {
	case StateOnGround:
		return r.resolveGround(dt, forward, vel, profile, support, intent)
	case StateStartJump:
		return r.resolveJumpLaunch(vel, profile, intent)
	default:
		return r.resolveAir(dt, forward, vel, profile, intent)
	}
}

func (r *Resolver) resolveGround(dt float64, forward, vel mathx.Vec3, profile *CharacterProfile, support physics.SupportInfo, intent Intent) mathx.Vec3 {
	mass := sanitizeMass(profile.Mass)
	speed := profile.GroundSpeed
	if intent.Boost {
		speed *= profile.BoostMultiplier
	}
	effectiveSpeed := speed / math.Sqrt(mass)

	up := r.env.Up()
	desired := worldRotate(intent.Move, forward, up).Scale(effectiveSpeed)

	v := vel
	if r.movement != nil {
		v = r.movement.ResolveMovement(dt, forward, support.SurfaceNormal, vel, support.SurfaceVelocity, desired, up)
	}
	v = v.Sub(support.SurfaceVelocity)

	v = v.Scale(groundFrictionBase + (mass-1.0)*groundFrictionPerMass)

	if maxSpeed := groundSpeedClampFactor * effectiveSpeed; v.Length() > maxSpeed {
		v = v.Normalize().Scale(maxSpeed)
	}

	if !intent.Moving() {
		v = v.Scale(standstillDampingBase + (mass-1.0)*standstillDampPerMass)
	}

	// About to lift off a slope: fold the velocity back onto the surface
	// plane, keeping its horizontal magnitude, and shed the vertical part.
	if v.Dot(up) > liftOffEpsilon {
		denom := support.SurfaceNormal.Dot(up)
		if denom > liftOffEpsilon {
			horizLen := v.Length() / denom
			dir := support.SurfaceNormal.Cross(v).Cross(up).Normalize()
			v = dir.Scale(horizLen)
		}
		return v.Sub(up.Scale(v.Dot(up)))
	}

	return v.Add(support.SurfaceVelocity)
}

func (r *Resolver) resolveAir(dt float64, forward, vel mathx.Vec3, profile *CharacterProfile, intent Intent) mathx.Vec3 {
	mass := sanitizeMass(profile.Mass)
	up := r.env.Up()

	v := vel
	// Without boost the trajectory is committed: no air control at all.
	if intent.Boost && r.movement != nil {
		effectiveSpeed := profile.AirSpeed * profile.BoostMultiplier / math.Sqrt(mass)
		desired := worldRotate(intent.Move, forward, up).Scale(effectiveSpeed)
		v = r.movement.ResolveMovement(dt, forward, up, v, mathx.Vec3{}, desired, up)
	}

	// Air resistance damps horizontal drift only; the vertical arc is
	// restored afterwards so jumps keep their shape.
	vertical := v.Dot(up)
	v = v.Scale(airResistanceBase - (mass-1.0)*airResistancePerMass)
	v = v.Sub(up.Scale(v.Dot(up))).Add(up.Scale(vertical))

	return v.Add(r.env.Gravity.Scale(dt))
}

func (r *Resolver) resolveJumpLaunch(vel mathx.Vec3, profile *CharacterProfile, intent Intent) mathx.Vec3 {
	mass := sanitizeMass(profile.Mass)
	height := profile.JumpHeight
	if intent.Boost {
		height = boostJumpHeight
	}
	height /= math.Sqrt(mass)
	if height < 0 {
		height = 0
	}

	requiredUpSpeed := math.Sqrt(2 * r.env.Gravity.Length() * height)
	up := r.env.Up()
	// Only the vertical component is replaced; horizontal momentum carries
	// through the launch untouched.
	return vel.Add(up.Scale(requiredUpSpeed - vel.Dot(up)))
}

// worldRotate maps planar intent into world space around the up axis:
// intent.Y along forward, intent.X along the right-hand perpendicular.
func worldRotate(move mathx.Vec2, forward, up mathx.Vec3) mathx.Vec3 {
	right := up.Cross(forward)
	return right.Scale(move.X).Add(forward.Scale(move.Y))
}

func sanitizeMass(mass float64) float64 {
	if mass <= 0 {
		return 1.0
	}
	return mass
}

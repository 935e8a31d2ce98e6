package locomotion

import (
	"math"

	"github.com/hexforge/stride/internal/mathx"
)

// TurnToward rotates the current yaw (degrees) toward the direction of the
// move intent. The turn is capped at rotationSpeed*dt degrees and softened
// by smoothing in [0,1): 0 snaps at full rate, values near 1 barely move.
// Intent below the moving threshold keeps the current heading.
func TurnToward(currentYaw float64, move mathx.Vec2, rotationSpeed, smoothing, dt float64) float64 {
	if dt <= 0 || move.Length() < MovingThreshold {
		return normalizeYaw(currentYaw)
	}

	targetYaw := math.Atan2(move.X, move.Y) * 180 / math.Pi
	delta := normalizeYaw(targetYaw - currentYaw)

	if smoothing > 0 && smoothing < 1 {
		delta *= 1 - smoothing
	}
	maxStep := rotationSpeed * dt
	if maxStep > 0 {
		if delta > maxStep {
			delta = maxStep
		} else if delta < -maxStep {
			delta = -maxStep
		}
	}
	return normalizeYaw(currentYaw + delta)
}

// ForwardFromYaw converts a yaw in degrees into a unit forward vector in a
// Y-up world; yaw 0 faces +Z, positive yaw turns toward +X.
func ForwardFromYaw(yaw float64) mathx.Vec3 {
	rad := yaw * math.Pi / 180
	return mathx.Vec3{X: math.Sin(rad), Z: math.Cos(rad)}
}

func normalizeYaw(v float64) float64 {
	for v <= -180 {
		v += 360
	}
	for v > 180 {
		v -= 360
	}
	return v
}

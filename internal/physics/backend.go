package physics

import (
	"math"

	"github.com/hexforge/stride/internal/mathx"
)

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

// MovingSurface is optionally implemented by block stores whose cells carry
// their own velocity (conveyors, moving platforms). The backend averages the
// reported velocities over all support contacts.
type MovingSurface interface {
	SurfaceVelocity(x, y, z int) mathx.Vec3
}

type AABB struct {
	Min mathx.Vec3
	Max mathx.Vec3
}

const (
	DefaultHalfWidth = 0.4
	DefaultHeight    = 1.8

	// DefaultSteerRate controls how quickly ResolveMovement approaches the
	// desired velocity; the approach is exponential in rate*dt.
	DefaultSteerRate = 12.0

	groundProbeDistance = 0.001
	axisTolerance       = 1e-9

	axisX = 0
	axisY = 1
	axisZ = 2
)

// Backend is a reference block-grid physics backend. It owns the avatar's
// position; velocity stays with the locomotion layer and is handed in on
// every Integrate call. The grid is Y-up with unit cells.
type Backend struct {
	blocks    BlockStore
	pos       mathx.Vec3
	halfWidth float64
	height    float64
	steerRate float64
}

func NewBackend(blocks BlockStore, start mathx.Vec3) *Backend {
	return &Backend{
		blocks:    blocks,
		pos:       start,
		halfWidth: DefaultHalfWidth,
		height:    DefaultHeight,
		steerRate: DefaultSteerRate,
	}
}

func (b *Backend) Position() mathx.Vec3 {
	return b.pos
}

func (b *Backend) SetPosition(pos mathx.Vec3) {
	b.pos = pos
}

// CheckSupport probes just below the avatar's box and reports contact with
// cell tops. Grid cell faces are flat, so the averaged normal is simply the
// opposite of the probe direction.
func (b *Backend) CheckSupport(dt float64, down mathx.Vec3) SupportInfo {
	info := SupportInfo{SurfaceNormal: down.Scale(-1).Normalize()}
	if info.SurfaceNormal.IsZero() {
		info.SurfaceNormal = mathx.Vec3{Y: 1}
	}
	if b.blocks == nil {
		return info
	}

	box := b.box()
	y := int(math.Floor(box.Min.Y - groundProbeDistance))
	minX, maxX := cellMin(box.Min.X), cellMax(box.Max.X)
	minZ, maxZ := cellMin(box.Min.Z), cellMax(box.Max.Z)

	surface, hasSurface := b.blocks.(MovingSurface)
	var vel mathx.Vec3
	contacts := 0
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			if !b.blocks.IsSolid(x, y, z) {
				continue
			}
			if box.Min.Y-float64(y+1) > groundProbeDistance {
				continue
			}
			contacts++
			if hasSurface {
				vel = vel.Add(surface.SurfaceVelocity(x, y, z))
			}
		}
	}
	if contacts == 0 {
		return info
	}

	info.Supported = true
	info.SurfaceVelocity = vel.Scale(1 / float64(contacts))
	return info
}

// ResolveMovement steers the current velocity toward the desired one,
// expressed relative to the moving surface and constrained to its plane.
func (b *Backend) ResolveMovement(dt float64, forward, normalOrUp, currentVel, surfaceVel, desiredVel, up mathx.Vec3) mathx.Vec3 {
	if dt <= 0 {
		return currentVel
	}
	normal := normalOrUp.Normalize()
	if normal.IsZero() {
		normal = up
	}
	target := desiredVel.ProjectOnPlane(normal).Add(surfaceVel)
	alpha := 1 - math.Exp(-b.steerRate*dt)
	return currentVel.Add(target.Sub(currentVel).Scale(alpha))
}

// Integrate moves the avatar by velocity*dt, clipping each axis against
// solid cells. Vertical motion resolves first so landings do not eat
// horizontal travel.
func (b *Backend) Integrate(dt float64, velocity mathx.Vec3, support SupportInfo, gravity mathx.Vec3) {
	if dt <= 0 {
		return
	}
	delta := velocity.Scale(dt)
	b.pos.Y += b.clipAxis(axisY, delta.Y)
	b.pos.X += b.clipAxis(axisX, delta.X)
	b.pos.Z += b.clipAxis(axisZ, delta.Z)
}

// clipAxis returns how far the box may travel along one axis before hitting
// a solid cell face.
func (b *Backend) clipAxis(axis int, delta float64) float64 {
	if b.blocks == nil || math.Abs(delta) <= axisTolerance {
		return delta
	}

	box := b.box()
	min := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	max := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	var lo, hi [3]int
	for i := range 3 {
		lo[i] = cellMin(min[i])
		hi[i] = cellMax(max[i])
	}
	// along the moving axis, only cells the box may newly overlap
	if delta > 0 {
		lo[axis] = int(math.Floor(max[axis]))
		hi[axis] = int(math.Floor(max[axis] + delta))
	} else {
		lo[axis] = int(math.Floor(min[axis] + delta))
		hi[axis] = int(math.Floor(min[axis] - axisTolerance))
	}

	allowed := delta
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				if !b.blocks.IsSolid(x, y, z) {
					continue
				}
				cell := [3]float64{float64(x), float64(y), float64(z)}
				if delta > 0 {
					if gap := cell[axis] - max[axis]; gap < allowed {
						allowed = gap
					}
				} else {
					if gap := cell[axis] + 1 - min[axis]; gap > allowed {
						allowed = gap
					}
				}
			}
		}
	}

	if delta > 0 && allowed < 0 {
		return 0
	}
	if delta < 0 && allowed > 0 {
		return 0
	}
	return allowed
}

func (b *Backend) box() AABB {
	return AABB{
		Min: mathx.Vec3{X: b.pos.X - b.halfWidth, Y: b.pos.Y, Z: b.pos.Z - b.halfWidth},
		Max: mathx.Vec3{X: b.pos.X + b.halfWidth, Y: b.pos.Y + b.height, Z: b.pos.Z + b.halfWidth},
	}
}

func cellMin(v float64) int {
	return int(math.Floor(v + axisTolerance))
}

func cellMax(v float64) int {
	return int(math.Floor(v - axisTolerance))
}

package physics

import "github.com/hexforge/stride/internal/mathx"

// SupportInfo is the per-tick contact report the locomotion layer consumes.
// SurfaceNormal and SurfaceVelocity are averages over all contacts and are
// only meaningful while Supported is true.
type SupportInfo struct {
	Supported       bool
	SurfaceNormal   mathx.Vec3
	SurfaceVelocity mathx.Vec3
}

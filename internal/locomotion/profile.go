package locomotion

import (
	"time"

	"github.com/hexforge/stride/internal/mathx"
)

// ClipTable holds the clip names authored for an archetype, one per
// animation category. Names are matched against the registry's actual clips
// at catalog load time.
type ClipTable struct {
	Idle string
	Walk string
	Jump string
}

// CharacterProfile is the static tuning data of one archetype. Profiles are
// immutable after load and shared by reference; a character switch swaps the
// whole profile, never individual fields.
type CharacterProfile struct {
	Name string

	Mass            float64
	GroundSpeed     float64
	AirSpeed        float64
	BoostMultiplier float64
	JumpHeight      float64

	// RotationSpeed is the maximum turn rate in degrees per second;
	// RotationSmoothing in [0,1) softens the approach to the target heading.
	RotationSpeed     float64
	RotationSmoothing float64

	BlendDuration time.Duration
	JumpDelay     time.Duration

	Clips ClipTable
}

// Intent is the normalized per-tick input report: Move.X strafes right,
// Move.Y moves forward, both in [-1,1].
type Intent struct {
	Move  mathx.Vec2
	Jump  bool
	Boost bool
}

// MovingThreshold is the intent magnitude below which the avatar counts as
// standing still, for both extra ground damping and animation selection.
const MovingThreshold = 0.1

func (in Intent) Moving() bool {
	return in.Move.Length() >= MovingThreshold
}

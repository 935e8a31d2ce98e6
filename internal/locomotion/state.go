package locomotion

import "github.com/hexforge/stride/internal/physics"

// State is the physics regime the avatar is currently in.
type State int

const (
	// StateInAir is the ballistic regime: gravity and air resistance only,
	// unless boost gives air control.
	StateInAir State = iota
	// StateOnGround is surface-relative movement over a supporting surface.
	StateOnGround
	// StateStartJump lasts exactly one tick: it injects the jump impulse and
	// hands over to StateInAir.
	StateStartJump
)

func (s State) String() string {
	switch s {
	case StateInAir:
		return "in_air"
	case StateOnGround:
		return "on_ground"
	case StateStartJump:
		return "start_jump"
	default:
		return "unknown"
	}
}

// NextState is the locomotion transition function. It is pure and total:
// every (state, support, wantJump) combination maps to a defined successor.
func NextState(current State, support physics.SupportInfo, wantJump bool) State {
	switch current {
	case StateOnGround:
		if !support.Supported {
			return StateInAir
		}
		if wantJump {
			return StateStartJump
		}
		return StateOnGround
	case StateStartJump:
		return StateInAir
	default:
		if support.Supported {
			return StateOnGround
		}
		return StateInAir
	}
}

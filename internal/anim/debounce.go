package anim

import (
	"time"

	"github.com/hexforge/stride/internal/locomotion"
)

// JumpDelay gates the jump clip for a fixed window after the avatar goes
// airborne. A deliberate jump and an accidental ledge fall both enter the
// air state; holding the previous clip briefly spares the ledge fall a
// jarring pose snap.
type JumpDelay struct {
	delay   time.Duration
	delayed bool
	since   time.Time
	last    locomotion.State
}

func NewJumpDelay(delay time.Duration, initial locomotion.State) *JumpDelay {
	return &JumpDelay{delay: delay, last: initial}
}

// Observe must run once per physics tick with the already-updated state.
func (j *JumpDelay) Observe(state locomotion.State, now time.Time) {
	switch {
	case state == locomotion.StateInAir && j.last != locomotion.StateInAir:
		j.delayed = true
		j.since = now
	case state != locomotion.StateInAir:
		j.delayed = false
	case j.delayed && now.Sub(j.since) >= j.delay:
		j.delayed = false
	}
	j.last = state
}

func (j *JumpDelay) Delayed() bool {
	return j.delayed
}

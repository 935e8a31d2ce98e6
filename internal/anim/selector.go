package anim

import "github.com/hexforge/stride/internal/locomotion"

// Category is a semantic animation bucket, independent of how concrete
// clips are named in any particular asset.
type Category int

const (
	CategoryIdle Category = iota
	CategoryWalk
	CategoryJump
)

func (c Category) String() string {
	switch c {
	case CategoryIdle:
		return "idle"
	case CategoryWalk:
		return "walk"
	case CategoryJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Categories lists every bucket, in a stable order.
func Categories() []Category {
	return []Category{CategoryIdle, CategoryWalk, CategoryJump}
}

// SelectCategory maps the already-resolved locomotion output to a clip
// category. The jump delay suppresses the jump pose right after going
// airborne so ledge falls don't snap.
func SelectCategory(state locomotion.State, isMoving, isJumpDelayed bool) Category {
	if state == locomotion.StateInAir && !isJumpDelayed {
		return CategoryJump
	}
	if isMoving {
		return CategoryWalk
	}
	return CategoryIdle
}

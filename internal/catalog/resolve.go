package catalog

import (
	"strings"

	"github.com/hexforge/stride/internal/anim"
	"github.com/hexforge/stride/internal/locomotion"
)

// categoryKeywords is the last-resort matching vocabulary per category,
// tried in order.
var categoryKeywords = map[anim.Category][]string{
	anim.CategoryIdle: {"idle", "stand"},
	anim.CategoryWalk: {"walk", "run", "move"},
	anim.CategoryJump: {"jump", "leap", "hop"},
}

// ResolveClips matches an archetype's authored clip names against the clips
// a registry actually has, once, at load time. The per-tick path only ever
// does a map lookup on the result. A category that resolves to nothing is
// simply absent: requesting it later is a silent no-op.
//
// Matching order per category: exact name, case-insensitive substring in
// either direction, then category keywords.
func ResolveClips(table locomotion.ClipTable, available []string) map[anim.Category]string {
	authored := map[anim.Category]string{
		anim.CategoryIdle: table.Idle,
		anim.CategoryWalk: table.Walk,
		anim.CategoryJump: table.Jump,
	}
	out := make(map[anim.Category]string, len(authored))
	for _, cat := range anim.Categories() {
		if clip, ok := resolveClip(authored[cat], cat, available); ok {
			out[cat] = clip
		}
	}
	return out
}

func resolveClip(want string, cat anim.Category, available []string) (string, bool) {
	for _, clip := range available {
		if clip == want && clip != "" {
			return clip, true
		}
	}

	if lw := strings.ToLower(want); lw != "" {
		for _, clip := range available {
			lc := strings.ToLower(clip)
			if lc == "" {
				continue
			}
			if strings.Contains(lc, lw) || strings.Contains(lw, lc) {
				return clip, true
			}
		}
	}

	for _, keyword := range categoryKeywords[cat] {
		for _, clip := range available {
			if strings.Contains(strings.ToLower(clip), keyword) {
				return clip, true
			}
		}
	}

	return "", false
}

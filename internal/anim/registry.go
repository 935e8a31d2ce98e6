package anim

import "sort"

// MemoryRegistry is a Registry that tracks playback state in memory. The
// demo console renders from it and tests assert against it; an engine
// integration would implement Registry over real clip handles instead.
type MemoryRegistry struct {
	clips   []string
	playing map[string]bool
	weights map[string]float64
}

func NewMemoryRegistry(clips ...string) *MemoryRegistry {
	return &MemoryRegistry{
		clips:   append([]string(nil), clips...),
		playing: make(map[string]bool),
		weights: make(map[string]float64),
	}
}

// Clips returns the names of every clip the registry can play.
func (r *MemoryRegistry) Clips() []string {
	return append([]string(nil), r.clips...)
}

func (r *MemoryRegistry) Start(clipID string) {
	r.playing[clipID] = true
}

func (r *MemoryRegistry) Stop(clipID string) {
	delete(r.playing, clipID)
	delete(r.weights, clipID)
}

func (r *MemoryRegistry) SetWeight(clipID string, weight float64) {
	r.weights[clipID] = weight
}

func (r *MemoryRegistry) Playing(clipID string) bool {
	return r.playing[clipID]
}

func (r *MemoryRegistry) Weight(clipID string) float64 {
	return r.weights[clipID]
}

// Active lists the currently playing clips in a stable order.
func (r *MemoryRegistry) Active() []string {
	out := make([]string, 0, len(r.playing))
	for clip := range r.playing {
		out = append(out, clip)
	}
	sort.Strings(out)
	return out
}

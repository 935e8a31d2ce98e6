// Package sim runs any number of controlled avatars over a shared tick
// schedule. Each character is an ECS entity so callers can spawn, query and
// despawn them without the sim tracking its own bookkeeping.
package sim

import (
	"time"

	"github.com/yohamta/donburi"

	"github.com/hexforge/stride/internal/avatar"
	"github.com/hexforge/stride/internal/locomotion"
)

type CharacterData struct {
	Name   string
	Avatar *avatar.Avatar
	Intent locomotion.Intent
}

var Character = donburi.NewComponentType[CharacterData]()

type World struct {
	world donburi.World
}

func NewWorld() *World {
	return &World{world: donburi.NewWorld()}
}

func (w *World) Spawn(name string, av *avatar.Avatar) *donburi.Entry {
	entity := w.world.Create(Character)
	entry := w.world.Entry(entity)
	Character.Set(entry, &CharacterData{Name: name, Avatar: av})
	return entry
}

func (w *World) Despawn(entry *donburi.Entry) {
	w.world.Remove(entry.Entity())
}

// SetIntent stores the input report the next Step will consume.
func (w *World) SetIntent(entry *donburi.Entry, intent locomotion.Intent) {
	Character.Get(entry).Intent = intent
}

func (w *World) Count() int {
	return countEntities(w.world)
}

// Step advances one frame for every character: all physics ticks first,
// then all render ticks, so every animation layer observes already-updated
// locomotion state.
func (w *World) Step(dt float64, now time.Time) {
	Character.Each(w.world, func(entry *donburi.Entry) {
		c := Character.Get(entry)
		c.Avatar.PhysicsTick(dt, c.Intent)
	})
	Character.Each(w.world, func(entry *donburi.Entry) {
		Character.Get(entry).Avatar.RenderTick(now)
	})
}

func countEntities(world donburi.World) int {
	n := 0
	Character.Each(world, func(*donburi.Entry) {
		n++
	})
	return n
}

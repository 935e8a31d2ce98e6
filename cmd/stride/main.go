package main

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yohamta/donburi"

	"github.com/hexforge/stride/internal/anim"
	"github.com/hexforge/stride/internal/avatar"
	"github.com/hexforge/stride/internal/catalog"
	"github.com/hexforge/stride/internal/config"
	"github.com/hexforge/stride/internal/debug"
	"github.com/hexforge/stride/internal/locomotion"
	"github.com/hexforge/stride/internal/logger"
	"github.com/hexforge/stride/internal/mathx"
	"github.com/hexforge/stride/internal/physics"
	"github.com/hexforge/stride/internal/sim"
)

func main() {
	path := "configs/config.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("Failed to load character catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Character catalog loaded", "path", cfg.Catalog.Path, "characters", len(cat.Names()))

	registry := anim.NewMemoryRegistry(clipLibrary(cat)...)
	env := locomotion.Environment{Gravity: mathx.Vec3{Y: -cfg.World.Gravity}}
	backend := physics.NewBackend(demoTerrain{}, mathx.Vec3{X: 0.5, Y: 0, Z: 0.5})
	player := avatar.New(backend, registry, env)

	deck := newCharacterDeck(cat, registry, player)
	name, err := deck.selectCharacter(cfg.Catalog.Character)
	if err != nil {
		slog.Error("Failed to select character", "error", err)
		os.Exit(1)
	}

	if cfg.Catalog.Watch {
		watcher, err := catalog.Watch(cfg.Catalog.Path)
		if err != nil {
			slog.Warn("Catalog watching unavailable", "error", err)
		} else {
			defer watcher.Close()
			go deck.applyReloads(ctx, watcher)
		}
	}

	world := sim.NewWorld()
	companions := spawnCompanions(world, cat, env)
	go runCompanions(ctx, world, companions, cfg.World.TickRate)

	console := debug.NewConsole(player, backend, deck, name)
	if err := console.Start(ctx); err != nil {
		slog.Error("Console failed", "error", err)
		os.Exit(1)
	}
}

// clipLibrary gathers every authored clip name so the demo registry can
// stand in for a real rig.
func clipLibrary(cat *catalog.Catalog) []string {
	seen := make(map[string]bool)
	var clips []string
	for _, name := range cat.Names() {
		profile, _ := cat.Profile(name)
		for _, clip := range []string{profile.Clips.Idle, profile.Clips.Walk, profile.Clips.Jump} {
			if clip == "" || seen[clip] {
				continue
			}
			seen[clip] = true
			clips = append(clips, clip)
		}
	}
	return clips
}

// demoTerrain is a flat floor with a step and a wall to walk into.
type demoTerrain struct{}

func (demoTerrain) IsSolid(x, y, z int) bool {
	if y < 0 {
		return true
	}
	if z >= 6 && z < 8 && y == 0 {
		return true
	}
	return z == 14 && y < 4
}

func spawnCompanions(world *sim.World, cat *catalog.Catalog, env locomotion.Environment) []*donburi.Entry {
	names := cat.Names()
	var entries []*donburi.Entry
	for i := 0; i < 2 && i < len(names); i++ {
		profile, _ := cat.Profile(names[i])
		reg := anim.NewMemoryRegistry(profile.Clips.Idle, profile.Clips.Walk, profile.Clips.Jump)
		backend := physics.NewBackend(demoTerrain{}, mathx.Vec3{X: float64(3 + 2*i), Y: 0, Z: 0.5})
		companion := avatar.New(backend, reg, env)
		companion.SelectCharacter(profile, catalog.ResolveClips(profile.Clips, reg.Clips()))
		entries = append(entries, world.Spawn(names[i], companion))
	}
	return entries
}

// runCompanions wanders the sim characters with short random walk pulses,
// stepping physics before render each frame.
func runCompanions(ctx context.Context, world *sim.World, companions []*donburi.Entry, tickRate int) {
	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dt := interval.Seconds()
	wander := make([]wanderState, len(companions))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for i, entry := range companions {
				world.SetIntent(entry, wander[i].next(rng))
			}
			world.Step(dt, now)
		}
	}
}

type wanderState struct {
	walkTicks int
	heading   mathx.Vec2
}

func (w *wanderState) next(rng *rand.Rand) locomotion.Intent {
	if w.walkTicks == 0 && rng.Intn(40) == 0 {
		w.walkTicks = 10 + rng.Intn(20)
		angle := rng.Float64() * 2 * math.Pi
		w.heading = mathx.Vec2{X: math.Sin(angle), Y: math.Cos(angle)}
	}
	if w.walkTicks == 0 {
		return locomotion.Intent{}
	}
	w.walkTicks--
	return locomotion.Intent{Move: w.heading}
}

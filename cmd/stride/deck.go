package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hexforge/stride/internal/anim"
	"github.com/hexforge/stride/internal/avatar"
	"github.com/hexforge/stride/internal/catalog"
)

// characterDeck holds the active catalog and swaps the controlled avatar
// between its archetypes. Reloads re-apply the current selection so edits
// to the YAML show up without restarting.
type characterDeck struct {
	registry *anim.MemoryRegistry
	avatar   *avatar.Avatar

	mu      sync.Mutex
	catalog *catalog.Catalog
	current string
}

func newCharacterDeck(cat *catalog.Catalog, registry *anim.MemoryRegistry, av *avatar.Avatar) *characterDeck {
	return &characterDeck{
		registry: registry,
		avatar:   av,
		catalog:  cat,
	}
}

// selectCharacter applies the named archetype, defaulting to the first one
// in the catalog when name is empty.
func (d *characterDeck) selectCharacter(name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name == "" {
		names := d.catalog.Names()
		if len(names) == 0 {
			return "", fmt.Errorf("character catalog is empty")
		}
		name = names[0]
	}
	if err := d.applyLocked(name); err != nil {
		return "", err
	}
	return name, nil
}

// CycleCharacter advances to the next archetype in catalog order.
func (d *characterDeck) CycleCharacter() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := d.catalog.Names()
	if len(names) == 0 {
		return d.current
	}
	next := names[0]
	for i, name := range names {
		if name == d.current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := d.applyLocked(next); err != nil {
		slog.Warn("Character switch failed", "character", next, "error", err)
		return d.current
	}
	return next
}

// applyReloads swaps in freshly loaded catalogs and re-selects the current
// character so profile edits take effect immediately.
func (d *characterDeck) applyReloads(ctx context.Context, watcher *catalog.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case cat, ok := <-watcher.Catalogs:
			if !ok {
				return
			}
			d.mu.Lock()
			d.catalog = cat
			name := d.current
			if _, found := cat.Profile(name); !found {
				names := cat.Names()
				if len(names) == 0 {
					d.mu.Unlock()
					continue
				}
				name = names[0]
			}
			if err := d.applyLocked(name); err != nil {
				slog.Warn("Character re-select after reload failed", "character", name, "error", err)
			}
			d.mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Catalog watcher error", "error", err)
		}
	}
}

func (d *characterDeck) applyLocked(name string) error {
	profile, ok := d.catalog.Profile(name)
	if !ok {
		return fmt.Errorf("unknown character %q", name)
	}
	clips := catalog.ResolveClips(profile.Clips, d.registry.Clips())
	d.avatar.SelectCharacter(profile, clips)
	d.current = name
	return nil
}

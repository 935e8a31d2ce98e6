package catalog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hexforge/stride/internal/locomotion"
)

type archetypeFile struct {
	Characters []archetypeEntry `yaml:"characters"`
}

type archetypeEntry struct {
	Name              string  `yaml:"name"`
	Mass              float64 `yaml:"mass"`
	GroundSpeed       float64 `yaml:"ground_speed"`
	AirSpeed          float64 `yaml:"air_speed"`
	BoostMultiplier   float64 `yaml:"boost_multiplier"`
	JumpHeight        float64 `yaml:"jump_height"`
	RotationSpeed     float64 `yaml:"rotation_speed"`
	RotationSmoothing float64 `yaml:"rotation_smoothing"`
	BlendDurationMs   int     `yaml:"blend_duration_ms"`
	JumpDelayMs       int     `yaml:"jump_delay_ms"`
	Clips             struct {
		Idle string `yaml:"idle"`
		Walk string `yaml:"walk"`
		Jump string `yaml:"jump"`
	} `yaml:"clips"`
}

// Catalog holds the loaded character archetypes. Profiles are immutable;
// a reload produces a fresh Catalog rather than mutating this one.
type Catalog struct {
	profiles map[string]*locomotion.CharacterProfile
	order    []string
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read character catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var file archetypeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse character catalog: %w", err)
	}
	if len(file.Characters) == 0 {
		return nil, fmt.Errorf("character catalog is empty")
	}

	c := &Catalog{profiles: make(map[string]*locomotion.CharacterProfile, len(file.Characters))}
	for _, entry := range file.Characters {
		if entry.Name == "" {
			return nil, fmt.Errorf("character catalog entry without a name")
		}
		if _, dup := c.profiles[entry.Name]; dup {
			return nil, fmt.Errorf("duplicate character %q", entry.Name)
		}
		boost := entry.BoostMultiplier
		if boost == 0 {
			boost = 1
		}
		c.profiles[entry.Name] = &locomotion.CharacterProfile{
			Name:              entry.Name,
			Mass:              entry.Mass,
			GroundSpeed:       entry.GroundSpeed,
			AirSpeed:          entry.AirSpeed,
			BoostMultiplier:   boost,
			JumpHeight:        entry.JumpHeight,
			RotationSpeed:     entry.RotationSpeed,
			RotationSmoothing: entry.RotationSmoothing,
			BlendDuration:     time.Duration(entry.BlendDurationMs) * time.Millisecond,
			JumpDelay:         time.Duration(entry.JumpDelayMs) * time.Millisecond,
			Clips: locomotion.ClipTable{
				Idle: entry.Clips.Idle,
				Walk: entry.Clips.Walk,
				Jump: entry.Clips.Jump,
			},
		}
		c.order = append(c.order, entry.Name)
	}
	return c, nil
}

func (c *Catalog) Profile(name string) (*locomotion.CharacterProfile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

// Names returns the archetype names in file order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Package debug provides an interactive terminal console for driving one
// avatar by hand: movement keys pulse intent, and a status line shows the
// locomotion state and animation output live.
package debug

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/hexforge/stride/internal/locomotion"
	"github.com/hexforge/stride/internal/mathx"
)

const (
	defaultTickInterval = 50 * time.Millisecond
	defaultMovePulse    = 180 * time.Millisecond
)

// ControlledAvatar is the slice of the avatar surface the console needs.
type ControlledAvatar interface {
	PhysicsTick(dt float64, intent locomotion.Intent)
	RenderTick(now time.Time)
	CurrentState() locomotion.State
	CurrentClip() string
	IsBlending() bool
	Velocity() mathx.Vec3
}

// PositionProvider reports where the physics backend put the avatar.
type PositionProvider interface {
	Position() mathx.Vec3
}

// CharacterCycler swaps the controlled avatar to the next archetype and
// returns its name.
type CharacterCycler interface {
	CycleCharacter() string
}

type Console struct {
	avatar       ControlledAvatar
	position     PositionProvider
	cycler       CharacterCycler
	tickInterval time.Duration
	movePulse    time.Duration

	mu            sync.Mutex
	characterName string
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	jumpUntil     time.Time
	boost         bool
	statusWidth   int
}

func NewConsole(avatar ControlledAvatar, position PositionProvider, cycler CharacterCycler, characterName string) *Console {
	return &Console{
		avatar:        avatar,
		position:      position,
		cycler:        cycler,
		characterName: characterName,
		tickInterval:  defaultTickInterval,
		movePulse:     defaultMovePulse,
	}
}

// Start takes over the terminal until the context ends or Q is pressed.
func (c *Console) Start(ctx context.Context) error {
	if c == nil || c.avatar == nil {
		return fmt.Errorf("console avatar is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Print("\r\n")
	}()

	fmt.Print("[stride] console started (W/A/S/D pulse, Space jump, ] boost, C switch character, X stop, Q quit)\r\n")
	c.renderStatusLine()

	tickCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.tickLoop(tickCtx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if quit := c.handleKey(b); quit {
			return nil
		}
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	dt := c.tickInterval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.avatar.PhysicsTick(dt, c.currentIntent(now))
			c.avatar.RenderTick(now)
			c.renderStatusLine()
		}
	}
}

func (c *Console) handleKey(b byte) bool {
	switch b {
	case 'w', 'W':
		c.pulse(&c.forwardUntil)
	case 's', 'S':
		c.pulse(&c.backwardUntil)
	case 'a', 'A':
		c.pulse(&c.leftUntil)
	case 'd', 'D':
		c.pulse(&c.rightUntil)
	case ' ':
		c.pulse(&c.jumpUntil)
	case ']':
		c.mu.Lock()
		c.boost = !c.boost
		c.mu.Unlock()
	case 'x', 'X':
		c.mu.Lock()
		c.forwardUntil = time.Time{}
		c.backwardUntil = time.Time{}
		c.leftUntil = time.Time{}
		c.rightUntil = time.Time{}
		c.jumpUntil = time.Time{}
		c.boost = false
		c.mu.Unlock()
	case 'c', 'C':
		if c.cycler != nil {
			name := c.cycler.CycleCharacter()
			c.mu.Lock()
			c.characterName = name
			c.mu.Unlock()
		}
	case 'q', 'Q', 3: // Ctrl-C in raw mode arrives as byte 3
		return true
	}
	c.renderStatusLine()
	return false
}

func (c *Console) pulse(until *time.Time) {
	c.mu.Lock()
	*until = time.Now().Add(c.movePulse)
	c.mu.Unlock()
}

func (c *Console) currentIntent(now time.Time) locomotion.Intent {
	c.mu.Lock()
	defer c.mu.Unlock()

	var move mathx.Vec2
	if now.Before(c.forwardUntil) {
		move.Y += 1
	}
	if now.Before(c.backwardUntil) {
		move.Y -= 1
	}
	if now.Before(c.rightUntil) {
		move.X += 1
	}
	if now.Before(c.leftUntil) {
		move.X -= 1
	}
	if move.Length() > 1 {
		move = move.Normalize()
	}

	return locomotion.Intent{
		Move:  move,
		Jump:  now.Before(c.jumpUntil),
		Boost: c.boost,
	}
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	name := c.characterName
	boost := c.boost
	width := c.statusWidth
	c.mu.Unlock()

	clip := c.avatar.CurrentClip()
	if clip == "" {
		clip = "-"
	}
	blend := " "
	if c.avatar.IsBlending() {
		blend = "~"
	}
	var pos mathx.Vec3
	if c.position != nil {
		pos = c.position.Position()
	}
	boostTag := ""
	if boost {
		boostTag = " BOOST"
	}

	line := fmt.Sprintf("[%s] %-11s %s%-14s spd=%5.1f pos=(%.1f,%.1f,%.1f)%s",
		name, c.avatar.CurrentState(), blend, clip,
		c.avatar.Velocity().Length(), pos.X, pos.Y, pos.Z, boostTag)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()

	if pad := width - len(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	fmt.Printf("\r%s", line)
}

package object

import (
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// PlayerState is the damage state of the ship.
type PlayerState int

const (
	PlayerAlive     PlayerState = iota // Normal
	PlayerExploding                    // Hit, invulnerable until the window closes
	PlayerDead                         // No lives left and the window has closed
)

func (s PlayerState) String() string {
	switch s {
	case PlayerAlive:
		return "alive"
	case PlayerExploding:
		return "exploding"
	case PlayerDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Player is the ship at the bottom of the screen. It only moves horizontally.
type Player struct {
	Body
	Width  float64
	Height float64
	Speed  float64
	Lives  int

	explodeTime    time.Duration
	exploding      bool
	explodingUntil time.Time
}

// NewPlayer creates a ship centered horizontally near the bottom of the screen.
func NewPlayer(id ID, cfg config.PlayerConfig, screen Screen) *Player {
	return &Player{
		Body: Body{
			ID: id,
			Pos: physics.Vector2{
				X: screen.Width/2 - cfg.Width/2,
				Y: screen.Height - cfg.Height - cfg.BottomOffset,
			},
		},
		Width:       cfg.Width,
		Height:      cfg.Height,
		Speed:       cfg.Speed,
		Lives:       cfg.Lives,
		explodeTime: cfg.ExplodeTime,
	}
}

// Kind implements Entity.
func (p *Player) Kind() Kind {
	return KindPlayer
}

// Bounds implements Entity.
func (p *Player) Bounds() physics.Rect {
	return physics.Rect{X: p.Pos.X, Y: p.Pos.Y, W: p.Width, H: p.Height}
}

// Steer sets the horizontal velocity from the held direction inputs.
// Left wins when both are held.
func (p *Player) Steer(left, right bool) {
	switch {
	case left:
		p.Vel.X = -p.Speed
	case right:
		p.Vel.X = p.Speed
	default:
		p.Vel.X = 0
	}
}

// Update moves the ship and clamps it to [0, screen.Width - Width].
func (p *Player) Update(dt float64, screen Screen) {
	p.Advance(dt)
	p.Pos.X = physics.Clamp(p.Pos.X, 0, screen.Width-p.Width)
}

// Muzzle is where player shots spawn: horizontal center, top edge.
func (p *Player) Muzzle() physics.Vector2 {
	return physics.Vector2{X: p.Pos.X + p.Width/2, Y: p.Pos.Y}
}

// Exploding reports whether the hit window is active.
func (p *Player) Exploding() bool {
	return p.exploding
}

// State returns the current damage state.
func (p *Player) State() PlayerState {
	switch {
	case p.exploding:
		return PlayerExploding
	case p.Lives <= 0:
		return PlayerDead
	default:
		return PlayerAlive
	}
}

// Hit applies one point of damage and opens the exploding window.
// Ignored while exploding or out of lives; returns whether it was applied.
func (p *Player) Hit(now time.Time) bool {
	if p.exploding || p.Lives <= 0 {
		return false
	}
	p.Lives--
	p.exploding = true
	p.explodingUntil = now.Add(p.explodeTime)
	return true
}

// Recover closes the exploding window once it has elapsed.
// Returns true only on the call that closes it.
func (p *Player) Recover(now time.Time) bool {
	if !p.exploding || now.Before(p.explodingUntil) {
		return false
	}
	p.exploding = false
	return true
}

// Package object defines the simulated bodies: the player ship, invaders and their
// formations, both projectile families, and purely visual stars and particles.
package object

import (
	"github.com/tomz197/invaders/internal/physics"
)

// ID is a stable handle for an entity. Zero is never issued.
type ID uint64

// IDSource hands out entity handles. Owned by a single session.
type IDSource struct {
	next ID
}

// Next returns a fresh, never reused handle.
func (s *IDSource) Next() ID {
	s.next++
	return s.next
}

// Kind tags an entity for collision filtering and rendering.
type Kind int

const (
	KindPlayer Kind = iota
	KindInvader
	KindPlayerShot
	KindEnemyShot
	KindStar
	KindParticle
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindInvader:
		return "invader"
	case KindPlayerShot:
		return "player-shot"
	case KindEnemyShot:
		return "enemy-shot"
	case KindStar:
		return "star"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Entity is any simulated body.
type Entity interface {
	EntityID() ID
	Kind() Kind
	Position() physics.Vector2
	Velocity() physics.Vector2
	// Bounds returns the axis-aligned box used for overlap tests.
	Bounds() physics.Rect
	// Advance applies position += velocity * dt.
	Advance(dt float64)
}

// Screen is the logical viewport used for boundary checks.
type Screen struct {
	Width  float64
	Height float64
}

// Body carries the state shared by every entity.
type Body struct {
	ID  ID
	Pos physics.Vector2
	Vel physics.Vector2
}

// EntityID returns the entity's stable handle.
func (b *Body) EntityID() ID {
	return b.ID
}

// Position returns the current position.
func (b *Body) Position() physics.Vector2 {
	return b.Pos
}

// Velocity returns the current velocity.
func (b *Body) Velocity() physics.Vector2 {
	return b.Vel
}

// Advance integrates the body one step with explicit Euler.
func (b *Body) Advance(dt float64) {
	b.Pos = physics.Integrate(b.Pos, b.Vel, dt)
}

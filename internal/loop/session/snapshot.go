package session

import (
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// Sprite is the read-only view of one entity handed to the renderer.
type Sprite struct {
	ID          object.ID
	Kind        object.Kind
	Bounds      physics.Rect
	InvaderType object.InvaderType // Invaders only
	Faded       bool               // Particles near the end of their life
}

// Snapshot is everything a renderer needs for one frame. It shares no memory
// with the session.
type Snapshot struct {
	Tick        uint64
	State       State
	Screen      object.Screen
	Score       int
	Lives       int
	PlayerState object.PlayerState
	Player      physics.Rect
	Formations  int

	// Draw order: stars, particles, invaders, player shots, enemy shots.
	Sprites []Sprite
}

// Exploding reports whether the player is in its hit window.
func (s Snapshot) Exploding() bool {
	return s.PlayerState == object.PlayerExploding
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Tick:       s.ticks,
		State:      s.state,
		Screen:     s.screen,
		Score:      s.score.Total(),
		Formations: len(s.formations),
	}
	if s.player == nil {
		return snap
	}
	snap.Lives = s.player.Lives
	snap.PlayerState = s.player.State()
	snap.Player = s.player.Bounds()

	invaders := 0
	for _, f := range s.formations {
		invaders += f.Len()
	}
	snap.Sprites = make([]Sprite, 0, len(s.stars)+len(s.particles)+invaders+len(s.playerShots)+len(s.enemyShots))

	for _, st := range s.stars {
		snap.Sprites = append(snap.Sprites, spriteOf(st))
	}
	for _, p := range s.particles {
		sp := spriteOf(p)
		sp.Faded = p.Faded()
		snap.Sprites = append(snap.Sprites, sp)
	}
	for _, f := range s.formations {
		for _, inv := range f.Invaders() {
			sp := spriteOf(inv)
			sp.InvaderType = inv.Type
			snap.Sprites = append(snap.Sprites, sp)
		}
	}
	for _, p := range s.playerShots {
		snap.Sprites = append(snap.Sprites, spriteOf(p))
	}
	for _, p := range s.enemyShots {
		snap.Sprites = append(snap.Sprites, spriteOf(p))
	}
	return snap
}

func spriteOf(e object.Entity) Sprite {
	return Sprite{ID: e.EntityID(), Kind: e.Kind(), Bounds: e.Bounds()}
}

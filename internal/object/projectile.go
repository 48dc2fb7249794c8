package object

import (
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Projectile is a shot from either side. Player shots are small circles
// positioned by their center; enemy shots are rectangles positioned by their
// top-left corner.
type Projectile struct {
	Body
	kind   Kind
	Radius float64 // Player shots
	Width  float64 // Enemy shots
	Height float64 // Enemy shots
}

// NewPlayerShot creates an upward shot centered on origin.
func NewPlayerShot(id ID, origin physics.Vector2, cfg config.ShotConfig) *Projectile {
	return &Projectile{
		Body: Body{
			ID:  id,
			Pos: origin,
			Vel: physics.Vector2{Y: -cfg.PlayerSpeed},
		},
		kind:   KindPlayerShot,
		Radius: cfg.PlayerRadius,
	}
}

// NewEnemyShot creates a downward shot with its top-left corner at origin.
func NewEnemyShot(id ID, origin physics.Vector2, cfg config.ShotConfig) *Projectile {
	return &Projectile{
		Body: Body{
			ID:  id,
			Pos: origin,
			Vel: physics.Vector2{Y: cfg.EnemySpeed},
		},
		kind:   KindEnemyShot,
		Width:  cfg.EnemyWidth,
		Height: cfg.EnemyHeight,
	}
}

// Kind implements Entity.
func (p *Projectile) Kind() Kind {
	return p.kind
}

// Bounds implements Entity.
func (p *Projectile) Bounds() physics.Rect {
	if p.kind == KindPlayerShot {
		return physics.CircleBounds(p.Pos.X, p.Pos.Y, p.Radius)
	}
	return physics.Rect{X: p.Pos.X, Y: p.Pos.Y, W: p.Width, H: p.Height}
}

// OffScreen reports whether the shot left the playfield: a player shot once
// its lowest point reaches the top edge, an enemy shot once its bottom edge
// reaches the screen bottom.
func (p *Projectile) OffScreen(screen Screen) bool {
	if p.kind == KindPlayerShot {
		return p.Pos.Y+p.Radius <= 0
	}
	return p.Pos.Y+p.Height >= screen.Height
}

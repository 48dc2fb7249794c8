package object

import (
	"cmp"
	"math"
	"math/rand"
	"slices"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Formation is a rectangular grid of invaders moving as one. Members only
// leave, never join.
type Formation struct {
	id       ID
	offset   physics.Vector2 // Accumulated sweep, kept for bookkeeping
	vel      physics.Vector2
	margin   float64
	dropStep float64
	invaders []*Invader
}

// NewFormation lays out rows x cols invaders starting at the configured origin.
func NewFormation(ids *IDSource, cfg config.FormationConfig) *Formation {
	f := &Formation{
		id:       ids.Next(),
		vel:      physics.Vector2{X: cfg.Speed},
		margin:   cfg.Margin,
		dropStep: cfg.DropStep,
		invaders: make([]*Invader, 0, cfg.Rows*cfg.Cols),
	}
	for row := 0; row < cfg.Rows; row++ {
		typ := invaderTypeForRow(row, cfg.Rows)
		for col := 0; col < cfg.Cols; col++ {
			pos := physics.Vector2{
				X: cfg.OriginX + float64(col)*cfg.SpacingX,
				Y: cfg.OriginY + float64(row)*cfg.SpacingY,
			}
			f.invaders = append(f.invaders, NewInvader(ids.Next(), pos, cfg.InvaderWidth, cfg.InvaderHeight, typ))
		}
	}
	return f
}

// ID returns the formation handle.
func (f *Formation) ID() ID {
	return f.id
}

// Invaders returns the live members. Callers must not modify the slice.
func (f *Formation) Invaders() []*Invader {
	return f.invaders
}

// Len returns the number of live members.
func (f *Formation) Len() int {
	return len(f.invaders)
}

// Empty reports whether every member has been destroyed.
func (f *Formation) Empty() bool {
	return len(f.invaders) == 0
}

// Velocity returns the shared sweep velocity.
func (f *Formation) Velocity() physics.Vector2 {
	return f.vel
}

// Offset returns how far the formation has swept since it spawned.
func (f *Formation) Offset() physics.Vector2 {
	return f.offset
}

// Extent returns the leftmost left edge and rightmost right edge of the live
// members. ok is false for an empty formation.
func (f *Formation) Extent() (left, right float64, ok bool) {
	if len(f.invaders) == 0 {
		return 0, 0, false
	}
	left, right = math.Inf(1), math.Inf(-1)
	for _, inv := range f.invaders {
		left = min(left, inv.Pos.X)
		right = max(right, inv.Pos.X+inv.Width)
	}
	return left, right, true
}

// Update sweeps the formation one step. When the live extent touches a side
// margin the direction reverses and every member drops by one step; this
// happens at most once per call. Returns whether the direction flipped.
func (f *Formation) Update(dt float64, screenWidth float64) bool {
	f.offset.X += f.vel.X * min(dt, 1)

	flipped := false
	if left, right, ok := f.Extent(); ok {
		if right >= screenWidth-f.margin || left <= f.margin {
			f.vel.X = -f.vel.X
			for _, inv := range f.invaders {
				inv.Pos.Y += f.dropStep
			}
			flipped = true
		}
	}

	for _, inv := range f.invaders {
		inv.Vel = f.vel
		inv.Advance(dt)
	}
	return flipped
}

// Remove drops the given members and returns how many were removed.
func (f *Formation) Remove(dead map[ID]struct{}) int {
	if len(dead) == 0 {
		return 0
	}
	kept := f.invaders[:0]
	for _, inv := range f.invaders {
		if _, ok := dead[inv.ID]; !ok {
			kept = append(kept, inv)
		}
	}
	removed := len(f.invaders) - len(kept)
	clear(f.invaders[len(kept):])
	f.invaders = kept
	return removed
}

// Shoot fires from the leftmost or rightmost member. With probability chance
// an extra shot from a random member is fired first.
func (f *Formation) Shoot(ids *IDSource, fromLeft bool, chance float64, rng *rand.Rand, shots config.ShotConfig) []*Projectile {
	if len(f.invaders) == 0 {
		return nil
	}

	ordered := slices.Clone(f.invaders)
	slices.SortStableFunc(ordered, func(a, b *Invader) int {
		return cmp.Compare(a.Pos.X, b.Pos.X)
	})

	var out []*Projectile
	if rng.Float64() < chance {
		extra := ordered[rng.Intn(len(ordered))]
		out = append(out, NewEnemyShot(ids.Next(), extra.Muzzle(), shots))
	}

	shooter := ordered[len(ordered)-1]
	if fromLeft {
		shooter = ordered[0]
	}
	return append(out, NewEnemyShot(ids.Next(), shooter.Muzzle(), shots))
}

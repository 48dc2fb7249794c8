package session

import (
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// minCellSize is the smallest broad-phase cell; one formation spacing.
const minCellSize = 40.0

// kill is one invader struck this tick together with its owning formation.
type kill struct {
	formation *object.Formation
	invader   *object.Invader
}

// collisions is the outcome of the detect phase. Nothing is removed until the
// session applies it.
type collisions struct {
	kills      []kill
	spentShots map[object.ID]struct{}
	playerHit  object.ID // Enemy shot that struck the player, zero if none
}

// resolver finds overlaps between shots, invaders and the player.
type resolver struct {
	grid *physics.SpatialGrid
	refs []kill // Dense index into the grid

	killed map[object.ID]struct{}
}

// newResolver sizes the grid so that any shot/invader overlap lies within the
// 3x3 neighborhood of the shot's center cell.
func newResolver(screen object.Screen, invaderW, invaderH, shotRadius float64) *resolver {
	cell := max(minCellSize, invaderW+2*shotRadius, invaderH+2*shotRadius)
	return &resolver{
		grid:   physics.NewSpatialGrid(screen.Width, screen.Height, cell),
		killed: make(map[object.ID]struct{}),
	}
}

// detect scans every pair without mutating any collection.
//
// A player shot kills every invader its box overlaps. An invader is reported
// at most once even if several shots overlap it, and every overlapping shot is
// spent. Only the first enemy shot overlapping a vulnerable player counts.
func (r *resolver) detect(player *object.Player, playerShots, enemyShots []*object.Projectile, formations []*object.Formation) collisions {
	res := collisions{spentShots: make(map[object.ID]struct{})}

	r.grid.Clear()
	r.refs = r.refs[:0]
	clear(r.killed)
	for _, f := range formations {
		for _, inv := range f.Invaders() {
			c := inv.Bounds().Center()
			r.grid.Insert(c.X, c.Y, len(r.refs))
			r.refs = append(r.refs, kill{formation: f, invader: inv})
		}
	}

	if len(r.refs) > 0 {
		for _, shot := range playerShots {
			box := shot.Bounds()
			c := box.Center()
			r.grid.QueryAround(c.X, c.Y, func(i int) bool {
				ref := r.refs[i]
				if !box.Overlaps(ref.invader.Bounds()) {
					return false
				}
				res.spentShots[shot.ID] = struct{}{}
				if _, done := r.killed[ref.invader.ID]; !done {
					r.killed[ref.invader.ID] = struct{}{}
					res.kills = append(res.kills, ref)
				}
				return false
			})
		}
	}

	if player != nil && player.Lives > 0 && !player.Exploding() {
		pb := player.Bounds()
		for _, shot := range enemyShots {
			if shot.Bounds().Overlaps(pb) {
				res.playerHit = shot.ID
				break
			}
		}
	}

	return res
}

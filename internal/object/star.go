package object

import (
	"math/rand"

	"github.com/tomz197/invaders/internal/physics"
)

// Star is a background point drifting downward. Stars never collide.
type Star struct {
	Body
	Radius float64
}

// NewStar places a star at a random point with a random fall speed.
func NewStar(id ID, screen Screen, rng *rand.Rand) *Star {
	return &Star{
		Body: Body{
			ID:  id,
			Pos: physics.Vector2{X: rng.Float64() * screen.Width, Y: rng.Float64() * screen.Height},
			Vel: physics.Vector2{Y: 0.5 + rng.Float64()*2},
		},
		Radius: rng.Float64() * 2,
	}
}

// NewStarfield creates count stars.
func NewStarfield(ids *IDSource, count int, screen Screen, rng *rand.Rand) []*Star {
	stars := make([]*Star, count)
	for i := range stars {
		stars[i] = NewStar(ids.Next(), screen, rng)
	}
	return stars
}

// Kind implements Entity.
func (s *Star) Kind() Kind {
	return KindStar
}

// Bounds implements Entity.
func (s *Star) Bounds() physics.Rect {
	return physics.CircleBounds(s.Pos.X, s.Pos.Y, s.Radius)
}

// Update drifts the star and wraps it to the top at a new column once it
// falls past the bottom edge.
func (s *Star) Update(dt float64, screen Screen, rng *rand.Rand) {
	s.Advance(dt)
	if s.Pos.Y > screen.Height {
		s.Pos.Y = 0
		s.Pos.X = rng.Float64() * screen.Width
	}
}

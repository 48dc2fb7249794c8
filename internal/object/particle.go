package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/invaders/internal/physics"
)

// particlePool reuses Particle values across explosions.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived debris fragment. Lifetime is measured in
// nominal frames, the same unit as Δt.
type Particle struct {
	Body
	Lifetime    float64
	MaxLifetime float64
	Drag        float64 // Velocity factor per nominal frame (1.0 = no drag)
}

// NewParticle takes a particle from the pool.
func NewParticle(id ID, pos, vel physics.Vector2, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.ID = id
	p.Pos = pos
	p.Vel = vel
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	return p
}

// Release returns the particle to the pool. The caller must drop every
// reference to it.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion creates count particles bursting out of center.
func SpawnExplosion(ids *IDSource, center physics.Vector2, count int, speed, lifetime float64, rng *rand.Rand) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// 50% to 150% of speed, 50% to 100% of lifetime
		spd := speed * (0.5 + rng.Float64())
		life := lifetime * (0.5 + rng.Float64()*0.5)

		vel := physics.Vector2{X: math.Cos(angle) * spd, Y: math.Sin(angle) * spd}
		out = append(out, NewParticle(ids.Next(), center, vel, life))
	}
	return out
}

// Kind implements Entity.
func (p *Particle) Kind() Kind {
	return KindParticle
}

// Bounds implements Entity.
func (p *Particle) Bounds() physics.Rect {
	return physics.Rect{X: p.Pos.X, Y: p.Pos.Y, W: 1, H: 1}
}

// Update ages and moves the particle. Returns true once it has expired.
func (p *Particle) Update(dt float64) bool {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}
	p.Vel = p.Vel.Scale(math.Pow(p.Drag, dt))
	p.Advance(dt)
	return false
}

// Faded reports whether the particle is in the last quarter of its life.
func (p *Particle) Faded() bool {
	return p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25
}

package session

import (
	"time"
)

// SpawnScheduler holds the wall-clock timers for formation spawning and
// formation fire. Timers are only polled once per tick.
type SpawnScheduler struct {
	spawnInterval time.Duration
	fireInterval  time.Duration

	lastSpawn     time.Time
	lastFire      time.Time
	shootFromLeft bool
}

// NewSpawnScheduler creates a scheduler. Call Reset before polling it.
func NewSpawnScheduler(spawnInterval, fireInterval time.Duration) *SpawnScheduler {
	return &SpawnScheduler{
		spawnInterval: spawnInterval,
		fireInterval:  fireInterval,
		shootFromLeft: true,
	}
}

// Reset restarts both timers at now and favors the left side again.
func (s *SpawnScheduler) Reset(now time.Time) {
	s.lastSpawn = now
	s.lastFire = now
	s.shootFromLeft = true
}

// SpawnDue reports whether more than the spawn interval has passed since the
// last spawn, and rearms the timer when it has.
func (s *SpawnScheduler) SpawnDue(now time.Time) bool {
	if now.Sub(s.lastSpawn) <= s.spawnInterval {
		return false
	}
	s.lastSpawn = now
	return true
}

// FireDue reports whether formations should fire this tick and which side is
// favored. The side alternates after every volley for all formations at once.
func (s *SpawnScheduler) FireDue(now time.Time) (fromLeft, due bool) {
	if now.Sub(s.lastFire) <= s.fireInterval {
		return false, false
	}
	fromLeft = s.shootFromLeft
	s.lastFire = now
	s.shootFromLeft = !s.shootFromLeft
	return fromLeft, true
}

// fireGate rate-limits player shots.
type fireGate struct {
	rate  time.Duration
	last  time.Time
	fired bool
}

// Allow reports whether a shot may be fired at now and records it if so.
func (g *fireGate) Allow(now time.Time) bool {
	if g.fired && now.Sub(g.last) < g.rate {
		return false
	}
	g.last = now
	g.fired = true
	return true
}

// reset forgets the last shot. With hold set the gate counts from now, so
// the next shot waits a full interval.
func (g *fireGate) reset(now time.Time, hold bool) {
	g.fired = hold
	g.last = time.Time{}
	if hold {
		g.last = now
	}
}

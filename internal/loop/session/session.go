// Package session is the simulation and game-state engine. A Session owns every
// entity collection and advances them one tick at a time from wall-clock
// timestamps supplied by its driver. It never blocks and starts no goroutines.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Explosion tuning, in nominal frames and units per frame.
const (
	invaderDebrisCount    = 6
	invaderDebrisSpeed    = 1.5
	invaderDebrisLifetime = 30
	playerDebrisCount     = 16
	playerDebrisSpeed     = 2
	playerDebrisLifetime  = 45
)

var (
	// ErrNotStarted is returned by Tick before Start.
	ErrNotStarted = errors.New("session not started")
	// ErrMissingCollaborator is returned by New when a collaborator is nil.
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrInvalidViewport is returned when the viewport reports a non-positive size.
	ErrInvalidViewport = errors.New("invalid viewport")
)

// State is the lifecycle state of a session.
type State int

const (
	StateIdle State = iota // Created, Start not called yet
	StateRunning
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Controls are the level-triggered signals read once per tick.
type Controls struct {
	Left  bool
	Right bool
	Fire  bool
}

// InputSource supplies the current controls.
type InputSource interface {
	Controls() Controls
}

// Renderer receives one snapshot per applied tick.
type Renderer interface {
	Render(Snapshot)
}

// ScoreRecorder receives the final score when a run ends.
type ScoreRecorder interface {
	RecordFinalScore(score int) error
}

// Viewport supplies the logical screen size used for boundary checks.
type Viewport interface {
	Size() (width, height float64)
}

// Collaborators groups the external dependencies of a session. All are required.
type Collaborators struct {
	Input    InputSource
	Renderer Renderer
	Scores   ScoreRecorder
	Viewport Viewport
}

// FixedViewport is a Viewport of constant size.
type FixedViewport object.Screen

// Size implements Viewport.
func (v FixedViewport) Size() (float64, float64) {
	return v.Width, v.Height
}

// TickResult describes one call to Tick.
type TickResult struct {
	Dt     float64
	Events []Event
	State  State
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand sets the random source for stars, extra shots and debris.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// Session is a single-player game.
type Session struct {
	cfg    config.Config
	collab Collaborators
	logger *log.Logger
	rng    *rand.Rand

	ids      object.IDSource
	clock    *Clock
	score    ScoreKeeper
	spawner  *SpawnScheduler
	fireGate fireGate
	resolver *resolver

	state  State
	screen object.Screen
	ticks  uint64

	player      *object.Player
	formations  []*object.Formation
	playerShots []*object.Projectile
	enemyShots  []*object.Projectile
	stars       []*object.Star
	particles   []*object.Particle

	events []Event
}

// New validates the collaborators and configuration and returns an idle session.
func New(cfg config.Config, c Collaborators, opts ...Option) (*Session, error) {
	switch {
	case c.Input == nil:
		return nil, fmt.Errorf("%w: input", ErrMissingCollaborator)
	case c.Renderer == nil:
		return nil, fmt.Errorf("%w: renderer", ErrMissingCollaborator)
	case c.Scores == nil:
		return nil, fmt.Errorf("%w: scores", ErrMissingCollaborator)
	case c.Viewport == nil:
		return nil, fmt.Errorf("%w: viewport", ErrMissingCollaborator)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w, h := c.Viewport.Size()
	if w <= 0 || h <= 0 || w < cfg.Player.Width {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidViewport, w, h)
	}
	screen := object.Screen{Width: w, Height: h}

	s := &Session{
		cfg:      cfg,
		collab:   c,
		logger:   log.New(io.Discard),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:    NewClock(cfg.Clock.NominalFrame, cfg.Clock.MaxDelta),
		spawner:  NewSpawnScheduler(cfg.Formation.SpawnInterval, cfg.Formation.FireInterval),
		fireGate: fireGate{rate: cfg.Player.FireRate},
		resolver: newResolver(screen, cfg.Formation.InvaderWidth, cfg.Formation.InvaderHeight, cfg.Shots.PlayerRadius),
		screen:   screen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start begins the first run. Calling it again has no effect; use Restart.
func (s *Session) Start(now time.Time) {
	if s.state != StateIdle {
		return
	}
	s.reset(now)
	s.logger.Info("session started", "screen", fmt.Sprintf("%vx%v", s.screen.Width, s.screen.Height))
}

// Restart discards the current run and begins a new one with full lives, zero
// score, one formation and no projectiles. Every timer, the player's fire rate
// included, restarts at now. It works from any state.
func (s *Session) Restart(now time.Time) {
	prev := s.state
	s.reset(now)
	s.fireGate.reset(now, true)
	s.logger.Info("session restarted", "from", prev)
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score.Total()
}

// Snapshot returns a read-only copy of the current world.
func (s *Session) Snapshot() Snapshot {
	return s.snapshot()
}

// Tick advances the simulation by one step. In GameOver it does nothing.
// The returned error is non-nil only when recording the final score failed;
// the transition to GameOver stands regardless.
func (s *Session) Tick(now time.Time) (TickResult, error) {
	switch s.state {
	case StateIdle:
		return TickResult{State: s.state}, ErrNotStarted
	case StateGameOver:
		return TickResult{State: s.state}, nil
	}

	s.events = s.events[:0]
	s.ticks++
	dt := s.clock.Step(now)
	controls := s.collab.Input.Controls()

	s.player.Steer(controls.Left, controls.Right)
	s.player.Update(dt, s.screen)
	s.advanceProjectiles(dt)
	s.advanceFormations(dt)
	s.advanceScenery(dt)

	s.applyCollisions(now, s.resolver.detect(s.player, s.playerShots, s.enemyShots, s.formations))

	if controls.Fire && s.player.Lives > 0 && s.fireGate.Allow(now) {
		shot := object.NewPlayerShot(s.ids.Next(), s.player.Muzzle(), s.cfg.Shots)
		s.playerShots = append(s.playerShots, shot)
		s.emit(Event{Kind: EventPlayerFired, ID: shot.ID})
	}

	s.runSpawner(now)

	var err error
	if s.player.Recover(now) {
		if s.player.Lives == 0 {
			err = s.enterGameOver()
		} else {
			s.emit(Event{Kind: EventPlayerRecovered, ID: s.player.ID, Lives: s.player.Lives})
		}
	}

	s.collab.Renderer.Render(s.snapshot())

	return TickResult{
		Dt:     dt,
		Events: slices.Clone(s.events),
		State:  s.state,
	}, err
}

// reset rebuilds every collection from scratch. IDs keep counting so handles
// from an earlier run are never reused.
func (s *Session) reset(now time.Time) {
	for _, p := range s.particles {
		p.Release()
	}

	s.score.Reset()
	s.clock.Reset()
	s.spawner.Reset(now)
	s.fireGate.reset(now, false)
	s.ticks = 0

	s.player = object.NewPlayer(s.ids.Next(), s.cfg.Player, s.screen)
	s.formations = []*object.Formation{object.NewFormation(&s.ids, s.cfg.Formation)}
	s.playerShots = nil
	s.enemyShots = nil
	s.particles = nil
	s.stars = object.NewStarfield(&s.ids, s.cfg.Stars.Count, s.screen, s.rng)

	s.state = StateRunning
}

func (s *Session) emit(e Event) {
	e.Score = s.score.Total()
	s.events = append(s.events, e)
}

// advanceProjectiles moves every shot and drops those that left the screen.
func (s *Session) advanceProjectiles(dt float64) {
	s.playerShots = advanceShots(s.playerShots, dt, s.screen)
	s.enemyShots = advanceShots(s.enemyShots, dt, s.screen)
}

func advanceShots(shots []*object.Projectile, dt float64, screen object.Screen) []*object.Projectile {
	kept := shots[:0]
	for _, p := range shots {
		p.Advance(dt)
		if !p.OffScreen(screen) {
			kept = append(kept, p)
		}
	}
	clear(shots[len(kept):])
	return kept
}

func (s *Session) advanceFormations(dt float64) {
	for _, f := range s.formations {
		if f.Update(dt, s.screen.Width) {
			s.logger.Debug("formation reversed", "formation", f.ID(), "vx", f.Velocity().X)
		}
	}
}

// advanceScenery moves stars and particles. Neither takes part in collisions.
func (s *Session) advanceScenery(dt float64) {
	for _, st := range s.stars {
		st.Update(dt, s.screen, s.rng)
	}
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.Update(dt) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}

// applyCollisions performs every removal found by the detect phase.
func (s *Session) applyCollisions(now time.Time, res collisions) {
	dead := make(map[object.ID]map[object.ID]struct{})
	for _, k := range res.kills {
		s.score.Add(k.invader.Points)
		fid := k.formation.ID()
		if dead[fid] == nil {
			dead[fid] = make(map[object.ID]struct{})
		}
		dead[fid][k.invader.ID] = struct{}{}
		s.particles = append(s.particles, object.SpawnExplosion(&s.ids, k.invader.Bounds().Center(),
			invaderDebrisCount, invaderDebrisSpeed, invaderDebrisLifetime, s.rng)...)
		s.emit(Event{Kind: EventInvaderKilled, ID: k.invader.ID, Points: k.invader.Points})
	}

	if len(res.spentShots) > 0 {
		s.playerShots = removeShots(s.playerShots, res.spentShots)
	}

	if len(dead) > 0 {
		kept := s.formations[:0]
		for _, f := range s.formations {
			f.Remove(dead[f.ID()])
			if f.Empty() {
				s.emit(Event{Kind: EventFormationCleared, ID: f.ID()})
				s.logger.Debug("formation cleared", "formation", f.ID(), "score", s.score.Total())
				continue
			}
			kept = append(kept, f)
		}
		clear(s.formations[len(kept):])
		s.formations = kept
	}

	if res.playerHit != 0 && s.player.Hit(now) {
		s.enemyShots = removeShots(s.enemyShots, map[object.ID]struct{}{res.playerHit: {}})
		s.particles = append(s.particles, object.SpawnExplosion(&s.ids, s.player.Bounds().Center(),
			playerDebrisCount, playerDebrisSpeed, playerDebrisLifetime, s.rng)...)
		s.emit(Event{Kind: EventPlayerHit, ID: s.player.ID, Lives: s.player.Lives})
		s.logger.Debug("player hit", "lives", s.player.Lives)
	}
}

func removeShots(shots []*object.Projectile, ids map[object.ID]struct{}) []*object.Projectile {
	kept := shots[:0]
	for _, p := range shots {
		if _, gone := ids[p.ID]; !gone {
			kept = append(kept, p)
		}
	}
	clear(shots[len(kept):])
	return kept
}

// runSpawner polls the formation spawn and fire timers.
func (s *Session) runSpawner(now time.Time) {
	if s.spawner.SpawnDue(now) {
		f := object.NewFormation(&s.ids, s.cfg.Formation)
		s.formations = append(s.formations, f)
		s.emit(Event{Kind: EventFormationSpawned, ID: f.ID()})
		s.logger.Debug("formation spawned", "formation", f.ID(), "active", len(s.formations))
	}

	fromLeft, due := s.spawner.FireDue(now)
	if !due {
		return
	}
	for _, f := range s.formations {
		for _, shot := range f.Shoot(&s.ids, fromLeft, s.cfg.Formation.ExtraShotChance, s.rng, s.cfg.Shots) {
			s.enemyShots = append(s.enemyShots, shot)
			s.emit(Event{Kind: EventEnemyFired, ID: shot.ID})
		}
	}
}

// enterGameOver stops the run and hands the final score outward. Guarded so it
// takes effect once per run.
func (s *Session) enterGameOver() error {
	if s.state != StateRunning {
		return nil
	}
	s.state = StateGameOver
	final := s.score.Total()
	s.emit(Event{Kind: EventGameOver, ID: s.player.ID})
	s.logger.Info("game over", "score", final, "ticks", s.ticks)

	if err := s.collab.Scores.RecordFinalScore(final); err != nil {
		s.logger.Error("record final score", "score", final, "err", err)
		return fmt.Errorf("record final score: %w", err)
	}
	return nil
}

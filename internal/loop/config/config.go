// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Screen dimensions in logical simulation units.
const (
	ScreenWidth  = 800
	ScreenHeight = 450
)

// Timing
const (
	NominalFrame = 16670 * time.Microsecond // One frame at ~60Hz
	MaxDelta     = 1.5                      // Upper clamp for Δt, in nominal frames
)

// Player
const (
	InitialLives      = 3
	PlayerSpeed       = 6.0
	PlayerExplodeTime = 800 * time.Millisecond
	PlayerFireRate    = 300 * time.Millisecond
)

// Formation
const (
	FormationSpawnInterval = 20 * time.Second
	FormationFireInterval  = time.Second
	ExtraShotChance        = 0.3
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 160
	MaxTermHeight         = 45
)

// Inactivity and shutdown
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
	ShutdownDisplayTime      = 3 * time.Second
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable the session and client read.
// Zero values are never valid; start from Default.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Clock     ClockConfig     `yaml:"clock"`
	Player    PlayerConfig    `yaml:"player"`
	Shots     ShotConfig      `yaml:"shots"`
	Formation FormationConfig `yaml:"formation"`
	Stars     StarConfig      `yaml:"stars"`
	Client    ClientConfig    `yaml:"client"`
}

// ScreenConfig is the viewport in logical units.
type ScreenConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ClockConfig controls Δt normalization.
type ClockConfig struct {
	NominalFrame time.Duration `yaml:"nominalFrame"`
	MaxDelta     float64       `yaml:"maxDelta"`
}

// PlayerConfig describes the player ship.
type PlayerConfig struct {
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	BottomOffset float64       `yaml:"bottomOffset"` // Gap between ship and screen bottom
	Speed        float64       `yaml:"speed"`
	Lives        int           `yaml:"lives"`
	ExplodeTime  time.Duration `yaml:"explodeTime"`
	FireRate     time.Duration `yaml:"fireRate"`
}

// ShotConfig describes both projectile families.
type ShotConfig struct {
	PlayerRadius float64 `yaml:"playerRadius"`
	PlayerSpeed  float64 `yaml:"playerSpeed"`
	EnemyWidth   float64 `yaml:"enemyWidth"`
	EnemyHeight  float64 `yaml:"enemyHeight"`
	EnemySpeed   float64 `yaml:"enemySpeed"`
}

// FormationConfig describes the invader grid and its cadence.
type FormationConfig struct {
	Rows            int           `yaml:"rows"`
	Cols            int           `yaml:"cols"`
	SpacingX        float64       `yaml:"spacingX"`
	SpacingY        float64       `yaml:"spacingY"`
	OriginX         float64       `yaml:"originX"`
	OriginY         float64       `yaml:"originY"`
	InvaderWidth    float64       `yaml:"invaderWidth"`
	InvaderHeight   float64       `yaml:"invaderHeight"`
	Speed           float64       `yaml:"speed"`
	Margin          float64       `yaml:"margin"`
	DropStep        float64       `yaml:"dropStep"`
	SpawnInterval   time.Duration `yaml:"spawnInterval"`
	FireInterval    time.Duration `yaml:"fireInterval"`
	ExtraShotChance float64       `yaml:"extraShotChance"`
}

// StarConfig controls the background starfield.
type StarConfig struct {
	Count int `yaml:"count"`
}

// ClientConfig controls the terminal client.
type ClientConfig struct {
	FrameTime       time.Duration `yaml:"frameTime"`
	InactivityWarn  time.Duration `yaml:"inactivityWarn"`
	InactivityLimit time.Duration `yaml:"inactivityLimit"`
	KeyHold         time.Duration `yaml:"keyHold"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Screen: ScreenConfig{Width: ScreenWidth, Height: ScreenHeight},
		Clock:  ClockConfig{NominalFrame: NominalFrame, MaxDelta: MaxDelta},
		Player: PlayerConfig{
			Width:        50,
			Height:       50,
			BottomOffset: 30,
			Speed:        PlayerSpeed,
			Lives:        InitialLives,
			ExplodeTime:  PlayerExplodeTime,
			FireRate:     PlayerFireRate,
		},
		Shots: ShotConfig{
			PlayerRadius: 3,
			PlayerSpeed:  5,
			EnemyWidth:   4,
			EnemyHeight:  10,
			EnemySpeed:   3,
		},
		Formation: FormationConfig{
			Rows:            3,
			Cols:            9,
			SpacingX:        40,
			SpacingY:        40,
			OriginX:         100,
			OriginY:         30,
			InvaderWidth:    15,
			InvaderHeight:   15,
			Speed:           1,
			Margin:          50,
			DropStep:        40,
			SpawnInterval:   FormationSpawnInterval,
			FireInterval:    FormationFireInterval,
			ExtraShotChance: ExtraShotChance,
		},
		Stars: StarConfig{Count: 100},
		Client: ClientConfig{
			FrameTime:       ClientTargetFrameTime,
			InactivityWarn:  InactivityWarnUser,
			InactivityLimit: InactivityDisconnectUser,
			KeyHold:         80 * time.Millisecond,
		},
	}
}

// Load reads a YAML file and overlays it on Default.
// Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen must be positive, got %vx%v", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Clock.NominalFrame <= 0:
		return fmt.Errorf("%w: clock.nominalFrame must be positive", ErrInvalid)
	case c.Clock.MaxDelta <= 0:
		return fmt.Errorf("%w: clock.maxDelta must be positive", ErrInvalid)
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("%w: player size must be positive", ErrInvalid)
	case c.Player.Width > c.Screen.Width:
		return fmt.Errorf("%w: player wider than screen", ErrInvalid)
	case c.Player.Lives < 1:
		return fmt.Errorf("%w: player.lives must be at least 1", ErrInvalid)
	case c.Player.ExplodeTime <= 0 || c.Player.FireRate < 0:
		return fmt.Errorf("%w: player timers out of range", ErrInvalid)
	case c.Shots.PlayerRadius <= 0 || c.Shots.EnemyWidth <= 0 || c.Shots.EnemyHeight <= 0:
		return fmt.Errorf("%w: shot sizes must be positive", ErrInvalid)
	case c.Formation.Rows < 1 || c.Formation.Cols < 1:
		return fmt.Errorf("%w: formation needs at least one row and column", ErrInvalid)
	case c.Formation.InvaderWidth <= 0 || c.Formation.InvaderHeight <= 0:
		return fmt.Errorf("%w: invader size must be positive", ErrInvalid)
	case c.Formation.SpawnInterval <= 0 || c.Formation.FireInterval <= 0:
		return fmt.Errorf("%w: formation intervals must be positive", ErrInvalid)
	case c.Formation.ExtraShotChance < 0 || c.Formation.ExtraShotChance > 1:
		return fmt.Errorf("%w: formation.extraShotChance must be within [0,1]", ErrInvalid)
	case c.Stars.Count < 0:
		return fmt.Errorf("%w: stars.count must not be negative", ErrInvalid)
	}
	return nil
}

package client

import (
	"time"

	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/session"
)

// GameState is the screen the client is showing.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Session ticking
	GameStateGameOver                  // Session ended, waiting for restart
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection UI state. The game itself lives in the session.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Running   bool

	snapshot    session.Snapshot
	hasSnapshot bool

	prevGameState GameState
	isInactive    bool
	wasInactive   bool
	shutdownUntil time.Time
}

// NewClientState creates a client on the title screen.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}

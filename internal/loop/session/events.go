package session

import (
	"github.com/tomz197/invaders/internal/object"
)

// EventKind identifies what happened during a tick.
type EventKind int

const (
	EventFormationSpawned EventKind = iota
	EventInvaderKilled
	EventFormationCleared
	EventPlayerFired
	EventEnemyFired
	EventPlayerHit
	EventPlayerRecovered
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventFormationSpawned:
		return "formation-spawned"
	case EventInvaderKilled:
		return "invader-killed"
	case EventFormationCleared:
		return "formation-cleared"
	case EventPlayerFired:
		return "player-fired"
	case EventEnemyFired:
		return "enemy-fired"
	case EventPlayerHit:
		return "player-hit"
	case EventPlayerRecovered:
		return "player-recovered"
	case EventGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Event is a single state transition reported by Tick.
type Event struct {
	Kind   EventKind
	ID     object.ID // Entity or formation the event refers to
	Points int       // InvaderKilled
	Lives  int       // PlayerHit, PlayerRecovered
	Score  int       // Score after the event
}

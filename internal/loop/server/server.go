// Package server tracks the players connected to a host. Each player runs an
// independent session; the server routes their final scores to shared
// storage and tells them when the host is going down.
package server

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/loop/session"
	"github.com/tomz197/invaders/internal/scores"
)

// Server is the registry of connected players.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int

	scores       scores.Sink
	shutdown     chan struct{}
	shutdownOnce sync.Once
	logger       *log.Logger
}

// ClientHandle represents a player's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	Since    time.Time

	server *Server
	games  int
	best   int
}

// ClientInfo is a read-only view of a connected player.
type ClientInfo struct {
	ID       int
	Username string
	Since    time.Time
	Games    int
	Best     int
}

// Compile-time check that a handle can record a session's final score.
var _ session.ScoreRecorder = (*ClientHandle)(nil)

// NewServer creates a server that stores final scores in sink.
func NewServer(sink scores.Sink, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		scores:       sink,
		shutdown:     make(chan struct{}),
		logger:       logger,
	}
}

// RegisterClient registers a new player and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		Since:    time.Now(),
		server:   s,
	}
	s.nextClientID++
	s.clients[h.ID] = h

	s.logger.Info("player joined", "id", h.ID, "user", username, "online", len(s.clients))
	return h
}

// UnregisterClient removes a player from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.clients[clientID]
	if !ok {
		return
	}
	delete(s.clients, clientID)
	s.logger.Info("player left", "id", clientID, "user", h.Username, "games", h.games, "online", len(s.clients))
}

// Clients lists connected players in join order.
func (s *Server) Clients() []ClientInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ClientInfo, 0, len(s.clients))
	for _, h := range s.clients {
		out = append(out, ClientInfo{
			ID:       h.ID,
			Username: h.Username,
			Since:    h.Since,
			Games:    h.games,
			Best:     h.best,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Done is closed once Shutdown starts.
func (s *Server) Done() <-chan struct{} {
	return s.shutdown
}

// Shutdown notifies every connected player and waits for them to disconnect,
// up to the given timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.shutdownOnce.Do(func() { close(s.shutdown) })

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		s.mu.RLock()
		remaining := len(s.clients)
		s.mu.RUnlock()
		if remaining == 0 {
			return
		}

		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", remaining)
			return
		case <-ticker.C:
		}
	}
}

// RecordFinalScore implements session.ScoreRecorder for the player.
func (h *ClientHandle) RecordFinalScore(score int) error {
	s := h.server

	s.mu.Lock()
	h.games++
	h.best = max(h.best, score)
	s.mu.Unlock()

	s.logger.Info("game over", "user", h.Username, "score", score)
	if s.scores == nil {
		return nil
	}
	return scores.NewRecorder(s.scores, h.Username).RecordFinalScore(score)
}

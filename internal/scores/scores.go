// Package scores keeps per-player results: a SQLite store for the shared
// server and a gdata backed book for local play.
package scores

import (
	"errors"
	"sort"
	"strings"
)

// TopScores is how many of a player's best runs are kept.
const TopScores = 5

// ErrNoUsername is returned when a score arrives without a player name.
var ErrNoUsername = errors.New("scores: empty username")

// Entry is one player's record.
type Entry struct {
	Username  string `yaml:"username"`
	HighScore int    `yaml:"highScore"`
	Games     int    `yaml:"games"`
	Scores    []int  `yaml:"scores"` // Best first, at most TopScores
}

// Add counts a finished run and keeps the best TopScores results.
func (e *Entry) Add(score int) {
	e.Games++
	if score > e.HighScore {
		e.HighScore = score
	}
	e.Scores = append(e.Scores, score)
	sort.Sort(sort.Reverse(sort.IntSlice(e.Scores)))
	if len(e.Scores) > TopScores {
		e.Scores = e.Scores[:TopScores]
	}
}

// Sink persists finished runs.
type Sink interface {
	RecordScore(username string, score int) error
}

// Recorder binds a Sink to one player so it can serve as a session's score
// collaborator.
type Recorder struct {
	Sink     Sink
	Username string
}

// NewRecorder returns a recorder for username. A blank name is recorded as
// "anonymous".
func NewRecorder(sink Sink, username string) *Recorder {
	return &Recorder{Sink: sink, Username: normalizeUsername(username)}
}

// RecordFinalScore implements session.ScoreRecorder.
func (r *Recorder) RecordFinalScore(score int) error {
	return r.Sink.RecordScore(r.Username, score)
}

func normalizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "anonymous"
	}
	return name
}

// rank orders entries by high score, ties by name.
func rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].HighScore != entries[j].HighScore {
			return entries[i].HighScore > entries[j].HighScore
		}
		return entries[i].Username < entries[j].Username
	})
}

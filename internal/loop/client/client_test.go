package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/session"
)

type recorder struct {
	scores []int
}

func (r *recorder) RecordFinalScore(score int) error {
	r.scores = append(r.scores, score)
	return nil
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, keys string) (*Client, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c, err := New(bufio.NewReader(strings.NewReader(keys)), &out, Options{
		TermSizeFunc: fixedSize(100, 30),
		Username:     "tester",
		Scores:       &recorder{},
		Rand:         rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, &out
}

func TestNewRequiresScores(t *testing.T) {
	_, err := New(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, Options{
		TermSizeFunc: fixedSize(80, 24),
	})
	if !errors.Is(err, session.ErrMissingCollaborator) {
		t.Errorf("expected ErrMissingCollaborator, got %v", err)
	}
}

// countingReader records how often it is read.
type countingReader struct {
	reads atomic.Int32
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.reads.Add(1)
	return 0, io.EOF
}

func TestNewFailureLeavesInputUnread(t *testing.T) {
	r := &countingReader{}
	_, err := New(bufio.NewReader(r), &bytes.Buffer{}, Options{TermSizeFunc: fixedSize(80, 24)})
	if err == nil {
		t.Fatal("expected an error without a score recorder")
	}

	time.Sleep(50 * time.Millisecond)
	if n := r.reads.Load(); n != 0 {
		t.Errorf("input was read %d times after New failed", n)
	}
}

func TestNewFallsBackWhenSizeUnknown(t *testing.T) {
	c, err := New(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, Options{
		TermSizeFunc: func() (int, int, error) { return 0, 0, errors.New("no tty") },
		Scores:       &recorder{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.canvas.Cols() != config.MaxTermWidth || c.canvas.Rows() != config.MaxTermHeight {
		t.Errorf("canvas %dx%d, want %dx%d", c.canvas.Cols(), c.canvas.Rows(), config.MaxTermWidth, config.MaxTermHeight)
	}
}

func TestControlsFollowInput(t *testing.T) {
	c, _ := newTestClient(t, "")
	c.state.Input = input.Input{Left: true, Fire: true, Restart: true}

	if got := c.Controls(); got != (session.Controls{Left: true, Fire: true}) {
		t.Errorf("unexpected controls %+v", got)
	}
}

func TestStartPlayAndRestart(t *testing.T) {
	c, out := newTestClient(t, "")
	now := time.Now()

	if err := c.drawFrame(now); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Controls") {
		t.Error("expected the title screen")
	}

	c.state.Input = input.Input{Start: true}
	c.updateStartState(now)
	if c.state.GameState != GameStatePlaying || c.sess.State() != session.StateRunning {
		t.Fatalf("expected playing, got %v / %v", c.state.GameState, c.sess.State())
	}

	out.Reset()
	c.state.Input = input.Input{}
	c.updatePlayingState(now.Add(16 * time.Millisecond))
	if !c.state.hasSnapshot {
		t.Fatal("expected a snapshot after the first tick")
	}
	if err := c.drawFrame(now); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Score: 0", "tester", "Waves: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("HUD missing %q", want)
		}
	}

	c.state.GameState = GameStateGameOver
	out.Reset()
	c.drawFrame(now)
	if !strings.Contains(out.String(), "Your Score: 0") {
		t.Error("expected the game over screen")
	}

	c.state.Input = input.Input{Restart: true}
	c.updateGameOverState(now.Add(time.Second))
	if c.state.GameState != GameStatePlaying {
		t.Errorf("expected playing after restart, got %v", c.state.GameState)
	}
}

func TestShutdownScreen(t *testing.T) {
	c, out := newTestClient(t, "")
	done := make(chan struct{})
	close(done)
	c.shutdown = done

	now := time.Now()
	c.processShutdown(now)
	if c.state.GameState != GameStateShutdown {
		t.Fatalf("expected shutdown state, got %v", c.state.GameState)
	}
	c.drawFrame(now)
	if !strings.Contains(out.String(), "SERVER SHUTTING DOWN") {
		t.Error("expected the shutdown notice")
	}

	c.updateShutdownState(now.Add(time.Second))
	if !c.state.Running {
		t.Error("stopped before the notice elapsed")
	}
	c.updateShutdownState(now.Add(4 * time.Second))
	if c.state.Running {
		t.Error("expected the client to stop after the notice")
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	c, _ := newTestClient(t, "q")

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(context.Background()) }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	c, err := New(bufio.NewReader(blockingReader{}), &out, Options{
		TermSizeFunc: fixedSize(80, 24),
		Scores:       &recorder{},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != nil {
		t.Errorf("Run: %v", err)
	}
}

// blockingReader never delivers input.
type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}

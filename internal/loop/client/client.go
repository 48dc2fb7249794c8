// Package client is the terminal front end of a session: it turns key presses
// into controls, draws snapshots with half-block graphics and runs the frame loop.
package client

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/session"
)

// Client handles rendering and input for a single terminal.
type Client struct {
	sess         *session.Session
	state        *ClientState
	cfg          config.Config
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	shutdown     <-chan struct{}
	logger       *log.Logger
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Config       *config.Config // Default when nil
	Scores       session.ScoreRecorder
	Logger       *log.Logger
	Rand         *rand.Rand
	Shutdown     <-chan struct{} // Closed when the host is going away
}

// Compile-time checks that Client serves as the session's terminal collaborators.
var (
	_ session.InputSource = (*Client)(nil)
	_ session.Renderer    = (*Client)(nil)
)

// New creates a client and the session it drives.
func New(r *bufio.Reader, w io.Writer, opts Options) (*Client, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("user", opts.Username)

	termWidth, termHeight, err := termSizeFunc()
	if err != nil {
		logger.Warn("terminal size unavailable", "err", err)
		termWidth, termHeight = config.MaxTermWidth, config.MaxTermHeight
	}
	cols, rows, offCol, offRow := draw.FitTerminal(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	canvas := draw.NewCanvas(cols, rows, cfg.Screen.Width, cfg.Screen.Height)
	canvas.SetOffset(offCol, offRow)

	c := &Client{
		state:        NewClientState(),
		cfg:          cfg,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offCol, offRow),
		writer:       w,
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		shutdown:     opts.Shutdown,
		logger:       logger,
	}

	sess, err := session.New(cfg, session.Collaborators{
		Input:    c,
		Renderer: c,
		Scores:   opts.Scores,
		Viewport: session.FixedViewport{Width: cfg.Screen.Width, Height: cfg.Screen.Height},
	}, session.WithLogger(logger), session.WithRand(opts.Rand))
	if err != nil {
		return nil, err
	}
	c.sess = sess
	c.inputStream = input.StartStream(r, cfg.Client.KeyHold)
	return c, nil
}

// Controls implements session.InputSource with the keys held this frame.
func (c *Client) Controls() session.Controls {
	return session.Controls{
		Left:  c.state.Input.Left,
		Right: c.state.Input.Right,
		Fire:  c.state.Input.Fire,
	}
}

// Render implements session.Renderer. The snapshot is drawn by the frame loop.
func (c *Client) Render(s session.Snapshot) {
	c.state.snapshot = s
	c.state.hasSnapshot = true
}

// Run starts the client loop. Blocks until the player quits, goes idle, the
// input ends or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for c.state.Running && ctx.Err() == nil {
		frameStart := time.Now()

		c.processInput(frameStart)
		c.processShutdown(frameStart)
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState(frameStart)
		case GameStatePlaying:
			c.updatePlayingState(frameStart)
		case GameStateGameOver:
			c.updateGameOverState(frameStart)
		case GameStateShutdown:
			c.updateShutdownState(frameStart)
		}

		if err := c.drawFrame(frameStart); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < c.cfg.Client.FrameTime {
			time.Sleep(c.cfg.Client.FrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads keys and tracks inactivity.
func (c *Client) processInput(now time.Time) {
	c.state.Input = c.inputStream.Read(now)

	idle := now.Sub(c.lastInput)
	switch {
	case len(c.state.Input.Pressed) > 0:
		c.lastInput = now
		c.state.isInactive = false
	case idle > c.cfg.Client.InactivityLimit:
		c.logger.Info("disconnecting inactive player", "idle", idle.Round(time.Second))
		c.state.Running = false
	case idle > c.cfg.Client.InactivityWarn:
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.inputStream.Closed() {
		c.state.Running = false
	}
}

// processShutdown switches to the shutdown screen once the host signals it.
func (c *Client) processShutdown(now time.Time) {
	if c.state.GameState == GameStateShutdown {
		return
	}
	select {
	case <-c.shutdown:
		c.state.GameState = GameStateShutdown
		c.state.shutdownUntil = now.Add(config.ShutdownDisplayTime)
	default:
	}
}

// updateScreen follows terminal resizes, clamping to the max render size.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	cols, rows, offCol, offRow := draw.FitTerminal(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)

	curCol, curRow := c.canvas.Offset()
	if cols != c.canvas.Cols() || rows != c.canvas.Rows() || offCol != curCol || offRow != curRow {
		// Old borders and text may sit outside the new canvas area.
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
	}
	c.canvas.Resize(cols, rows)
	c.canvas.SetOffset(offCol, offRow)
	c.chunkWriter.SetOffset(offCol, offRow)
}

func (c *Client) updateStartState(now time.Time) {
	if c.state.Input.Start {
		c.sess.Start(now)
		c.state.GameState = GameStatePlaying
	}
}

// updatePlayingState advances the session by one tick. A failed tick is
// logged and the loop carries on.
func (c *Client) updatePlayingState(now time.Time) {
	res, err := c.sess.Tick(now)
	if err != nil {
		c.logger.Warn("tick failed", "err", err)
	}
	if res.State == session.StateGameOver {
		c.state.GameState = GameStateGameOver
	}
}

func (c *Client) updateGameOverState(now time.Time) {
	if c.state.Input.Restart {
		c.sess.Restart(now)
		c.state.GameState = GameStatePlaying
	}
}

func (c *Client) updateShutdownState(now time.Time) {
	if !now.Before(c.state.shutdownUntil) {
		c.state.Running = false
	}
}

package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/session"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(now time.Time) error {
	// Screen transitions get a full clear so overlays from the previous screen vanish.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	if c.state.GameState != GameStateStart && c.state.hasSnapshot {
		c.drawWorld(c.state.snapshot, now)
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	c.drawUI(now)

	return c.chunkWriter.Flush()
}

// drawWorld rasterizes a snapshot onto the canvas.
func (c *Client) drawWorld(snap session.Snapshot, now time.Time) {
	for _, sp := range snap.Sprites {
		b := sp.Bounds
		switch sp.Kind {
		case object.KindStar:
			p := b.Center()
			c.canvas.SetFloat(p.X, p.Y)
		case object.KindParticle:
			if !sp.Faded {
				p := b.Center()
				c.canvas.SetFloat(p.X, p.Y)
			}
		case object.KindInvader:
			c.drawInvader(sp)
		default:
			c.canvas.FillRect(b.X, b.Y, b.W, b.H)
		}
	}

	switch snap.PlayerState {
	case object.PlayerDead:
	case object.PlayerExploding:
		if now.UnixMilli()/100%2 == 0 {
			c.drawShip(snap.Player)
		}
	default:
		c.drawShip(snap.Player)
	}
}

// drawInvader gives each row class its own silhouette.
func (c *Client) drawInvader(sp session.Sprite) {
	b := sp.Bounds
	switch sp.InvaderType {
	case object.InvaderB:
		c.canvas.FillPolygon([]draw.Point{
			{X: b.X + b.W/2, Y: b.Y},
			{X: b.Right(), Y: b.Y + b.H/2},
			{X: b.X + b.W/2, Y: b.Bottom()},
			{X: b.X, Y: b.Y + b.H/2},
		})
		c.canvas.FillRect(b.X+b.W/3, b.Y+b.H/3, b.W/3, b.H/3)
	case object.InvaderC:
		c.canvas.FillPolygon([]draw.Point{
			{X: b.X, Y: b.Y},
			{X: b.Right(), Y: b.Y},
			{X: b.X + b.W/2, Y: b.Bottom()},
		})
		c.canvas.FillRect(b.X+b.W/3, b.Y, b.W/3, b.H/2)
	default:
		c.canvas.FillRect(b.X, b.Y, b.W, b.H)
	}
}

// drawShip draws the player as a base with a cannon on top.
func (c *Client) drawShip(r physics.Rect) {
	base := r.Y + r.H*0.55
	c.canvas.FillPolygon([]draw.Point{
		{X: r.X, Y: r.Bottom()},
		{X: r.X, Y: base},
		{X: r.X + r.W*0.4, Y: base},
		{X: r.X + r.W*0.45, Y: r.Y},
		{X: r.X + r.W*0.55, Y: r.Y},
		{X: r.X + r.W*0.6, Y: base},
		{X: r.Right(), Y: base},
		{X: r.Right(), Y: r.Bottom()},
	})
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(now time.Time) {
	cols, rows := c.canvas.Cols(), c.canvas.Rows()
	centerX, centerY := cols/2, rows/2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY, now)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY, now)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerX, centerY, now)
	case GameStatePlaying:
		c.drawHUD(cols, rows)
	case GameStateGameOver:
		c.drawHUD(cols, rows)
		c.drawGameOverScreen(centerX, centerY, now)
	}
}

// drawHUD draws score and lives. Fields are fixed width so shrinking values
// leave no residue, since the canvas does not clear every frame.
func (c *Client) drawHUD(cols, rows int) {
	snap := c.state.snapshot
	cw := c.chunkWriter

	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", snap.Score))

	lives := fmt.Sprintf("Lives: %-3s", strings.Repeat("♥", snap.Lives))
	cw.WriteAt(cols-len([]rune(lives))-1, 1, lives)

	if c.username != "" {
		cw.WriteAt(2, rows, c.username)
	}
	waves := fmt.Sprintf("Waves: %-3d", snap.Formations)
	cw.WriteAt(cols-len(waves)-1, rows, waves)
}

var titleArt = []string{
	` ___ _  ___   ___   ___  ___ ___  ___ `,
	`|_ _| \| \ \ / /_\ |   \| __| _ \/ __|`,
	" | || .` |\\ V / _ \\| |) | _||   /\\__ \\",
	`|___|_|\_| \_/_/ \_\___/|___|_|_\|___/`,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

func (c *Client) drawArt(centerX, top int, art []string) {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteAt(centerX-width/2, top+i, line)
	}
}

// blinkOn drives blinking prompts.
func blinkOn(now time.Time) bool {
	return now.UnixMilli()/600%2 == 0
}

func (c *Client) drawStartScreen(centerX, centerY int, now time.Time) {
	cw := c.chunkWriter
	top := centerY - 8
	c.drawArt(centerX, top, titleArt)

	cw.WriteCentered(centerX, top+len(titleArt)+1, "~ Space Invaders in your terminal ~")

	controlsY := top + len(titleArt) + 3
	cw.WriteCentered(centerX, controlsY, "Controls")
	controls := []string{
		"A D / < >  . . .  Move",
		"SPACE / W / ^  .  Fire",
		"R  . . . . .   Restart",
		"Q  . . . . . . .  Quit",
	}
	for i, line := range controls {
		cw.WriteCentered(centerX, controlsY+1+i, line)
	}

	promptY := controlsY + len(controls) + 2
	if blinkOn(now) {
		cw.WriteCentered(centerX, promptY, ">>  Press SPACE to Start  <<")
	} else {
		cw.WriteCentered(centerX, promptY, strings.Repeat(" ", 28))
	}
}

func (c *Client) drawGameOverScreen(centerX, centerY int, now time.Time) {
	cw := c.chunkWriter
	top := centerY - 5
	c.drawArt(centerX, top, gameOverArt)

	cw.WriteCentered(centerX, top+len(gameOverArt)+1, fmt.Sprintf("Your Score: %d", c.state.snapshot.Score))

	promptY := top + len(gameOverArt) + 3
	if blinkOn(now) {
		cw.WriteCentered(centerX, promptY, ">>  Press R to Restart  <<")
	} else {
		cw.WriteCentered(centerX, promptY, strings.Repeat(" ", 26))
	}
	cw.WriteCentered(centerX, promptY+2, "Q to quit")
}

func (c *Client) drawInactivityScreen(centerX, centerY int, now time.Time) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	left := c.cfg.Client.InactivityLimit - now.Sub(c.lastInput)
	cw.WriteCentered(centerX, centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(max(left, 0).Seconds())))

	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

func (c *Client) drawShutdownScreen(centerX, centerY int, now time.Time) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	cw.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownUntil.Sub(now).Seconds()) + 1
	cw.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	cw.WriteCentered(centerX, centerY+4, "Press Q to disconnect now")
}

// Package loop runs a single local game in the terminal.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/client"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/scores"
)

// Options configures a local run.
type Options struct {
	Username     string
	Config       *config.Config
	Scores       scores.Sink // In-memory book when nil
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
}

// Run plays in the terminal behind r and w until the player quits or ctx
// is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	sink := opts.Scores
	if sink == nil {
		book, err := scores.NewBook(nil)
		if err != nil {
			return err
		}
		sink = book
	}

	c, err := client.New(r, w, client.Options{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Config:       opts.Config,
		Scores:       scores.NewRecorder(sink, opts.Username),
		Logger:       opts.Logger,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}

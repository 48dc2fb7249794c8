package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
	gameconfig "github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/scores"
)

const appName = "terminal_invaders"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal belongs to the game, so logs only go to a file when asked.
	logger := log.New(io.Discard)
	if path := config.GetEnv("INVADERS_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()

		level, err := log.ParseLevel(config.GetEnv("INVADERS_LOG_LEVEL", "info"))
		if err != nil {
			level = log.InfoLevel
		}
		logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Prefix:          "invaders",
			Level:           level,
		})
	}

	var cfg *gameconfig.Config
	if path := config.GetEnv("INVADERS_CONFIG", ""); path != "" {
		c, err := gameconfig.Load(path)
		if err != nil {
			return err
		}
		cfg = &c
	}

	var sink scores.Sink
	if config.GetEnvBool("INVADERS_SAVE_SCORES", true) {
		book, err := scores.OpenBook(appName)
		if err != nil {
			logger.Warn("scores will not be saved", "err", err)
		} else {
			sink = book
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Username: config.GetEnv("USER", "player"),
		Config:   cfg,
		Scores:   sink,
		Logger:   logger,
	})
}

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

	"github.com/tomz197/tunnelless/internal/config"
	"github.com/tomz197/tunnelless/internal/loop"
	"github.com/tomz197/tunnelless/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sandbox error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal belongs to the canvas, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{
		ReportTimestamp: true,
		Level:           config.GetLogLevel("LOG_LEVEL", log.InfoLevel),
		Prefix:          "sandbox",
	})

	settings := sim.SettingsFromEnv()
	runner, err := settings.NewRunner(logger)
	if err != nil {
		return err
	}
	logger.Info("Sandbox ready", "scene", settings.Scene, "seed", settings.Seed)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	return loop.Run(ctx, runner, reader, os.Stdout, loop.ClientOptions{Logger: logger})
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/airhockey/internal/config"
	"github.com/tomz197/airhockey/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The game owns the terminal, so logs only go to a file when asked for.
	logOut := io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "airhockey")

	opts := loop.Options{Logger: logger}

	if path := config.GetEnv("TUNING_FILE", ""); path != "" {
		tuning, err := config.LoadTuning(path)
		if err != nil {
			return err
		}
		opts.Tuning = tuning

		watcher, err := config.NewWatcher(path)
		if err != nil {
			return err
		}
		defer watcher.Close()
		opts.Tunings = watcher.Updates
		go logWatchErrors(logger, watcher.Errors)

		logger.Info("tuning loaded", "path", path)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	return loop.Run(reader, os.Stdout, opts)
}

func logWatchErrors(logger *log.Logger, errs <-chan error) {
	for err := range errs {
		logger.Error("tuning reload failed", "err", err)
	}
}

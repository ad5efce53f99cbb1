package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/airhockey/internal/config"
	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultIdleTimeout = 2 * time.Minute
)

// server holds what every session shares: the logger and the latest tuning.
// Each session plays its own match.
type server struct {
	logger      *log.Logger
	tuning      atomic.Pointer[config.Tuning]
	idleTimeout time.Duration
	shutdown    chan struct{}
	sessions    sync.WaitGroup
}

func main() {
	logger := config.NewLogger(os.Stderr, "airhockey-ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	tuningPath := config.GetEnv("TUNING_FILE", "")

	srv := &server{
		logger:      logger,
		idleTimeout: config.GetEnvDuration("IDLE_TIMEOUT", defaultIdleTimeout),
		shutdown:    make(chan struct{}),
	}
	tuning := config.Default()
	srv.tuning.Store(&tuning)

	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "tuning", tuningPath)

	if tuningPath != "" {
		watcher, err := srv.watchTuning(tuningPath)
		if err != nil {
			logger.Fatal("failed to load tuning", "err", err)
		}
		defer watcher.Close()
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// End running matches before closing the listener.
	close(srv.shutdown)
	srv.sessions.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// watchTuning loads the tuning file and keeps the shared tuning current.
// Sessions pick up the latest tuning when they start.
func (srv *server) watchTuning(path string) (*config.Watcher, error) {
	tuning, err := config.LoadTuning(path)
	if err != nil {
		return nil, err
	}
	srv.tuning.Store(&tuning)

	watcher, err := config.NewWatcher(path)
	if err != nil {
		return nil, err
	}

	go func() {
		for t := range watcher.Updates {
			srv.tuning.Store(&t)
			srv.logger.Info("tuning reloaded", "path", path)
		}
	}()
	go func() {
		for err := range watcher.Errors {
			srv.logger.Error("tuning reload failed", "err", err)
		}
	}()
	return watcher, nil
}

// gameMiddleware handles SSH sessions and runs a match per session.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		srv.sessions.Add(1)
		defer srv.sessions.Done()

		logger := srv.logger.With("user", sess.User())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		stop := make(chan struct{})
		go func() {
			select {
			case <-srv.shutdown:
			case <-sess.Context().Done():
			}
			close(stop)
		}()

		opts := loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Logger:       logger,
			Tuning:       *srv.tuning.Load(),
			Done:         stop,
			IdleTimeout:  srv.idleTimeout,
		}
		if err := loop.Run(bufio.NewReader(sess), sess, opts); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize

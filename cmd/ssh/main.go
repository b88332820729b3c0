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
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	uuid "github.com/satori/go.uuid"

	"github.com/tomz197/tunnelless/internal/config"
	"github.com/tomz197/tunnelless/internal/draw"
	"github.com/tomz197/tunnelless/internal/loop"
	"github.com/tomz197/tunnelless/internal/sim"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultIdleTimeout = 10 * time.Minute
	shutdownTimeout    = 15 * time.Second
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           config.GetLogLevel("LOG_LEVEL", log.InfoLevel),
		Prefix:          "ssh",
	})

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	idleTimeout := config.GetEnvDuration("SSH_IDLE_TIMEOUT", defaultIdleTimeout)
	settings := sim.SettingsFromEnv()
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "scene", settings.Scene)

	sessions := &sessionGroup{}
	handler := sandboxHandler(settings, idleTimeout, logger, sessions)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			func(ssh.Handler) ssh.Handler { return handler },
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for key presses
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
		logger.Fatal("Failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("Server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Stop the sandboxes first so every client restores its terminal.
	sessions.stopAll(shutdownTimeout, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error", "err", err)
	}
}

// sandboxHandler gives every session its own runner, rendered over the PTY.
func sandboxHandler(settings sim.Settings, idleTimeout time.Duration, logger *log.Logger, sessions *sessionGroup) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		id := uuid.NewV4().String()[:8]
		sessLogger := logger.With("session", id, "user", sess.User())
		sessLogger.Info("New sandbox session", "terminal", pty.Term, "size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		runner, err := settings.NewRunner(sessLogger)
		if err != nil {
			sessLogger.Error("Failed to build world", "err", err)
			fmt.Fprintf(sess, "Error: %v\n", err)
			return
		}

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, release := sessions.add(sess.Context())
		defer release()

		reader := bufio.NewReader(sess)
		err = loop.Run(ctx, runner, reader, sess, loop.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			IdleTimeout:  idleTimeout,
			Logger:       sessLogger,
		})
		if err != nil {
			sessLogger.Error("Sandbox error", "err", err)
		}
		sessLogger.Info("Session ended", "tick", runner.Frame().Tick)
	}
}

// sessionGroup tracks running sessions so shutdown can stop them.
type sessionGroup struct {
	mu      sync.Mutex
	cancels map[int]context.CancelFunc
	next    int
	wg      sync.WaitGroup
}

// add derives a session context that stopAll can cancel. release must be
// called when the session ends.
func (g *sessionGroup) add(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	g.mu.Lock()
	if g.cancels == nil {
		g.cancels = make(map[int]context.CancelFunc)
	}
	key := g.next
	g.next++
	g.cancels[key] = cancel
	g.wg.Add(1)
	g.mu.Unlock()

	return ctx, func() {
		g.mu.Lock()
		delete(g.cancels, key)
		g.mu.Unlock()
		cancel()
		g.wg.Done()
	}
}

// stopAll cancels every session and waits up to timeout for them to end.
func (g *sessionGroup) stopAll(timeout time.Duration, logger *log.Logger) {
	g.mu.Lock()
	logger.Info("Stopping sessions", "count", len(g.cancels))
	for _, cancel := range g.cancels {
		cancel()
	}
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		logger.Warn("Sessions still running after timeout", "timeout", timeout)
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

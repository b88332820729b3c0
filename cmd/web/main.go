package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/tunnelless/internal/config"
	"github.com/tomz197/tunnelless/internal/sim"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"

	writeWait    = 2 * time.Second
	pingInterval = 30 * time.Second
	maxMessage   = 512 // Commands are short text lines
)

//go:embed index.html
var htmlPage []byte

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           config.GetLogLevel("LOG_LEVEL", log.InfoLevel),
		Prefix:          "web",
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	settings := sim.SettingsFromEnv()

	runner, err := settings.NewRunner(logger)
	if err != nil {
		logger.Fatal("Failed to build world", "scene", settings.Scene, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go runner.Run(ctx)

	srv := &http.Server{
		Addr:    net.JoinHostPort(host, port),
		Handler: newHandler(runner, logger),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting web server", "addr", "http://"+srv.Addr, "scene", settings.Scene)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server error", "err", err)
	}
	logger.Info("Server stopped")
}

// newHandler serves the viewer page, the latest frame and the frame stream.
func newHandler(r *sim.Runner, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(htmlPage)
	})
	mux.HandleFunc("GET /frame", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(r.Frame()); err != nil {
			logger.Warn("Failed to write frame", "err", err)
		}
	})
	mux.Handle("GET /ws", &streamHandler{runner: r, logger: logger})
	return mux
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

// streamHandler pushes every new frame to a websocket client and forwards
// the client's text commands to the runner.
type streamHandler struct {
	runner *sim.Runner
	logger *log.Logger
}

func (h *streamHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	asJSON := req.URL.Query().Get("format") == "json"
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.logger.Debug("Websocket upgrade failed", "err", err)
		return
	}
	logger := h.logger.With("remote", req.RemoteAddr)
	logger.Info("Viewer connected", "json", asJSON)
	defer logger.Info("Viewer disconnected")

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	go func() {
		defer cancel()
		h.readCommands(conn, logger)
	}()

	if err := h.writeFrames(ctx, conn, asJSON); err != nil && !isClosed(err) {
		logger.Warn("Stream ended", "err", err)
	}
	_ = conn.Close()
}

// readCommands forwards text commands until the connection fails.
func (h *streamHandler) readCommands(conn *websocket.Conn, logger *log.Logger) {
	conn.SetReadLimit(maxMessage)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	})
	_ = conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
		if kind != websocket.TextMessage {
			continue
		}
		cmd, err := sim.ParseCommand(string(msg))
		if err != nil {
			logger.Debug("Ignoring command", "err", err)
			continue
		}
		if !h.runner.Send(cmd) {
			logger.Warn("Command dropped, runner busy", "command", cmd)
		}
	}
}

// writeFrames polls the runner at its tick rate and sends each frame once.
func (h *streamHandler) writeFrames(ctx context.Context, conn *websocket.Conn, asJSON bool) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.runner.TickRate()))
	defer ticker.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	var last *sim.Frame
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return nil
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-ticker.C:
			f := h.runner.Frame()
			if f == last {
				continue
			}
			last = f
			if err := writeFrame(conn, f, asJSON); err != nil {
				return err
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, f *sim.Frame, asJSON bool) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if asJSON {
		return conn.WriteJSON(f)
	}
	data, err := sim.EncodeFrame(f)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, net.ErrClosed)
}

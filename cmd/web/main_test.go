package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/tunnelless/internal/sim"
)

func newTestServer(t *testing.T) (*httptest.Server, *sim.Runner) {
	t.Helper()
	settings := sim.Settings{Scene: "tunnel", Width: 100, Height: 50, Seed: 1, TickRate: 100, History: 10}
	r, err := settings.NewRunner(nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	srv := httptest.NewServer(newHandler(r, log.New(io.Discard)))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, r
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestIndexAndFrame(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Errorf("GET / = %d, page missing canvas", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/frame")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var f sim.Frame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if f.Width != 100 || f.Height != 50 || len(f.Bodies) != 7 {
		t.Errorf("frame = %vx%v with %d bodies, want 100x50 with 7", f.Width, f.Height, len(f.Bodies))
	}
}

func TestStreamMsgpack(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv, "")

	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	var f sim.Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.Width != 100 || len(f.Bodies) != 7 {
		t.Errorf("frame = %+v", f)
	}
}

func TestStreamCommands(t *testing.T) {
	srv, r := newTestServer(t)
	conn := dial(t, srv, "?format=json")

	if err := conn.WriteMessage(websocket.TextMessage, []byte("bogus")); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte("pause")); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		var f sim.Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		if f.Paused {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("pause command never reached the runner")
		}
	}
	if !r.Frame().Paused {
		t.Error("runner not paused")
	}
}

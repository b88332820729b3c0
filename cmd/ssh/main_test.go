package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(120, 40)
	w, h, err := s.getSize()
	if err != nil || w != 120 || h != 40 {
		t.Errorf("getSize = %d, %d, %v, want 120, 40, nil", w, h, err)
	}
}

func TestSessionGroupStopAll(t *testing.T) {
	var g sessionGroup
	ctx, release := g.add(context.Background())
	go func() {
		<-ctx.Done()
		release()
	}()

	done := make(chan struct{})
	go func() {
		g.stopAll(5*time.Second, log.New(io.Discard))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stopAll did not return")
	}
	if len(g.cancels) != 0 {
		t.Errorf("%d sessions left registered", len(g.cancels))
	}
}

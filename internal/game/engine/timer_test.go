package engine_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cory-johannsen/arcana/internal/game/engine"
)

func TestTickTimer_Fires(t *testing.T) {
	var called atomic.Int32
	var tt engine.TickTimer
	tt.Reset(20*time.Millisecond, func() {
		called.Add(1)
	})
	time.Sleep(50 * time.Millisecond)
	if called.Load() != 1 {
		t.Fatalf("expected callback called once, got %d", called.Load())
	}
}

func TestTickTimer_Stop_PreventsCallback(t *testing.T) {
	var called atomic.Int32
	var tt engine.TickTimer
	tt.Reset(50*time.Millisecond, func() {
		called.Add(1)
	})
	tt.Stop()
	time.Sleep(80 * time.Millisecond)
	if called.Load() != 0 {
		t.Fatalf("expected callback not called, got %d", called.Load())
	}
}

func TestTickTimer_Reset_ReplacesCallback(t *testing.T) {
	var first, second atomic.Int32
	var tt engine.TickTimer
	tt.Reset(30*time.Millisecond, func() {
		first.Add(1)
	})
	time.Sleep(10 * time.Millisecond)
	tt.Reset(30*time.Millisecond, func() {
		second.Add(1)
	})
	time.Sleep(80 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("replaced callback fired %d times", first.Load())
	}
	if second.Load() != 1 {
		t.Fatalf("expected new callback called once, got %d", second.Load())
	}
}

func TestTickTimer_StopBeforeReset(t *testing.T) {
	var tt engine.TickTimer
	tt.Stop()
	var called atomic.Int32
	tt.Reset(10*time.Millisecond, func() { called.Add(1) })
	time.Sleep(40 * time.Millisecond)
	if called.Load() != 1 {
		t.Fatalf("expected callback called once after Reset, got %d", called.Load())
	}
}

func TestTickTimer_StopIdempotent(t *testing.T) {
	var tt engine.TickTimer
	tt.Reset(50*time.Millisecond, func() {})
	tt.Stop()
	tt.Stop()
}

package session

import (
	"math"
	"testing"
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
)

func TestClockStep(t *testing.T) {
	c := NewClock(config.NominalFrame, config.MaxDelta)

	if dt := c.Step(t0); dt != 1 {
		t.Errorf("first step: expected 1, got %v", dt)
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"one frame", config.NominalFrame, 1},
		{"half frame", config.NominalFrame / 2, 0.5},
		{"stall clamped", 5 * time.Second, 1.5},
		{"no time passed", 0, 1},
		{"clock went backwards", -time.Second, 1},
	}

	now := t0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = now.Add(tt.elapsed)
			if got := c.Step(now); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	c.Reset()
	if dt := c.Step(now.Add(time.Hour)); dt != 1 {
		t.Errorf("step after reset: expected 1, got %v", dt)
	}
}

func TestNormalizeDelta(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 1},
		{-2, 1},
		{0, 1},
		{0.25, 0.25},
		{1.5, 1.5},
		{1.50001, 1.5},
		{100, 1.5},
	}
	for _, tt := range tests {
		if got := normalizeDelta(tt.in, config.MaxDelta); got != tt.want {
			t.Errorf("normalizeDelta(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestSpawnScheduler(t *testing.T) {
	s := NewSpawnScheduler(20*time.Second, time.Second)
	s.Reset(t0)

	if s.SpawnDue(t0.Add(20 * time.Second)) {
		t.Error("spawn due at exactly the interval")
	}
	if !s.SpawnDue(t0.Add(20*time.Second + time.Millisecond)) {
		t.Error("spawn not due after the interval")
	}
	if s.SpawnDue(t0.Add(30 * time.Second)) {
		t.Error("spawn timer not rearmed")
	}

	wantSides := []bool{true, false, true, false}
	now := t0
	for i, want := range wantSides {
		now = now.Add(time.Second + time.Millisecond)
		fromLeft, due := s.FireDue(now)
		if !due {
			t.Fatalf("volley %d: expected fire due", i)
		}
		if fromLeft != want {
			t.Errorf("volley %d: expected fromLeft=%v", i, want)
		}
		if _, again := s.FireDue(now); again {
			t.Errorf("volley %d: fired twice in one tick", i)
		}
	}

	s.Reset(now)
	if fromLeft, due := s.FireDue(now.Add(2 * time.Second)); !due || !fromLeft {
		t.Error("expected reset to favor the left side again")
	}
}

func TestFireGate(t *testing.T) {
	g := fireGate{rate: 300 * time.Millisecond}

	if !g.Allow(t0) {
		t.Fatal("first shot should be allowed")
	}
	if g.Allow(t0.Add(299 * time.Millisecond)) {
		t.Error("shot allowed before the rate elapsed")
	}
	if !g.Allow(t0.Add(300 * time.Millisecond)) {
		t.Error("shot refused at exactly the rate")
	}
	g.reset(t0, false)
	if !g.Allow(t0.Add(301 * time.Millisecond)) {
		t.Error("shot refused after reset")
	}
}

func TestScoreKeeper(t *testing.T) {
	var k ScoreKeeper
	k.Add(10)
	k.Add(-5)
	k.Add(0)
	k.Add(30)
	if k.Total() != 40 {
		t.Errorf("expected 40, got %d", k.Total())
	}
	k.Reset()
	if k.Total() != 0 {
		t.Errorf("expected 0 after reset, got %d", k.Total())
	}
}

package object

import (
	"math/rand"
	"testing"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

func newTestFormation() (*Formation, *IDSource) {
	ids := &IDSource{}
	return NewFormation(ids, config.Default().Formation), ids
}

func TestNewFormationLayout(t *testing.T) {
	f, _ := newTestFormation()

	if f.Len() != 27 {
		t.Fatalf("expected 27 invaders, got %d", f.Len())
	}
	left, right, ok := f.Extent()
	if !ok || left != 100 || right != 435 {
		t.Errorf("expected extent [100, 435], got [%v, %v] ok=%v", left, right, ok)
	}

	seen := make(map[ID]bool)
	points := map[float64]int{30: 30, 70: 20, 110: 10}
	for _, inv := range f.Invaders() {
		if seen[inv.ID] {
			t.Fatalf("duplicate invader id %d", inv.ID)
		}
		seen[inv.ID] = true

		want, ok := points[inv.Pos.Y]
		if !ok {
			t.Fatalf("unexpected row y=%v", inv.Pos.Y)
		}
		if inv.Points != want {
			t.Errorf("invader at y=%v: expected %d points, got %d", inv.Pos.Y, want, inv.Points)
		}
	}
	if seen[f.ID()] {
		t.Error("formation id collides with an invader id")
	}
}

func TestFormationFlipsAtRightMargin(t *testing.T) {
	f, _ := newTestFormation()
	startY := make(map[ID]float64)
	for _, inv := range f.Invaders() {
		startY[inv.ID] = inv.Pos.Y
	}

	// Extent is checked before moving, so the right edge reaches 750 on the 316th update.
	for i := 1; i < 316; i++ {
		if f.Update(1, config.ScreenWidth) {
			t.Fatalf("unexpected flip at update %d", i)
		}
	}
	if !f.Update(1, config.ScreenWidth) {
		t.Fatal("expected flip once the right edge reached 750")
	}

	if f.Velocity().X != -1 {
		t.Errorf("expected velocity -1 after flip, got %v", f.Velocity().X)
	}
	for _, inv := range f.Invaders() {
		if inv.Pos.Y != startY[inv.ID]+40 {
			t.Errorf("invader %d: expected y=%v, got %v", inv.ID, startY[inv.ID]+40, inv.Pos.Y)
		}
	}
	// The reversed direction takes effect in the same update.
	if _, right, _ := f.Extent(); right != 749 {
		t.Errorf("expected right edge 749 after flip, got %v", right)
	}

	if f.Update(1, config.ScreenWidth) {
		t.Error("formation flipped twice for one boundary crossing")
	}
}

func TestFormationOffsetCappedAtOneFrame(t *testing.T) {
	f, _ := newTestFormation()
	f.Update(1.5, config.ScreenWidth)

	if f.Offset().X != 1 {
		t.Errorf("expected offset advance capped at 1, got %v", f.Offset().X)
	}
	if left, _, _ := f.Extent(); left != 101.5 {
		t.Errorf("expected members to move by full dt to 101.5, got %v", left)
	}
}

func TestFormationRemove(t *testing.T) {
	f, _ := newTestFormation()
	dead := make(map[ID]struct{})
	for _, inv := range f.Invaders() {
		dead[inv.ID] = struct{}{}
	}

	if n := f.Remove(nil); n != 0 {
		t.Errorf("expected nothing removed, got %d", n)
	}
	if n := f.Remove(dead); n != 27 {
		t.Errorf("expected 27 removed, got %d", n)
	}
	if !f.Empty() {
		t.Fatal("expected empty formation")
	}
	if _, _, ok := f.Extent(); ok {
		t.Error("empty formation should have no extent")
	}
	if f.Update(1, config.ScreenWidth) {
		t.Error("empty formation should never flip")
	}
	if shots := f.Shoot(&IDSource{}, true, 1, rand.New(rand.NewSource(1)), config.Default().Shots); shots != nil {
		t.Errorf("empty formation should not shoot, got %d shots", len(shots))
	}
}

func TestFormationShoot(t *testing.T) {
	shotCfg := config.Default().Shots

	tests := []struct {
		name      string
		fromLeft  bool
		chance    float64
		wantShots int
		wantMain  physics.Vector2
	}{
		{name: "left", fromLeft: true, chance: 0, wantShots: 1, wantMain: physics.Vector2{X: 107.5, Y: 45}},
		{name: "right", fromLeft: false, chance: 0, wantShots: 1, wantMain: physics.Vector2{X: 427.5, Y: 125}},
		{name: "extra shot first", fromLeft: true, chance: 1, wantShots: 2, wantMain: physics.Vector2{X: 107.5, Y: 45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ids := newTestFormation()
			shots := f.Shoot(ids, tt.fromLeft, tt.chance, rand.New(rand.NewSource(7)), shotCfg)

			if len(shots) != tt.wantShots {
				t.Fatalf("expected %d shots, got %d", tt.wantShots, len(shots))
			}
			main := shots[len(shots)-1]
			if main.Pos != tt.wantMain {
				t.Errorf("expected primary shot at %+v, got %+v", tt.wantMain, main.Pos)
			}
			for _, s := range shots {
				if s.Kind() != KindEnemyShot || s.Vel.Y != shotCfg.EnemySpeed {
					t.Errorf("expected downward enemy shot, got kind=%v vel=%+v", s.Kind(), s.Vel)
				}
			}
		})
	}
}

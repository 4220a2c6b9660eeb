package scenes

import (
	"math/rand"
	"testing"

	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func newTestScene(t *testing.T, seed int64) *SimulationScene {
	t.Helper()
	cfg, err := config.LoadSimulationConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	scene, err := NewSimulationScene(cfg, rand.New(rand.NewSource(seed)), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create scene: %v", err)
	}
	return scene
}

// 场景应满足 game.Scene 接口
var _ game.Scene = (*SimulationScene)(nil)

func TestNewSimulationScene(t *testing.T) {
	scene := newTestScene(t, 1)

	if got := scene.Arcs().ArcCount(); got != 15 {
		t.Errorf("expected 15 arcs, got %d", got)
	}
	balls := scene.Balls()
	if len(balls) != 2 {
		t.Fatalf("expected 2 balls, got %d", len(balls))
	}

	tests := []struct {
		name  string
		index int
		x, y  float64
	}{
		{"red ball left of center", 0, 350, 300},
		{"blue ball right of center", 1, 450, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := scene.BallPosition(balls[tt.index])
			if !ok {
				t.Fatal("ball position not found")
			}
			if pos.X != tt.x || pos.Y != tt.y {
				t.Errorf("expected (%.0f, %.0f), got (%.2f, %.2f)", tt.x, tt.y, pos.X, pos.Y)
			}
		})
	}

	frame := scene.Frame()
	if len(frame.Lines) != 15*60 {
		t.Errorf("expected %d wall lines, got %d", 15*60, len(frame.Lines))
	}
	// 尚无轨迹：每个小球一个描边 + 一个本体
	if len(frame.Circles) != 4 {
		t.Errorf("expected 4 circles before the first update, got %d", len(frame.Circles))
	}
}

func TestSimulationSceneFixedTimestep(t *testing.T) {
	a := newTestScene(t, 7)
	b := newTestScene(t, 7)

	// 同样的随机种子，不同的 deltaTime 应得到相同结果
	for i := 0; i < 10; i++ {
		if err := a.Update(1.0 / 60.0); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if err := b.Update(0.5); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	for i, id := range a.Balls() {
		pa, _ := a.BallPosition(id)
		pb, _ := b.BallPosition(b.Balls()[i])
		if pa != pb {
			t.Errorf("ball %d diverged: %+v vs %+v", i, pa, pb)
		}
	}
	if a.FrameCount() != 10 {
		t.Errorf("expected 10 frames, got %d", a.FrameCount())
	}
}

func TestSimulationSceneGravity(t *testing.T) {
	scene := newTestScene(t, 3)
	id := scene.Balls()[0]
	before, _ := scene.BallPosition(id)

	for i := 0; i < 5; i++ {
		if err := scene.Update(config.FixedTimestep); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	after, _ := scene.BallPosition(id)
	if after.Y <= before.Y {
		t.Errorf("ball should fall (y grows downward): before %.2f, after %.2f", before.Y, after.Y)
	}
}

func TestSimulationSceneLongRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long simulation in short mode")
	}
	scene := newTestScene(t, 42)

	// 60 秒模拟：活动圆弧数始终不变，轨迹长度不超过上限
	for i := 0; i < 3600; i++ {
		if err := scene.Update(config.FixedTimestep); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if got := len(scene.Arcs().ActiveArcs()); got != 15 {
			t.Fatalf("frame %d: expected 15 active arcs, got %d", i, got)
		}
	}

	frame := scene.Frame()
	// 2 个小球 * (20 个轨迹点 + 描边 + 本体)
	if len(frame.Circles) != 2*(20+2) {
		t.Errorf("expected %d circles, got %d", 2*(20+2), len(frame.Circles))
	}
	if frame.Level != scene.Arcs().Escapes() {
		t.Errorf("HUD level %d should match escapes %d", frame.Level, scene.Arcs().Escapes())
	}
	wantRadius := 100 + 30*float64(15+scene.Arcs().Escapes())
	if got := scene.Arcs().NextRadius(); got != wantRadius {
		t.Errorf("next radius should be %.0f after %d escapes, got %.0f",
			wantRadius, scene.Arcs().Escapes(), got)
	}
}

func TestSimulationSceneDraw(t *testing.T) {
	scene := newTestScene(t, 5)
	screen := ebiten.NewImage(800, 600)
	scene.Draw(screen) // Should not panic
}

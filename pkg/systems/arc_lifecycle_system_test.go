package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/decker502/arcmaze/pkg/components"
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

type lifecycleFixture struct {
	physics   *PhysicsSystem
	router    *CollisionRouter
	lifecycle *ArcLifecycleSystem
	cfg       *config.SimulationConfig
}

// newLifecycleFixture 使用内置配置创建一套完整的物理 + 路由 + 生命周期
func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	cfg, err := config.LoadSimulationConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	log := zap.NewNop()
	physics := NewPhysicsSystem(cfg.Physics, log)
	router := NewCollisionRouter(physics, log)
	cx, cy := cfg.Center()
	lifecycle := NewArcLifecycleSystem(physics, router, cfg.Arc, cp.Vector{X: cx, Y: cy}, rand.New(rand.NewSource(1)), log)

	return &lifecycleFixture{
		physics:   physics,
		router:    router,
		lifecycle: lifecycle,
		cfg:       cfg,
	}
}

// 断言：活动圆弧碰撞类型两两不同且不等于小球类型
func assertUniqueCollisionTypes(t *testing.T, arcs []*components.ArcComponent) {
	t.Helper()
	seen := make(map[cp.CollisionType]bool)
	for _, arc := range arcs {
		if arc.CollisionType == config.BallCollisionType {
			t.Errorf("arc uses the ball collision type")
		}
		if seen[arc.CollisionType] {
			t.Errorf("duplicate collision type %d", arc.CollisionType)
		}
		seen[arc.CollisionType] = true
	}
}

// 断言：每个半径都是 base + k*step，k 互不相同
func assertRadiusLattice(t *testing.T, arcs []*components.ArcComponent, base, step float64) {
	t.Helper()
	seen := make(map[int]bool)
	for _, arc := range arcs {
		k := (arc.Radius - base) / step
		rounded := math.Round(k)
		if rounded < 0 || math.Abs(k-rounded) > 1e-9 {
			t.Errorf("radius %f is not base + k*step", arc.Radius)
			continue
		}
		if seen[int(rounded)] {
			t.Errorf("radius index %d used twice", int(rounded))
		}
		seen[int(rounded)] = true
	}
}

func TestSeedArcs(t *testing.T) {
	f := newLifecycleFixture(t)
	if err := f.lifecycle.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	arcs := f.lifecycle.ActiveArcs()
	if len(arcs) != 15 {
		t.Fatalf("expected 15 arcs, got %d", len(arcs))
	}

	for i, arc := range arcs {
		wantRadius := 100 + 30*float64(i)
		if arc.Radius != wantRadius {
			t.Errorf("arc %d radius = %f, expected %f", i, arc.Radius, wantRadius)
		}
		wantType := config.FirstArcCollisionType + cp.CollisionType(i)
		if arc.CollisionType != wantType {
			t.Errorf("arc %d collision type = %d, expected %d", i, arc.CollisionType, wantType)
		}
		if arc.AngularVelocity < 0.4 || arc.AngularVelocity > 1.0 {
			t.Errorf("arc %d angular velocity %f outside [0.4, 1.0]", i, arc.AngularVelocity)
		}
		if !f.router.IsBound(arc.CollisionType) {
			t.Errorf("arc %d gap handler not registered", i)
		}
		if !f.physics.Space().ContainsBody(arc.Body) {
			t.Errorf("arc %d body not in space", i)
		}
	}

	if f.lifecycle.NextRadius() != 550 {
		t.Errorf("expected nextRadius 550, got %f", f.lifecycle.NextRadius())
	}
	if f.lifecycle.NextCollisionType() != 25 {
		t.Errorf("expected nextCollisionType 25, got %d", f.lifecycle.NextCollisionType())
	}
	assertUniqueCollisionTypes(t, arcs)
}

// TestGapCrossedEndToEnd 最内层圆弧被穿过后，出现半径 550 的新圆弧
func TestGapCrossedEndToEnd(t *testing.T) {
	f := newLifecycleFixture(t)
	if err := f.lifecycle.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	innermost := f.lifecycle.ActiveArcs()[0]
	if innermost.Radius != 100 {
		t.Fatalf("expected innermost radius 100, got %f", innermost.Radius)
	}
	expectedType := f.lifecycle.NextCollisionType()

	if !f.lifecycle.MarkGapCrossed(innermost.CollisionType) {
		t.Fatal("first gap crossing should be registered")
	}
	if innermost.Active {
		t.Error("arc should be inactive right after crossing")
	}

	// 删除被推迟：物理空间里仍然有这个圆弧
	if !f.physics.Space().ContainsBody(innermost.Body) {
		t.Error("arc body must stay in space until the deferred phase")
	}

	removed, err := f.lifecycle.ApplyPending()
	if err != nil {
		t.Fatalf("ApplyPending failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}

	arcs := f.lifecycle.ActiveArcs()
	if len(arcs) != 15 {
		t.Fatalf("expected 15 arcs after respawn, got %d", len(arcs))
	}
	if arcs[0].Radius != 130 {
		t.Errorf("expected new innermost radius 130, got %f", arcs[0].Radius)
	}
	newest := arcs[len(arcs)-1]
	if newest.Radius != 550 {
		t.Errorf("expected respawned radius 550, got %f", newest.Radius)
	}
	if newest.CollisionType != expectedType {
		t.Errorf("expected respawned collision type %d, got %d", expectedType, newest.CollisionType)
	}

	// 旧圆弧的刚体和所有形状都已离开物理空间
	if f.physics.Space().ContainsBody(innermost.Body) {
		t.Error("removed arc body still in space")
	}
	for i, shape := range innermost.Shapes() {
		if f.physics.Space().ContainsShape(shape) {
			t.Errorf("removed arc shape %d still in space", i)
		}
	}
	if f.lifecycle.Escapes() != 1 {
		t.Errorf("expected 1 escape, got %d", f.lifecycle.Escapes())
	}
}

// TestDoubleNotificationSingleRemoval 同一步内两次重叠通知只移除一次、重生一次
func TestDoubleNotificationSingleRemoval(t *testing.T) {
	f := newLifecycleFixture(t)
	if err := f.lifecycle.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	escaped := 0
	f.lifecycle.SetOnEscape(func(*components.ArcComponent) { escaped++ })

	target := f.lifecycle.ActiveArcs()[0].CollisionType
	first := f.lifecycle.MarkGapCrossed(target)
	second := f.lifecycle.MarkGapCrossed(target)
	if !first || second {
		t.Fatalf("expected (true, false), got (%v, %v)", first, second)
	}

	removed, err := f.lifecycle.ApplyPending()
	if err != nil {
		t.Fatalf("ApplyPending failed: %v", err)
	}
	if removed != 1 || escaped != 1 {
		t.Errorf("expected exactly one removal, got removed=%d escaped=%d", removed, escaped)
	}

	// 再次执行不应有任何效果
	removed, err = f.lifecycle.ApplyPending()
	if err != nil || removed != 0 {
		t.Errorf("second ApplyPending should be a no-op, got removed=%d err=%v", removed, err)
	}
	if f.lifecycle.NextRadius() != 580 {
		t.Errorf("expected exactly one respawn (nextRadius 580), got %f", f.lifecycle.NextRadius())
	}
	if got := len(f.lifecycle.ActiveArcs()); got != 15 {
		t.Errorf("expected 15 arcs, got %d", got)
	}
}

func TestMarkGapCrossedUnknownType(t *testing.T) {
	f := newLifecycleFixture(t)
	if err := f.lifecycle.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if f.lifecycle.MarkGapCrossed(config.BallCollisionType) {
		t.Error("ball collision type should not map to an arc")
	}
	if f.lifecycle.MarkGapCrossed(9999) {
		t.Error("unknown collision type should be ignored")
	}
	if removed, _ := f.lifecycle.ApplyPending(); removed != 0 {
		t.Errorf("expected no removals, got %d", removed)
	}
}

// TestRespawnCyclesKeepInvariants 多轮移除/重生后数量、半径、碰撞类型不变式都成立
func TestRespawnCyclesKeepInvariants(t *testing.T) {
	f := newLifecycleFixture(t)
	if err := f.lifecycle.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	maxRadius := 0.0
	const cycles = 200

	for cycle := 0; cycle < cycles; cycle++ {
		arcs := f.lifecycle.ActiveArcs()

		// 随机选一个或两个圆弧在同一步内被穿过
		picks := 1 + rng.Intn(2)
		for i := 0; i < picks; i++ {
			arc := arcs[rng.Intn(len(arcs))]
			f.lifecycle.MarkGapCrossed(arc.CollisionType)
		}

		if _, err := f.lifecycle.ApplyPending(); err != nil {
			t.Fatalf("cycle %d: ApplyPending failed: %v", cycle, err)
		}

		arcs = f.lifecycle.ActiveArcs()
		if len(arcs) != 15 {
			t.Fatalf("cycle %d: expected 15 arcs, got %d", cycle, len(arcs))
		}
		assertUniqueCollisionTypes(t, arcs)
		assertRadiusLattice(t, arcs, 100, 30)

		current := arcs[len(arcs)-1].Radius
		if current < maxRadius {
			t.Fatalf("cycle %d: max radius decreased from %f to %f", cycle, maxRadius, current)
		}
		maxRadius = current
	}

	if f.lifecycle.ArcCount() != 15 {
		t.Errorf("lookup table should hold 15 arcs, got %d", f.lifecycle.ArcCount())
	}
}

func TestSpawnArcDuplicateCollisionType(t *testing.T) {
	f := newLifecycleFixture(t)
	if _, err := f.lifecycle.SpawnArc(); err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	// 人为回退计数器模拟碰撞类型冲突
	f.lifecycle.nextCollisionType--
	radiusBefore := f.lifecycle.NextRadius()

	_, err := f.lifecycle.SpawnArc()
	if !errors.Is(err, ErrDuplicateCollisionType) {
		t.Fatalf("expected ErrDuplicateCollisionType, got %v", err)
	}
	if f.lifecycle.NextRadius() != radiusBefore {
		t.Error("failed spawn must not advance nextRadius")
	}
	if len(f.lifecycle.ActiveArcs()) != 1 {
		t.Errorf("failed spawn must not register an arc, got %d arcs", len(f.lifecycle.ActiveArcs()))
	}
}

// TestBallThroughGapTriggersRespawn 真实物理：小球放在缺口传感器上，一步后圆弧被替换
func TestBallThroughGapTriggersRespawn(t *testing.T) {
	f := newLifecycleFixture(t)
	if err := f.lifecycle.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	innermost := f.lifecycle.ActiveArcs()[0]
	cx, cy := f.cfg.Center()

	// 缺口中心在局部 (0, -r)，刚体尚未旋转
	ball := cp.NewBody(1, cp.MomentForCircle(1, 0, 10, cp.Vector{}))
	ball.SetPosition(cp.Vector{X: cx, Y: cy - innermost.Radius})
	shape := cp.NewCircle(ball, 10, cp.Vector{})
	shape.SetCollisionType(config.BallCollisionType)
	f.physics.AddBodyWithShapes(ball, []*cp.Shape{shape})

	if err := f.physics.Step(config.FixedTimestep); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	if innermost.Active {
		t.Fatal("innermost arc should have been crossed")
	}
	if f.physics.Space().ContainsBody(innermost.Body) {
		t.Error("crossed arc should be removed after the step")
	}

	arcs := f.lifecycle.ActiveArcs()
	if len(arcs) != 15 {
		t.Fatalf("expected 15 arcs, got %d", len(arcs))
	}
	if arcs[len(arcs)-1].Radius != 550 {
		t.Errorf("expected new outer arc at 550, got %f", arcs[len(arcs)-1].Radius)
	}
	if f.lifecycle.Escapes() != 1 {
		t.Errorf("expected exactly one escape, got %d", f.lifecycle.Escapes())
	}

	// 传感器不产生物理响应：小球只受重力，速度方向向下
	if v := ball.Velocity(); v.Y <= 0 || math.Abs(v.X) > 1e-9 {
		t.Errorf("ball should only be accelerated by gravity, got velocity %+v", v)
	}
}

// TestBallBouncesOffWall 小球碰到墙壁不会触发缺口回调
func TestBallBouncesOffWall(t *testing.T) {
	f := newLifecycleFixture(t)
	if err := f.lifecycle.Seed(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	innermost := f.lifecycle.ActiveArcs()[0]
	cx, cy := f.cfg.Center()

	// 放在圆弧正下方的墙壁上（局部 +y 方向，远离缺口）
	ball := cp.NewBody(1, cp.MomentForCircle(1, 0, 10, cp.Vector{}))
	ball.SetPosition(cp.Vector{X: cx, Y: cy + innermost.Radius - 20})
	shape := cp.NewCircle(ball, 10, cp.Vector{})
	shape.SetElasticity(0.99)
	shape.SetCollisionType(config.BallCollisionType)
	f.physics.AddBodyWithShapes(ball, []*cp.Shape{shape})

	for i := 0; i < 30; i++ {
		if err := f.physics.Step(config.FixedTimestep); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	if !innermost.Active || f.lifecycle.Escapes() != 0 {
		t.Error("wall contact must not trigger a gap crossing")
	}
	// 墙壁挡住了小球
	if ball.Position().Y > cy+innermost.Radius {
		t.Errorf("ball passed through the wall: y=%f", ball.Position().Y)
	}
}

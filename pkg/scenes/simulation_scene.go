package scenes

import (
	"fmt"
	"math/rand"

	"github.com/decker502/arcmaze/pkg/components"
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/ecs"
	"github.com/decker502/arcmaze/pkg/entities"
	"github.com/decker502/arcmaze/pkg/game"
	"github.com/decker502/arcmaze/pkg/render"
	"github.com/decker502/arcmaze/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// SimulationScene 同心旋转圆环迷宫
//
// 每次 Update 固定推进 config.FixedTimestep：
//  1. 物理步进（碰撞回调只登记，步进结束后统一移除并重生圆弧）
//  2. 记录小球轨迹
//
// 绘制只读取当前状态，不修改任何东西。
type SimulationScene struct {
	cfg *config.SimulationConfig
	log *zap.Logger

	entityManager *ecs.EntityManager
	physics       *systems.PhysicsSystem
	router        *systems.CollisionRouter
	arcs          *systems.ArcLifecycleSystem
	trails        *systems.TrailSystem
	renderer      *systems.RenderSystem

	balls   []ecs.EntityID
	audio   *game.AudioManager
	surface *render.EbitenSurface

	frameCount int
}

// NewSimulationScene 创建模拟场景：物理世界、初始圆弧和小球
//
// 参数:
//   - cfg: 模拟配置
//   - rng: 圆弧角速度的随机源
//   - log: 日志器
//
// 返回:
//   - *SimulationScene: 已就绪的场景
//   - error: 圆弧或小球生成失败
func NewSimulationScene(cfg *config.SimulationConfig, rng *rand.Rand, log *zap.Logger) (*SimulationScene, error) {
	log = log.Named("Simulation")

	cx, cy := cfg.Center()
	center := cp.Vector{X: cx, Y: cy}

	physics := systems.NewPhysicsSystem(cfg.Physics, log)
	router := systems.NewCollisionRouter(physics, log)
	arcs := systems.NewArcLifecycleSystem(physics, router, cfg.Arc, center, rng, log)
	em := ecs.NewEntityManager()

	s := &SimulationScene{
		cfg:           cfg,
		log:           log,
		entityManager: em,
		physics:       physics,
		router:        router,
		arcs:          arcs,
		trails:        systems.NewTrailSystem(em),
		renderer:      systems.NewRenderSystem(em, arcs, cfg.Arc.Thickness, cfg.Ball.OutlineWidth),
		surface:       &render.EbitenSurface{ShowHUD: true},
	}
	arcs.SetOnEscape(s.onArcRemoved)

	if err := arcs.Seed(); err != nil {
		return nil, err
	}

	for i, spawn := range cfg.Ball.Spawns {
		id, err := entities.NewBallEntity(em, physics, entities.BallSpec{
			Position:    cp.Vector{X: cx + spawn.OffsetX, Y: float64(cfg.Screen.Height) / 2},
			Radius:      cfg.Ball.Radius,
			Mass:        cfg.Ball.Mass,
			Elasticity:  cfg.Ball.Elasticity,
			Friction:    cfg.Ball.Friction,
			Color:       spawn.RGBA(),
			TrailLength: cfg.Trail.Length,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to spawn ball %d: %w", i, err)
		}
		s.balls = append(s.balls, id)
	}

	log.Info("simulation ready",
		zap.Int("arcs", arcs.ArcCount()),
		zap.Int("balls", len(s.balls)))
	return s, nil
}

// SetAudioManager 设置圆弧被击穿时的提示音（可为 nil）
func (s *SimulationScene) SetAudioManager(am *game.AudioManager) {
	s.audio = am
}

// onArcRemoved 圆弧被移除时播放对应层的提示音
func (s *SimulationScene) onArcRemoved(arc *components.ArcComponent) {
	level := int((arc.Radius - s.cfg.Arc.BaseRadius) / s.cfg.Arc.RadiusStep)
	s.log.Debug("ring broken", zap.Int("level", level), zap.Int("escapes", s.arcs.Escapes()+1))
	if s.audio != nil {
		s.audio.PlayEscapeTone(level)
	}
}

// Update 推进一帧
//
// deltaTime 被忽略，物理始终按 config.FixedTimestep 步进，保证结果与帧率无关。
func (s *SimulationScene) Update(deltaTime float64) error {
	if err := s.physics.Step(config.FixedTimestep); err != nil {
		return fmt.Errorf("simulation frame %d: %w", s.frameCount, err)
	}
	s.trails.Update()
	s.frameCount++
	return nil
}

// Frame 当前状态的绘制描述
func (s *SimulationScene) Frame() *render.Frame {
	return s.renderer.BuildFrame()
}

// Draw 绘制到 ebiten 屏幕
func (s *SimulationScene) Draw(screen *ebiten.Image) {
	s.surface.Target = screen
	s.surface.DrawFrame(s.Frame())
}

// Arcs 圆弧生命周期系统
func (s *SimulationScene) Arcs() *systems.ArcLifecycleSystem {
	return s.arcs
}

// Balls 小球实体（按生成顺序）
func (s *SimulationScene) Balls() []ecs.EntityID {
	out := make([]ecs.EntityID, len(s.balls))
	copy(out, s.balls)
	return out
}

// BallPosition 小球当前位置
func (s *SimulationScene) BallPosition(id ecs.EntityID) (cp.Vector, bool) {
	ball, ok := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
	if !ok {
		return cp.Vector{}, false
	}
	return ball.Position(), true
}

// FrameCount 已推进的帧数
func (s *SimulationScene) FrameCount() int {
	return s.frameCount
}

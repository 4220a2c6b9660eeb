package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/decker502/arcmaze/pkg/components"
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/ecs"
	"github.com/decker502/arcmaze/pkg/entities"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// ErrDuplicateCollisionType 新圆弧的碰撞类型已被活动圆弧占用
var ErrDuplicateCollisionType = errors.New("collision type already in use")

// ArcLifecycleSystem 圆弧生命周期管理
//
// 唯一拥有活动圆弧集合和两个单调计数器（nextRadius, nextCollisionType）。
// 其他系统只能通过 SpawnArc / MarkGapCrossed / ApplyPending 间接修改集合。
//
// 移除分两阶段：
//  1. 碰撞回调期间 MarkGapCrossed 把圆弧标记为非活动并登记删除；
//  2. 步进完成后 ApplyPending 移除刚体和形状，并为每个被移除的圆弧生成一个新圆弧。
type ArcLifecycleSystem struct {
	em      *ecs.EntityManager
	physics *PhysicsSystem
	router  *CollisionRouter
	cfg     config.ArcConfig
	center  cp.Vector
	rng     *rand.Rand
	log     *zap.Logger

	// byCollisionType 缺口碰撞类型 -> 圆弧实体
	byCollisionType map[cp.CollisionType]ecs.EntityID

	nextRadius        float64
	nextCollisionType cp.CollisionType

	// escapes 已完成的移除-重生次数
	escapes int

	// onEscape 每移除一个圆弧调用一次（音效等）
	onEscape func(arc *components.ArcComponent)
}

// NewArcLifecycleSystem 创建圆弧生命周期系统并挂接到碰撞路由和物理系统
//
// 圆弧登记表由本系统内部创建，不与其他实体共享。
//
// 参数:
//   - physics: 物理系统
//   - router: 碰撞路由
//   - cfg: 圆弧参数
//   - center: 所有圆弧共用的圆心
//   - rng: 角速度随机源
//   - log: 日志器
func NewArcLifecycleSystem(
	physics *PhysicsSystem,
	router *CollisionRouter,
	cfg config.ArcConfig,
	center cp.Vector,
	rng *rand.Rand,
	log *zap.Logger,
) *ArcLifecycleSystem {
	s := &ArcLifecycleSystem{
		em:                ecs.NewEntityManager(),
		physics:           physics,
		router:            router,
		cfg:               cfg,
		center:            center,
		rng:               rng,
		log:               log.Named("ArcLifecycle"),
		byCollisionType:   make(map[cp.CollisionType]ecs.EntityID),
		nextRadius:        cfg.BaseRadius,
		nextCollisionType: config.FirstArcCollisionType,
	}
	router.SetTarget(s)
	physics.SetAfterStep(func() error {
		_, err := s.ApplyPending()
		return err
	})
	return s
}

// SetOnEscape 设置圆弧被移除时的回调
func (s *ArcLifecycleSystem) SetOnEscape(fn func(arc *components.ArcComponent)) {
	s.onEscape = fn
}

// Seed 生成 SeedCount 个初始圆弧
func (s *ArcLifecycleSystem) Seed() error {
	for i := 0; i < s.cfg.SeedCount; i++ {
		if _, err := s.SpawnArc(); err != nil {
			return fmt.Errorf("failed to seed arc %d: %w", i, err)
		}
	}
	s.log.Info("arcs seeded",
		zap.Int("count", s.cfg.SeedCount),
		zap.Float64("nextRadius", s.nextRadius))
	return nil
}

// SpawnArc 按当前计数器生成一个圆弧
//
// 成功后 nextRadius += RadiusStep, nextCollisionType += 1。
// 失败时计数器、登记表和物理空间都不变。
//
// 返回:
//   - ecs.EntityID: 新圆弧实体
//   - error: 生成失败原因
func (s *ArcLifecycleSystem) SpawnArc() (ecs.EntityID, error) {
	collisionType := s.nextCollisionType
	if _, taken := s.byCollisionType[collisionType]; taken {
		return 0, fmt.Errorf("%w: %d", ErrDuplicateCollisionType, collisionType)
	}

	spec := entities.ArcSpec{
		Center:          s.center,
		Radius:          s.nextRadius,
		AngularVelocity: s.randomAngularVelocity(),
		CollisionType:   collisionType,
		Segments:        s.cfg.Segments,
		GapAngle:        s.cfg.GapAngle(),
		Thickness:       s.cfg.Thickness,
		Elasticity:      s.cfg.Elasticity,
		Friction:        s.cfg.Friction,
	}

	id, arc, err := entities.NewArcEntity(s.em, s.physics, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to spawn arc at radius %.1f: %w", spec.Radius, err)
	}

	s.router.Bind(collisionType)
	s.byCollisionType[collisionType] = id
	s.nextRadius += s.cfg.RadiusStep
	s.nextCollisionType++

	s.log.Debug("arc spawned",
		zap.Uint64("entity", uint64(id)),
		zap.Float64("radius", arc.Radius),
		zap.Float64("angularVelocity", arc.AngularVelocity),
		zap.Uint64("collisionType", uint64(collisionType)))
	return id, nil
}

// randomAngularVelocity 在 [Min, Max] 内均匀取值，方向恒为正
func (s *ArcLifecycleSystem) randomAngularVelocity() float64 {
	lo, hi := s.cfg.MinAngularVelocity, s.cfg.MaxAngularVelocity
	return lo + s.rng.Float64()*(hi-lo)
}

// IsGapShape 判断 shape 是否为 collisionType 对应活动圆弧的缺口
func (s *ArcLifecycleSystem) IsGapShape(collisionType cp.CollisionType, shape *cp.Shape) bool {
	arc, ok := s.arcByCollisionType(collisionType)
	return ok && shape != nil && arc.Gap == shape
}

// MarkGapCrossed 登记缺口被小球穿过
//
// 只在碰撞回调中调用，不修改物理空间。
// 同一圆弧在一步内可能收到多次重叠通知，只有第一次生效。
//
// 返回:
//   - bool: 本次调用是否登记了移除
func (s *ArcLifecycleSystem) MarkGapCrossed(collisionType cp.CollisionType) bool {
	id, ok := s.byCollisionType[collisionType]
	if !ok {
		return false
	}
	arc, ok := ecs.GetComponent[*components.ArcComponent](s.em, id)
	if !ok || !arc.Active {
		return false
	}

	arc.Active = false
	s.em.DestroyEntity(id)
	return true
}

// ApplyPending 执行登记的移除与重生
//
// 必须在物理步的碰撞处理完成之后调用。可重复调用，队列为空时什么也不做。
//
// 返回:
//   - int: 本次移除的圆弧数
//   - error: 重生失败时返回错误（已移除的圆弧不会恢复）
func (s *ArcLifecycleSystem) ApplyPending() (int, error) {
	pending := s.em.PendingDestroy()
	if len(pending) == 0 {
		return 0, nil
	}

	for _, id := range pending {
		arc, ok := ecs.GetComponent[*components.ArcComponent](s.em, id)
		if !ok {
			continue
		}
		s.physics.RemoveBodyWithShapes(arc.Body, arc.Shapes())
		delete(s.byCollisionType, arc.CollisionType)

		s.log.Debug("arc removed",
			zap.Uint64("entity", uint64(id)),
			zap.Float64("radius", arc.Radius),
			zap.Uint64("collisionType", uint64(arc.CollisionType)))
		if s.onEscape != nil {
			s.onEscape(arc)
		}
	}

	removed := s.em.RemoveMarkedEntities()
	s.escapes += len(removed)

	for range removed {
		if _, err := s.SpawnArc(); err != nil {
			return len(removed), fmt.Errorf("failed to respawn arc: %w", err)
		}
	}
	return len(removed), nil
}

// arcByCollisionType 查找表
func (s *ArcLifecycleSystem) arcByCollisionType(collisionType cp.CollisionType) (*components.ArcComponent, bool) {
	id, ok := s.byCollisionType[collisionType]
	if !ok {
		return nil, false
	}
	return ecs.GetComponent[*components.ArcComponent](s.em, id)
}

// ActiveArcs 返回所有活动圆弧（按生成顺序，即半径从小到大）
func (s *ArcLifecycleSystem) ActiveArcs() []*components.ArcComponent {
	ids := ecs.GetEntitiesWith1[*components.ArcComponent](s.em)
	arcs := make([]*components.ArcComponent, 0, len(ids))
	for _, id := range ids {
		if arc, ok := ecs.GetComponent[*components.ArcComponent](s.em, id); ok && arc.Active {
			arcs = append(arcs, arc)
		}
	}
	return arcs
}

// ArcCount 登记表中的圆弧数（包括已标记但尚未移除的）
func (s *ArcLifecycleSystem) ArcCount() int {
	return len(s.byCollisionType)
}

// NextRadius 下一个圆弧的半径
func (s *ArcLifecycleSystem) NextRadius() float64 {
	return s.nextRadius
}

// NextCollisionType 下一个圆弧的缺口碰撞类型
func (s *ArcLifecycleSystem) NextCollisionType() cp.CollisionType {
	return s.nextCollisionType
}

// Escapes 已完成的移除-重生次数（小球已逃出的层数）
func (s *ArcLifecycleSystem) Escapes() int {
	return s.escapes
}

package systems

import (
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// GapTarget 缺口事件的接收方（圆弧生命周期系统）
type GapTarget interface {
	// IsGapShape 判断形状是否为该碰撞类型对应活动圆弧的缺口传感器
	IsGapShape(collisionType cp.CollisionType, shape *cp.Shape) bool

	// MarkGapCrossed 登记缺口被穿过；只有第一次有效
	MarkGapCrossed(collisionType cp.CollisionType) bool

	// ApplyPending 执行登记的移除与重生
	ApplyPending() (int, error)
}

// CollisionRouter 把 (小球, 缺口) 碰撞对路由到生命周期系统
//
// 每个缺口碰撞类型注册一个 begin 回调。回调只携带碰撞类型这个值，
// 通过 GapTarget 的查找表找到圆弧，不捕获圆弧本身。
type CollisionRouter struct {
	physics *PhysicsSystem
	target  GapTarget
	log     *zap.Logger

	// bound 已注册回调的碰撞类型（物理空间不支持注销回调）
	bound map[cp.CollisionType]bool
}

// NewCollisionRouter 创建碰撞路由
func NewCollisionRouter(physics *PhysicsSystem, log *zap.Logger) *CollisionRouter {
	return &CollisionRouter{
		physics: physics,
		log:     log.Named("CollisionRouter"),
		bound:   make(map[cp.CollisionType]bool),
	}
}

// SetTarget 设置缺口事件的接收方
func (r *CollisionRouter) SetTarget(target GapTarget) {
	r.target = target
}

// IsBound 该碰撞类型是否已注册回调
func (r *CollisionRouter) IsBound(collisionType cp.CollisionType) bool {
	return r.bound[collisionType]
}

// Bind 为 (小球, collisionType) 注册 begin 回调
// 同一类型重复调用无效
func (r *CollisionRouter) Bind(collisionType cp.CollisionType) {
	if r.bound[collisionType] {
		return
	}
	r.bound[collisionType] = true

	handler := r.physics.Space().NewCollisionHandler(config.BallCollisionType, collisionType)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		a, b := arb.Shapes()
		return r.onBegin(collisionType, a, b)
	}
}

// onBegin 处理一次接触开始
//
// 返回值即是否产生物理响应：缺口传感器永远返回 false；
// 类型碰巧相同的非缺口形状（如很久以后的墙壁类型）照常碰撞。
func (r *CollisionRouter) onBegin(collisionType cp.CollisionType, a, b *cp.Shape) bool {
	if r.target == nil {
		return true
	}
	if !r.target.IsGapShape(collisionType, a) && !r.target.IsGapShape(collisionType, b) {
		return true
	}

	if r.target.MarkGapCrossed(collisionType) {
		r.log.Debug("gap crossed", zap.Uint64("collisionType", uint64(collisionType)))
		r.physics.SchedulePostStep(r.target, func() error {
			_, err := r.target.ApplyPending()
			return err
		})
	}
	return false
}

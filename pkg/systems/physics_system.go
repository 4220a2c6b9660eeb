package systems

import (
	"errors"

	"github.com/decker502/arcmaze/pkg/config"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// PhysicsSystem 持有物理空间，负责步进和刚体/形状的增删
//
// 碰撞回调运行期间空间处于锁定状态，不能增删刚体或形状；
// 所有结构性修改都必须放到步进之后（post-step 回调或 Step 返回之后）。
type PhysicsSystem struct {
	space *cp.Space
	log   *zap.Logger

	// afterStep 在 space.Step 返回后调用，用于兜底处理待删除队列
	afterStep func() error

	// postStepErrs 收集 post-step 回调中的错误，由下一次 Step 返回
	postStepErrs []error
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - cfg: 物理参数（重力、迭代次数）
//   - log: 日志器
//
// 返回:
//   - *PhysicsSystem: 物理系统实例
func NewPhysicsSystem(cfg config.PhysicsConfig, log *zap.Logger) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = cfg.Iterations
	space.SetGravity(cp.Vector{X: cfg.GravityX, Y: cfg.GravityY})
	return &PhysicsSystem{
		space: space,
		log:   log.Named("Physics"),
	}
}

// Space 返回底层物理空间
func (ps *PhysicsSystem) Space() *cp.Space {
	return ps.space
}

// SetAfterStep 设置每次步进完成后调用的函数
func (ps *PhysicsSystem) SetAfterStep(fn func() error) {
	ps.afterStep = fn
}

// AddBodyWithShapes 一次性加入刚体和它的全部形状
// 静态刚体不加入空间，只加入形状
func (ps *PhysicsSystem) AddBodyWithShapes(body *cp.Body, shapes []*cp.Shape) {
	if body.GetType() != cp.BODY_STATIC && !ps.space.ContainsBody(body) {
		ps.space.AddBody(body)
	}
	for _, shape := range shapes {
		if !ps.space.ContainsShape(shape) {
			ps.space.AddShape(shape)
		}
	}
}

// RemoveBodyWithShapes 从空间移除刚体和形状
//
// 幂等：不在空间中的刚体或形状直接跳过。
//
// 返回:
//   - int: 实际移除的对象数（刚体 + 形状）
func (ps *PhysicsSystem) RemoveBodyWithShapes(body *cp.Body, shapes []*cp.Shape) int {
	removed := 0
	for _, shape := range shapes {
		if shape != nil && ps.space.ContainsShape(shape) {
			ps.space.RemoveShape(shape)
			removed++
		}
	}
	if body != nil && ps.space.ContainsBody(body) {
		ps.space.RemoveBody(body)
		removed++
	}
	return removed
}

// SchedulePostStep 在当前步的碰撞处理完成后执行 fn
//
// 同一个 key 在一步内只会登记一次。fn 的错误会在 Step 返回时交给调用方。
//
// 返回:
//   - bool: 是否新登记
func (ps *PhysicsSystem) SchedulePostStep(key interface{}, fn func() error) bool {
	return ps.space.AddPostStepCallback(func(_ *cp.Space, _ interface{}, _ interface{}) {
		if err := fn(); err != nil {
			ps.postStepErrs = append(ps.postStepErrs, err)
		}
	}, key, nil)
}

// Step 推进物理世界一个固定时间步
//
// 顺序：碰撞检测与回调 → post-step 回调 → afterStep 兜底。
//
// 返回:
//   - error: post-step 或 afterStep 中发生的错误
func (ps *PhysicsSystem) Step(dt float64) error {
	ps.space.Step(dt)

	if ps.afterStep != nil {
		if err := ps.afterStep(); err != nil {
			ps.postStepErrs = append(ps.postStepErrs, err)
		}
	}

	if len(ps.postStepErrs) == 0 {
		return nil
	}
	err := errors.Join(ps.postStepErrs...)
	ps.postStepErrs = ps.postStepErrs[:0]
	ps.log.Error("post-step failed", zap.Error(err))
	return err
}

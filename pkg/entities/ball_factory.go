package entities

import (
	"fmt"
	"image/color"

	"github.com/decker502/arcmaze/pkg/components"
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// BallSpec 生成小球所需参数
type BallSpec struct {
	Position    cp.Vector
	Radius      float64
	Mass        float64
	Elasticity  float64
	Friction    float64
	Color       color.RGBA
	TrailLength int
}

// NewBallEntity 创建小球实体（动态刚体 + 圆形形状 + 轨迹缓冲）
//
// 所有小球共用 config.BallCollisionType。
//
// 返回:
//   - ecs.EntityID: 小球实体ID，失败返回 0
//   - error: 参数非法时返回错误
func NewBallEntity(em *ecs.EntityManager, world PhysicsWorld, spec BallSpec) (ecs.EntityID, error) {
	if em == nil || world == nil {
		return 0, fmt.Errorf("%w: entity manager and physics world are required", ErrNilDependency)
	}
	if spec.Radius <= 0 || spec.Mass <= 0 {
		return 0, fmt.Errorf("ball radius and mass must be > 0, got radius=%f mass=%f", spec.Radius, spec.Mass)
	}

	body := cp.NewBody(spec.Mass, cp.MomentForCircle(spec.Mass, 0, spec.Radius, cp.Vector{}))
	body.SetPosition(spec.Position)

	shape := cp.NewCircle(body, spec.Radius, cp.Vector{})
	shape.SetElasticity(spec.Elasticity)
	shape.SetFriction(spec.Friction)
	shape.SetCollisionType(config.BallCollisionType)

	world.AddBodyWithShapes(body, []*cp.Shape{shape})

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.BallComponent{
		Body:   body,
		Shape:  shape,
		Radius: spec.Radius,
		Color:  spec.Color,
	})
	em.AddComponent(entityID, components.NewTrailComponent(spec.TrailLength))

	return entityID, nil
}

package entities

import (
	"errors"
	"fmt"

	"github.com/decker502/arcmaze/pkg/components"
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/ecs"
	"github.com/decker502/arcmaze/pkg/utils"
	"github.com/jakecoffman/cp"
)

var (
	// ErrInvalidArc 圆弧参数不满足前置条件
	ErrInvalidArc = errors.New("invalid arc parameters")

	// ErrNilDependency 实体管理器或物理世界为 nil
	ErrNilDependency = errors.New("nil dependency")
)

// PhysicsWorld 工厂向物理世界提出的最小要求
type PhysicsWorld interface {
	// AddBodyWithShapes 一次性加入刚体和它的全部形状
	AddBodyWithShapes(body *cp.Body, shapes []*cp.Shape)
}

// ArcSpec 生成一个圆弧所需的全部参数
type ArcSpec struct {
	Center          cp.Vector
	Radius          float64
	AngularVelocity float64
	CollisionType   cp.CollisionType
	Segments        int
	GapAngle        float64 // 弧度
	Thickness       float64
	Elasticity      float64
	Friction        float64
}

// Validate 检查圆弧参数
func (s ArcSpec) Validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("%w: radius must be > 0, got %f", ErrInvalidArc, s.Radius)
	}
	if s.Segments < 1 {
		return fmt.Errorf("%w: segments must be >= 1, got %d", ErrInvalidArc, s.Segments)
	}
	if s.CollisionType == config.BallCollisionType {
		return fmt.Errorf("%w: collision type %d is reserved for balls", ErrInvalidArc, s.CollisionType)
	}
	return nil
}

// NewArcEntity 创建圆弧实体
//
// 先校验参数并构建全部形状，再一次性加入物理世界，最后注册实体；
// 任一前置条件失败时不会在物理世界或实体管理器中留下任何东西。
//
// 参数:
//   - em: 实体管理器
//   - world: 物理世界
//   - spec: 圆弧参数
//
// 返回:
//   - ecs.EntityID: 创建的圆弧实体ID，失败返回 0
//   - *components.ArcComponent: 圆弧组件
//   - error: 失败原因
func NewArcEntity(em *ecs.EntityManager, world PhysicsWorld, spec ArcSpec) (ecs.EntityID, *components.ArcComponent, error) {
	if em == nil || world == nil {
		return 0, nil, fmt.Errorf("%w: entity manager and physics world are required", ErrNilDependency)
	}
	if err := spec.Validate(); err != nil {
		return 0, nil, err
	}

	body := cp.NewKinematicBody()
	body.SetPosition(spec.Center)
	body.SetAngularVelocity(spec.AngularVelocity)

	start, end := utils.WallSpan(spec.GapAngle)
	points := utils.ComputeArcPoints(spec.Radius, start, end, spec.Segments)

	wallType := config.WallCollisionType(spec.CollisionType)
	walls := make([]*cp.Shape, 0, spec.Segments)
	for i := 0; i < len(points)-1; i++ {
		wall := cp.NewSegment(body, points[i], points[i+1], spec.Thickness)
		wall.SetElasticity(spec.Elasticity)
		wall.SetFriction(spec.Friction)
		wall.SetCollisionType(wallType)
		walls = append(walls, wall)
	}

	// 缺口传感器：从最后一个墙壁点连回第一个点
	gap := cp.NewSegment(body, points[len(points)-1], points[0], spec.Thickness)
	gap.SetSensor(true)
	gap.SetCollisionType(spec.CollisionType)

	arc := &components.ArcComponent{
		Radius:          spec.Radius,
		AngularVelocity: spec.AngularVelocity,
		Body:            body,
		WallPoints:      points,
		Walls:           walls,
		Gap:             gap,
		CollisionType:   spec.CollisionType,
		Active:          true,
	}

	world.AddBodyWithShapes(body, arc.Shapes())

	entityID := em.CreateEntity()
	em.AddComponent(entityID, arc)

	return entityID, arc, nil
}

package systems

import (
	"github.com/decker502/arcmaze/pkg/components"
	"github.com/decker502/arcmaze/pkg/ecs"
)

// TrailSystem 每帧把小球当前位置追加到轨迹缓冲
type TrailSystem struct {
	entityManager *ecs.EntityManager
}

// NewTrailSystem 创建轨迹系统
func NewTrailSystem(em *ecs.EntityManager) *TrailSystem {
	return &TrailSystem{
		entityManager: em,
	}
}

// Update 更新所有小球的轨迹
func (s *TrailSystem) Update() {
	for _, id := range ecs.GetEntitiesWith1[*components.TrailComponent](s.entityManager) {
		ball, ok := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		if !ok {
			continue
		}
		trail, _ := ecs.GetComponent[*components.TrailComponent](s.entityManager, id)
		trail.Push(ball.Position())
	}
}

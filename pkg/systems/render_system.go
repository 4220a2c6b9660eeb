package systems

import (
	"image/color"

	"github.com/decker502/arcmaze/pkg/components"
	"github.com/decker502/arcmaze/pkg/ecs"
	"github.com/decker502/arcmaze/pkg/render"
)

var (
	// WallColor 圆弧墙壁颜色
	WallColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// OutlineColor 小球描边颜色
	OutlineColor = color.RGBA{A: 255}
)

// ArcSource 提供当前活动圆弧
type ArcSource interface {
	ActiveArcs() []*components.ArcComponent
	Escapes() int
}

// RenderSystem 把模拟状态收集成与后端无关的 render.Frame
//
// 绘制顺序：圆弧墙壁 → 每个小球的轨迹（旧到新）→ 小球描边 → 小球本体。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	arcs          ArcSource
	wallWidth     float64
	outlineWidth  float64
}

// NewRenderSystem 创建渲染数据收集系统
//
// 参数:
//   - em: 小球所在的实体管理器
//   - arcs: 圆弧来源（生命周期系统）
//   - wallWidth: 墙壁线宽
//   - outlineWidth: 小球描边宽度
func NewRenderSystem(em *ecs.EntityManager, arcs ArcSource, wallWidth, outlineWidth float64) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		arcs:          arcs,
		wallWidth:     wallWidth,
		outlineWidth:  outlineWidth,
	}
}

// BuildFrame 收集当前帧的绘制数据
func (s *RenderSystem) BuildFrame() *render.Frame {
	frame := &render.Frame{}

	arcs := s.arcs.ActiveArcs()
	frame.ArcCount = len(arcs)
	frame.Level = s.arcs.Escapes()

	for _, arc := range arcs {
		for _, seg := range arc.WorldSegments() {
			frame.Lines = append(frame.Lines, render.LineSegment{
				A:     render.Point{X: seg[0].X, Y: seg[0].Y},
				B:     render.Point{X: seg[1].X, Y: seg[1].Y},
				Width: s.wallWidth,
				Color: WallColor,
			})
		}
	}

	for _, id := range ecs.GetEntitiesWith1[*components.BallComponent](s.entityManager) {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)

		if trail, ok := ecs.GetComponent[*components.TrailComponent](s.entityManager, id); ok {
			for i, p := range trail.Positions() {
				frame.Circles = append(frame.Circles, render.Circle{
					Center: render.Point{X: p.X, Y: p.Y},
					Radius: ball.Radius,
					Color:  render.WithOpacity(ball.Color, trail.Opacity(i)),
				})
			}
		}

		pos := ball.Position()
		center := render.Point{X: pos.X, Y: pos.Y}
		frame.Circles = append(frame.Circles,
			render.Circle{Center: center, Radius: ball.Radius + s.outlineWidth, Color: OutlineColor},
			render.Circle{Center: center, Radius: ball.Radius, Color: ball.Color},
		)
	}

	return frame
}

package components

import "github.com/jakecoffman/cp"

// ArcComponent 旋转圆弧（带缺口的圆环）
//
// 一个运动学刚体挂着 N 条墙壁线段和一条缺口传感器线段。
// 刚体与形状归物理空间所有，这里只保存非拥有引用用于移除和绘制。
type ArcComponent struct {
	// Radius 墙壁中线到圆心的距离
	Radius float64

	// AngularVelocity 生成时确定的角速度（弧度/秒），之后不变
	AngularVelocity float64

	// Body 运动学刚体，位于共享圆心
	Body *cp.Body

	// WallPoints 局部坐标系下的墙壁折线顶点（len(Walls)+1 个）
	WallPoints []cp.Vector

	// Walls 墙壁线段，可碰撞，弹性反弹
	Walls []*cp.Shape

	// Gap 缺口传感器，只触发事件不产生物理响应
	Gap *cp.Shape

	// CollisionType 缺口的碰撞类型，在所有活动圆弧间唯一
	CollisionType cp.CollisionType

	// Active 缺口首次被穿过之前为 true；只会翻转一次
	Active bool
}

// Shapes 返回圆弧的全部形状（墙壁 + 缺口）
func (a *ArcComponent) Shapes() []*cp.Shape {
	shapes := make([]*cp.Shape, 0, len(a.Walls)+1)
	shapes = append(shapes, a.Walls...)
	if a.Gap != nil {
		shapes = append(shapes, a.Gap)
	}
	return shapes
}

// WorldSegments 返回墙壁线段在世界坐标系下的端点
// 使用刚体当前的位置和旋转做变换
func (a *ArcComponent) WorldSegments() [][2]cp.Vector {
	if len(a.WallPoints) < 2 {
		return nil
	}
	world := make([]cp.Vector, len(a.WallPoints))
	for i, p := range a.WallPoints {
		world[i] = a.Body.LocalToWorld(p)
	}
	segments := make([][2]cp.Vector, len(world)-1)
	for i := range segments {
		segments[i] = [2]cp.Vector{world[i], world[i+1]}
	}
	return segments
}

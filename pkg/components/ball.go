package components

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// BallComponent 动态圆形刚体小球
// 位置和速度由物理引擎维护
type BallComponent struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
	Color  color.RGBA
}

// Position 返回小球当前世界坐标
func (b *BallComponent) Position() cp.Vector {
	return b.Body.Position()
}

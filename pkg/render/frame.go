// Package render 定义每帧交给绘制表面的几何数据，以及两个绘制表面实现
//
// Frame 与具体渲染后端无关：窗口端用 ebiten 绘制，终端端用 tcell 绘制。
package render

import "image/color"

// Point 世界坐标点
type Point struct {
	X, Y float64
}

// LineSegment 一条世界坐标线段（圆弧墙壁）
type LineSegment struct {
	A, B  Point
	Width float64
	Color color.RGBA
}

// Circle 一个圆（小球或轨迹点）
// 不透明度编码在 Color.A 中
type Circle struct {
	Center Point
	Radius float64
	Color  color.RGBA
}

// Frame 一帧的全部可绘制内容，按绘制顺序排列
type Frame struct {
	Lines   []LineSegment
	Circles []Circle

	// Level 已逃出的层数
	Level int
	// ArcCount 当前活动圆弧数
	ArcCount int
}

// Surface 绘制表面
type Surface interface {
	DrawFrame(frame *Frame)
}

// WithOpacity 返回按 opacity ∈ [0, 1] 缩放 alpha 后的颜色
func WithOpacity(c color.RGBA, opacity float64) color.RGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}

// Premultiplied 返回预乘 alpha 的颜色（ebiten 的 color.RGBA 按预乘解释）
func Premultiplied(c color.RGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

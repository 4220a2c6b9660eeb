package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// BackgroundColor 背景色
var BackgroundColor = color.RGBA{A: 255}

// EbitenSurface 把 Frame 绘制到 ebiten 图像上
type EbitenSurface struct {
	// Target 本帧的绘制目标，通常是 Draw 传入的 screen
	Target *ebiten.Image

	// ShowHUD 是否在左上角显示层数
	ShowHUD bool
}

// DrawFrame 绘制一帧
func (s *EbitenSurface) DrawFrame(frame *Frame) {
	if s.Target == nil || frame == nil {
		return
	}
	screen := s.Target
	screen.Fill(BackgroundColor)

	for _, line := range frame.Lines {
		vector.StrokeLine(screen,
			float32(line.A.X), float32(line.A.Y),
			float32(line.B.X), float32(line.B.Y),
			float32(line.Width), line.Color, true)
	}

	for _, c := range frame.Circles {
		vector.DrawFilledCircle(screen,
			float32(c.Center.X), float32(c.Center.Y), float32(c.Radius),
			Premultiplied(c.Color), true)
	}

	if s.ShowHUD {
		ebitenutil.DebugPrintAt(screen, HUDText(frame), 8, 8)
	}
}

// HUDText 左上角状态文字
func HUDText(frame *Frame) string {
	return fmt.Sprintf("Level %d  Rings %d", frame.Level, frame.ArcCount)
}

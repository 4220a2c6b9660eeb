package render

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

const (
	wallRune = '█'
	ballRune = '●'
	dotRune  = '•'
)

// TerminalSurface 把 Frame 栅格化到终端字符网格
//
// 世界坐标按比例缩放到整个屏幕；线段按半个字符的步长采样，
// 圆只画中心所在的格子。
type TerminalSurface struct {
	screen      tcell.Screen
	worldWidth  float64
	worldHeight float64
	ShowHUD     bool
}

// NewTerminalSurface 创建终端绘制表面
//
// 参数:
//   - screen: 已初始化的 tcell 屏幕
//   - worldWidth, worldHeight: 世界坐标范围（逻辑屏幕尺寸）
func NewTerminalSurface(screen tcell.Screen, worldWidth, worldHeight float64) *TerminalSurface {
	return &TerminalSurface{
		screen:      screen,
		worldWidth:  worldWidth,
		worldHeight: worldHeight,
		ShowHUD:     true,
	}
}

// CellOf 世界坐标所在的字符格
func (s *TerminalSurface) CellOf(p Point) (int, int) {
	cols, rows := s.screen.Size()
	x := int(math.Floor(p.X * float64(cols) / s.worldWidth))
	y := int(math.Floor(p.Y * float64(rows) / s.worldHeight))
	return x, y
}

// DrawFrame 绘制一帧并刷新屏幕
func (s *TerminalSurface) DrawFrame(frame *Frame) {
	if frame == nil {
		return
	}
	s.screen.Clear()

	for _, line := range frame.Lines {
		s.drawLine(line)
	}
	for _, c := range frame.Circles {
		s.drawCircle(c)
	}
	if s.ShowHUD {
		s.drawText(0, 0, HUDText(frame), tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	s.screen.Show()
}

func (s *TerminalSurface) drawLine(line LineSegment) {
	cols, rows := s.screen.Size()
	style := styleFor(line.Color)

	// 以字符格为单位的长度决定采样数
	dx := (line.B.X - line.A.X) * float64(cols) / s.worldWidth
	dy := (line.B.Y - line.A.Y) * float64(rows) / s.worldHeight
	steps := int(math.Ceil(math.Hypot(dx, dy)*2)) + 1

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := Point{
			X: line.A.X + (line.B.X-line.A.X)*t,
			Y: line.A.Y + (line.B.Y-line.A.Y)*t,
		}
		x, y := s.CellOf(p)
		s.setCell(x, y, wallRune, style)
	}
}

func (s *TerminalSurface) drawCircle(c Circle) {
	if c.Color.A == 0 {
		return
	}
	x, y := s.CellOf(c.Center)
	r := dotRune
	if c.Color.A == 255 {
		r = ballRune
	}
	s.setCell(x, y, r, styleFor(c.Color))
}

func (s *TerminalSurface) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.setCell(x+i, y, r, style)
	}
}

func (s *TerminalSurface) setCell(x, y int, r rune, style tcell.Style) {
	cols, rows := s.screen.Size()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return
	}
	s.screen.SetContent(x, y, r, nil, style)
}

// styleFor 终端没有 alpha，按不透明度与黑色背景混合
func styleFor(c color.RGBA) tcell.Style {
	p := Premultiplied(c)
	fg := tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))
	return tcell.StyleDefault.Foreground(fg).Background(tcell.ColorBlack)
}

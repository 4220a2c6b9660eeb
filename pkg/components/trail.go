package components

import "github.com/jakecoffman/cp"

// TrailComponent 小球位置历史（固定容量 FIFO）
//
// 仅用于绘制渐隐拖尾，不参与物理。
// 满了之后新位置覆盖最旧的位置。
type TrailComponent struct {
	positions []cp.Vector
	head      int // 下一次写入的位置
	full      bool
}

// NewTrailComponent 创建指定容量的轨迹缓冲
//
// 参数:
//   - capacity: 最多保留的位置数，必须 >= 1
func NewTrailComponent(capacity int) *TrailComponent {
	if capacity < 1 {
		capacity = 1
	}
	return &TrailComponent{
		positions: make([]cp.Vector, capacity),
	}
}

// Push 追加一个位置，超出容量时淘汰最旧的
func (t *TrailComponent) Push(p cp.Vector) {
	t.positions[t.head] = p
	t.head++
	if t.head >= len(t.positions) {
		t.head = 0
		t.full = true
	}
}

// Len 当前保存的位置数
func (t *TrailComponent) Len() int {
	if t.full {
		return len(t.positions)
	}
	return t.head
}

// Capacity 缓冲容量
func (t *TrailComponent) Capacity() int {
	return len(t.positions)
}

// Positions 按从旧到新的顺序返回位置副本
func (t *TrailComponent) Positions() []cp.Vector {
	out := make([]cp.Vector, t.Len())
	if t.full {
		n := copy(out, t.positions[t.head:])
		copy(out[n:], t.positions[:t.head])
	} else {
		copy(out, t.positions[:t.head])
	}
	return out
}

// Opacity 返回第 i 个（从旧到新）位置的不透明度
// 最旧的最透明，最新的为 1
func (t *TrailComponent) Opacity(i int) float64 {
	n := t.Len()
	if n == 0 || i < 0 || i >= n {
		return 0
	}
	return float64(i+1) / float64(n)
}

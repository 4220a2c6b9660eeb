package utils

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

// GapCenterAngle 缺口在圆弧局部坐标系中的初始中心角度（弧度）
// 局部坐标系随刚体旋转，所以缺口会随时间绕圆心扫动
const GapCenterAngle = 3 * math.Pi / 2

// ComputeArcPoints 生成近似圆弧的折线顶点
//
// 在 [startAngle, endAngle] 上按角度均匀取 segments+1 个点。
// 不做角度回绕，endAngle 可以超过一整圈的数值。
//
// 参数:
//   - radius: 圆弧半径，必须 > 0
//   - startAngle: 起始角度（弧度）
//   - endAngle: 结束角度（弧度）
//   - segments: 线段数，必须 >= 1
//
// 返回:
//   - []cp.Vector: 局部坐标系下的顶点，首点在 startAngle，末点在 endAngle
func ComputeArcPoints(radius, startAngle, endAngle float64, segments int) []cp.Vector {
	if segments < 1 {
		panic(fmt.Sprintf("ComputeArcPoints: segments must be >= 1, got %d", segments))
	}
	if radius <= 0 {
		panic(fmt.Sprintf("ComputeArcPoints: radius must be > 0, got %f", radius))
	}

	points := make([]cp.Vector, segments+1)
	span := endAngle - startAngle
	for i := 0; i <= segments; i++ {
		theta := startAngle + span*float64(i)/float64(segments)
		points[i] = cp.Vector{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return points
}

// WallSpan 返回墙壁覆盖的角度区间
//
// 墙壁从缺口一侧边缘出发，绕一圈到缺口另一侧边缘，
// 覆盖 2π - gapAngle；剩下的 gapAngle 由缺口传感器占据。
//
// 参数:
//   - gapAngle: 缺口张角（弧度），0 < gapAngle < 2π
//
// 返回:
//   - start, end: 墙壁折线的起止角度，end - start = 2π - gapAngle
func WallSpan(gapAngle float64) (start, end float64) {
	start = GapCenterAngle + gapAngle/2
	end = GapCenterAngle - gapAngle/2 + 2*math.Pi
	return start, end
}

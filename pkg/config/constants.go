package config

import "github.com/jakecoffman/cp"

// 模拟固定常量
// 这些值不随配置文件变化，属于物理管线和碰撞路由的约定
const (
	// FixedTimestep 每帧推进的物理时间（秒）
	// 与帧率解耦：无论实际帧间隔多少，每帧只推进这一步
	FixedTimestep = 1.0 / 60.0

	// BallCollisionType 所有小球共用的碰撞类型
	// 碰撞路由只需要区分"某个小球"和"某个圆弧的缺口"
	BallCollisionType cp.CollisionType = 0

	// FirstArcCollisionType 第一个圆弧缺口的碰撞类型，之后单调递增
	FirstArcCollisionType cp.CollisionType = 10

	// WallCollisionOffset 墙壁碰撞类型相对缺口碰撞类型的偏移
	// 墙壁类型 = 缺口类型 + 偏移，保证墙壁永远不会触发缺口回调
	WallCollisionOffset cp.CollisionType = 1000
)

// WallCollisionType 返回某个圆弧墙壁的碰撞类型
func WallCollisionType(gap cp.CollisionType) cp.CollisionType {
	return gap + WallCollisionOffset
}

package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed simulation.yaml
var defaultSimulationYAML []byte

// SimulationConfig 圆弧迷宫模拟配置
//
// 配置文件随二进制一起编译（simulation.yaml），
// 不提供运行时覆盖入口。
type SimulationConfig struct {
	Screen  ScreenConfig  `yaml:"screen"`
	Physics PhysicsConfig `yaml:"physics"`
	Arc     ArcConfig     `yaml:"arc"`
	Ball    BallConfig    `yaml:"ball"`
	Trail   TrailConfig   `yaml:"trail"`
}

// ScreenConfig 窗口/逻辑屏幕尺寸
type ScreenConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// PhysicsConfig 物理世界参数
type PhysicsConfig struct {
	GravityX   float64 `yaml:"gravityX"`
	GravityY   float64 `yaml:"gravityY"`
	Iterations uint    `yaml:"iterations"`
}

// ArcConfig 圆弧生成参数
type ArcConfig struct {
	// SeedCount 初始圆弧数量，也是稳定后的活动圆弧数量
	SeedCount int `yaml:"seedCount"`

	// BaseRadius 第一个圆弧的半径
	BaseRadius float64 `yaml:"baseRadius"`

	// RadiusStep 每生成一个圆弧，下一个半径增加的量
	RadiusStep float64 `yaml:"radiusStep"`

	// Thickness 墙壁线段的半径（碰撞厚度），同时用作绘制线宽
	Thickness float64 `yaml:"thickness"`

	// Segments 墙壁折线的线段数
	Segments int `yaml:"segments"`

	// GapAngleDegrees 缺口张角（度）
	GapAngleDegrees float64 `yaml:"gapAngleDegrees"`

	MinAngularVelocity float64 `yaml:"minAngularVelocity"`
	MaxAngularVelocity float64 `yaml:"maxAngularVelocity"`

	Elasticity float64 `yaml:"elasticity"`
	Friction   float64 `yaml:"friction"`
}

// GapAngle 返回缺口张角（弧度）
func (c ArcConfig) GapAngle() float64 {
	return c.GapAngleDegrees * math.Pi / 180.0
}

// BallConfig 小球参数
type BallConfig struct {
	Radius       float64     `yaml:"radius"`
	Mass         float64     `yaml:"mass"`
	Elasticity   float64     `yaml:"elasticity"`
	Friction     float64     `yaml:"friction"`
	OutlineWidth float64     `yaml:"outlineWidth"`
	Spawns       []BallSpawn `yaml:"spawns"`
}

// BallSpawn 单个小球的出生点与颜色
type BallSpawn struct {
	// OffsetX 相对屏幕中心的水平偏移
	OffsetX float64 `yaml:"offsetX"`

	// Color RGB 三元组
	Color []int `yaml:"color"`
}

// RGBA 将配置颜色转换为不透明 color.RGBA
func (s BallSpawn) RGBA() color.RGBA {
	return color.RGBA{R: uint8(s.Color[0]), G: uint8(s.Color[1]), B: uint8(s.Color[2]), A: 255}
}

// TrailConfig 轨迹缓冲参数
type TrailConfig struct {
	Length int `yaml:"length"`
}

// LoadSimulationConfig 加载内置的模拟配置
//
// 返回:
//   - *SimulationConfig: 解析并验证后的配置
//   - error: 内置配置损坏时返回错误
func LoadSimulationConfig() (*SimulationConfig, error) {
	return ParseSimulationConfig(defaultSimulationYAML)
}

// ParseSimulationConfig 从 YAML 字节解析模拟配置
//
// 参数:
//   - data: YAML 内容
//
// 返回:
//   - *SimulationConfig: 解析成功后的配置结构
//   - error: 解析或验证失败时返回错误
func ParseSimulationConfig(data []byte) (*SimulationConfig, error) {
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置有效性
//
// 检查内容：
//   - 屏幕尺寸为正
//   - 圆弧半径、步长、线段数为正，缺口张角在 (0, 360) 之间
//   - 角速度区间合法
//   - 小球数量为 1 或 2，颜色为 RGB 三元组
//   - 轨迹长度为正
func (c *SimulationConfig) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Physics.Iterations == 0 {
		return fmt.Errorf("physics iterations must be non-zero")
	}

	if c.Arc.SeedCount <= 0 {
		return fmt.Errorf("arc seedCount must be positive, got %d", c.Arc.SeedCount)
	}
	if c.Arc.BaseRadius <= 0 {
		return fmt.Errorf("arc baseRadius must be positive, got %.1f", c.Arc.BaseRadius)
	}
	if c.Arc.RadiusStep <= 0 {
		return fmt.Errorf("arc radiusStep must be positive, got %.1f", c.Arc.RadiusStep)
	}
	if c.Arc.Segments < 1 {
		return fmt.Errorf("arc segments must be >= 1, got %d", c.Arc.Segments)
	}
	if c.Arc.GapAngleDegrees <= 0 || c.Arc.GapAngleDegrees >= 360 {
		return fmt.Errorf("arc gapAngleDegrees must be in (0, 360), got %.1f", c.Arc.GapAngleDegrees)
	}
	if c.Arc.MinAngularVelocity > c.Arc.MaxAngularVelocity {
		return fmt.Errorf("arc angular velocity range invalid: min(%.2f) > max(%.2f)",
			c.Arc.MinAngularVelocity, c.Arc.MaxAngularVelocity)
	}

	if c.Ball.Radius <= 0 || c.Ball.Mass <= 0 {
		return fmt.Errorf("ball radius and mass must be positive")
	}
	if n := len(c.Ball.Spawns); n < 1 || n > 2 {
		return fmt.Errorf("ball spawns must contain 1 or 2 entries, got %d", n)
	}
	for i, spawn := range c.Ball.Spawns {
		if len(spawn.Color) != 3 {
			return fmt.Errorf("ball spawn %d: color must be [r, g, b], got %v", i, spawn.Color)
		}
		for _, v := range spawn.Color {
			if v < 0 || v > 255 {
				return fmt.Errorf("ball spawn %d: color component %d out of range", i, v)
			}
		}
	}

	if c.Trail.Length <= 0 {
		return fmt.Errorf("trail length must be positive, got %d", c.Trail.Length)
	}

	return nil
}

// Center 返回所有圆弧共用的圆心（屏幕中心）
func (c *SimulationConfig) Center() (float64, float64) {
	return float64(c.Screen.Width / 2), float64(c.Screen.Height / 2)
}

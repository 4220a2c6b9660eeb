// Package app 提供模拟程序的 ebiten 包装器
//
// 该包把初始化逻辑从 main 包提取出来：加载配置、创建音频上下文和模拟场景，
// 并实现 ebiten.Game 接口。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/game"
	"github.com/decker502/arcmaze/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// App 是模拟程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	log          *zap.Logger
	width        int
	height       int
}

// NewApp 创建并初始化应用
//
// 参数:
//   - cfg: 模拟配置
//   - log: 日志器
//
// 返回:
//   - *App: 应用实例
//   - error: 场景初始化失败
func NewApp(cfg *config.SimulationConfig, log *zap.Logger) (*App, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scene, err := scenes.NewSimulationScene(cfg, rng, log)
	if err != nil {
		return nil, fmt.Errorf("场景初始化失败: %w", err)
	}

	audioManager := game.NewAudioManager(audio.NewContext(game.SampleRate), log)
	scene.SetAudioManager(audioManager)
	log.Named("App").Info("audio initialized", zap.Int("sampleRate", game.SampleRate))

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	return newApp(sceneManager, cfg.Screen, log), nil
}

func newApp(sm *game.SceneManager, screen config.ScreenConfig, log *zap.Logger) *App {
	return &App{
		sceneManager: sm,
		log:          log.Named("App"),
		width:        screen.Width,
		height:       screen.Height,
	}
}

// Update 更新模拟
// 每个 tick 调用一次（通常每秒 60 次）；Escape 键正常退出
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.log.Info("escape pressed, shutting down")
		return ebiten.Termination
	}
	return a.update()
}

func (a *App) update() error {
	if err := a.sceneManager.Update(config.FixedTimestep); err != nil {
		a.log.Error("simulation aborted", zap.Error(err))
		return err
	}
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// IsTermination 判断 RunGame 返回的错误是否为正常退出
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}

//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译：
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.arcmaze -o build/android/arcmaze.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/ArcMaze.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"go.uber.org/zap"

	"github.com/decker502/arcmaze/pkg/app"
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/logger"
)

func init() {
	zlog, err := logger.New(false)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	cfg, err := config.LoadSimulationConfig()
	if err != nil {
		zlog.Fatal("配置加载失败", zap.Error(err))
	}

	simApp, err := app.NewApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("初始化失败", zap.Error(err))
	}

	// 注册到 ebitenmobile
	mobile.SetGame(simApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}

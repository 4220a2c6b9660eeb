package main

import (
	"log"

	"github.com/decker502/arcmaze/pkg/app"
	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/logger"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	zlog, err := logger.New(false)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	cfg, err := config.LoadSimulationConfig()
	if err != nil {
		zlog.Fatal("failed to load config", zap.Error(err))
	}

	game, err := app.NewApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to start", zap.Error(err))
	}

	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	ebiten.SetTPS(ebiten.DefaultTPS)

	// 窗口关闭或 Escape 返回 nil / Termination；其他错误是模拟中止
	if err := ebiten.RunGame(game); err != nil && !app.IsTermination(err) {
		zlog.Fatal("simulation aborted", zap.Error(err))
	}
}

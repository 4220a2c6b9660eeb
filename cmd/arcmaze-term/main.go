// arcmaze-term 在终端里运行同一个圆环迷宫模拟
//
// 画面由 render.TerminalSurface 栅格化；Escape 或 Ctrl-C 退出。
// 日志写入系统临时目录下的 arcmaze-term.log。
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/decker502/arcmaze/pkg/config"
	"github.com/decker502/arcmaze/pkg/logger"
	"github.com/decker502/arcmaze/pkg/render"
	"github.com/decker502/arcmaze/pkg/scenes"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

type terminalApp struct {
	screen  tcell.Screen
	surface *render.TerminalSurface
	scene   *scenes.SimulationScene
	log     *zap.Logger
}

func newTerminalApp(log *zap.Logger) (*terminalApp, error) {
	cfg, err := config.LoadSimulationConfig()
	if err != nil {
		return nil, err
	}

	scene, err := scenes.NewSimulationScene(cfg, rand.New(rand.NewSource(time.Now().UnixNano())), log)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

	return &terminalApp{
		screen:  screen,
		surface: render.NewTerminalSurface(screen, float64(cfg.Screen.Width), float64(cfg.Screen.Height)),
		scene:   scene,
		log:     log,
	}, nil
}

// handleInput 返回 false 表示退出
func (a *terminalApp) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *terminalApp) run() error {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				a.log.Info("quit requested", zap.Int("frames", a.scene.FrameCount()))
				return nil
			}

		case <-ticker.C:
			if err := a.scene.Update(config.FixedTimestep); err != nil {
				return err
			}
			a.surface.DrawFrame(a.scene.Frame())
		}
	}
}

func main() {
	logPath := filepath.Join(os.TempDir(), "arcmaze-term.log")
	zlog, err := logger.NewFile(logPath, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zlog.Sync() }()

	app, err := newTerminalApp(zlog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	runErr := app.run()
	app.screen.Fini()

	if runErr != nil {
		zlog.Error("simulation aborted", zap.Error(runErr))
		fmt.Fprintf(os.Stderr, "Simulation aborted: %v\n", runErr)
		os.Exit(1)
	}
}

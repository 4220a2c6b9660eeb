// Package logger 构造全局使用的 zap 日志器
//
// 各系统通过 Named 派生子日志器，名称对应原先日志里的 [Tag] 前缀。
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 创建控制台日志器
//
// 参数:
//   - verbose: true 时输出 Debug 级别（每次圆弧生成/移除），否则只输出 Info 及以上
//
// 返回:
//   - *zap.Logger: 日志器
//   - error: 构建失败时返回错误
func New(verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	zapCfg.EncoderConfig.ConsoleSeparator = "  "
	zapCfg.DisableCaller = true
	zapCfg.DisableStacktrace = true
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// NewFile 创建写入文件的日志器
// 终端前端占用了屏幕，日志只能写到文件
func NewFile(path string, verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	zapCfg.DisableCaller = true
	zapCfg.DisableStacktrace = true
	zapCfg.OutputPaths = []string{path}
	zapCfg.ErrorOutputPaths = []string{path}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

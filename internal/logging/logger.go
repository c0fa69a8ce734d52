package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/essamatefelsherif/roadmap.sh.github-activity/internal/config"
)

// InitLogger 根据配置初始化 JSON 结构化日志。诊断输出默认走 stderr，
// stdout 留给渲染结果；--debug 时强制提升到 debug 级别。
func InitLogger(opts *config.Options) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("无法解析日志级别: %w", err)
	}
	if opts.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}

	output, outErr := buildOutput(opts)
	if outErr != nil {
		fmt.Fprintf(os.Stderr, "logger_fallback: %v\n", outErr)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	if outErr != nil {
		logger.WithFields(logrus.Fields{
			"action": "logger_fallback",
			"path":   opts.LogFilePath,
		}).Warn(outErr.Error())
	}

	return logger, nil
}

// buildOutput 根据配置创建日志输出 Writer；失败时降级到 stderr 并返回错误。
func buildOutput(opts *config.Options) (io.Writer, error) {
	if opts.LogFilePath == "" {
		return os.Stderr, nil
	}

	dir := filepath.Dir(opts.LogFilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.Stderr, fmt.Errorf("创建日志目录失败: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.LogFilePath,
		MaxSize:    opts.LogMaxSize,
		MaxBackups: opts.LogMaxBackups,
		Compress:   opts.LogCompress,
		LocalTime:  true,
	}
	return rotator, nil
}

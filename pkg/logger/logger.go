package logger

import (
	"fmt"

	"github.com/softcart/storefront_control/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type zapLogger struct {
	*zap.SugaredLogger
}

func New(cfg config.Logger) (Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level error: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)

	if len(cfg.Output) != 0 {
		zc.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zc.ErrorOutputPaths = cfg.ErrOutput
	}

	zl, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}

	return zapLogger{zl.Sugar()}, nil
}

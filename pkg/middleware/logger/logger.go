// Package logger wraps zap behind the small printf-style surface the rest
// of the module uses. Init wires file rotation and service metadata; before
// Init is called the package falls back to a plain console logger so
// library consumers and tests never have to bootstrap logging.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ServiceEnv struct {
	Platform string
	Service  string
	Env      string
}

type LogConfig struct {
	Path       string
	LogLevel   string
	ServiceEnv ServiceEnv
}

var sugar = newConsole()

func newConsole() *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.InfoLevel)
	return zap.New(core).Sugar()
}

// Init replaces the default console logger with a rotated file logger
// carrying the service metadata on every entry.
func Init(conf *LogConfig) {
	level := zapcore.InfoLevel
	if err := level.Set(conf.LogLevel); err != nil {
		level = zapcore.InfoLevel
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   conf.Path,
		MaxSize:    100, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	})

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encConf), writer, level)

	sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar().With(
		"platform", conf.ServiceEnv.Platform,
		"service", conf.ServiceEnv.Service,
		"env", conf.ServiceEnv.Env,
	)
}

// Close flushes buffered entries.
func Close() {
	_ = sugar.Sync()
}

func Debugf(_ context.Context, format string, args ...any) {
	sugar.Debugf(format, args...)
}

func Infof(_ context.Context, format string, args ...any) {
	sugar.Infof(format, args...)
}

func Warnf(_ context.Context, format string, args ...any) {
	sugar.Warnf(format, args...)
}

func Errorf(_ context.Context, format string, args ...any) {
	sugar.Errorf(format, args...)
}

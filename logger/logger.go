package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const TimeFormat = "2006-01-02 15:04:05.999"

var AtomicLevel = zap.NewAtomicLevel()

// L is the process wide logger. Its level follows SetLevel.
var L = MustNew()

func MustNew() *zap.Logger {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.Level = AtomicLevel
	_ = AtomicLevel.UnmarshalText([]byte(os.Getenv("LOG_LEVEL")))
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(TimeFormat)
	config.DisableStacktrace = true
	config.Sampling = nil
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// SetLevel changes the level of every logger derived from L at runtime.
func SetLevel(level string) {
	if level == "" {
		return
	}
	if err := AtomicLevel.UnmarshalText([]byte(level)); err != nil {
		L.Warn("invalid log level", zap.String("level", level), zap.Error(err))
		return
	}
	L.Info("logger level updated", zap.String("level", level))
}

func Sync() {
	_ = L.Sync()
}

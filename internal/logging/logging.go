package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the service logger. Entries go to stdout as JSON and, when
// filePath is set, also to a size-rotated file.
func New(level, filePath string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if filePath != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		lvl,
	)
	return zap.New(core, zap.AddCaller()).With(zap.String("service", "artisanconnect")), nil
}

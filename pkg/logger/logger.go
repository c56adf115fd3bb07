package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _ Logger = (*BaseLogger)(nil)

// BaseLogger 基于 zap 的 Logger 实现
type BaseLogger struct {
	sugar  *zap.SugaredLogger
	config *Config
	name   string
}

// New 创建 BaseLogger
func New(cfg *Config) (*BaseLogger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := parseLevel(cfg.Level)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	if cfg.Format == ConsoleFormat {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	writers := make([]zapcore.WriteSyncer, 0, 2)
	if cfg.EnableConsole {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}
	if cfg.EnableFile {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.OutputPath,
			MaxSize:    cfg.Rotation.MaxSize,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAge,
			Compress:   cfg.Rotation.Compress,
		}))
	}
	if len(writers) == 0 {
		return nil, fmt.Errorf("logger: no output configured")
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), level)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &BaseLogger{
		sugar:  zl.Sugar(),
		config: cfg,
	}, nil
}

func (l *BaseLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *BaseLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *BaseLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *BaseLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *BaseLogger) DebugContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, append(fieldsFromContext(ctx), keysAndValues...)...)
}

func (l *BaseLogger) InfoContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, append(fieldsFromContext(ctx), keysAndValues...)...)
}

func (l *BaseLogger) WarnContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, append(fieldsFromContext(ctx), keysAndValues...)...)
}

func (l *BaseLogger) ErrorContext(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(fieldsFromContext(ctx), keysAndValues...)...)
}

// Named 派生子 Logger，名称以 "." 级联
func (l *BaseLogger) Named(name string) Logger {
	child := *l
	if l.name != "" {
		child.name = l.name + "." + name
	} else {
		child.name = name
	}
	child.sugar = l.sugar.Named(name)
	return &child
}

// WithFields 派生附带固定字段的子 Logger
func (l *BaseLogger) WithFields(keysAndValues ...interface{}) Logger {
	child := *l
	child.sugar = l.sugar.With(keysAndValues...)
	return &child
}

func (l *BaseLogger) Sync() error {
	return l.sugar.Sync()
}

type contextFieldsKey struct{}

// WithContextFields 将日志字段挂到 context 上，Context 系列方法会自动带出
func WithContextFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	existing := fieldsFromContext(ctx)
	return context.WithValue(ctx, contextFieldsKey{}, append(existing, keysAndValues...))
}

func fieldsFromContext(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	if fields, ok := ctx.Value(contextFieldsKey{}).([]interface{}); ok {
		return fields
	}
	return nil
}

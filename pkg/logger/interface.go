package logger

import "context"

// Logger 日志接口
// 业务与其他 pkg 模块统一依赖此接口，避免直接耦合 zap
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})

	// Context 版本，便于透传请求上下文字段
	DebugContext(ctx context.Context, msg string, keysAndValues ...interface{})
	InfoContext(ctx context.Context, msg string, keysAndValues ...interface{})
	WarnContext(ctx context.Context, msg string, keysAndValues ...interface{})
	ErrorContext(ctx context.Context, msg string, keysAndValues ...interface{})

	// Named 派生带名称的子 Logger，名称以 "." 级联
	Named(name string) Logger
	// WithFields 派生附带固定字段的子 Logger
	WithFields(keysAndValues ...interface{}) Logger

	Sync() error
}

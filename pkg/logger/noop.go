package logger

import "context"

var _ Logger = (*NoopLogger)(nil)

// NoopLogger 空实现，测试或关闭日志时使用
type NoopLogger struct{}

// NewNoop 创建 NoopLogger
func NewNoop() *NoopLogger { return &NoopLogger{} }

func (*NoopLogger) Debug(string, ...interface{}) {}
func (*NoopLogger) Info(string, ...interface{})  {}
func (*NoopLogger) Warn(string, ...interface{})  {}
func (*NoopLogger) Error(string, ...interface{}) {}

func (*NoopLogger) DebugContext(context.Context, string, ...interface{}) {}
func (*NoopLogger) InfoContext(context.Context, string, ...interface{})  {}
func (*NoopLogger) WarnContext(context.Context, string, ...interface{})  {}
func (*NoopLogger) ErrorContext(context.Context, string, ...interface{}) {}

func (n *NoopLogger) Named(string) Logger              { return n }
func (n *NoopLogger) WithFields(...interface{}) Logger { return n }
func (*NoopLogger) Sync() error                        { return nil }

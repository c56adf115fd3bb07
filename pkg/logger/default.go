package logger

import "sync"

var (
	defaultLogger Logger
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// Default 返回进程级默认 Logger（首次调用时以默认配置初始化）
func Default() Logger {
	defaultOnce.Do(func() {
		l, err := New(DefaultConfig())
		if err != nil {
			defaultMu.Lock()
			defaultLogger = NewNoop()
			defaultMu.Unlock()
			return
		}
		defaultMu.Lock()
		defaultLogger = l
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault 替换进程级默认 Logger
func SetDefault(l Logger) {
	defaultOnce.Do(func() {})
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

package config

// Option 配置管理器选项
type Option func(*manager)

// WithConfigType 显式指定配置文件类型（yaml/json/toml），
// 用于文件扩展名与内容格式不一致的场景
func WithConfigType(t string) Option {
	return func(m *manager) {
		m.v.SetConfigType(t)
	}
}

// WithDefault 设置单个默认值
func WithDefault(key string, value any) Option {
	return func(m *manager) {
		m.v.SetDefault(key, value)
	}
}

// WithDefaults 批量设置默认值
func WithDefaults(defaults map[string]any) Option {
	return func(m *manager) {
		for k, v := range defaults {
			m.v.SetDefault(k, v)
		}
	}
}

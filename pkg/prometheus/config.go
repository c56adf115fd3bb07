package prometheus

// Config Prometheus 配置
type Config struct {
	// Namespace 指标命名空间（应用名称）
	Namespace string `mapstructure:"namespace"`

	// HTTPServer 指标暴露服务配置
	HTTPServer HTTPServerConfig `mapstructure:"http_server"`

	// EnableGoCollector 是否注册 Go 运行时采集器
	EnableGoCollector bool `mapstructure:"enable_go_collector"`
	// EnableProcessCollector 是否注册进程采集器
	EnableProcessCollector bool `mapstructure:"enable_process_collector"`
}

// HTTPServerConfig 指标暴露 HTTP 服务配置
type HTTPServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Namespace: "cardwish",
		HTTPServer: HTTPServerConfig{
			Enabled: true,
			Addr:    ":9090",
			Path:    "/metrics",
		},
		EnableGoCollector:      true,
		EnableProcessCollector: true,
	}
}

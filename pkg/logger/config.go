package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Format 日志输出格式
type Format string

const (
	JSONFormat    Format = "json"
	ConsoleFormat Format = "console"
)

// RotationConfig 日志轮转配置（lumberjack）
type RotationConfig struct {
	// MaxSize 单个文件最大体积（MB）
	MaxSize int `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	// MaxBackups 保留的旧文件个数
	MaxBackups int `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	// MaxAge 保留天数
	MaxAge int `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	// Compress 是否压缩旧文件
	Compress bool `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string `mapstructure:"level" json:"level" yaml:"level"`
	// Format 输出格式：json 或 console
	Format Format `mapstructure:"format" json:"format" yaml:"format"`
	// EnableConsole 是否输出到控制台
	EnableConsole bool `mapstructure:"enable_console" json:"enable_console" yaml:"enable_console"`
	// EnableFile 是否输出到文件
	EnableFile bool `mapstructure:"enable_file" json:"enable_file" yaml:"enable_file"`
	// OutputPath 文件输出路径（EnableFile 时生效）
	OutputPath string `mapstructure:"output_path" json:"output_path" yaml:"output_path"`
	// Rotation 轮转配置
	Rotation RotationConfig `mapstructure:"rotation" json:"rotation" yaml:"rotation"`
}

// DefaultConfig 默认配置：info 级别 JSON 输出到控制台
func DefaultConfig() *Config {
	return &Config{
		Level:         "info",
		Format:        JSONFormat,
		EnableConsole: true,
		EnableFile:    false,
		Rotation: RotationConfig{
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	switch c.Format {
	case JSONFormat, ConsoleFormat, "":
	default:
		return fmt.Errorf("logger: unknown format %q", c.Format)
	}
	if c.EnableFile && c.OutputPath == "" {
		return fmt.Errorf("logger: output_path is required when enable_file is true")
	}
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logger: unknown level %q", level)
	}
}

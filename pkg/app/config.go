package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lk2023060901/cardwish/pkg/config"
	"github.com/spf13/pflag"
)

// envPrefix 环境变量前缀，如 CARDWISH_LOG_LEVEL -> log.level
const envPrefix = "CARDWISH"

var configPath string

// GetExecDir 返回可执行文件所在目录
func GetExecDir() (string, error) {
	exec, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exec), nil
}

// LoadConfig 统一的配置加载入口
// 优先级：命令行显式参数 > 环境变量 > 配置文件 > 默认值
func LoadConfig(target any, opts ...config.Option) error {
	execDir, err := GetExecDir()
	if err != nil {
		return fmt.Errorf("failed to get executable directory: %w", err)
	}
	defaultConfig := filepath.Join(execDir, "config.yaml")

	if pflag.Lookup("config") == nil {
		pflag.StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}

	// Flag 显式指定 > CARDWISH_CONFIG > 默认路径
	finalConfigPath := configPath
	if !pflag.CommandLine.Changed("config") {
		if envConfig := os.Getenv(envPrefix + "_CONFIG"); envConfig != "" {
			finalConfigPath = envConfig
		}
	}

	mgr := config.NewManager(opts...)
	mgr.BindEnv(envPrefix)

	if _, err := os.Stat(finalConfigPath); err == nil {
		if err := mgr.LoadFile(finalConfigPath); err != nil {
			return err
		}
	} else if pflag.CommandLine.Changed("config") {
		// 显式指定的配置文件不存在视为错误，默认路径缺失则仅靠环境变量与默认值
		return fmt.Errorf("config file not found: %s", finalConfigPath)
	}

	if err := mgr.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
	"randproxy/internal/shared/types"
)

const (
	EnvUpdateInterval = "RANDPROXY_UPDATE_INTERVAL"
	EnvAnonymity      = "RANDPROXY_ANONYMITY"
	EnvLogLevel       = "RANDPROXY_LOG_LEVEL"
)

// LoadIni 加载 randproxy.ini 行为配置文件，然后应用环境变量覆盖与默认值。
// 文件不存在时不视为错误，直接使用默认配置。
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.LoadSources(ini.LoadOptions{Loose: true}, fileName)
	if err != nil {
		return fmt.Errorf("failed to load ini file %s: %w", fileName, err)
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return fmt.Errorf("failed to map ini file %s: %w", fileName, err)
	}

	overrideFromEnv(cfg)
	cfg.ApplyDefaults()
	return nil
}

// LoadDotEnv 读取可选的 .env 文件到进程环境变量中。已存在的变量不会被覆盖。
func LoadDotEnv(fileNames ...string) error {
	if len(fileNames) == 0 {
		fileNames = []string{".env"}
	}
	var existing []string
	for _, name := range fileNames {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func overrideFromEnv(cfg *types.Config) {
	overrideFromEnvInt(&cfg.ProxyPoolConf.UpdateInterval, EnvUpdateInterval)
	overrideFromEnvList(&cfg.ProxyPoolConf.Anonymity, EnvAnonymity)
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogConf.Level = v
	}
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}

func overrideFromEnvList(target *[]string, envName string) {
	envValue := os.Getenv(envName)
	if envValue == "" {
		return
	}
	var values []string
	for _, v := range strings.Split(envValue, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) > 0 {
		*target = values
	}
}

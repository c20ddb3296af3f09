package config

import (
	"os"
	"path/filepath"
	"testing"

	"randproxy/internal/shared/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadIni(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "randproxy.ini", `[log]
level = debug

[proxypool]
update_interval = 30
anonymity = elite, anonymous
endpoint = http://127.0.0.1:9/api
request_timeout = 5
`)

	cfg := new(types.Config)
	if err := LoadIni(cfg, path); err != nil {
		t.Fatalf("LoadIni failed: %v", err)
	}

	if cfg.LogConf.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogConf.Level)
	}
	if cfg.ProxyPoolConf.UpdateInterval != 30 {
		t.Errorf("update_interval = %d, want 30", cfg.ProxyPoolConf.UpdateInterval)
	}
	if got := cfg.ProxyPoolConf.Anonymity; len(got) != 2 || got[0] != "elite" || got[1] != "anonymous" {
		t.Errorf("anonymity = %v", got)
	}
	if cfg.ProxyPoolConf.Endpoint != "http://127.0.0.1:9/api" {
		t.Errorf("endpoint = %q", cfg.ProxyPoolConf.Endpoint)
	}
	if cfg.ProxyPoolConf.UserAgent != types.DefaultUserAgent {
		t.Errorf("user_agent = %q, want default", cfg.ProxyPoolConf.UserAgent)
	}
	if cfg.ProxyPoolConf.RequestTimeout != 5 {
		t.Errorf("request_timeout = %d, want 5", cfg.ProxyPoolConf.RequestTimeout)
	}
}

func TestLoadIniMissingFileUsesDefaults(t *testing.T) {
	cfg := new(types.Config)
	if err := LoadIni(cfg, filepath.Join(t.TempDir(), "missing.ini")); err != nil {
		t.Fatalf("LoadIni failed: %v", err)
	}
	if cfg.ProxyPoolConf.UpdateInterval != types.DefaultUpdateInterval {
		t.Errorf("update_interval = %d", cfg.ProxyPoolConf.UpdateInterval)
	}
	if got := cfg.ProxyPoolConf.Anonymity; len(got) != 1 || got[0] != "elite" {
		t.Errorf("anonymity = %v, want [elite]", got)
	}
	if cfg.ProxyPoolConf.Endpoint != types.DefaultEndpoint {
		t.Errorf("endpoint = %q", cfg.ProxyPoolConf.Endpoint)
	}
	if cfg.LogConf.Level != types.DefaultLogLevel {
		t.Errorf("log level = %q", cfg.LogConf.Level)
	}
}

func TestLoadIniEnvOverride(t *testing.T) {
	t.Setenv(EnvUpdateInterval, "45")
	t.Setenv(EnvAnonymity, "anonymous,transparent")
	t.Setenv(EnvLogLevel, "warn")

	dir := t.TempDir()
	path := writeFile(t, dir, "randproxy.ini", "[proxypool]\nupdate_interval = 30\n")

	cfg := new(types.Config)
	if err := LoadIni(cfg, path); err != nil {
		t.Fatalf("LoadIni failed: %v", err)
	}
	if cfg.ProxyPoolConf.UpdateInterval != 45 {
		t.Errorf("update_interval = %d, want 45", cfg.ProxyPoolConf.UpdateInterval)
	}
	if got := cfg.ProxyPoolConf.Anonymity; len(got) != 2 || got[1] != "transparent" {
		t.Errorf("anonymity = %v", got)
	}
	if cfg.LogConf.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.LogConf.Level)
	}
}

func TestLoadIniKeepsSmallInterval(t *testing.T) {
	// 间隔的合法性由代理池校验，这里只负责原样读取。
	dir := t.TempDir()
	path := writeFile(t, dir, "randproxy.ini", "[proxypool]\nupdate_interval = 5\n")

	cfg := new(types.Config)
	if err := LoadIni(cfg, path); err != nil {
		t.Fatalf("LoadIni failed: %v", err)
	}
	if cfg.ProxyPoolConf.UpdateInterval != 5 {
		t.Errorf("update_interval = %d, want 5", cfg.ProxyPoolConf.UpdateInterval)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", EnvAnonymity+"=anonymous\n")

	t.Setenv(EnvAnonymity, "")
	os.Unsetenv(EnvAnonymity)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv(EnvAnonymity); got != "anonymous" {
		t.Errorf("%s = %q, want anonymous", EnvAnonymity, got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

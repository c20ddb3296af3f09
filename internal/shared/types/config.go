package types

import "time"

const (
	DefaultUpdateInterval = 600 // 秒
	MinUpdateInterval     = 10  // 秒
	DefaultEndpoint       = "https://proxylist.geonode.com/api/proxy-list"
	DefaultUserAgent      = "Proxy-list-getter"
	DefaultRequestTimeout = 20 // 秒
	DefaultLogLevel       = "info"
)

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// ProxyPoolConf 包含代理池的行为配置
type ProxyPoolConf struct {
	UpdateInterval int      `ini:"update_interval"`     // 缓存刷新间隔 (秒), 不得小于 MinUpdateInterval
	Anonymity      []string `ini:"anonymity" delim:","` // 接受的匿名级别
	Endpoint       string   `ini:"endpoint"`            // 上游代理列表 API
	UserAgent      string   `ini:"user_agent"`          // 请求上游时使用的 User-Agent
	RequestTimeout int      `ini:"request_timeout"`     // 上游请求超时 (秒)
}

// Interval returns UpdateInterval as a duration.
func (c ProxyPoolConf) Interval() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

// Timeout returns RequestTimeout as a duration.
func (c ProxyPoolConf) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Config 是 randproxy 的统一配置结构体
type Config struct {
	LogConf       `ini:"log"`
	ProxyPoolConf `ini:"proxypool"`
}

// DefaultConfig 返回一份所有字段均为默认值的配置。
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 为零值字段填充默认值。UpdateInterval 的合法性由代理池自行校验。
func (c *Config) ApplyDefaults() {
	if c.LogConf.Level == "" {
		c.LogConf.Level = DefaultLogLevel
	}
	c.ProxyPoolConf.ApplyDefaults()
}

// ApplyDefaults fills zero fields of the pool configuration.
func (c *ProxyPoolConf) ApplyDefaults() {
	if c.UpdateInterval == 0 {
		c.UpdateInterval = DefaultUpdateInterval
	}
	if len(c.Anonymity) == 0 {
		c.Anonymity = []string{"elite"}
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

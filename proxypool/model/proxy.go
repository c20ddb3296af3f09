package model

import (
	"net"
	"net/url"
	"strings"
)

// Proxy 是代理池对外提供的核心数据结构，只包含连接所需的主机与端口。
// 端口保留为文本形式，不对上游格式做额外假设。
type Proxy struct {
	Host string `json:"host"`
	Port string `json:"port"`
}

// Addr 返回 "host:port" 形式的地址，IPv6 主机会自动加上方括号。
func (p Proxy) Addr() string {
	return net.JoinHostPort(p.Host, p.Port)
}

// URL 以指定协议构造代理 URL, e.g. "http://1.1.1.1:8080"。
func (p Proxy) URL(scheme string) *url.URL {
	return &url.URL{Scheme: scheme, Host: p.Addr()}
}

func (p Proxy) String() string {
	return p.Addr()
}

// IsZero reports whether p carries no address.
func (p Proxy) IsZero() bool {
	return p.Host == "" && p.Port == ""
}

// Listing 是上游代理列表中的一行原始数据，过滤之前使用。
type Listing struct {
	IP             string
	Port           string
	AnonymityLevel string
}

// Proxy converts the listing into the record handed out by the pool.
func (l Listing) Proxy() Proxy {
	return Proxy{Host: l.IP, Port: l.Port}
}

// AnonymitySet 是可接受的匿名级别集合 ("elite", "anonymous", "transparent" 等)。
type AnonymitySet map[string]struct{}

// DefaultAnonymity 返回默认的过滤集合 {"elite"}。
func DefaultAnonymity() AnonymitySet {
	return NewAnonymitySet("elite")
}

// NewAnonymitySet 由级别列表构造集合，空字符串会被忽略。
func NewAnonymitySet(levels ...string) AnonymitySet {
	s := make(AnonymitySet, len(levels))
	for _, lvl := range levels {
		lvl = strings.TrimSpace(lvl)
		if lvl == "" {
			continue
		}
		s[lvl] = struct{}{}
	}
	return s
}

// Contains 判断 level 是否在集合中，比较区分大小写。
func (s AnonymitySet) Contains(level string) bool {
	_, ok := s[level]
	return ok
}

// Levels returns the members in no particular order.
func (s AnonymitySet) Levels() []string {
	out := make([]string, 0, len(s))
	for lvl := range s {
		out = append(out, lvl)
	}
	return out
}

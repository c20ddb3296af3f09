// Package dialer 根据代理池分配的代理构造 HTTP 客户端。
package dialer

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"randproxy/proxypool/model"
)

// NewHTTPClient 创建一个经由 p 转发请求的 HTTP 客户端。
// scheme 支持 "http"、"https" 和 "socks5"（"socks5h" 视同 "socks5"）。
func NewHTTPClient(p model.Proxy, scheme string, timeout time.Duration) (*http.Client, error) {
	if p.IsZero() {
		return nil, fmt.Errorf("empty proxy address")
	}

	netDialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	switch strings.ToLower(scheme) {
	case "http", "https", "":
		if scheme == "" {
			scheme = "http"
		}
		transport.Proxy = http.ProxyURL(p.URL(strings.ToLower(scheme)))
		transport.DialContext = netDialer.DialContext
	case "socks5", "socks5h":
		socks, err := proxy.SOCKS5("tcp", p.Addr(), nil, netDialer)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		contextDialer, ok := socks.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer does not support contexts")
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return contextDialer.DialContext(ctx, network, addr)
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", scheme)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
